// Copyright (c) 2025 Berik Ashimov

// Package planio reads VLSM requirement lists and writes allocation tables
// and practice worksheets as CSV, JSON, YAML or XLSX.
package planio

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
	XLSX Format = "xlsx"
)

// ParseFormat accepts a format name or a file extension, e.g. "yml" or
// ".xlsx". Empty input means CSV.
func ParseFormat(raw string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".") {
	case "", "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "xlsx":
		return XLSX, nil
	default:
		return "", errors.Errorf("unsupported format %q", raw)
	}
}

func (f Format) ContentType() string {
	switch f {
	case JSON:
		return "application/json"
	case YAML:
		return "application/x-yaml"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// RowError points at the offending line of an imported file, counting from
// 1 and including any header.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ": " + e.Reason
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write %s row %d", sheet, i+1)
		}
	}
	return nil
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

// Copyright (c) 2025 Berik Ashimov

package planio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"subnetlab/internal/vlsm"
)

// RequirementList is the document form of a requirement import. A bare list
// of requirements is accepted too.
type RequirementList struct {
	Base         string             `json:"base,omitempty" yaml:"base,omitempty"`
	Requirements []vlsm.Requirement `json:"requirements" yaml:"requirements"`
}

// ReadRequirements decodes a requirement list. Rows are validated for a
// name and a positive host count; allocation itself is left to the caller.
func ReadRequirements(format Format, r io.Reader) (RequirementList, error) {
	var out RequirementList
	var err error
	switch format {
	case CSV:
		out.Requirements, err = readCSVRequirements(r)
	case XLSX:
		out.Requirements, err = readXLSXRequirements(r)
	case JSON:
		out, err = readDocument(r, json.Unmarshal)
	case YAML:
		out, err = readDocument(r, yaml.Unmarshal)
	default:
		return out, errors.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return RequirementList{}, err
	}
	if len(out.Requirements) == 0 {
		return RequirementList{}, errors.New("no requirements found")
	}
	for i, req := range out.Requirements {
		if strings.TrimSpace(req.Name) == "" {
			return RequirementList{}, &RowError{Row: i + 1, Reason: "name is empty"}
		}
		if req.Hosts < 1 {
			return RequirementList{}, &RowError{Row: i + 1, Reason: "hosts must be at least 1"}
		}
	}
	return out, nil
}

func readDocument(r io.Reader, unmarshal func([]byte, any) error) (RequirementList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RequirementList{}, errors.Wrap(err, "read requirements")
	}
	trimmed := bytes.TrimSpace(data)
	var list []vlsm.Requirement
	if err := unmarshal(trimmed, &list); err == nil {
		return RequirementList{Requirements: list}, nil
	}
	var doc RequirementList
	if err := unmarshal(trimmed, &doc); err != nil {
		return RequirementList{}, errors.Wrap(err, "decode requirements")
	}
	return doc, nil
}

type requirementColumns struct {
	Name  int
	Hosts int
}

func mapRequirementColumns(header []string) requirementColumns {
	cols := requirementColumns{Name: -1, Hosts: -1}
	for i, raw := range header {
		switch normalizeHeader(raw) {
		case "name", "segment", "segmentname", "department", "network":
			cols.Name = i
		case "hosts", "hostcount", "size", "hostsneeded":
			cols.Hosts = i
		}
	}
	return cols
}

// looksLikeHeader reports whether no cell of row is a number: data rows
// always carry a host count.
func looksLikeHeader(row []string) bool {
	for _, cell := range row {
		if _, err := strconv.Atoi(strings.TrimSpace(cell)); err == nil {
			return false
		}
	}
	return true
}

func readCSVRequirements(r io.Reader) ([]vlsm.Requirement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return requirementsFromRows(rows)
}

func readXLSXRequirements(r io.Reader) ([]vlsm.Requirement, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheets[0])
	}
	return requirementsFromRows(rows)
}

func requirementsFromRows(rows [][]string) ([]vlsm.Requirement, error) {
	cols := requirementColumns{Name: 0, Hosts: 1}
	start := 0
	if len(rows) > 0 && looksLikeHeader(rows[0]) {
		cols = mapRequirementColumns(rows[0])
		if cols.Name < 0 || cols.Hosts < 0 {
			return nil, &RowError{Row: 1, Reason: "header needs a name and a hosts column"}
		}
		start = 1
	}
	var out []vlsm.Requirement
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		if cols.Name >= len(row) || cols.Hosts >= len(row) {
			return nil, &RowError{Row: i + 1, Reason: "missing columns"}
		}
		hosts, err := strconv.Atoi(strings.TrimSpace(row[cols.Hosts]))
		if err != nil {
			return nil, &RowError{Row: i + 1, Reason: "hosts is not a number: " + strconv.Quote(row[cols.Hosts])}
		}
		out = append(out, vlsm.Requirement{Name: strings.TrimSpace(row[cols.Name]), Hosts: hosts})
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

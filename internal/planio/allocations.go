// Copyright (c) 2025 Berik Ashimov

package planio

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"subnetlab/internal/vlsm"
)

// AllocationRow is one line of an exported allocation table.
type AllocationRow struct {
	Name        string `json:"name" yaml:"name"`
	Hosts       int    `json:"hosts" yaml:"hosts"`
	Network     string `json:"network" yaml:"network"`
	Prefix      string `json:"prefix" yaml:"prefix"`
	Mask        string `json:"mask" yaml:"mask"`
	FirstUsable string `json:"first_usable" yaml:"first_usable"`
	LastUsable  string `json:"last_usable" yaml:"last_usable"`
	Broadcast   string `json:"broadcast" yaml:"broadcast"`
	Usable      uint64 `json:"usable" yaml:"usable"`
	Utilization int    `json:"utilization" yaml:"utilization"`
}

func AllocationRows(allocs []vlsm.Allocation) []AllocationRow {
	rows := make([]AllocationRow, 0, len(allocs))
	for _, a := range allocs {
		hr := a.Subnet.HostRange()
		row := AllocationRow{
			Name:        a.Name,
			Hosts:       a.Hosts,
			Network:     a.Subnet.Network.String(),
			Prefix:      a.CIDR(),
			Mask:        a.Subnet.Mask().String(),
			Broadcast:   a.Subnet.Broadcast().String(),
			Usable:      hr.Usable,
			Utilization: a.Utilization(),
		}
		if hr.OK {
			row.FirstUsable = hr.First.String()
			row.LastUsable = hr.Last.String()
		}
		rows = append(rows, row)
	}
	return rows
}

var allocationHeader = []string{"name", "hosts", "network", "prefix", "mask", "first_usable", "last_usable", "broadcast", "usable", "utilization"}

func (r AllocationRow) cells() []string {
	return []string{
		r.Name, strconv.Itoa(r.Hosts), r.Network, r.Prefix, r.Mask,
		r.FirstUsable, r.LastUsable, r.Broadcast,
		strconv.FormatUint(r.Usable, 10), strconv.Itoa(r.Utilization),
	}
}

// WriteAllocations renders an allocation table in format.
func WriteAllocations(format Format, w io.Writer, allocs []vlsm.Allocation) error {
	rows := AllocationRows(allocs)
	switch format {
	case CSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(allocationHeader); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write(r.cells()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case YAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case XLSX:
		f := excelize.NewFile()
		defer f.Close()
		const sheet = "Allocations"
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
		if err := writeSheetRows(f, sheet, allocationSheet(rows)); err != nil {
			return err
		}
		_, err := f.WriteTo(w)
		return errors.Wrap(err, "write xlsx")
	default:
		return errors.Errorf("unsupported format %q", format)
	}
}

func allocationSheet(rows []AllocationRow) [][]interface{} {
	out := [][]interface{}{toRow(allocationHeader)}
	for _, r := range rows {
		out = append(out, []interface{}{r.Name, r.Hosts, r.Network, r.Prefix, r.Mask, r.FirstUsable, r.LastUsable, r.Broadcast, r.Usable, r.Utilization})
	}
	return out
}

func toRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

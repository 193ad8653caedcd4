// Copyright (c) 2025 Berik Ashimov

package vlsm

import (
	"strings"

	"subnetlab/internal/ipmath"
)

// Entry is one submitted row: the network typed for a requirement and its
// prefix, with or without the leading slash.
type Entry struct {
	Network string `json:"network" yaml:"network"`
	Prefix  string `json:"prefix" yaml:"prefix"`
}

type RowResult struct {
	Name     string
	Expected string
	Got      string
	Correct  bool
}

// Grade checks every expected allocation against the submission keyed by
// requirement name. Networks must match as typed, prefixes by value. There
// is no partial credit: ok is true only when every row matches.
func Grade(expected []Allocation, submitted map[string]Entry) ([]RowResult, bool) {
	rows := make([]RowResult, 0, len(expected))
	ok := true
	for _, a := range expected {
		e, found := submitted[a.Name]
		row := RowResult{Name: a.Name, Expected: a.Subnet.String()}
		if found {
			row.Got = strings.TrimSpace(e.Network) + "/" + strings.TrimPrefix(strings.TrimSpace(e.Prefix), "/")
			row.Correct = entryMatches(a, e)
		}
		if !row.Correct {
			ok = false
		}
		rows = append(rows, row)
	}
	return rows, ok
}

func entryMatches(a Allocation, e Entry) bool {
	if strings.TrimSpace(e.Network) != a.Subnet.Network.String() {
		return false
	}
	p, err := ipmath.ParsePrefix(e.Prefix)
	if err != nil {
		return false
	}
	return p == a.Subnet.Prefix
}

// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"errors"
	"strconv"
)

// ErrNoScenarios is returned when a troubleshooting problem is requested
// but the catalog is empty.
var ErrNoScenarios = errors.New("problem: no troubleshooting scenarios loaded")

// Device is one row of a troubleshooting table. Issue is authored text; an
// empty Issue marks a valid configuration.
type Device struct {
	Name  string `json:"name" yaml:"name"`
	IP    string `json:"ip" yaml:"ip"`
	Mask  string `json:"mask" yaml:"mask"`
	Issue string `json:"issue,omitempty" yaml:"issue,omitempty"`
}

// TroubleshootingScenario asks the learner to click the misconfigured rows.
// Grading is per row and reads the authored issue, not live arithmetic.
type TroubleshootingScenario struct {
	Title   string   `json:"title" yaml:"title"`
	Network string   `json:"network" yaml:"network"`
	Devices []Device `json:"devices" yaml:"devices"`
}

func (s TroubleshootingScenario) Kind() Kind { return KindTroubleshoot }

func (s TroubleshootingScenario) Prompt() string {
	return "Find the misconfigured devices on the " + s.Network + " network."
}

func (s TroubleshootingScenario) Card() Card {
	rows := make([][]string, 0, len(s.Devices))
	for _, d := range s.Devices {
		rows = append(rows, []string{d.Name, d.IP, d.Mask})
	}
	return Card{Kind: KindTroubleshoot, Prompt: s.Prompt(), Fields: []string{FieldRow}, Table: rows}
}

// Faulty lists the row indexes that carry an issue.
func (s TroubleshootingScenario) Faulty() []int {
	var rows []int
	for i, d := range s.Devices {
		if d.Issue != "" {
			rows = append(rows, i)
		}
	}
	return rows
}

// Check grades one clicked row, given by its zero-based index.
func (s TroubleshootingScenario) Check(sub Submission) Result {
	raw := sub.get(FieldRow)
	row, err := strconv.Atoi(raw)
	if err != nil || row < 0 || row >= len(s.Devices) {
		return Result{Feedback: "Pick a row between 0 and " + strconv.Itoa(len(s.Devices)-1) + "."}
	}
	d := s.Devices[row]
	if d.Issue != "" {
		return Result{
			Correct:  true,
			Expected: map[string]string{FieldRow: raw},
			Feedback: "Correct! You found an error. Analysis: " + d.Issue,
		}
	}
	return Result{Feedback: "This configuration appears to be valid for the " + s.Network + " network. Try again."}
}

// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"strconv"
	"strings"

	"subnetlab/internal/ipmath"
	"subnetlab/internal/vlsm"
)

// CampusBase and CampusRequirements are the stock VLSM exercise.
var (
	CampusBase         = ipmath.Address{10, 10, 0, 0}
	CampusRequirements = []vlsm.Requirement{
		{Name: "HQ", Hosts: 500},
		{Name: "Sales", Hosts: 200},
		{Name: "Marketing", Hosts: 100},
		{Name: "WAN Link A", Hosts: 2},
		{Name: "WAN Link B", Hosts: 2},
	}
)

// NetworkField and PrefixField are the submission keys of one VLSM row.
func NetworkField(name string) string { return name + "." + FieldNetwork }
func PrefixField(name string) string  { return name + "." + FieldPrefix }

// VLSMProblem lists requirements in the order given and expects the
// largest-first allocation from Base.
type VLSMProblem struct {
	Base         ipmath.Address     `json:"base"`
	Requirements []vlsm.Requirement `json:"requirements"`
	Allocations  []vlsm.Allocation  `json:"allocations"`
}

func NewVLSM(reqs []vlsm.Requirement, base ipmath.Address) (VLSMProblem, error) {
	allocs, err := vlsm.Allocate(reqs, base)
	if err != nil {
		return VLSMProblem{}, err
	}
	return VLSMProblem{
		Base:         base,
		Requirements: append([]vlsm.Requirement(nil), reqs...),
		Allocations:  allocs,
	}, nil
}

// GenerateVLSM returns the campus exercise. The requirements are fixed, so
// src is unused.
func GenerateVLSM(Source) VLSMProblem {
	p, _ := NewVLSM(CampusRequirements, CampusBase)
	return p
}

func (p VLSMProblem) Kind() Kind { return KindVLSM }

func (p VLSMProblem) Prompt() string {
	parts := make([]string, 0, len(p.Requirements))
	for _, r := range p.Requirements {
		parts = append(parts, r.Name+": "+strconv.Itoa(r.Hosts)+" hosts")
	}
	return "Allocate from " + p.Base.String() + ". " + strings.Join(parts, "; ")
}

func (p VLSMProblem) Card() Card {
	rows := make([][]string, 0, len(p.Requirements))
	fields := make([]string, 0, 2*len(p.Requirements))
	for _, r := range p.Requirements {
		rows = append(rows, []string{r.Name, strconv.Itoa(r.Hosts)})
		fields = append(fields, NetworkField(r.Name), PrefixField(r.Name))
	}
	return Card{
		Kind:   KindVLSM,
		Prompt: "Allocate subnets from " + p.Base.String() + " for each requirement.",
		Fields: fields,
		Table:  rows,
	}
}

func (p VLSMProblem) Check(sub Submission) Result {
	entries := make(map[string]vlsm.Entry, len(p.Allocations))
	expected := make(map[string]string, 2*len(p.Allocations))
	for _, a := range p.Allocations {
		entries[a.Name] = vlsm.Entry{
			Network: sub.get(NetworkField(a.Name)),
			Prefix:  sub.get(PrefixField(a.Name)),
		}
		expected[NetworkField(a.Name)] = a.Subnet.Network.String()
		expected[PrefixField(a.Name)] = a.CIDR()
	}
	_, ok := vlsm.Grade(p.Allocations, entries)
	res := Result{Correct: ok, Expected: expected}
	if ok {
		res.Feedback = "Correct! Your VLSM allocation is perfectly efficient."
		return res
	}
	lines := make([]string, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		lines = append(lines, a.Name+": "+a.Subnet.String())
	}
	res.Feedback = "Your allocation is not correct or efficient. Remember to start with the largest block first. The correct solution is: " +
		strings.Join(lines, ", ") + "."
	return res
}

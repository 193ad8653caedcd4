// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"strconv"
	"strings"

	"subnetlab/internal/ipmath"
	"subnetlab/internal/summarize"
)

// SummaryGroups is how many aligned groups of four /24 networks fit under
// 192.168.0.0/16 in the generator's range.
const SummaryGroups = 60

// SummaryProblem lists sibling networks and asks for the route that
// summarizes them.
type SummaryProblem struct {
	Networks []ipmath.Subnet `json:"networks"`
	Summary  ipmath.Subnet   `json:"summary"`
}

// NewSummary computes the exact summary of networks. Inputs whose supernet
// would cover extra space are rejected with *summarize.CoverageError.
func NewSummary(networks []ipmath.Subnet) (SummaryProblem, error) {
	s, err := summarize.SummarizeExact(networks)
	if err != nil {
		return SummaryProblem{}, err
	}
	return SummaryProblem{Networks: append([]ipmath.Subnet(nil), networks...), Summary: s}, nil
}

// GenerateSummary picks four consecutive /24s starting at 192.168.4k.0.
func GenerateSummary(src Source) SummaryProblem {
	start := 4 * src.IntRange(0, SummaryGroups-1)
	nets := make([]ipmath.Subnet, 0, 4)
	for i := 0; i < 4; i++ {
		nets = append(nets, ipmath.Subnet{Network: ipmath.Address{192, 168, byte(start + i), 0}, Prefix: 24})
	}
	p, _ := NewSummary(nets)
	return p
}

func (p SummaryProblem) Kind() Kind { return KindSummary }

func (p SummaryProblem) Prompt() string {
	parts := make([]string, 0, len(p.Networks))
	for _, n := range p.Networks {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ", ")
}

func (p SummaryProblem) Card() Card {
	rows := make([][]string, 0, len(p.Networks))
	for _, n := range p.Networks {
		rows = append(rows, []string{n.String()})
	}
	return Card{
		Kind:   KindSummary,
		Prompt: "Find the single summary route for these networks.",
		Fields: []string{FieldAddress, FieldPrefix},
		Table:  rows,
	}
}

func (p SummaryProblem) Check(sub Submission) Result {
	want := "/" + strconv.Itoa(p.Summary.Prefix)
	res := Result{
		Correct:  sub.get(FieldAddress) == p.Summary.Network.String() && matchPrefix(sub.get(FieldPrefix), p.Summary.Prefix),
		Expected: map[string]string{FieldAddress: p.Summary.Network.String(), FieldPrefix: want},
	}
	if res.Correct {
		res.Feedback = "Correct! The summary " + p.Summary.String() + " covers all listed networks."
		return res
	}
	res.Feedback = "The correct summary route is " + p.Summary.String() + "."
	return res
}

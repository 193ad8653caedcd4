// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"strconv"

	"subnetlab/internal/ipmath"
)

// Exercise ranges. These are fixed so the variety of problems matches the
// course material.
const (
	BoundaryMinPrefix = 25
	BoundaryMaxPrefix = 28
	DrillMinPrefix    = 22
	DrillMaxPrefix    = 29
)

// BoundaryProblem asks for the network ID and broadcast address of a host.
// Drills use the same shape over a wider prefix range and explain the steps
// when the answer is wrong.
type BoundaryProblem struct {
	Variant   Kind   `json:"variant"`
	Address   string `json:"address"`
	Prefix    int    `json:"prefix"`
	Network   string `json:"network"`
	Broadcast string `json:"broadcast"`
}

func NewBoundary(variant Kind, a ipmath.Address, prefix int) (BoundaryProblem, error) {
	s, err := ipmath.NewSubnet(a, prefix)
	if err != nil {
		return BoundaryProblem{}, err
	}
	return BoundaryProblem{
		Variant:   variant,
		Address:   a.String(),
		Prefix:    prefix,
		Network:   s.Network.String(),
		Broadcast: s.Broadcast().String(),
	}, nil
}

// GenerateBoundary draws a host in 192.168.1.0/24 with a /25 to /28 mask.
func GenerateBoundary(src Source) BoundaryProblem {
	prefix := src.IntRange(BoundaryMinPrefix, BoundaryMaxPrefix)
	a := ipmath.Address{192, 168, 1, byte(src.IntRange(1, 254))}
	p, _ := NewBoundary(KindBoundary, a, prefix)
	return p
}

// GenerateDrill draws a host in 172.16.0.0/16 with a /22 to /29 mask.
func GenerateDrill(src Source) BoundaryProblem {
	prefix := src.IntRange(DrillMinPrefix, DrillMaxPrefix)
	a := ipmath.Address{172, 16, byte(src.IntRange(0, 255)), byte(src.IntRange(1, 254))}
	p, _ := NewBoundary(KindDrill, a, prefix)
	return p
}

func (p BoundaryProblem) Kind() Kind { return p.Variant }

func (p BoundaryProblem) Prompt() string {
	return p.Address + " /" + strconv.Itoa(p.Prefix)
}

func (p BoundaryProblem) Card() Card {
	return Card{
		Kind:   p.Variant,
		Prompt: "Find the network ID and broadcast address for " + p.Prompt() + ".",
		Fields: []string{FieldNetwork, FieldBroadcast},
	}
}

func (p BoundaryProblem) Check(sub Submission) Result {
	res := Result{
		Correct:  sub.get(FieldNetwork) == p.Network && sub.get(FieldBroadcast) == p.Broadcast,
		Expected: map[string]string{FieldNetwork: p.Network, FieldBroadcast: p.Broadcast},
	}
	if res.Correct {
		res.Feedback = "Correct! New problem coming up."
		return res
	}
	res.Feedback = "For " + p.Prompt() + " the network ID is " + p.Network + " and the broadcast address is " + p.Broadcast + "."
	if p.Variant == KindDrill {
		res.Feedback += " " + p.steps()
	}
	return res
}

func (p BoundaryProblem) steps() string {
	idx := ipmath.InterestingOctetIndex(p.Prefix)
	maskOctet := ipmath.MaskForPrefix(p.Prefix)[idx]
	magic := 256 - int(maskOctet)
	a, _ := ipmath.ParseAddress(p.Address)
	return "Step 1: the magic number for /" + strconv.Itoa(p.Prefix) + " is " + strconv.Itoa(magic) +
		" (the mask octet is " + strconv.Itoa(int(maskOctet)) + "). " +
		"Step 2: the network ID is the block start; for octet " + strconv.Itoa(int(a[idx])) +
		" the block is " + p.Network + ". " +
		"Step 3: the broadcast address is the last address in that block, " + p.Broadcast + "."
}

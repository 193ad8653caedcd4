// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"strconv"
	"strings"

	"subnetlab/internal/ipmath"
)

const (
	CalculatorMinPrefix = 8
	CalculatorMaxPrefix = 30
)

// Calculation is the magic-number walkthrough for one address and prefix.
type Calculation struct {
	Address          string   `json:"address"`
	Prefix           int      `json:"prefix"`
	InterestingOctet int      `json:"interesting_octet"`
	MaskOctet        int      `json:"mask_octet"`
	MagicNumber      int      `json:"magic_number"`
	BlockStart       int      `json:"block_start"`
	Steps            []string `json:"steps"`
	Network          string   `json:"network"`
	Broadcast        string   `json:"broadcast"`
	FirstUsable      string   `json:"first_usable,omitempty"`
	LastUsable       string   `json:"last_usable,omitempty"`
	HasUsable        bool     `json:"has_usable"`
	Usable           uint64   `json:"usable"`
	NextNetwork      string   `json:"next_network"`
	Mask             string   `json:"mask"`
	Wildcard         string   `json:"wildcard"`
}

func Calculate(a ipmath.Address, prefix int) (Calculation, error) {
	s, err := ipmath.NewSubnet(a, prefix)
	if err != nil {
		return Calculation{}, err
	}
	idx := ipmath.InterestingOctetIndex(prefix)
	mask := s.Mask()
	maskOctet := mask[idx]
	magic := ipmath.MagicNumber(maskOctet)
	c := Calculation{
		Address:          a.String(),
		Prefix:           prefix,
		InterestingOctet: idx + 1,
		MaskOctet:        int(maskOctet),
		MagicNumber:      magic,
		BlockStart:       ipmath.BlockStart(int(a[idx]), magic),
		Network:          s.Network.String(),
		Broadcast:        s.Broadcast().String(),
		NextNetwork:      s.Next().String(),
		Mask:             mask.String(),
		Wildcard:         s.Wildcard().String(),
	}
	if hr := s.HostRange(); hr.OK {
		c.HasUsable = true
		c.FirstUsable = hr.First.String()
		c.LastUsable = hr.Last.String()
		c.Usable = hr.Usable
	}

	p := "/" + strconv.Itoa(prefix)
	c.Steps = append(c.Steps,
		"Step 1: "+p+" is in the "+ordinal(idx+1)+" octet.",
		"Step 2: convert "+p+" to a mask octet: "+strconv.Itoa(int(maskOctet))+".",
	)
	if magic > 0 {
		c.Steps = append(c.Steps,
			"Step 3: the magic number is 256 - "+strconv.Itoa(int(maskOctet))+" = "+strconv.Itoa(magic)+".",
			"Step 4: multiples of "+strconv.Itoa(magic)+" are: "+multiples(magic, 5)+"...",
			"Step 5: your octet ("+strconv.Itoa(int(a[idx]))+") is in the block starting at "+strconv.Itoa(c.BlockStart)+".",
		)
	}
	if !c.HasUsable {
		c.Steps = append(c.Steps, "A "+p+" has no separate network and broadcast addresses, so there is no usable host range.")
	}
	return c, nil
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return strconv.Itoa(n) + "th"
	}
}

func multiples(step, n int) string {
	parts := make([]string, 0, n)
	for v := 0; v < 256 && len(parts) < n; v += step {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ", ")
}

// CalculatorProblem asks for every derived value of an address at once.
type CalculatorProblem struct {
	Calc Calculation `json:"calc"`
}

func NewCalculatorProblem(a ipmath.Address, prefix int) (CalculatorProblem, error) {
	c, err := Calculate(a, prefix)
	if err != nil {
		return CalculatorProblem{}, err
	}
	return CalculatorProblem{Calc: c}, nil
}

// GenerateCalculator draws a unicast address in 1.0.0.0 to 223.255.255.255
// with a /8 to /30 mask, so a host range always exists.
func GenerateCalculator(src Source) CalculatorProblem {
	a := ipmath.Address{
		byte(src.IntRange(1, 223)),
		byte(src.IntRange(0, 255)),
		byte(src.IntRange(0, 255)),
		byte(src.IntRange(0, 255)),
	}
	prefix := src.IntRange(CalculatorMinPrefix, CalculatorMaxPrefix)
	p, _ := NewCalculatorProblem(a, prefix)
	return p
}

func (p CalculatorProblem) Kind() Kind { return KindCalculator }

func (p CalculatorProblem) Prompt() string {
	return p.Calc.Address + " /" + strconv.Itoa(p.Calc.Prefix)
}

func (p CalculatorProblem) Card() Card {
	return Card{
		Kind:   KindCalculator,
		Prompt: "Work out the subnet for " + p.Prompt() + ".",
		Fields: []string{FieldNetwork, FieldBroadcast, FieldFirst, FieldLast, FieldNext, FieldMask},
	}
}

func (p CalculatorProblem) expected() map[string]string {
	return map[string]string{
		FieldNetwork:   p.Calc.Network,
		FieldBroadcast: p.Calc.Broadcast,
		FieldFirst:     p.Calc.FirstUsable,
		FieldLast:      p.Calc.LastUsable,
		FieldNext:      p.Calc.NextNetwork,
		FieldMask:      p.Calc.Mask,
	}
}

func (p CalculatorProblem) Check(sub Submission) Result {
	want := p.expected()
	res := Result{Correct: true, Expected: want}
	var wrong []string
	for _, field := range []string{FieldNetwork, FieldBroadcast, FieldFirst, FieldLast, FieldNext, FieldMask} {
		if sub.get(field) != want[field] {
			res.Correct = false
			wrong = append(wrong, field)
		}
	}
	if res.Correct {
		res.Feedback = "Correct! Every value checks out."
		return res
	}
	res.Feedback = "Check " + strings.Join(wrong, ", ") + ". " + strings.Join(p.Calc.Steps, " ")
	return res
}

// Copyright (c) 2025 Berik Ashimov

// Package summarize finds the supernet that covers a group of sibling
// subnets.
package summarize

import (
	"errors"
	"sort"
	"strconv"

	"subnetlab/internal/ipmath"
)

var ErrNoRoutes = errors.New("summarize: no subnets given")

// CoverageError is returned by SummarizeExact when the supernet reaches
// addresses none of the inputs hold.
type CoverageError struct {
	Summary ipmath.Subnet
	Extra   uint64
}

func (e *CoverageError) Error() string {
	return "summarize: " + e.Summary.String() + " covers " + strconv.FormatUint(e.Extra, 10) + " addresses outside the given subnets"
}

// Summarize returns the longest prefix shared by every input network,
// capped at the shortest input prefix. It does not check that the result
// holds only input addresses: non-contiguous or misaligned inputs yield a
// broader supernet. Use SummarizeExact when that matters.
func Summarize(subnets []ipmath.Subnet) (ipmath.Subnet, error) {
	if len(subnets) == 0 {
		return ipmath.Subnet{}, ErrNoRoutes
	}
	limit := 32
	for _, s := range subnets {
		if s.Prefix < limit {
			limit = s.Prefix
		}
	}
	first := subnets[0].Network.Uint32()
	common := 0
	for common < limit {
		bit := uint32(1) << (31 - common)
		agree := true
		for _, s := range subnets[1:] {
			if s.Network.Uint32()&bit != first&bit {
				agree = false
				break
			}
		}
		if !agree {
			break
		}
		common++
	}
	return ipmath.Subnet{Network: ipmath.NetworkAddress(subnets[0].Network, common), Prefix: common}, nil
}

// SummarizeExact summarizes and then requires the supernet to equal the
// union of the inputs.
func SummarizeExact(subnets []ipmath.Subnet) (ipmath.Subnet, error) {
	summary, err := Summarize(subnets)
	if err != nil {
		return ipmath.Subnet{}, err
	}
	covered := unionSize(subnets)
	if covered != summary.Size() {
		return summary, &CoverageError{Summary: summary, Extra: summary.Size() - covered}
	}
	return summary, nil
}

// Covers reports whether every subnet lies inside summary.
func Covers(summary ipmath.Subnet, subnets []ipmath.Subnet) bool {
	for _, s := range subnets {
		if s.Prefix < summary.Prefix || !summary.Contains(s.Network) {
			return false
		}
	}
	return true
}

type span struct {
	start uint64
	end   uint64
}

func unionSize(subnets []ipmath.Subnet) uint64 {
	spans := make([]span, 0, len(subnets))
	for _, s := range subnets {
		start := uint64(s.Network.Uint32())
		spans = append(spans, span{start: start, end: start + s.Size() - 1})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	var total uint64
	cur := spans[0]
	for _, sp := range spans[1:] {
		if sp.start <= cur.end+1 {
			if sp.end > cur.end {
				cur.end = sp.end
			}
			continue
		}
		total += cur.end - cur.start + 1
		cur = sp
	}
	return total + cur.end - cur.start + 1
}

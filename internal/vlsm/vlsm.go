// Copyright (c) 2025 Berik Ashimov

// Package vlsm assigns variable length subnets to host-count requirements,
// largest block first, packed from a base address.
package vlsm

import (
	"errors"
	"math/bits"
	"sort"
	"strconv"

	"subnetlab/internal/ipmath"
)

type Requirement struct {
	Name  string `json:"name" yaml:"name"`
	Hosts int    `json:"hosts" yaml:"hosts"`
}

type Allocation struct {
	Name   string        `json:"name" yaml:"name"`
	Hosts  int           `json:"hosts" yaml:"hosts"`
	Subnet ipmath.Subnet `json:"subnet" yaml:"subnet"`
}

func (a Allocation) CIDR() string {
	return "/" + strconv.Itoa(a.Subnet.Prefix)
}

func (a Allocation) Usable() uint64 {
	return a.Subnet.HostRange().Usable
}

// Utilization is the share of usable addresses the requirement consumes,
// as a whole percentage.
func (a Allocation) Utilization() int {
	usable := a.Usable()
	if usable == 0 {
		return 100
	}
	return int(uint64(a.Hosts) * 100 / usable)
}

// HostBits is ceil(log2(hosts+2)): room for the hosts plus the network and
// broadcast addresses.
func HostBits(hosts int) (int, error) {
	if hosts < 1 {
		return 0, &AllocationError{Reason: "hosts must be at least 1, got " + strconv.Itoa(hosts)}
	}
	need := uint64(hosts) + 2
	n := bits.Len64(need - 1)
	if n > 32 {
		return 0, &AllocationError{Reason: strconv.Itoa(hosts) + " hosts exceed the IPv4 address space"}
	}
	return n, nil
}

// Allocate sorts reqs by hosts, largest first with ties in input order, and
// hands out blocks from base. Each block starts where the previous one ended.
// Names key the answers to an allocation, so they must be unique.
func Allocate(reqs []Requirement, base ipmath.Address) ([]Allocation, error) {
	names := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		if _, dup := names[req.Name]; dup {
			return nil, &AllocationError{Requirement: req.Name, Reason: "name is used by more than one requirement"}
		}
		names[req.Name] = struct{}{}
	}

	ordered := make([]Requirement, len(reqs))
	copy(ordered, reqs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Hosts > ordered[j].Hosts
	})

	out := make([]Allocation, 0, len(ordered))
	cursor := uint64(base.Uint32())
	for _, req := range ordered {
		hostBits, err := HostBits(req.Hosts)
		if err != nil {
			var ae *AllocationError
			if errors.As(err, &ae) {
				ae.Requirement = req.Name
			}
			return nil, err
		}
		prefix := 32 - hostBits
		size := uint64(1) << hostBits
		if cursor+size > 1<<32 {
			return nil, &AllocationError{Requirement: req.Name, Reason: "block /" + strconv.Itoa(prefix) + " runs past 255.255.255.255"}
		}
		if cursor%size != 0 {
			return nil, &AllocationError{
				Requirement: req.Name,
				Reason:      ipmath.AddressFromUint32(uint32(cursor)).String() + " is not on a /" + strconv.Itoa(prefix) + " boundary",
			}
		}
		out = append(out, Allocation{
			Name:   req.Name,
			Hosts:  req.Hosts,
			Subnet: ipmath.Subnet{Network: ipmath.AddressFromUint32(uint32(cursor)), Prefix: prefix},
		})
		cursor += size
	}
	return out, nil
}

// Overlapping reports the first pair of allocations that share addresses.
func Overlapping(allocs []Allocation) (int, int, bool) {
	for i := range allocs {
		for j := i + 1; j < len(allocs); j++ {
			if allocs[i].Subnet.Overlaps(allocs[j].Subnet) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Span is the block from the first allocated network to the end of the
// last one.
func Span(allocs []Allocation) (ipmath.Address, ipmath.Address, bool) {
	if len(allocs) == 0 {
		return ipmath.Address{}, ipmath.Address{}, false
	}
	first := allocs[0].Subnet.Network
	last := allocs[0].Subnet.Broadcast()
	for _, a := range allocs[1:] {
		if a.Subnet.Network.Uint32() < first.Uint32() {
			first = a.Subnet.Network
		}
		if b := a.Subnet.Broadcast(); b.Uint32() > last.Uint32() {
			last = b
		}
	}
	return first, last, true
}

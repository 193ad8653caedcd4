// Copyright (c) 2025 Berik Ashimov

package ipmath

import (
	"net/netip"
	"strconv"
	"strings"
)

// Subnet is a network address and prefix length. The network never carries
// host bits; build one with NewSubnet.
type Subnet struct {
	Network Address
	Prefix  int
}

// HostRange is the usable span of a subnet. OK is false for /31 and /32,
// which have no network/broadcast pair to exclude.
type HostRange struct {
	First  Address
	Last   Address
	Usable uint64
	OK     bool
}

func NewSubnet(a Address, prefix int) (Subnet, error) {
	if err := CheckPrefix(prefix); err != nil {
		return Subnet{}, err
	}
	return Subnet{Network: NetworkAddress(a, prefix), Prefix: prefix}, nil
}

func MustSubnet(cidr string) Subnet {
	s, err := ParseSubnet(cidr)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseCIDR splits "a.b.c.d/p" without masking the address.
func ParseCIDR(text string) (Address, int, error) {
	raw := strings.TrimSpace(text)
	addrPart, prefixPart, ok := strings.Cut(raw, "/")
	if !ok {
		return Address{}, 0, &ParseError{Input: text, Reason: "missing /prefix"}
	}
	a, err := ParseAddress(addrPart)
	if err != nil {
		return Address{}, 0, err
	}
	p, err := ParsePrefix(prefixPart)
	if err != nil {
		return Address{}, 0, err
	}
	return a, p, nil
}

func ParseSubnet(text string) (Subnet, error) {
	a, p, err := ParseCIDR(text)
	if err != nil {
		return Subnet{}, err
	}
	return NewSubnet(a, p)
}

func (s Subnet) Mask() Mask { return MaskForPrefix(s.Prefix) }
func (s Subnet) Wildcard() Wildcard { return WildcardForPrefix(s.Prefix) }
func (s Subnet) Broadcast() Address { return BroadcastAddress(s.Network, s.Prefix) }
func (s Subnet) Size() uint64 { return uint64(1) << (32 - s.Prefix) }
func (s Subnet) String() string { return s.Network.String() + "/" + strconv.Itoa(s.Prefix) }
func (s Subnet) Netip() netip.Prefix { return netip.PrefixFrom(s.Network.Netip(), s.Prefix) }
func (s Subnet) Contains(a Address) bool { return NetworkAddress(a, s.Prefix) == s.Network }

func (s Subnet) Overlaps(o Subnet) bool {
	return s.Netip().Overlaps(o.Netip())
}

// Next is the network that starts right after the broadcast address. The
// last block of the address space wraps to 0.0.0.0.
func (s Subnet) Next() Address {
	return NextAddress(s.Broadcast())
}

func (s Subnet) HostRange() HostRange {
	if s.Prefix >= 31 {
		return HostRange{}
	}
	return HostRange{
		First:  NextAddress(s.Network),
		Last:   PrevAddress(s.Broadcast()),
		Usable: s.Size() - 2,
		OK:     true,
	}
}

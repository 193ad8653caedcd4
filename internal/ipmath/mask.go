// Copyright (c) 2025 Berik Ashimov

package ipmath

import (
	"math/bits"
	"strconv"
	"strings"
)

type Mask [4]byte

type Wildcard [4]byte

func (m Mask) String() string { return Address(m).String() }
func (w Wildcard) String() string { return Address(w).String() }

func (m Mask) Uint32() uint32 { return Address(m).Uint32() }

// CheckPrefix rejects prefix lengths outside [0,32].
func CheckPrefix(prefix int) error {
	if prefix < 0 || prefix > 32 {
		return &ParseError{Input: strconv.Itoa(prefix), Reason: "prefix length out of range [0,32]"}
	}
	return nil
}

// ParsePrefix accepts a prefix length written as "24" or "/24".
func ParsePrefix(text string) (int, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(text), "/")
	if raw == "" || len(raw) > 2 || !isDigits(raw) {
		return 0, &ParseError{Input: text, Reason: "prefix length is not a number"}
	}
	p, _ := strconv.Atoi(raw)
	if p > 32 {
		return 0, &ParseError{Input: text, Reason: "prefix length out of range [0,32]"}
	}
	return p, nil
}

// MaskForPrefix sets the high-order prefix bits. Bit positions are tested
// one at a time against prefix, octet by octet.
func MaskForPrefix(prefix int) Mask {
	var m Mask
	for i := 0; i < 32; i++ {
		if i < prefix {
			m[i/8] |= 1 << (7 - i%8)
		}
	}
	return m
}

func WildcardForPrefix(prefix int) Wildcard {
	m := MaskForPrefix(prefix)
	var w Wildcard
	for i := range m {
		w[i] = 255 - m[i]
	}
	return w
}

// PrefixForMask returns the prefix length of a contiguous mask.
func PrefixForMask(m Mask) (int, error) {
	v := m.Uint32()
	ones := bits.LeadingZeros32(^v)
	if ones < 32 && v<<ones != 0 {
		return 0, &ParseError{Input: m.String(), Reason: "mask bits are not contiguous"}
	}
	return ones, nil
}

func ParseMask(text string) (Mask, error) {
	a, err := ParseAddress(text)
	if err != nil {
		return Mask{}, err
	}
	m := Mask(a)
	if _, err := PrefixForMask(m); err != nil {
		return Mask{}, err
	}
	return m, nil
}

func NetworkAddress(a Address, prefix int) Address {
	m := MaskForPrefix(prefix)
	var out Address
	for i := range a {
		out[i] = a[i] & m[i]
	}
	return out
}

// BroadcastAddress sets every host bit of network.
func BroadcastAddress(network Address, prefix int) Address {
	w := WildcardForPrefix(prefix)
	var out Address
	for i := range network {
		out[i] = network[i] | w[i]
	}
	return out
}

// InterestingOctetIndex is the octet holding the network/host boundary.
// Prefix 0 has no such octet; it reports 0.
func InterestingOctetIndex(prefix int) int {
	if prefix <= 0 {
		return 0
	}
	if prefix > 32 {
		return 3
	}
	return (prefix - 1) / 8
}

// MagicNumber is the block size of networks varying in an octet whose mask
// value is maskOctet. A fully set octet has no stride and reports 0.
func MagicNumber(maskOctet byte) int {
	if maskOctet == 255 {
		return 0
	}
	return 256 - int(maskOctet)
}

func BlockStart(octet, magic int) int {
	if magic > 0 {
		return octet / magic * magic
	}
	return octet
}

// PrefixForRange finds the prefix whose block runs exactly from network to
// broadcast.
func PrefixForRange(network, broadcast Address) (int, bool) {
	lo, hi := network.Uint32(), broadcast.Uint32()
	if hi < lo {
		return 0, false
	}
	span := uint64(hi-lo) + 1
	if span&(span-1) != 0 {
		return 0, false
	}
	prefix := 32 - (bits.Len64(span) - 1)
	if NetworkAddress(network, prefix) != network {
		return 0, false
	}
	return prefix, true
}

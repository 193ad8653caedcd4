// Copyright (c) 2025 Berik Ashimov

// Package ipmath holds the IPv4 arithmetic every exercise is built on:
// parsing, masks, network and broadcast derivation and address stepping.
package ipmath

import (
	"net/netip"
	"strconv"
	"strings"
)

// Address is an IPv4 address as four octets, most significant first.
type Address [4]byte

func AddressFromUint32(v uint32) Address {
	return Address{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func (a Address) Uint32() uint32 {
	return uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3])
}

func (a Address) Netip() netip.Addr {
	return netip.AddrFrom4(a)
}

func (a Address) String() string {
	var b strings.Builder
	b.Grow(15)
	for i, o := range a {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(int(o)))
	}
	return b.String()
}

// ParseAddress reads dotted-decimal text. Each of the four fields must be
// one to three decimal digits with a value in [0,255]; out of range octets
// are rejected, never clamped.
func ParseAddress(text string) (Address, error) {
	raw := strings.TrimSpace(text)
	parts := strings.Split(raw, ".")
	if len(parts) != 4 {
		return Address{}, &ParseError{Input: text, Reason: "expected 4 dot-separated octets"}
	}
	var out Address
	for i, part := range parts {
		if part == "" || len(part) > 3 || !isDigits(part) {
			return Address{}, &ParseError{Input: text, Reason: "octet " + strconv.Itoa(i+1) + " is not a number"}
		}
		v, err := strconv.Atoi(part)
		if err != nil || v > 255 {
			return Address{}, &ParseError{Input: text, Reason: "octet " + strconv.Itoa(i+1) + " out of range [0,255]"}
		}
		out[i] = byte(v)
	}
	return out, nil
}

func MustParseAddress(text string) Address {
	a, err := ParseAddress(text)
	if err != nil {
		panic(err)
	}
	return a
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NextAddress increments a as a base-256 counter: the last octet wraps to 0
// and carries leftward, so 255.255.255.255 becomes 0.0.0.0.
func NextAddress(a Address) Address {
	out := a
	for i := 3; i >= 0; i-- {
		if out[i] < 255 {
			out[i]++
			return out
		}
		out[i] = 0
	}
	return out
}

// PrevAddress is the ripple-borrow inverse of NextAddress.
func PrevAddress(a Address) Address {
	out := a
	for i := 3; i >= 0; i-- {
		if out[i] > 0 {
			out[i]--
			return out
		}
		out[i] = 255
	}
	return out
}

// AddressAdd advances a by n addresses in one addition. ok is false when the
// result would pass 255.255.255.255.
func AddressAdd(a Address, n uint64) (Address, bool) {
	sum := uint64(a.Uint32()) + n
	if sum > maxAddress {
		return Address{}, false
	}
	return AddressFromUint32(uint32(sum)), true
}

const maxAddress = 1<<32 - 1

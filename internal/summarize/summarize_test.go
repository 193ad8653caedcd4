// Copyright (c) 2025 Berik Ashimov

package summarize

import (
	"errors"
	"testing"

	"subnetlab/internal/ipmath"
)

func subnets(cidrs ...string) []ipmath.Subnet {
	out := make([]ipmath.Subnet, 0, len(cidrs))
	for _, c := range cidrs {
		out = append(out, ipmath.MustSubnet(c))
	}
	return out
}

func TestSummarizeFourSlash24(t *testing.T) {
	in := subnets("192.168.0.0/24", "192.168.1.0/24", "192.168.2.0/24", "192.168.3.0/24")
	got, err := Summarize(in)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got.String() != "192.168.0.0/22" {
		t.Fatalf("got %s", got)
	}
	exact, err := SummarizeExact(in)
	if err != nil || exact != got {
		t.Fatalf("exact: %s %v", exact, err)
	}
	if !Covers(got, in) {
		t.Fatalf("summary does not cover inputs")
	}
}

func TestSummarizeGeneratedBlocks(t *testing.T) {
	for k := 0; k < 60; k++ {
		start := k * 4
		var in []ipmath.Subnet
		for i := 0; i < 4; i++ {
			in = append(in, ipmath.Subnet{Network: ipmath.Address{192, 168, byte(start + i), 0}, Prefix: 24})
		}
		got, err := SummarizeExact(in)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if got.Prefix != 22 || got.Network != (ipmath.Address{192, 168, byte(start), 0}) {
			t.Fatalf("k=%d: got %s", k, got)
		}
	}
}

func TestSummarizeBestEffortOverreaches(t *testing.T) {
	in := subnets("10.0.1.0/24", "10.0.2.0/24")
	got, err := Summarize(in)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got.String() != "10.0.0.0/22" {
		t.Fatalf("got %s", got)
	}
	_, err = SummarizeExact(in)
	var ce *CoverageError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CoverageError, got %v", err)
	}
	if ce.Extra != 512 {
		t.Fatalf("extra %d", ce.Extra)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrNoRoutes) {
		t.Fatalf("expected ErrNoRoutes, got %v", err)
	}
	one := subnets("172.16.5.0/24")
	got, _ := SummarizeExact(one)
	if got.String() != "172.16.5.0/24" {
		t.Fatalf("single input %s", got)
	}
	got, _ = Summarize(subnets("10.0.0.0/8", "192.168.0.0/16"))
	if got.String() != "0.0.0.0/0" {
		t.Fatalf("disjoint inputs %s", got)
	}
	mixed := subnets("10.1.0.0/25", "10.1.0.128/26", "10.1.0.192/26")
	got, err := SummarizeExact(mixed)
	if err != nil || got.String() != "10.1.0.0/24" {
		t.Fatalf("mixed sizes %s %v", got, err)
	}
}

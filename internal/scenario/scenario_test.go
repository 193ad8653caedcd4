// Copyright (c) 2025 Berik Ashimov

package scenario

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"subnetlab/internal/problem"
)

const oneScenario = `
scenarios:
  - title: Lab
    network: 10.0.0.0/30
    devices:
      - name: R1
        ip: 10.0.0.1
        mask: /30
      - name: R2
        ip: 10.0.0.3
        mask: /30
        issue: Broadcast address.
`

func TestDefaultCatalogAuditsClean(t *testing.T) {
	list := Default()
	if len(list) < 1 {
		t.Fatalf("default catalog is empty")
	}
	office := list[0]
	if office.Network != "192.168.100.0/26" || len(office.Devices) != 5 {
		t.Fatalf("unexpected first scenario: %+v", office)
	}
	if got := office.Faulty(); len(got) != 3 || got[0] != 2 {
		t.Fatalf("faulty rows = %v", got)
	}
	for _, s := range list {
		if findings := Audit(s); len(findings) != 0 {
			t.Fatalf("%s: %+v", s.Title, findings)
		}
	}
}

func TestAuditReportsDisagreement(t *testing.T) {
	s := problem.TroubleshootingScenario{
		Network: "192.168.1.0/24",
		Devices: []problem.Device{
			{Name: "ok-but-flagged", IP: "192.168.1.10", Mask: "/24", Issue: "Wrong gateway."},
			{Name: "broadcast", IP: "192.168.1.255", Mask: "255.255.255.0"},
			{Name: "fine", IP: "192.168.1.20", Mask: "24"},
		},
	}
	findings := Audit(s)
	if len(findings) != 2 {
		t.Fatalf("findings = %+v", findings)
	}
	if findings[0].Row != 0 || findings[0].Computed != "" {
		t.Fatalf("first finding: %+v", findings[0])
	}
	if findings[1].Row != 1 || findings[1].Computed != "address is the broadcast address" {
		t.Fatalf("second finding: %+v", findings[1])
	}
}

func TestParseRejectsBadRows(t *testing.T) {
	cases := []string{
		"scenarios: [{title: x, network: 10.0.0.0/33, devices: [{name: a, ip: 10.0.0.1, mask: /24}]}]",
		"scenarios: [{title: x, network: 10.0.0.0/24, devices: []}]",
		"scenarios: [{title: x, network: 10.0.0.0/24, devices: [{name: a, ip: 10.0.0.256, mask: /24}]}]",
		"scenarios: [{title: x, network: 10.0.0.0/24, devices: [{name: a, ip: 10.0.0.1, mask: 255.0.255.0}]}]",
		"scenarios: [",
	}
	for _, in := range cases {
		if _, err := Parse([]byte(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestCatalogLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	if err := os.WriteFile(path, []byte(oneScenario), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewCatalog()
	if err := c.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Source() != path || len(c.Scenarios()) != 1 {
		t.Fatalf("source %q, %d scenarios", c.Source(), len(c.Scenarios()))
	}
	if s := c.Scenarios()[0]; s.Title != "Lab" {
		t.Fatalf("loaded %+v", s)
	}

	if err := os.WriteFile(path, []byte("scenarios: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
	if len(c.Scenarios()) != 1 {
		t.Fatalf("failed load replaced the catalog")
	}
	if err := c.Load(""); err != nil || c.Source() != "embedded" {
		t.Fatalf("reset to embedded: %v", err)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	if err := os.WriteFile(path, []byte("scenarios: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewCatalog()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, c, log.New(io.Discard)) }()

	deadline := time.Now().Add(5 * time.Second)
	for c.Source() != path {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("catalog was not reloaded")
		}
		if err := os.WriteFile(path, []byte(oneScenario), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}

// Copyright (c) 2025 Berik Ashimov

// Package scenario holds the authored troubleshooting tables. A YAML file
// can replace the built-in catalog and is reloaded when it changes.
package scenario

import (
	_ "embed"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"subnetlab/internal/ipmath"
	"subnetlab/internal/problem"
)

//go:embed default.yaml
var defaultCatalog []byte

type file struct {
	Scenarios []problem.TroubleshootingScenario `yaml:"scenarios"`
}

// Parse decodes a YAML catalog and checks that every address and mask in it
// parses. Issue text is not checked here; see Audit.
func Parse(data []byte) ([]problem.TroubleshootingScenario, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse scenario catalog")
	}
	for i, s := range f.Scenarios {
		where := "scenario " + strconv.Itoa(i)
		if s.Title != "" {
			where += " (" + s.Title + ")"
		}
		if _, err := ipmath.ParseSubnet(s.Network); err != nil {
			return nil, errors.Wrap(err, where)
		}
		if len(s.Devices) == 0 {
			return nil, errors.Errorf("%s: no devices", where)
		}
		for _, d := range s.Devices {
			if _, err := ipmath.ParseAddress(d.IP); err != nil {
				return nil, errors.Wrapf(err, "%s device %s", where, d.Name)
			}
			if _, err := devicePrefix(d.Mask); err != nil {
				return nil, errors.Wrapf(err, "%s device %s", where, d.Name)
			}
		}
	}
	return f.Scenarios, nil
}

// Default returns the built-in catalog.
func Default() []problem.TroubleshootingScenario {
	list, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return list
}

// devicePrefix accepts a mask written as "/26", "26" or "255.255.255.192".
func devicePrefix(mask string) (int, error) {
	if p, err := ipmath.ParsePrefix(mask); err == nil {
		return p, nil
	}
	m, err := ipmath.ParseMask(mask)
	if err != nil {
		return 0, err
	}
	return ipmath.PrefixForMask(m)
}

// Catalog is safe for concurrent readers while a reload swaps the list.
type Catalog struct {
	mu     sync.RWMutex
	list   []problem.TroubleshootingScenario
	source string
}

func NewCatalog() *Catalog {
	return &Catalog{list: Default(), source: "embedded"}
}

// Load replaces the catalog with the file at path, or with the built-in
// catalog when path is empty. On error the current list is kept.
func (c *Catalog) Load(path string) error {
	if path == "" {
		c.set(Default(), "embedded")
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read scenario catalog")
	}
	list, err := Parse(data)
	if err != nil {
		return errors.Wrap(err, path)
	}
	if len(list) == 0 {
		return errors.Errorf("%s: catalog has no scenarios", path)
	}
	c.set(list, path)
	return nil
}

func (c *Catalog) set(list []problem.TroubleshootingScenario, source string) {
	c.mu.Lock()
	c.list = list
	c.source = source
	c.mu.Unlock()
}

// Scenarios returns a copy of the current list.
func (c *Catalog) Scenarios() []problem.TroubleshootingScenario {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]problem.TroubleshootingScenario(nil), c.list...)
}

func (c *Catalog) Source() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

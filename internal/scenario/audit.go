// Copyright (c) 2025 Berik Ashimov

package scenario

import (
	"subnetlab/internal/ipmath"
	"subnetlab/internal/problem"
)

// Finding is a row where the authored issue and the arithmetic disagree:
// either an issue is written for a row that computes as valid, or a row with
// a computed problem has no issue.
type Finding struct {
	Row      int    `json:"row"`
	Device   string `json:"device"`
	Authored string `json:"authored"`
	Computed string `json:"computed"`
}

// Audit recomputes each device against the scenario network. Grading never
// uses the result; it only backs load-time warnings.
func Audit(s problem.TroubleshootingScenario) []Finding {
	network, err := ipmath.ParseSubnet(s.Network)
	if err != nil {
		return []Finding{{Row: -1, Computed: "network " + s.Network + " does not parse"}}
	}
	var out []Finding
	for i, d := range s.Devices {
		computed := diagnose(network, d)
		if (computed == "") == (d.Issue == "") {
			continue
		}
		out = append(out, Finding{Row: i, Device: d.Name, Authored: d.Issue, Computed: computed})
	}
	return out
}

func diagnose(network ipmath.Subnet, d problem.Device) string {
	ip, err := ipmath.ParseAddress(d.IP)
	if err != nil {
		return "address does not parse"
	}
	prefix, err := devicePrefix(d.Mask)
	if err != nil {
		return "mask does not parse"
	}
	switch {
	case !network.Contains(ip):
		return "address is outside " + network.String()
	case prefix != network.Prefix:
		return "mask does not match " + network.String()
	case network.Prefix < 31 && ip == network.Network:
		return "address is the network ID"
	case network.Prefix < 31 && ip == network.Broadcast():
		return "address is the broadcast address"
	}
	return ""
}

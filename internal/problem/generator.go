// Copyright (c) 2025 Berik Ashimov

package problem

import "github.com/pkg/errors"

// Generator hands out problems of any kind from one Source. Scenarios is
// consulted for troubleshooting problems; it may be nil when none are
// loaded.
type Generator struct {
	src       Source
	scenarios func() []TroubleshootingScenario
}

func NewGenerator(src Source, scenarios func() []TroubleshootingScenario) *Generator {
	return &Generator{src: src, scenarios: scenarios}
}

// Generate builds a new problem. Tier only affects quizzes. A
// *GenerationError is passed through unchanged so callers can decide to try
// again.
func (g *Generator) Generate(kind Kind, tier Tier) (Problem, error) {
	switch kind {
	case KindBoundary:
		return GenerateBoundary(g.src), nil
	case KindDrill:
		return GenerateDrill(g.src), nil
	case KindCalculator:
		return GenerateCalculator(g.src), nil
	case KindQuiz:
		q, err := GenerateQuiz(g.src, tier)
		return orNil(q, err)
	case KindWildcard:
		q, err := GenerateWildcard(g.src)
		return orNil(q, err)
	case KindReverseCIDR:
		q, err := GenerateReverseCidr(g.src)
		return orNil(q, err)
	case KindSummary:
		return GenerateSummary(g.src), nil
	case KindVLSM:
		return GenerateVLSM(g.src), nil
	case KindTroubleshoot:
		var list []TroubleshootingScenario
		if g.scenarios != nil {
			list = g.scenarios()
		}
		if len(list) == 0 {
			return nil, ErrNoScenarios
		}
		return list[g.src.IntRange(0, len(list)-1)], nil
	default:
		return nil, errors.Errorf("unknown problem kind %q", kind)
	}
}

func orNil(p Problem, err error) (Problem, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

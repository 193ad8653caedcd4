// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps p in a kind-tagged JSON envelope so it can be held outside
// process memory until it is graded.
func Encode(p Problem) ([]byte, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s problem", p.Kind())
	}
	return json.Marshal(envelope{Kind: p.Kind(), Payload: payload})
}

// Decode restores a problem written by Encode.
func Decode(data []byte) (Problem, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decode problem envelope")
	}
	var p Problem
	var err error
	switch env.Kind {
	case KindBoundary, KindDrill:
		var v BoundaryProblem
		err = json.Unmarshal(env.Payload, &v)
		p = v
	case KindCalculator:
		var v CalculatorProblem
		err = json.Unmarshal(env.Payload, &v)
		p = v
	case KindQuiz:
		var v QuizQuestion
		err = json.Unmarshal(env.Payload, &v)
		p = v
	case KindWildcard:
		var v WildcardQuestion
		err = json.Unmarshal(env.Payload, &v)
		p = v
	case KindReverseCIDR:
		var v ReverseCidrQuestion
		err = json.Unmarshal(env.Payload, &v)
		p = v
	case KindSummary:
		var v SummaryProblem
		err = json.Unmarshal(env.Payload, &v)
		p = v
	case KindVLSM:
		var v VLSMProblem
		err = json.Unmarshal(env.Payload, &v)
		p = v
	case KindTroubleshoot:
		var v TroubleshootingScenario
		err = json.Unmarshal(env.Payload, &v)
		p = v
	default:
		return nil, errors.Errorf("decode problem: unknown kind %q", env.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s problem", env.Kind)
	}
	return p, nil
}

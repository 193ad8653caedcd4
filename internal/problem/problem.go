// Copyright (c) 2025 Berik Ashimov

// Package problem generates randomized practice problems on top of the
// address arithmetic, VLSM and summarization packages, and grades answers
// against the answer computed at generation time.
//
// # Determinism
//
// Every random draw goes through a Source. Given the same Source sequence a
// generator produces the same problem, options and option order.
//
// # Grading
//
// Answers are compared by exact value. Addresses must match as dotted
// decimal text after trimming surrounding space; prefix lengths match by
// value, with or without the leading slash. Problems with several fields
// pass only when every field matches.
package problem

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"subnetlab/internal/ipmath"
)

type Kind string

const (
	KindBoundary     Kind = "boundary"
	KindDrill        Kind = "drill"
	KindCalculator   Kind = "calculator"
	KindQuiz         Kind = "quiz"
	KindWildcard     Kind = "wildcard"
	KindReverseCIDR  Kind = "reverse-cidr"
	KindSummary      Kind = "summary"
	KindVLSM         Kind = "vlsm"
	KindTroubleshoot Kind = "troubleshoot"
)

var Kinds = []Kind{
	KindBoundary, KindDrill, KindCalculator, KindQuiz, KindWildcard,
	KindReverseCIDR, KindSummary, KindVLSM, KindTroubleshoot,
}

func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", errors.Errorf("unknown problem kind %q", raw)
}

// Tier selects the quiz formula: 1 mask octet, 2 network ID, 3 last usable
// address.
type Tier int

const (
	TierMask Tier = iota + 1
	TierNetwork
	TierLastUsable
)

func ParseTier(raw string) (Tier, error) {
	switch strings.TrimSpace(raw) {
	case "", "1":
		return TierMask, nil
	case "2":
		return TierNetwork, nil
	case "3":
		return TierLastUsable, nil
	default:
		return 0, errors.Errorf("difficulty tier must be 1, 2 or 3, got %q", raw)
	}
}

// Answer fields used in a Submission.
const (
	FieldNetwork   = "network"
	FieldBroadcast = "broadcast"
	FieldFirst     = "first"
	FieldLast      = "last"
	FieldNext      = "next"
	FieldMask      = "mask"
	FieldChoice    = "choice"
	FieldAddress   = "address"
	FieldPrefix    = "prefix"
	FieldRow       = "row"
)

// Submission maps answer fields to what the learner typed or picked.
type Submission map[string]string

func (s Submission) get(field string) string {
	return strings.TrimSpace(s[field])
}

type Result struct {
	Correct  bool              `json:"correct"`
	Expected map[string]string `json:"expected,omitempty"`
	Feedback string            `json:"feedback"`
}

// Card is what a renderer shows: the prompt, the fields to fill in, the
// options of a multiple-choice question, or a table of rows.
type Card struct {
	Kind    Kind       `json:"kind"`
	Prompt  string     `json:"prompt"`
	Fields  []string   `json:"fields,omitempty"`
	Options []string   `json:"options,omitempty"`
	Table   [][]string `json:"table,omitempty"`
}

type Problem interface {
	Kind() Kind
	Prompt() string
	Card() Card
	Check(Submission) Result
}

// RevealDelay is how long a renderer waits after a correct answer before
// showing the next problem. The engine itself never waits.
func RevealDelay(k Kind) time.Duration {
	switch k {
	case KindBoundary, KindDrill:
		return 2 * time.Second
	case KindQuiz, KindWildcard:
		return 2500 * time.Millisecond
	case KindSummary, KindReverseCIDR:
		return 3 * time.Second
	default:
		return 0
	}
}

const MentorReplyDelay = 800 * time.Millisecond

func matchPrefix(got string, want int) bool {
	p, err := ipmath.ParsePrefix(got)
	return err == nil && p == want
}

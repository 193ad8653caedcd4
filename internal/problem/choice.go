// Copyright (c) 2025 Berik Ashimov

package problem

import "strconv"

const (
	OptionCount = 4

	// MaxDistractorAttempts bounds how many wrong answers are synthesized
	// while looking for unique options.
	MaxDistractorAttempts = 50
)

// GenerationError means the distractor loop ran out of attempts before it
// found enough unique options. Regenerating the problem is up to the caller.
type GenerationError struct {
	Kind     Kind
	Attempts int
	Unique   int
}

func (e *GenerationError) Error() string {
	return "generate " + string(e.Kind) + ": only " + strconv.Itoa(e.Unique) + " unique options after " +
		strconv.Itoa(e.Attempts) + " attempts"
}

// buildOptions collects the correct answer plus distinct distractors from
// synth, then shuffles them with src.
func buildOptions(src Source, kind Kind, correct string, synth func() string) ([]string, error) {
	seen := map[string]struct{}{correct: {}}
	opts := make([]string, 0, OptionCount)
	opts = append(opts, correct)
	attempts := 0
	for len(opts) < OptionCount {
		if attempts >= MaxDistractorAttempts {
			return nil, &GenerationError{Kind: kind, Attempts: attempts, Unique: len(opts)}
		}
		attempts++
		candidate := synth()
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		opts = append(opts, candidate)
	}
	shuffle(src, opts)
	return opts, nil
}

// Copyright (c) 2025 Berik Ashimov

package problem

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
)

// Source draws uniform integers in [min, max], both ends included.
type Source interface {
	IntRange(min, max int) int
}

type randSource struct {
	r *rand.Rand
}

// NewSource returns a math/rand backed Source. The same seed replays the
// same problems.
func NewSource(seed int64) Source {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

func (s *randSource) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.r.Intn(max-min+1)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read random seed")
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Sequence replays fixed values, cycling when exhausted. Values outside the
// requested range are clamped to it.
type Sequence struct {
	Values []int
	pos    int
}

func (s *Sequence) IntRange(min, max int) int {
	if len(s.Values) == 0 {
		return min
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LockedSource serializes access to a Source shared between goroutines.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) IntRange(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.IntRange(min, max)
}

func shuffle(src Source, items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntRange(0, i)
		items[i], items[j] = items[j], items[i]
	}
}

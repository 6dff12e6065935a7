// Package playback picks the next video to play from a mode's candidate set.
//
// The policy favours variety: the currently playing video is excluded whenever any other
// candidate exists, and the draw is uniform over what remains.
package playback

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/desertthunder/babytube/internal/shared"
)

// Source is the random source a [Selector] draws from. IntN returns a value in [0, n).
//
// *rand.Rand satisfies it; tests pass a scripted source.
type Source interface {
	IntN(n int) int
}

// Selector implements the no-immediate-repeat policy. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	src Source
}

// NewSelector creates a Selector drawing from src. A nil src uses a time-seeded PCG generator.
func NewSelector(src Source) *Selector {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Selector{src: src}
}

// SelectNext returns a video ID from candidates, never current when an alternative exists.
//
// Every occurrence of current is excluded. If nothing is left (current was the only
// candidate), the draw falls back to the full set. An empty candidate set returns
// [shared.ErrNoCandidates].
func (s *Selector) SelectNext(candidates []string, current string) (string, error) {
	if len(candidates) == 0 {
		return "", shared.ErrNoCandidates
	}

	others := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != current {
			others = append(others, c)
		}
	}

	pool := others
	if len(pool) == 0 {
		pool = candidates
	}

	s.mu.Lock()
	i := s.src.IntN(len(pool))
	s.mu.Unlock()

	return pool[i], nil
}

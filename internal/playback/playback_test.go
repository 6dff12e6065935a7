package playback

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/desertthunder/babytube/internal/shared"
)

// scripted returns queued indexes and records the n it was asked for.
type scripted struct {
	next []int
	asks []int
}

func (s *scripted) IntN(n int) int {
	s.asks = append(s.asks, n)
	if len(s.next) == 0 {
		return 0
	}
	i := s.next[0]
	s.next = s.next[1:]
	return i
}

func TestSelectNext(t *testing.T) {
	t.Run("empty candidates", func(t *testing.T) {
		_, err := NewSelector(&scripted{}).SelectNext(nil, "X")
		if !errors.Is(err, shared.ErrNoCandidates) {
			t.Fatalf("expected ErrNoCandidates, got %v", err)
		}
	})

	t.Run("single candidate equal to current", func(t *testing.T) {
		got, err := NewSelector(&scripted{}).SelectNext([]string{"X"}, "X")
		if err != nil || got != "X" {
			t.Fatalf("SelectNext([X], X) = %q, %v; want X", got, err)
		}
	})

	t.Run("single candidate with no current", func(t *testing.T) {
		got, err := NewSelector(&scripted{}).SelectNext([]string{"X"}, "")
		if err != nil || got != "X" {
			t.Fatalf("SelectNext([X], \"\") = %q, %v; want X", got, err)
		}
	})

	t.Run("draws from others only", func(t *testing.T) {
		src := &scripted{next: []int{1}}
		got, err := NewSelector(src).SelectNext([]string{"A", "B", "C"}, "A")
		if err != nil {
			t.Fatalf("SelectNext error = %v", err)
		}
		if got != "C" {
			t.Errorf("expected index 1 of [B C] = C, got %s", got)
		}
		if len(src.asks) != 1 || src.asks[0] != 2 {
			t.Errorf("expected a draw over 2 candidates, got %v", src.asks)
		}
	})

	t.Run("removes every occurrence of current", func(t *testing.T) {
		src := &scripted{next: []int{0}}
		got, err := NewSelector(src).SelectNext([]string{"A", "B", "A", "A"}, "A")
		if err != nil {
			t.Fatalf("SelectNext error = %v", err)
		}
		if got != "B" {
			t.Errorf("expected B, got %s", got)
		}
		if src.asks[0] != 1 {
			t.Errorf("expected a draw over 1 candidate, got %d", src.asks[0])
		}
	})

	t.Run("all duplicates of current falls back to full set", func(t *testing.T) {
		src := &scripted{next: []int{2}}
		got, err := NewSelector(src).SelectNext([]string{"A", "A", "A"}, "A")
		if err != nil || got != "A" {
			t.Fatalf("SelectNext = %q, %v; want A", got, err)
		}
		if src.asks[0] != 3 {
			t.Errorf("expected a draw over the full set of 3, got %d", src.asks[0])
		}
	})

	t.Run("current not in candidates", func(t *testing.T) {
		src := &scripted{next: []int{2}}
		got, err := NewSelector(src).SelectNext([]string{"A", "B", "C"}, "Z")
		if err != nil || got != "C" {
			t.Fatalf("SelectNext = %q, %v; want C", got, err)
		}
	})

	t.Run("nil source uses default generator", func(t *testing.T) {
		got, err := NewSelector(nil).SelectNext([]string{"A", "B"}, "A")
		if err != nil || got != "B" {
			t.Fatalf("SelectNext = %q, %v; want B", got, err)
		}
	})
}

func TestNoImmediateRepeat(t *testing.T) {
	sel := NewSelector(rand.New(rand.NewPCG(1, 2)))
	candidates := []string{"035d3iiFej4", "HAzZH6wccew", "XGSSmQiqBl8", "HAzZH6wccew"}

	for _, current := range candidates {
		for i := 0; i < 2000; i++ {
			got, err := sel.SelectNext(candidates, current)
			if err != nil {
				t.Fatalf("SelectNext error = %v", err)
			}
			if got == current {
				t.Fatalf("trial %d: returned current %s", i, current)
			}
		}
	}
}

func TestSelectNextUniform(t *testing.T) {
	sel := NewSelector(rand.New(rand.NewPCG(7, 11)))
	candidates := []string{"A", "B", "C", "D"}

	const trials = 30000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		got, err := sel.SelectNext(candidates, "A")
		if err != nil {
			t.Fatalf("SelectNext error = %v", err)
		}
		counts[got]++
	}

	if counts["A"] != 0 {
		t.Fatalf("current was selected %d times", counts["A"])
	}

	expected := trials / 3
	for _, c := range []string{"B", "C", "D"} {
		if diff := counts[c] - expected; diff > expected/10 || diff < -expected/10 {
			t.Errorf("%s drawn %d times, expected about %d", c, counts[c], expected)
		}
	}
}

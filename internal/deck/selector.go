// Package deck draws quiz rounds, scores answers, and steps a round through
// its presenting/answered states.
package deck

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/p-n-ai/swipe-quiz/internal/cards"
)

// DefaultRoundSize is the number of cards in a round.
const DefaultRoundSize = 5

// Selector draws rounds that favour cards the session has not seen yet.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a Selector. A nil src seeds from the clock.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())
	}
	return &Selector{rng: rand.New(src)}
}

// Pick draws up to n cards and returns them with the updated seen registry.
//
// When at least n cards are unseen, the round comes from the unseen cards and
// the drawn slugs are appended to seen. Otherwise the whole catalog is the
// pool, repeats are allowed, and the registry restarts with only this
// round's slugs.
func (s *Selector) Pick(catalog []cards.QuizItem, seen []string, n int) ([]cards.QuizItem, []string) {
	if n <= 0 {
		return []cards.QuizItem{}, append([]string{}, seen...)
	}

	seenSet := make(map[string]struct{}, len(seen))
	for _, slug := range seen {
		seenSet[slug] = struct{}{}
	}

	fresh := make([]cards.QuizItem, 0, len(catalog))
	for _, item := range catalog {
		if _, ok := seenSet[item.Slug]; !ok {
			fresh = append(fresh, item)
		}
	}

	if len(fresh) >= n {
		picked := s.draw(fresh, n)
		next := append(append([]string{}, seen...), slugsOf(picked)...)
		return picked, next
	}

	picked := s.draw(catalog, n)
	return picked, slugsOf(picked)
}

func (s *Selector) draw(pool []cards.QuizItem, n int) []cards.QuizItem {
	out := slices.Clone(pool)
	if out == nil {
		out = []cards.QuizItem{}
	}

	s.mu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	s.mu.Unlock()

	return out[:min(n, len(out))]
}

func slugsOf(items []cards.QuizItem) []string {
	slugs := make([]string, 0, len(items))
	for _, it := range items {
		slugs = append(slugs, it.Slug)
	}
	return slugs
}

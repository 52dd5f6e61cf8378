package deck_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/p-n-ai/swipe-quiz/internal/cards"
	"github.com/p-n-ai/swipe-quiz/internal/deck"
)

func catalogOf(n int) []cards.QuizItem {
	items := make([]cards.QuizItem, n)
	for i := range items {
		items[i] = cards.QuizItem{ID: i + 1, Title: fmt.Sprintf("Card %d", i+1), Slug: fmt.Sprintf("card-%02d", i+1)}
	}
	return items
}

func slugs(items []cards.QuizItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Slug)
	}
	return out
}

func newSelector() *deck.Selector {
	return deck.NewSelector(rand.NewPCG(1, 2))
}

func TestSelector_Pick_FreshCatalog(t *testing.T) {
	catalog := catalogOf(12)

	round, seen := newSelector().Pick(catalog, nil, 5)

	if len(round) != 5 {
		t.Fatalf("len(round) = %d, want 5", len(round))
	}
	got := slugs(round)
	distinct := map[string]bool{}
	for _, s := range got {
		if distinct[s] {
			t.Errorf("slug %s drawn twice", s)
		}
		distinct[s] = true
		if !slices.Contains(slugs(catalog), s) {
			t.Errorf("slug %s not in catalog", s)
		}
	}
	if !slices.Equal(seen, got) {
		t.Errorf("seen = %v, want exactly the drawn slugs %v", seen, got)
	}
}

func TestSelector_Pick_AccumulatesSeen(t *testing.T) {
	catalog := catalogOf(12)
	prior := []string{"card-01", "card-02", "card-03"}

	round, seen := newSelector().Pick(catalog, prior, 5)

	for _, it := range round {
		if slices.Contains(prior, it.Slug) {
			t.Errorf("drew already-seen slug %s", it.Slug)
		}
	}
	if len(seen) != 8 {
		t.Fatalf("len(seen) = %d, want 8", len(seen))
	}
	if !slices.Equal(seen[:3], prior) {
		t.Errorf("seen prefix = %v, want prior %v", seen[:3], prior)
	}
	if !slices.Equal(seen[3:], slugs(round)) {
		t.Errorf("seen suffix = %v, want drawn %v", seen[3:], slugs(round))
	}
}

func TestSelector_Pick_ExhaustedResets(t *testing.T) {
	catalog := catalogOf(12)
	prior := slugs(catalog)[:10]

	round, seen := newSelector().Pick(catalog, prior, 5)

	if len(round) != 5 {
		t.Fatalf("len(round) = %d, want 5", len(round))
	}
	if !slices.Equal(seen, slugs(round)) {
		t.Errorf("seen = %v, want reset to drawn slugs %v", seen, slugs(round))
	}
	for _, s := range slugs(round) {
		if !slices.Contains(slugs(catalog), s) {
			t.Errorf("slug %s not in catalog", s)
		}
	}
}

func TestSelector_Pick_ExhaustedDrawsFromWholeCatalog(t *testing.T) {
	catalog := catalogOf(12)
	prior := slugs(catalog)[:10]
	sel := newSelector()

	sawRepeat := false
	for range 50 {
		round, _ := sel.Pick(catalog, prior, 5)
		for _, it := range round {
			if slices.Contains(prior, it.Slug) {
				sawRepeat = true
			}
		}
	}
	if !sawRepeat {
		t.Error("exhausted pool never drew a previously seen card")
	}
}

func TestSelector_Pick_SmallCatalog(t *testing.T) {
	catalog := catalogOf(3)

	round, seen := newSelector().Pick(catalog, nil, 5)

	if len(round) != 3 {
		t.Errorf("len(round) = %d, want 3", len(round))
	}
	if len(seen) != 3 {
		t.Errorf("len(seen) = %d, want 3", len(seen))
	}
}

func TestSelector_Pick_EmptyCatalog(t *testing.T) {
	round, seen := newSelector().Pick(nil, []string{"old"}, 5)

	if len(round) != 0 {
		t.Errorf("len(round) = %d, want 0", len(round))
	}
	if len(seen) != 0 {
		t.Errorf("seen = %v, want reset to empty", seen)
	}
}

func TestSelector_Pick_ZeroSize(t *testing.T) {
	round, seen := newSelector().Pick(catalogOf(4), []string{"card-01"}, 0)

	if len(round) != 0 {
		t.Errorf("len(round) = %d, want 0", len(round))
	}
	if !slices.Equal(seen, []string{"card-01"}) {
		t.Errorf("seen = %v, want unchanged", seen)
	}
}

func TestSelector_Pick_DoesNotMutateInputs(t *testing.T) {
	catalog := catalogOf(8)
	before := slugs(catalog)
	prior := []string{"card-01"}

	newSelector().Pick(catalog, prior, 5)

	if !slices.Equal(slugs(catalog), before) {
		t.Error("Pick() reordered the catalog")
	}
	if !slices.Equal(prior, []string{"card-01"}) {
		t.Error("Pick() modified the seen slice")
	}
}

func TestSelector_Pick_CoversEveryCard(t *testing.T) {
	catalog := catalogOf(12)
	sel := deck.NewSelector(nil)

	counts := map[string]int{}
	for range 600 {
		round, _ := sel.Pick(catalog, nil, 5)
		for _, it := range round {
			counts[it.Slug]++
		}
	}
	for _, s := range slugs(catalog) {
		if counts[s] == 0 {
			t.Errorf("slug %s never drawn", s)
		}
	}
}

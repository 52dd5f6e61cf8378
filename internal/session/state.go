package session

import (
	"encoding/json"
	"math"

	"github.com/p-n-ai/swipe-quiz/internal/deck"
)

// Store keys for one session.
const (
	scoreKey = "quiz:score"
	seenKey  = "quiz:used-slugs"
	roundKey = "quiz:round"
)

// decodeScore reads a stored score. Anything that is not an object with two
// non-negative integer counters decodes as zero.
func decodeScore(raw string) deck.Score {
	if raw == "" {
		return deck.Score{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return deck.Score{}
	}
	correct, ok1 := counter(m["correct"])
	wrong, ok2 := counter(m["wrong"])
	if !ok1 || !ok2 {
		return deck.Score{}
	}
	return deck.Score{Correct: correct, Wrong: wrong}
}

func counter(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// decodeSeen reads the stored used-slug list, keeping only string entries.
func decodeSeen(raw string) []string {
	seen := []string{}
	if raw == "" {
		return seen
	}
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return seen
	}
	for _, v := range arr {
		if s, ok := v.(string); ok {
			seen = append(seen, s)
		}
	}
	return seen
}

// decodeRound reads the stored round. A missing or inconsistent round
// decodes as nil.
func decodeRound(raw string) *deck.Round {
	if raw == "" {
		return nil
	}
	var r deck.Round
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil
	}
	if !r.Valid() {
		return nil
	}
	return &r
}

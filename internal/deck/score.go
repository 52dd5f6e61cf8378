package deck

import "github.com/p-n-ai/swipe-quiz/internal/verdict"

// Score is the running tally for a session.
type Score struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// Grade reports whether chosen matches expected. An unknown expected
// verdict never matches.
func Grade(expected, chosen verdict.Answer) bool {
	return expected != verdict.Unknown && expected == chosen
}

// Answer grades one answer and returns the updated score.
func (s Score) Answer(expected, chosen verdict.Answer) (bool, Score) {
	ok := Grade(expected, chosen)
	return ok, s.Record(ok)
}

// Record increments exactly one counter.
func (s Score) Record(correct bool) Score {
	if correct {
		s.Correct++
	} else {
		s.Wrong++
	}
	return s
}

// Reset returns a zero score.
func (Score) Reset() Score {
	return Score{}
}

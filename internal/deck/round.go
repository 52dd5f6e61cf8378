package deck

import (
	"errors"
	"fmt"

	"github.com/p-n-ai/swipe-quiz/internal/cards"
	"github.com/p-n-ai/swipe-quiz/internal/verdict"
)

// ErrInvalidTransition is returned when an action is not allowed in the
// round's current phase.
var ErrInvalidTransition = errors.New("invalid round transition")

// Phase is the state of a round.
type Phase string

const (
	PhaseIdle       Phase = "idle" // round has no cards
	PhasePresenting Phase = "presenting"
	PhaseAnswered   Phase = "answered"
	PhaseComplete   Phase = "complete"
)

// Reveal is what the player sees after answering a card.
type Reveal struct {
	Choice   verdict.Answer `json:"choice"`
	Expected verdict.Answer `json:"expected"`
	Label    verdict.Label  `json:"label"`
	Correct  bool           `json:"correct"`
	Summary  string         `json:"summary,omitempty"`
	Source   string         `json:"source,omitempty"`
}

// Round is one drawn set of cards and the cursor into it.
type Round struct {
	Items  []cards.QuizItem `json:"items"`
	Index  int              `json:"index"`
	Phase  Phase            `json:"phase"`
	Reveal *Reveal          `json:"reveal,omitempty"`
}

// NewRound starts a round at its first card.
func NewRound(items []cards.QuizItem) *Round {
	if items == nil {
		items = []cards.QuizItem{}
	}
	r := &Round{Items: items, Phase: PhasePresenting}
	if len(items) == 0 {
		r.Phase = PhaseIdle
	}
	return r
}

// Current returns the card being presented or revealed.
func (r *Round) Current() (cards.QuizItem, bool) {
	if r.Phase != PhasePresenting && r.Phase != PhaseAnswered {
		return cards.QuizItem{}, false
	}
	return r.Items[r.Index], true
}

// Answer grades choice against the current card's verdict and moves the
// round to the answered phase.
func (r *Round) Answer(choice verdict.Answer) (Reveal, error) {
	if r.Phase != PhasePresenting {
		return Reveal{}, fmt.Errorf("%w: answer while %s", ErrInvalidTransition, r.Phase)
	}
	if choice != verdict.Yes && choice != verdict.No {
		return Reveal{}, verdict.ErrInvalidChoice
	}

	item := r.Items[r.Index]
	expected := verdict.Classify(item.Verdict())
	rv := Reveal{
		Choice:   choice,
		Expected: expected,
		Label:    expected.Label(),
		Correct:  Grade(expected, choice),
		Summary:  item.Summary(),
		Source:   item.Source(),
	}

	r.Reveal = &rv
	r.Phase = PhaseAnswered
	return rv, nil
}

// Advance moves past a revealed card to the next one, or completes the round.
func (r *Round) Advance() error {
	if r.Phase != PhaseAnswered {
		return fmt.Errorf("%w: advance while %s", ErrInvalidTransition, r.Phase)
	}

	r.Reveal = nil
	r.Index++
	if r.Index >= len(r.Items) {
		r.Phase = PhaseComplete
		return nil
	}
	r.Phase = PhasePresenting
	return nil
}

// Valid reports whether a round decoded from storage is internally
// consistent.
func (r *Round) Valid() bool {
	switch r.Phase {
	case PhaseIdle:
		return len(r.Items) == 0
	case PhasePresenting:
		return r.Index >= 0 && r.Index < len(r.Items) && r.Reveal == nil
	case PhaseAnswered:
		return r.Index >= 0 && r.Index < len(r.Items) && r.Reveal != nil
	case PhaseComplete:
		return len(r.Items) > 0 && r.Index == len(r.Items)
	default:
		return false
	}
}

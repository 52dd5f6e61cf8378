// Package verdict classifies free-text crowd verdicts into an expected answer.
//
// The classifier is a keyword heuristic over the trimmed, lower-cased text.
// Sarcastic or ambiguous phrasing may be misclassified.
package verdict

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidChoice is returned when a player answer is neither yes nor no.
var ErrInvalidChoice = errors.New("choice must be yes or no")

// Answer is the expected or chosen answer to "is the poster the asshole?".
type Answer int

const (
	Unknown Answer = iota
	Yes
	No
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// Label returns the canonical display label for a.
func (a Answer) Label() Label {
	switch a {
	case Yes:
		return LabelYTA
	case No:
		return LabelNTA
	default:
		return LabelUnknown
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Answer) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Answer) UnmarshalText(b []byte) error {
	switch string(b) {
	case "yes":
		*a = Yes
	case "no":
		*a = No
	case "unknown", "":
		*a = Unknown
	default:
		return fmt.Errorf("unknown answer %q", b)
	}
	return nil
}

// Label is the canonical display form of a verdict.
type Label string

const (
	LabelYTA     Label = "YTA"
	LabelNTA     Label = "NTA"
	LabelUnknown Label = "UNKNOWN"
)

// fold trims and lower-cases s. Casers must not be shared between goroutines.
func fold(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Classify maps a crowd verdict to the expected answer. Yes-family rules are
// checked before no-family rules.
func Classify(v string) Answer {
	s := fold(v)
	if s == "" {
		return Unknown
	}

	if s == "yta" ||
		strings.Contains(s, "you’re the asshole") ||
		strings.Contains(s, "you're the asshole") ||
		strings.Contains(s, "yes the asshole") ||
		(strings.Contains(s, "asshole") && !strings.Contains(s, "not")) {
		return Yes
	}

	if s == "nta" ||
		strings.Contains(s, "not the asshole") ||
		(strings.Contains(s, "not") && strings.Contains(s, "asshole")) {
		return No
	}

	return Unknown
}

// LabelFor is shorthand for Classify(v).Label().
func LabelFor(v string) Label {
	return Classify(v).Label()
}

// ParseChoice parses a player's answer. Only yes and no are valid.
func ParseChoice(s string) (Answer, error) {
	switch fold(s) {
	case "yes", "yta":
		return Yes, nil
	case "no", "nta":
		return No, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
}

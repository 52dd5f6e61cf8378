// Package session keeps a player's score, used-card history and current
// round across requests.
package session

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/p-n-ai/swipe-quiz/internal/cards"
	"github.com/p-n-ai/swipe-quiz/internal/deck"
	"github.com/p-n-ai/swipe-quiz/internal/verdict"
)

const lockStripes = 64

// View is the session state shown to the player.
type View struct {
	Phase    deck.Phase      `json:"phase"`
	Index    int             `json:"index"`
	Total    int             `json:"total"`
	Progress int             `json:"progress"`
	Current  *cards.QuizItem `json:"current,omitempty"`
	Reveal   *deck.Reveal    `json:"reveal,omitempty"`
	Score    deck.Score      `json:"score"`
}

// ServiceConfig holds dependencies for the session service.
type ServiceConfig struct {
	Store     Store
	Selector  *deck.Selector
	RoundSize int
	Secret    []byte // keys the hash that maps session IDs to store scopes
}

// Service runs quiz rounds over a Store.
type Service struct {
	store     Store
	selector  *deck.Selector
	roundSize int
	secret    []byte
	locks     [lockStripes]sync.Mutex
}

type state struct {
	score deck.Score
	seen  []string
	round *deck.Round
}

// NewService creates a session service. Missing dependencies fall back to
// an in-memory store, a time-seeded selector and the default round size.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		store:     cfg.Store,
		selector:  cfg.Selector,
		roundSize: cfg.RoundSize,
		secret:    cfg.Secret,
	}
	if s.store == nil {
		s.store = NewMemoryStore(DefaultTTL)
	}
	if s.selector == nil {
		s.selector = deck.NewSelector(nil)
	}
	if s.roundSize <= 0 {
		s.roundSize = deck.DefaultRoundSize
	}
	if len(s.secret) > blake2b.Size {
		sum := blake2b.Sum512(s.secret)
		s.secret = sum[:]
	}
	return s
}

// State returns the session's current round, dealing one if none is stored.
func (s *Service) State(ctx context.Context, sessionID string, catalog []cards.QuizItem) (View, error) {
	scope := s.scope(sessionID)
	unlock := s.lock(scope)
	defer unlock()

	st := s.load(ctx, scope)
	if needsDeal(st.round, catalog) {
		if err := s.deal(ctx, scope, catalog, &st); err != nil {
			return View{}, err
		}
	}
	return newView(st.round, st.score), nil
}

// Answer grades choice against the current card and updates the score.
func (s *Service) Answer(ctx context.Context, sessionID string, catalog []cards.QuizItem, choice verdict.Answer) (View, error) {
	scope := s.scope(sessionID)
	unlock := s.lock(scope)
	defer unlock()

	st := s.load(ctx, scope)
	if needsDeal(st.round, catalog) {
		if err := s.deal(ctx, scope, catalog, &st); err != nil {
			return View{}, err
		}
	}

	rv, err := st.round.Answer(choice)
	if err != nil {
		return View{}, err
	}
	st.score = st.score.Record(rv.Correct)

	// Round before score: a card is never scored twice.
	if err := s.save(ctx, scope, roundKey, st.round); err != nil {
		return View{}, err
	}
	if err := s.save(ctx, scope, scoreKey, st.score); err != nil {
		return View{}, err
	}

	slog.Info("card answered",
		"session", shortScope(scope),
		"slug", st.round.Items[st.round.Index].Slug,
		"choice", choice,
		"correct", rv.Correct,
	)
	return newView(st.round, st.score), nil
}

// Advance moves past the revealed card.
func (s *Service) Advance(ctx context.Context, sessionID string, catalog []cards.QuizItem) (View, error) {
	scope := s.scope(sessionID)
	unlock := s.lock(scope)
	defer unlock()

	st := s.load(ctx, scope)
	if needsDeal(st.round, catalog) {
		if err := s.deal(ctx, scope, catalog, &st); err != nil {
			return View{}, err
		}
	}

	if err := st.round.Advance(); err != nil {
		return View{}, err
	}
	if err := s.save(ctx, scope, roundKey, st.round); err != nil {
		return View{}, err
	}
	return newView(st.round, st.score), nil
}

// Reshuffle deals a new round. The score is kept.
func (s *Service) Reshuffle(ctx context.Context, sessionID string, catalog []cards.QuizItem) (View, error) {
	scope := s.scope(sessionID)
	unlock := s.lock(scope)
	defer unlock()

	st := s.load(ctx, scope)
	if err := s.deal(ctx, scope, catalog, &st); err != nil {
		return View{}, err
	}
	return newView(st.round, st.score), nil
}

// ResetScore zeroes the score and deals a new round.
func (s *Service) ResetScore(ctx context.Context, sessionID string, catalog []cards.QuizItem) (View, error) {
	scope := s.scope(sessionID)
	unlock := s.lock(scope)
	defer unlock()

	st := s.load(ctx, scope)
	st.score = st.score.Reset()
	if err := s.save(ctx, scope, scoreKey, st.score); err != nil {
		return View{}, err
	}
	if err := s.deal(ctx, scope, catalog, &st); err != nil {
		return View{}, err
	}
	return newView(st.round, st.score), nil
}

// End discards everything stored for the session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	scope := s.scope(sessionID)
	unlock := s.lock(scope)
	defer unlock()

	if err := s.store.Clear(ctx, scope); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// HealthCheck reports whether the backing store is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

func (s *Service) deal(ctx context.Context, scope string, catalog []cards.QuizItem, st *state) error {
	items, seen := s.selector.Pick(catalog, st.seen, s.roundSize)
	st.seen = seen
	st.round = deck.NewRound(items)

	if err := s.save(ctx, scope, seenKey, st.seen); err != nil {
		return err
	}
	if err := s.save(ctx, scope, roundKey, st.round); err != nil {
		return err
	}

	slog.Info("round dealt",
		"session", shortScope(scope),
		"cards", len(items),
		"seen", len(seen),
		"catalog", len(catalog),
	)
	return nil
}

// needsDeal reports whether a new round must be dealt before acting. An
// empty round is replaced once the catalog has cards.
func needsDeal(r *deck.Round, catalog []cards.QuizItem) bool {
	return r == nil || (r.Phase == deck.PhaseIdle && len(catalog) > 0)
}

func (s *Service) load(ctx context.Context, scope string) state {
	return state{
		score: decodeScore(s.get(ctx, scope, scoreKey)),
		seen:  decodeSeen(s.get(ctx, scope, seenKey)),
		round: decodeRound(s.get(ctx, scope, roundKey)),
	}
}

// get reads one key. Read failures are logged and treated as absent.
func (s *Service) get(ctx context.Context, scope, key string) string {
	v, ok, err := s.store.Get(ctx, scope, key)
	if err != nil {
		slog.Warn("session read failed", "session", shortScope(scope), "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *Service) save(ctx context.Context, scope, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.store.Set(ctx, scope, key, string(data)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// scope maps a client-held session ID to the key the store sees.
func (s *Service) scope(sessionID string) string {
	h, err := blake2b.New256(s.secret)
	if err != nil {
		// Only possible for keys longer than blake2b.Size, which NewService rules out.
		panic(err)
	}
	h.Write([]byte(sessionID))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Service) lock(scope string) func() {
	b, _ := hex.DecodeString(scope[:2])
	mu := &s.locks[int(b[0])%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func newView(r *deck.Round, score deck.Score) View {
	v := View{
		Phase:  r.Phase,
		Index:  r.Index,
		Total:  len(r.Items),
		Reveal: r.Reveal,
		Score:  score,
	}
	if item, ok := r.Current(); ok {
		v.Current = &item
	}
	if v.Total > 0 {
		v.Progress = (r.Index*100 + v.Total/2) / v.Total
	}
	return v
}

func shortScope(scope string) string {
	if len(scope) > 12 {
		return scope[:12]
	}
	return scope
}

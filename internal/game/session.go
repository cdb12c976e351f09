// Package game orchestrates one human-vs-computer AK47 session on top of
// the pure engine: it serializes access behind a mutex, maps UI action
// requests onto turn-engine operations, schedules the opponent's turns,
// and emits a state snapshot after every mutation.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Walshwade-dev/ak47/engine"
	"github.com/Walshwade-dev/ak47/engine/agent"
)

// Seat indices. The engine itself has no notion of who is human.
const (
	HumanSeat    uint8 = 0
	OpponentSeat uint8 = 1
)

// ActionType identifies a UI action request.
type ActionType string

// The action vocabulary maps onto the turn engine one operation each;
// take and draw fold the replacement and resolution in because the drawn
// card never crosses the session boundary.
const (
	ActionSelect      ActionType = "select"       // payload: slot index
	ActionDiscard     ActionType = "discard"      // discard the selected slot
	ActionTakeDiscard ActionType = "take_discard" // take top + replace + resolve
	ActionDraw        ActionType = "draw"         // draw + replace + resolve
	ActionDeclare     ActionType = "declare"
	ActionEndTurn     ActionType = "end_turn"
	ActionRestart     ActionType = "restart"
)

// Action is one request from the UI.
type Action struct {
	Type  ActionType `json:"type"`
	Index int        `json:"index,omitempty"`
}

// SourceFactory produces a fresh card source for a new deal. The remote
// deck client and the local shuffled stack both fit.
type SourceFactory func(ctx context.Context) (engine.CardSource, error)

// OnGameEndFunc runs when a game finishes; winner is the seat index.
type OnGameEndFunc func(sessionID uuid.UUID, winner int)

// Options configures a session.
type Options struct {
	WinMode engine.WinMode
	// ThinkDelay is the artificial pause before the opponent acts.
	// Zero means act immediately (used by tests).
	ThinkDelay time.Duration
	// Seed fixes the engine RNG; 0 derives one from the clock.
	Seed      uint64
	NewSource SourceFactory
	Logger    *logrus.Logger
}

// Session is one mutex-guarded game instance. All exported methods lock;
// unexported helpers assume the lock is held.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	log         *logrus.Entry
	opts        Options
	state       engine.GameState
	src         engine.CardSource
	opponent    *agent.Agent
	started     bool
	lastOutcome engine.Outcome
	// preDiscard holds the state from just before the human's pending
	// discard, for rollback when the follow-up draw fails.
	preDiscard engine.Snapshot

	cardIDs map[engine.Card]uuid.UUID

	opponentTimer *time.Timer

	// BroadcastFn receives a snapshot after every mutating operation.
	BroadcastFn func(Snapshot)
	// OnGameEnd runs once per finished game.
	OnGameEnd OnGameEndFunc
}

// NewSession builds a session; no cards are dealt until Start.
func NewSession(opts Options) (*Session, error) {
	if opts.NewSource == nil {
		return nil, fmt.Errorf("game: NewSource is required")
	}
	if opts.WinMode == "" {
		opts.WinMode = engine.ModeAK47
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	id := uuid.New()
	return &Session{
		ID:       id,
		log:      opts.Logger.WithField("game", id),
		opts:     opts,
		opponent: agent.New(OpponentSeat),
		cardIDs:  make(map[engine.Card]uuid.UUID),
	}, nil
}

// Start deals a fresh game from a new card source.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx)
}

func (s *Session) startLocked(ctx context.Context) error {
	src, err := s.opts.NewSource(ctx)
	if err != nil {
		return fmt.Errorf("game: create card source: %w", err)
	}

	seed := s.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rules := engine.DefaultRules()
	rules.WinMode = s.opts.WinMode

	s.state = engine.NewGame(seed, rules)
	if err := s.state.Deal(ctx, src); err != nil {
		return fmt.Errorf("game: deal: %w", err)
	}
	s.src = src
	s.started = true
	s.lastOutcome = ""

	s.log.WithFields(logrus.Fields{
		"mode":      rules.WinMode,
		"remaining": s.state.SourceRemaining,
	}).Info("game started")

	s.broadcast()
	return nil
}

// Snapshot returns the current view without mutating anything.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildSnapshot()
}

// HandleAction applies one human action. Invalid requests (wrong turn,
// missing selection) are ignored and only re-broadcast the state, matching
// the engine's silent no-op policy.
func (s *Session) HandleAction(ctx context.Context, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Type == ActionRestart {
		return s.restartLocked(ctx)
	}
	if s.state.IsGameOver() {
		s.log.WithField("action", a.Type).Info("action after game over ignored")
		return nil
	}
	if !s.started {
		s.log.WithField("action", a.Type).Warn("action before start ignored")
		return nil
	}
	if s.state.CurrentPlayer != HumanSeat {
		s.log.WithField("action", a.Type).Info("action out of turn ignored")
		return nil
	}

	switch a.Type {
	case ActionSelect:
		if a.Index < 0 || a.Index >= int(engine.HandSize) {
			s.log.WithField("index", a.Index).Warn("selection index out of range")
			return nil
		}
		s.state.SelectCardForDiscard(HumanSeat, uint8(a.Index))

	case ActionDiscard:
		snap := s.state.Save()
		if s.state.DiscardSelected() != engine.EmptyCard {
			s.preDiscard = snap
		}

	case ActionTakeDiscard:
		s.humanTake()

	case ActionDraw:
		if err := s.humanDraw(ctx); err != nil {
			s.broadcast()
			return err
		}

	case ActionDeclare:
		s.state.Declare(HumanSeat)

	case ActionEndTurn:
		if s.state.Players[HumanSeat].HandLen != engine.HandSize {
			s.log.Info("end turn mid-exchange ignored")
			return nil
		}
		s.state.EndTurn()
		s.scheduleOpponentTurn()

	default:
		s.log.WithField("action", a.Type).Warn("unknown action ignored")
		return nil
	}

	s.broadcast()
	s.finishIfOver()
	return nil
}

// humanTake runs the take-discard exchange in the same order the agent
// does: lift the pile top first, then discard the selected slot and drop
// the taken card into it. Requires a pending selection on a full hand;
// otherwise it is a no-op.
func (s *Session) humanTake() {
	g := &s.state
	if !g.Selected.Active || g.Players[HumanSeat].HandLen != engine.HandSize {
		s.log.Info("take without a selection ignored")
		return
	}
	taken := g.TakeTopDiscard()
	if taken == engine.EmptyCard {
		s.log.Info("discard top unavailable")
		return
	}
	g.DiscardSelected()
	g.ReplaceDiscardedSlot(taken)
	s.lastOutcome = g.ResolveTurn()
}

// humanDraw runs the draw flow with the reshuffle fallback. A draw failure
// after reshuffle is surfaced; the state rolls back to the pre-discard
// snapshot, so the discarded card returns to its slot and the hand stays
// whole.
func (s *Session) humanDraw(ctx context.Context) error {
	g := &s.state
	if g.Players[HumanSeat].HandLen == engine.HandSize {
		s.log.Info("draw before discard ignored")
		return nil
	}

	drawn, err := g.DrawCard(ctx, s.src)
	if errors.Is(err, engine.ErrEmptyDrawSource) && g.ReshuffleDiscardToDraw() {
		s.log.Info("reshuffled discard pile into local draw pile")
		drawn, err = g.DrawCard(ctx, s.src)
	}
	if err != nil {
		g.Restore(s.preDiscard)
		s.log.WithError(err).Warn("draw failed")
		return fmt.Errorf("game: draw: %w", err)
	}

	g.ReplaceDiscardedSlot(drawn)
	s.lastOutcome = g.ResolveTurn()
	return nil
}

// restartLocked resets the session for a rematch: same seats, fresh deal.
func (s *Session) restartLocked(ctx context.Context) error {
	if s.opponentTimer != nil {
		s.opponentTimer.Stop()
		s.opponentTimer = nil
	}
	s.log.Info("restarting game")
	return s.startLocked(ctx)
}

// scheduleOpponentTurn arms the think-delay timer when it is the
// opponent's move. Assumes the lock is held.
func (s *Session) scheduleOpponentTurn() {
	if s.state.IsGameOver() || s.state.CurrentPlayer != OpponentSeat {
		return
	}
	if s.opponentTimer != nil {
		s.opponentTimer.Stop()
	}
	if s.opts.ThinkDelay <= 0 {
		s.runOpponentTurnLocked()
		return
	}
	s.opponentTimer = time.AfterFunc(s.opts.ThinkDelay, s.runOpponentTurn)
}

func (s *Session) runOpponentTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runOpponentTurnLocked()
}

func (s *Session) runOpponentTurnLocked() {
	if s.state.IsGameOver() || s.state.CurrentPlayer != OpponentSeat {
		return
	}
	outcome, err := s.opponent.TakeTurn(context.Background(), &s.state, s.src)
	if err != nil {
		s.log.WithError(err).Warn("opponent turn failed")
	}
	s.lastOutcome = outcome
	s.log.WithField("outcome", outcome).Debug("opponent turn complete")
	s.broadcast()
	s.finishIfOver()
}

// finishIfOver fires the end-of-game callback exactly once.
// Assumes the lock is held.
func (s *Session) finishIfOver() {
	if !s.state.IsGameOver() || !s.started {
		return
	}
	s.started = false
	winner := int(s.state.Winner)
	s.log.WithField("winner", winner).Info("game over")
	if s.OnGameEnd != nil {
		s.OnGameEnd(s.ID, winner)
	}
}

// broadcast emits a snapshot through BroadcastFn. Assumes the lock is held.
func (s *Session) broadcast() {
	if s.BroadcastFn == nil {
		return
	}
	s.BroadcastFn(s.buildSnapshot())
}

// Close stops any pending opponent timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opponentTimer != nil {
		s.opponentTimer.Stop()
		s.opponentTimer = nil
	}
}

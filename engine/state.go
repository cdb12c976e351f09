package engine

import (
	"context"
	"fmt"
)

const (
	MaxPlayers = 2
	HandSize   = 4
	DeckSize   = 52
)

// PlayerState holds one player's hand and declaration bookkeeping.
type PlayerState struct {
	Hand    [HandSize]Card
	HandLen uint8

	// Declared is true once the player has formally acknowledged a
	// near-win hand this turn-cycle. Reset when their next turn begins.
	Declared bool
	// MustDeclare is true iff the hand currently satisfies the near-win
	// predicate. Recomputed at every resolution point.
	MustDeclare bool
	// CanWinNextTurn is false while a declare penalty is active.
	CanWinNextTurn bool
	// PenaltyUntilTurn is the turn index the penalized player must wait
	// out, or -1 when no penalty is pending.
	PenaltyUntilTurn int16
}

// Selection records a pending hand-slot selection: which card the acting
// player intends to discard, and later, which slot the replacement fills.
type Selection struct {
	PlayerID uint8
	Index    uint8
	Active   bool
}

// GameState holds the complete, self-contained state of an AK47 game.
// It is an explicit value passed to every operation — no ambient globals —
// so multiple game instances can run side by side and tests stay
// deterministic.
type GameState struct {
	Players     [MaxPlayers]PlayerState
	DiscardPile [DeckSize]Card // last element = top / pickable card
	DiscardLen  uint8

	// LocalDraw is the face-down pile built by reshuffling the discard
	// pile (minus its top card) once the external source is exhausted.
	// Drawn before the external source is consulted again.
	LocalDraw    [DeckSize]Card
	LocalDrawLen uint8

	// SourceRemaining mirrors the external card source's last reported
	// remaining-count, for display only.
	SourceRemaining int

	CurrentPlayer uint8
	TurnNumber    uint16
	Selected      Selection
	LastDiscardBy int8 // player who discarded the current top, -1 = none
	Winner        int8 // -1 until game over
	Flags         uint16
	RNG           uint64
	Rules         Rules

	eval Evaluator
}

const (
	FlagGameOver    uint16 = 1 << 0
	FlagGameStarted uint16 = 1 << 1
)

func (g *GameState) IsGameOver() bool { return g.Flags&FlagGameOver != 0 }
func (g *GameState) IsStarted() bool  { return g.Flags&FlagGameStarted != 0 }

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a GameState with the given seed and rules.
// The win-mode strategy is selected here, once; hands are dealt by Deal.
func NewGame(seed uint64, rules Rules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.eval = EvaluatorFor(rules.WinMode)
	g.LastDiscardBy = -1
	g.Winner = -1
	for p := range g.Players {
		g.Players[p].CanWinNextTurn = true
		g.Players[p].PenaltyUntilTurn = -1
	}
	return g
}

// Deal draws the initial hands from src and distributes them in order:
// the first CardsPerPlayer cards to player 0, the next to player 1.
// Piles, flags and the turn counter are reset.
func (g *GameState) Deal(ctx context.Context, src CardSource) error {
	n := g.Rules.numPlayers()
	want := int(n) * int(g.Rules.CardsPerPlayer)
	cards, remaining, err := src.Draw(ctx, want)
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	if len(cards) < want {
		return ErrShortDeal
	}
	g.SourceRemaining = remaining

	for p := uint8(0); p < n; p++ {
		for c := uint8(0); c < g.Rules.CardsPerPlayer; c++ {
			g.Players[p].Hand[c] = cards[int(p)*int(g.Rules.CardsPerPlayer)+int(c)]
		}
		g.Players[p].HandLen = g.Rules.CardsPerPlayer
		g.Players[p].Declared = false
		g.Players[p].MustDeclare = false
		g.Players[p].CanWinNextTurn = true
		g.Players[p].PenaltyUntilTurn = -1
	}

	g.DiscardLen = 0
	g.LocalDrawLen = 0
	g.CurrentPlayer = 0
	g.TurnNumber = 0
	g.Selected = Selection{}
	g.LastDiscardBy = -1
	g.Winner = -1
	g.Flags = FlagGameStarted
	return nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// Evaluator returns the win-mode strategy selected at game creation.
func (g *GameState) Evaluator() Evaluator {
	if g.eval == nil {
		g.eval = EvaluatorFor(g.Rules.WinMode)
	}
	return g.eval
}

// Hand returns the live hand slice for the given player.
func (g *GameState) Hand(player uint8) []Card {
	return g.Players[player].Hand[:g.Players[player].HandLen]
}

// DiscardTop returns the top card of the discard pile, or EmptyCard if empty.
func (g *GameState) DiscardTop() Card {
	if g.DiscardLen == 0 {
		return EmptyCard
	}
	return g.DiscardPile[g.DiscardLen-1]
}

// DrawRemaining returns the number of face-down cards still drawable:
// the local reshuffled pile plus the external source's reported remainder.
func (g *GameState) DrawRemaining() int {
	return int(g.LocalDrawLen) + g.SourceRemaining
}

// OpponentOf returns the other seat in a two-player game.
func (g *GameState) OpponentOf(player uint8) uint8 {
	return 1 - player
}

// NextPlayer returns the next player after current in turn order.
func (g *GameState) NextPlayer(current uint8) uint8 {
	return (current + 1) % g.Rules.numPlayers()
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo and simulation.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }

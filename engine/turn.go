package engine

import (
	"context"
	"fmt"
)

// Outcome is the result of resolving the acting player's hand.
type Outcome string

const (
	// OutcomeNormal: no pattern, turn may end.
	OutcomeNormal Outcome = "normal"
	// OutcomeMustDeclare: hand is one step from winning; the player must
	// declare before ending the turn or face a penalty.
	OutcomeMustDeclare Outcome = "must-declare"
	// OutcomeWinNow: hand wins, game over, hand frozen.
	OutcomeWinNow Outcome = "win-now"
	// OutcomePenaltyActive: hand would win but a declare penalty blocks
	// the victory; the player waits the penalty out.
	OutcomePenaltyActive Outcome = "penalty-active"
)

// SelectCardForDiscard records a pending selection of the hand slot the
// player intends to discard. Returns false (no-op) unless playerID is the
// current player. Re-selecting overwrites the previous selection.
func (g *GameState) SelectCardForDiscard(playerID, index uint8) bool {
	if g.IsGameOver() || playerID != g.CurrentPlayer {
		return false
	}
	if index >= g.Players[playerID].HandLen {
		return false
	}
	g.Selected = Selection{PlayerID: playerID, Index: index, Active: true}
	return true
}

// DiscardSelected removes the selected card from its owner's hand and puts
// it on top of the discard pile, leaving the hand at three cards. The slot
// index stays recorded for the later replacement. Returns EmptyCard (no-op)
// when no selection is pending or the hand is not whole, so a repeated
// discard can never shrink the hand below three cards.
func (g *GameState) DiscardSelected() Card {
	if !g.Selected.Active {
		return EmptyCard
	}
	sel := g.Selected
	p := &g.Players[sel.PlayerID]
	if p.HandLen != g.Rules.CardsPerPlayer || sel.Index >= p.HandLen {
		return EmptyCard
	}

	card := p.Hand[sel.Index]
	copy(p.Hand[sel.Index:], p.Hand[sel.Index+1:p.HandLen])
	p.HandLen--

	g.DiscardPile[g.DiscardLen] = card
	g.DiscardLen++
	g.LastDiscardBy = int8(sel.PlayerID)
	return card
}

// TakeTopDiscard removes and returns the discard pile's top card.
// Returns EmptyCard when the pile is empty or when the top card was
// discarded by the current player this cycle (no immediate self-pickup).
// That null result is not an error: callers fall back to drawing.
func (g *GameState) TakeTopDiscard() Card {
	if g.DiscardLen == 0 {
		return EmptyCard
	}
	if g.LastDiscardBy == int8(g.CurrentPlayer) {
		return EmptyCard
	}
	g.DiscardLen--
	return g.DiscardPile[g.DiscardLen]
}

// DrawCard obtains one face-down card: from the local reshuffled pile when
// it is non-empty, otherwise from the external source. Returns
// ErrEmptyDrawSource when both are exhausted — the caller must attempt
// ReshuffleDiscardToDraw or end the turn without a replacement. The game
// state is unchanged on failure.
func (g *GameState) DrawCard(ctx context.Context, src CardSource) (Card, error) {
	if g.LocalDrawLen > 0 {
		g.LocalDrawLen--
		return g.LocalDraw[g.LocalDrawLen], nil
	}
	if src == nil || g.SourceRemaining <= 0 {
		return EmptyCard, ErrEmptyDrawSource
	}
	cards, remaining, err := src.Draw(ctx, 1)
	if err != nil {
		return EmptyCard, fmt.Errorf("draw: %w", err)
	}
	if len(cards) == 0 {
		g.SourceRemaining = remaining
		return EmptyCard, ErrEmptyDrawSource
	}
	g.SourceRemaining = remaining
	return cards[0], nil
}

// ReplaceDiscardedSlot inserts card at the slot recorded by the discard
// step, restoring the hand to four cards with the other three in their
// original order. Clears the selection and lastDiscardBy, permitting the
// next player to take the new discard top. Returns false (no-op) when no
// selection is pending.
func (g *GameState) ReplaceDiscardedSlot(card Card) bool {
	if !g.Selected.Active || card == EmptyCard {
		return false
	}
	sel := g.Selected
	p := &g.Players[sel.PlayerID]
	if p.HandLen >= HandSize || sel.Index > p.HandLen {
		return false
	}

	copy(p.Hand[sel.Index+1:p.HandLen+1], p.Hand[sel.Index:p.HandLen])
	p.Hand[sel.Index] = card
	p.HandLen++

	g.Selected = Selection{}
	g.LastDiscardBy = -1
	return true
}

// ResolveTurn evaluates the acting player's hand. Win precedence: a winning
// hand is checked first and is never also reported as a near-win.
//
//   - win, no penalty  → OutcomeWinNow: game over, hand frozen.
//   - win, penalty     → OutcomePenaltyActive: victory blocked, play continues.
//   - near-win         → OutcomeMustDeclare: MustDeclare set, turn waits for
//     a declare action before ending.
//   - otherwise        → OutcomeNormal: MustDeclare cleared.
func (g *GameState) ResolveTurn() Outcome {
	pid := g.CurrentPlayer
	p := &g.Players[pid]
	hand := g.Hand(pid)
	eval := g.Evaluator()

	if eval.Wins(hand) {
		// A winning hand is not a near-win; it carries no declare duty.
		p.MustDeclare = false
		if !p.CanWinNextTurn {
			return OutcomePenaltyActive
		}
		g.Flags |= FlagGameOver
		g.Winner = int8(pid)
		return OutcomeWinNow
	}
	if eval.NearWin(hand) {
		p.MustDeclare = true
		return OutcomeMustDeclare
	}
	p.MustDeclare = false
	return OutcomeNormal
}

// Declare records the current player's formal acknowledgment of a near-win
// hand. Returns false unless it is that player's turn and the hand
// currently requires a declaration.
func (g *GameState) Declare(playerID uint8) bool {
	if g.IsGameOver() || playerID != g.CurrentPlayer {
		return false
	}
	p := &g.Players[playerID]
	if !p.MustDeclare {
		return false
	}
	p.Declared = true
	return true
}

// EndTurn completes the acting player's turn:
//
//  1. If they had MustDeclare set and never declared, the declare penalty
//     applies: CanWinNextTurn = false until their next turn has been
//     waited out.
//  2. An expired penalty on the outgoing player is lifted.
//  3. The turn passes to the next player; the counter increments; any
//     pending selection is dropped and the incoming player's declared
//     flag resets.
func (g *GameState) EndTurn() {
	if g.IsGameOver() {
		return
	}
	pid := g.CurrentPlayer
	p := &g.Players[pid]

	if p.MustDeclare && !p.Declared {
		p.CanWinNextTurn = false
		p.PenaltyUntilTurn = int16(g.TurnNumber) + 2 // their next turn
	} else if !p.CanWinNextTurn && int16(g.TurnNumber) >= p.PenaltyUntilTurn {
		// The penalized turn has been played out; lift the block.
		p.CanWinNextTurn = true
		p.PenaltyUntilTurn = -1
	}

	g.CurrentPlayer = g.NextPlayer(g.CurrentPlayer)
	g.TurnNumber++
	g.Selected = Selection{}
	g.Players[g.CurrentPlayer].Declared = false
}

// ReshuffleDiscardToDraw rebuilds the local face-down pile from every
// discard except the current top, Fisher–Yates shuffled. Returns false when
// the discard pile holds one card or fewer.
func (g *GameState) ReshuffleDiscardToDraw() bool {
	if g.DiscardLen <= 1 {
		return false
	}

	top := g.DiscardPile[g.DiscardLen-1]
	count := g.DiscardLen - 1
	for i := uint8(0); i < count; i++ {
		g.LocalDraw[i] = g.DiscardPile[i]
	}
	g.LocalDrawLen = count

	g.DiscardPile[0] = top
	g.DiscardLen = 1

	for i := int(g.LocalDrawLen) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.LocalDraw[i], g.LocalDraw[j] = g.LocalDraw[j], g.LocalDraw[i]
	}
	return true
}

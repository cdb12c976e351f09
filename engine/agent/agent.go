// Package agent implements the computer opponent for AK47.
//
// The policy is a local hill-climb: it only ever compares "replace slot i
// with the candidate card" outcomes using the engine's hand scoring, with
// no multi-card lookahead. Given the same hand and candidate it is fully
// deterministic, so tests fix hands and assert the chosen slot and action.
package agent

import (
	"context"
	"errors"

	"github.com/Walshwade-dev/ak47/engine"
)

// Agent drives one opponent seat through the turn engine, producing the
// same operation sequence a human turn produces.
type Agent struct {
	PlayerID uint8
}

// New returns an agent for the given seat.
func New(playerID uint8) *Agent {
	return &Agent{PlayerID: playerID}
}

// ChooseReplaceIndex returns the hand slot whose replacement by candidate
// maximizes the resulting score, along with that score. Ties keep the
// lowest index.
func ChooseReplaceIndex(eval engine.Evaluator, hand []engine.Card, candidate engine.Card) (int, float64) {
	bestIdx := 0
	bestScore := -1.0
	sim := make([]engine.Card, len(hand))
	for i := range hand {
		copy(sim, hand)
		sim[i] = candidate
		if sc := eval.Score(sim); sc > bestScore {
			bestScore = sc
			bestIdx = i
		}
	}
	return bestIdx, bestScore
}

// ChooseVacateIndex returns the slot whose removal leaves the highest-scoring
// three-card hand — the lowest-cost discard when the replacement card is not
// yet known. Ties keep the lowest index.
func ChooseVacateIndex(eval engine.Evaluator, hand []engine.Card) int {
	bestIdx := 0
	bestScore := -1.0
	sim := make([]engine.Card, 0, len(hand))
	for i := range hand {
		sim = sim[:0]
		sim = append(sim, hand[:i]...)
		sim = append(sim, hand[i+1:]...)
		if sc := eval.Score(sim); sc > bestScore {
			bestScore = sc
			bestIdx = i
		}
	}
	return bestIdx
}

// TakeTurn plays one full turn for the agent's seat against g, drawing from
// src when it declines (or cannot take) the discard top. It returns the
// resolution outcome. The turn is ended for every outcome except
// OutcomeWinNow, which freezes the game.
//
// A draw failure after an attempted reshuffle rolls the state back to the
// start of the turn before ending it, so hands never stay short.
func (a *Agent) TakeTurn(ctx context.Context, g *engine.GameState, src engine.CardSource) (engine.Outcome, error) {
	if g.IsGameOver() || g.CurrentPlayer != a.PlayerID {
		return engine.OutcomeNormal, nil
	}

	eval := g.Evaluator()
	p := &g.Players[a.PlayerID]
	hand := g.Hand(a.PlayerID)

	// An unacknowledged near-win from the previous cycle: declare first.
	if p.MustDeclare && !p.Declared {
		g.Declare(a.PlayerID)
	}

	// Decide whether the discard top improves the hand.
	takeDiscard := false
	chosenIdx := 0
	if top := g.DiscardTop(); top != engine.EmptyCard && g.LastDiscardBy != int8(a.PlayerID) {
		idx, scoreTaken := ChooseReplaceIndex(eval, hand, top)
		sim := make([]engine.Card, len(hand))
		copy(sim, hand)
		sim[idx] = top
		// Take on a strict improvement, or whenever the swap lands a win
		// or near-win outright.
		if scoreTaken > eval.Score(hand) || eval.Wins(sim) || eval.NearWin(sim) {
			takeDiscard = true
			chosenIdx = idx
		}
	}

	if takeDiscard {
		if taken := g.TakeTopDiscard(); taken != engine.EmptyCard {
			g.SelectCardForDiscard(a.PlayerID, uint8(chosenIdx))
			g.DiscardSelected()
			g.ReplaceDiscardedSlot(taken)
			return a.finish(g), nil
		}
		// Top unavailable after all — fall through to the draw path.
	}

	snap := g.Save()
	vacate := ChooseVacateIndex(eval, hand)
	g.SelectCardForDiscard(a.PlayerID, uint8(vacate))
	g.DiscardSelected()

	drawn, err := g.DrawCard(ctx, src)
	if errors.Is(err, engine.ErrEmptyDrawSource) && g.ReshuffleDiscardToDraw() {
		drawn, err = g.DrawCard(ctx, src)
	}
	if err != nil {
		g.Restore(snap)
		g.EndTurn()
		return engine.OutcomeNormal, err
	}

	g.ReplaceDiscardedSlot(drawn)
	return a.finish(g), nil
}

// finish resolves the played hand, auto-declares a fresh near-win, and ends
// the turn unless the game is won outright.
func (a *Agent) finish(g *engine.GameState) engine.Outcome {
	outcome := g.ResolveTurn()
	switch outcome {
	case engine.OutcomeWinNow:
		return outcome
	case engine.OutcomeMustDeclare:
		g.Declare(a.PlayerID)
	}
	g.EndTurn()
	return outcome
}

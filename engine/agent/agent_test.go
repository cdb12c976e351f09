package agent

import (
	"context"
	"testing"

	"github.com/Walshwade-dev/ak47/engine"
)

func card(suit, rank uint8) engine.Card { return engine.NewCard(suit, rank) }

// setupGame deals fixed hands: h0 to the human seat, h1 to the agent seat.
func setupGame(t *testing.T, rules engine.Rules, h0, h1 []engine.Card) *engine.GameState {
	t.Helper()
	stack := append(append([]engine.Card{}, h0...), h1...)
	src := engine.NewStackSource(stack...)
	g := engine.NewGame(11, rules)
	if err := g.Deal(context.Background(), src); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	return &g
}

var humanJunk = []engine.Card{
	card(engine.SuitSpades, engine.RankTwo),
	card(engine.SuitDiamonds, engine.RankFive),
	card(engine.SuitClubs, engine.RankNine),
	card(engine.SuitHearts, engine.RankJack),
}

// TestChooseReplaceIndexCompletesAK47 pins the §scenario: the agent holds
// three targets plus junk, the candidate is the missing Seven — it must
// pick the junk slot.
func TestChooseReplaceIndexCompletesAK47(t *testing.T) {
	eval := engine.EvaluatorFor(engine.ModeAK47)
	hand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitClubs, engine.RankThree), // weakest non-target
		card(engine.SuitDiamonds, engine.RankKing),
		card(engine.SuitHearts, engine.RankFour),
	}
	seven := card(engine.SuitHearts, engine.RankSeven)

	idx, score := ChooseReplaceIndex(eval, hand, seven)
	if idx != 1 {
		t.Fatalf("ChooseReplaceIndex = %d, want 1 (junk slot)", idx)
	}
	if score != engine.DefaultWeights.Win {
		t.Errorf("score = %v, want win score %v", score, engine.DefaultWeights.Win)
	}
}

// TestChooseVacateIndexKeepsTargets verifies the pre-draw discard choice
// vacates the slot whose removal costs least.
func TestChooseVacateIndexKeepsTargets(t *testing.T) {
	eval := engine.EvaluatorFor(engine.ModeAK47)
	hand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitDiamonds, engine.RankKing),
		card(engine.SuitClubs, engine.RankThree),
		card(engine.SuitHearts, engine.RankFour),
	}
	if idx := ChooseVacateIndex(eval, hand); idx != 2 {
		t.Errorf("ChooseVacateIndex = %d, want 2 (the Three)", idx)
	}
}

// TestAgentTakesWinningDiscard runs a full agent turn where the discard
// top completes AK47: the agent must take it and win.
func TestAgentTakesWinningDiscard(t *testing.T) {
	agentHand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitClubs, engine.RankThree),
		card(engine.SuitDiamonds, engine.RankKing),
		card(engine.SuitHearts, engine.RankFour),
	}
	g := setupGame(t, engine.DefaultRules(), humanJunk, agentHand)
	g.EndTurn() // hand the turn to the agent

	// The human left the missing Seven on the pile.
	g.DiscardPile[0] = card(engine.SuitHearts, engine.RankSeven)
	g.DiscardLen = 1
	g.LastDiscardBy = 0

	a := New(1)
	outcome, err := a.TakeTurn(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("TakeTurn: %v", err)
	}
	if outcome != engine.OutcomeWinNow {
		t.Fatalf("outcome = %s, want %s", outcome, engine.OutcomeWinNow)
	}
	if !g.IsGameOver() || g.Winner != 1 {
		t.Errorf("GameOver=%v Winner=%d, want agent win", g.IsGameOver(), g.Winner)
	}

	eval := g.Evaluator()
	if !eval.Wins(g.Hand(1)) {
		t.Errorf("agent hand %v does not win", g.Hand(1))
	}
	// The discarded Three sits on the pile.
	if g.DiscardTop() != card(engine.SuitClubs, engine.RankThree) {
		t.Errorf("DiscardTop = %v, want the vacated Three", g.DiscardTop())
	}
}

// TestAgentDrawsWhenDiscardUseless verifies the draw path: an unhelpful
// discard top is left alone and the agent draws from the source instead.
func TestAgentDrawsWhenDiscardUseless(t *testing.T) {
	agentHand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitDiamonds, engine.RankKing),
		card(engine.SuitClubs, engine.RankNine),
		card(engine.SuitHearts, engine.RankJack),
	}
	g := setupGame(t, engine.DefaultRules(), humanJunk, agentHand)
	g.EndTurn()

	// A useless Two on the pile: taking it would only weaken the hand.
	g.DiscardPile[0] = card(engine.SuitHearts, engine.RankTwo)
	g.DiscardLen = 1
	g.LastDiscardBy = 0

	drawCard := card(engine.SuitSpades, engine.RankFour)
	src := engine.NewStackSource(drawCard)
	g.SourceRemaining = 1

	pileBefore := g.DiscardLen

	a := New(1)
	outcome, err := a.TakeTurn(context.Background(), g, src)
	if err != nil {
		t.Fatalf("TakeTurn: %v", err)
	}
	if outcome != engine.OutcomeMustDeclare {
		t.Fatalf("outcome = %s, want %s (drawn Four made three targets)", outcome, engine.OutcomeMustDeclare)
	}

	// Drew, didn't take: pile grew by the agent's own discard.
	if g.DiscardLen != pileBefore+1 {
		t.Errorf("DiscardLen = %d, want %d", g.DiscardLen, pileBefore+1)
	}
	found := false
	for _, c := range g.Hand(1) {
		if c == drawCard {
			found = true
		}
	}
	if !found {
		t.Errorf("drawn card %v not in agent hand %v", drawCard, g.Hand(1))
	}
	// The Nine was the cheapest slot to vacate; it must be the discard top.
	if g.DiscardTop() != card(engine.SuitClubs, engine.RankNine) {
		t.Errorf("DiscardTop = %v, want the vacated Nine", g.DiscardTop())
	}
	// Near-win was auto-declared and the turn ended.
	if !g.Players[1].Declared {
		t.Error("agent did not auto-declare its near-win")
	}
	if g.CurrentPlayer != 0 {
		t.Errorf("CurrentPlayer = %d, want 0 after agent turn", g.CurrentPlayer)
	}
}

// TestAgentIgnoresOwnDiscard verifies the self-pickup rule pushes the
// agent onto the draw path even when the top card looks attractive.
func TestAgentIgnoresOwnDiscard(t *testing.T) {
	agentHand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitClubs, engine.RankThree),
		card(engine.SuitDiamonds, engine.RankKing),
		card(engine.SuitHearts, engine.RankFour),
	}
	g := setupGame(t, engine.DefaultRules(), humanJunk, agentHand)
	g.EndTurn() // hand the turn to the agent

	// A Seven on the pile, but marked as the agent's own discard.
	g.DiscardPile[0] = card(engine.SuitHearts, engine.RankSeven)
	g.DiscardLen = 1
	g.LastDiscardBy = 1

	src := engine.NewStackSource(card(engine.SuitSpades, engine.RankJack))
	g.SourceRemaining = 1

	a := New(1)
	outcome, err := a.TakeTurn(context.Background(), g, src)
	if err != nil {
		t.Fatalf("TakeTurn: %v", err)
	}
	if outcome == engine.OutcomeWinNow {
		t.Fatal("agent won by taking its own discard")
	}
	if g.IsGameOver() {
		t.Fatal("game over after forbidden pickup")
	}
}

// TestAgentRollsBackOnDrawFailure verifies a dead source leaves the hand
// whole and the turn ended.
func TestAgentRollsBackOnDrawFailure(t *testing.T) {
	agentHand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitClubs, engine.RankThree),
		card(engine.SuitDiamonds, engine.RankKing),
		card(engine.SuitHearts, engine.RankFour),
	}
	g := setupGame(t, engine.DefaultRules(), humanJunk, agentHand)
	g.EndTurn()

	handBefore := append([]engine.Card{}, g.Hand(1)...)

	a := New(1)
	_, err := a.TakeTurn(context.Background(), g, nil)
	if err == nil {
		t.Fatal("TakeTurn with dead source succeeded")
	}
	if g.Players[1].HandLen != 4 {
		t.Fatalf("HandLen = %d, want 4 after rollback", g.Players[1].HandLen)
	}
	for i, c := range g.Hand(1) {
		if c != handBefore[i] {
			t.Errorf("hand[%d] = %v, want %v", i, c, handBefore[i])
		}
	}
	if g.CurrentPlayer != 0 {
		t.Errorf("CurrentPlayer = %d, want 0 (turn ended)", g.CurrentPlayer)
	}
}

// TestAgentDeterministic verifies identical setups yield identical turns.
func TestAgentDeterministic(t *testing.T) {
	run := func() ([]engine.Card, engine.Outcome) {
		agentHand := []engine.Card{
			card(engine.SuitHearts, engine.RankTwo),
			card(engine.SuitClubs, engine.RankSix),
			card(engine.SuitDiamonds, engine.RankTen),
			card(engine.SuitSpades, engine.RankQueen),
		}
		g := setupGame(t, engine.DefaultRules(), humanJunk, agentHand)
		g.EndTurn()
		src := engine.NewStackSource(card(engine.SuitSpades, engine.RankKing))
		g.SourceRemaining = 1

		a := New(1)
		outcome, err := a.TakeTurn(context.Background(), g, src)
		if err != nil {
			t.Fatalf("TakeTurn: %v", err)
		}
		return append([]engine.Card{}, g.Hand(1)...), outcome
	}

	h1, o1 := run()
	h2, o2 := run()
	if o1 != o2 {
		t.Fatalf("outcomes differ: %s vs %s", o1, o2)
	}
	for i := range h1 {
		if h1[i] != h2[i] {
			t.Fatalf("hands differ at %d: %v vs %v", i, h1[i], h2[i])
		}
	}
}

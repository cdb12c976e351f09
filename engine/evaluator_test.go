package engine

import "testing"

func card(suit, rank uint8) Card { return NewCard(suit, rank) }

func hand(cards ...Card) []Card { return cards }

// TestAK47Predicates covers the win/near-win table for AK47 mode.
func TestAK47Predicates(t *testing.T) {
	eval := EvaluatorFor(ModeAK47)

	cases := []struct {
		name    string
		hand    []Card
		win     bool
		nearWin bool
	}{
		{
			name:    "all four targets",
			hand:    hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankFour), card(SuitHearts, RankSeven)),
			win:     true,
			nearWin: false,
		},
		{
			name:    "three of four targets",
			hand:    hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankFour), card(SuitHearts, RankNine)),
			win:     false,
			nearWin: true,
		},
		{
			name:    "two targets only",
			hand:    hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankThree), card(SuitHearts, RankNine)),
			win:     false,
			nearWin: false,
		},
		{
			name:    "duplicate target counts once",
			hand:    hand(card(SuitSpades, RankAce), card(SuitHearts, RankAce), card(SuitClubs, RankKing), card(SuitHearts, RankFour)),
			win:     false,
			nearWin: true,
		},
	}
	for _, tc := range cases {
		if got := eval.Wins(tc.hand); got != tc.win {
			t.Errorf("%s: Wins = %v, want %v", tc.name, got, tc.win)
		}
		if got := eval.NearWin(tc.hand); got != tc.nearWin {
			t.Errorf("%s: NearWin = %v, want %v", tc.name, got, tc.nearWin)
		}
	}
}

// TestPairsPredicates covers the win/near-win table for Pairs mode.
func TestPairsPredicates(t *testing.T) {
	eval := EvaluatorFor(ModePairs)

	cases := []struct {
		name    string
		hand    []Card
		win     bool
		nearWin bool
	}{
		{
			name:    "two pairs",
			hand:    hand(card(SuitSpades, RankThree), card(SuitDiamonds, RankThree), card(SuitClubs, RankFive), card(SuitHearts, RankFive)),
			win:     true,
			nearWin: false,
		},
		{
			name:    "one pair two singles",
			hand:    hand(card(SuitSpades, RankThree), card(SuitDiamonds, RankThree), card(SuitClubs, RankFive), card(SuitHearts, RankNine)),
			win:     false,
			nearWin: true,
		},
		{
			name:    "four singles",
			hand:    hand(card(SuitSpades, RankTwo), card(SuitDiamonds, RankFive), card(SuitClubs, RankEight), card(SuitHearts, RankJack)),
			win:     false,
			nearWin: false,
		},
		{
			name:    "triple plus single is neither",
			hand:    hand(card(SuitSpades, RankThree), card(SuitDiamonds, RankThree), card(SuitClubs, RankThree), card(SuitHearts, RankNine)),
			win:     false,
			nearWin: false,
		},
		{
			name:    "quad is neither",
			hand:    hand(card(SuitSpades, RankThree), card(SuitDiamonds, RankThree), card(SuitClubs, RankThree), card(SuitHearts, RankThree)),
			win:     false,
			nearWin: false,
		},
	}
	for _, tc := range cases {
		if got := eval.Wins(tc.hand); got != tc.win {
			t.Errorf("%s: Wins = %v, want %v", tc.name, got, tc.win)
		}
		if got := eval.NearWin(tc.hand); got != tc.nearWin {
			t.Errorf("%s: NearWin = %v, want %v", tc.name, got, tc.nearWin)
		}
	}
}

// TestSequencePredicates covers the win/near-win table for Sequence mode.
func TestSequencePredicates(t *testing.T) {
	eval := EvaluatorFor(ModeSequence)

	cases := []struct {
		name    string
		hand    []Card
		win     bool
		nearWin bool
	}{
		{
			name:    "five six seven eight",
			hand:    hand(card(SuitSpades, RankFive), card(SuitDiamonds, RankSix), card(SuitClubs, RankSeven), card(SuitHearts, RankEight)),
			win:     true,
			nearWin: false,
		},
		{
			name:    "unsorted input still wins",
			hand:    hand(card(SuitHearts, RankEight), card(SuitSpades, RankFive), card(SuitClubs, RankSeven), card(SuitDiamonds, RankSix)),
			win:     true,
			nearWin: false,
		},
		{
			name:    "three-run low",
			hand:    hand(card(SuitSpades, RankFive), card(SuitDiamonds, RankSix), card(SuitClubs, RankSeven), card(SuitHearts, RankNine)),
			win:     false,
			nearWin: true,
		},
		{
			name:    "three-run high",
			hand:    hand(card(SuitSpades, RankTwo), card(SuitDiamonds, RankSeven), card(SuitClubs, RankEight), card(SuitHearts, RankNine)),
			win:     false,
			nearWin: true,
		},
		{
			name:    "queen king ace tops out",
			hand:    hand(card(SuitSpades, RankQueen), card(SuitDiamonds, RankKing), card(SuitClubs, RankAce), card(SuitHearts, RankTwo)),
			win:     false,
			nearWin: true,
		},
		{
			name:    "no run",
			hand:    hand(card(SuitSpades, RankTwo), card(SuitDiamonds, RankFive), card(SuitClubs, RankEight), card(SuitHearts, RankJack)),
			win:     false,
			nearWin: false,
		},
		{
			name:    "pair plus run keeps the three-window",
			hand:    hand(card(SuitSpades, RankFive), card(SuitDiamonds, RankFive), card(SuitClubs, RankSix), card(SuitHearts, RankSeven)),
			win:     false,
			nearWin: true,
		},
		{
			name:    "two pairs have no three-window",
			hand:    hand(card(SuitSpades, RankFive), card(SuitDiamonds, RankFive), card(SuitClubs, RankSix), card(SuitHearts, RankSix)),
			win:     false,
			nearWin: false,
		},
	}
	for _, tc := range cases {
		if got := eval.Wins(tc.hand); got != tc.win {
			t.Errorf("%s: Wins = %v, want %v", tc.name, got, tc.win)
		}
		if got := eval.NearWin(tc.hand); got != tc.nearWin {
			t.Errorf("%s: NearWin = %v, want %v", tc.name, got, tc.nearWin)
		}
	}
}

// TestWinNearWinExclusive sweeps random hands in every mode and checks the
// two predicates are never simultaneously true.
func TestWinNearWinExclusive(t *testing.T) {
	deck := FullDeck()
	rng := uint64(99)
	next := func() uint64 {
		rng ^= rng << 13
		rng ^= rng >> 7
		rng ^= rng << 17
		return rng
	}

	modes := []WinMode{ModeAK47, ModePairs, ModeSequence}
	for i := 0; i < 2000; i++ {
		// Draw 4 distinct indices.
		var h [4]Card
		used := map[int]bool{}
		for j := 0; j < 4; {
			k := int(next() % 52)
			if used[k] {
				continue
			}
			used[k] = true
			h[j] = deck[k]
			j++
		}
		for _, mode := range modes {
			eval := EvaluatorFor(mode)
			if eval.Wins(h[:]) && eval.NearWin(h[:]) {
				t.Fatalf("mode %s: hand %v both win and near-win", mode, h)
			}
		}
	}
}

// TestScoreOrdering verifies the scoring properties the opponent policy
// relies on: a win dominates, and structural progress beats rank noise.
func TestScoreOrdering(t *testing.T) {
	eval := EvaluatorFor(ModeAK47)

	win := hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankFour), card(SuitHearts, RankSeven))
	three := hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankFour), card(SuitHearts, RankNine))
	two := hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankThree), card(SuitHearts, RankNine))

	if !(eval.Score(win) > eval.Score(three)) {
		t.Error("win should outscore three targets")
	}
	if !(eval.Score(three) > eval.Score(two)) {
		t.Error("three targets should outscore two")
	}

	// Rank tie-break: same structure, higher ranks score higher but by
	// less than one structural step.
	lowJunk := hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankFour), card(SuitHearts, RankTwo))
	highJunk := hand(card(SuitSpades, RankAce), card(SuitDiamonds, RankKing), card(SuitClubs, RankFour), card(SuitHearts, RankQueen))
	dLow, dHigh := eval.Score(lowJunk), eval.Score(highJunk)
	if !(dHigh > dLow) {
		t.Error("higher junk rank should tie-break upward")
	}
	if dHigh-dLow >= DefaultWeights.TargetRank {
		t.Error("rank tie-break should stay below one target-rank bonus")
	}

	pairEval := EvaluatorFor(ModePairs)
	onePair := hand(card(SuitSpades, RankThree), card(SuitDiamonds, RankThree), card(SuitClubs, RankFive), card(SuitHearts, RankNine))
	noPair := hand(card(SuitSpades, RankThree), card(SuitDiamonds, RankSix), card(SuitClubs, RankFive), card(SuitHearts, RankNine))
	if !(pairEval.Score(onePair) > pairEval.Score(noPair)) {
		t.Error("a pair should outscore no pair")
	}

	seqEval := EvaluatorFor(ModeSequence)
	run3 := hand(card(SuitSpades, RankFive), card(SuitDiamonds, RankSix), card(SuitClubs, RankSeven), card(SuitHearts, RankJack))
	run2 := hand(card(SuitSpades, RankFive), card(SuitDiamonds, RankSix), card(SuitClubs, RankNine), card(SuitHearts, RankJack))
	if !(seqEval.Score(run3) > seqEval.Score(run2)) {
		t.Error("a 3-run should outscore a 2-run")
	}
}

// TestEvaluatorPure verifies evaluation does not mutate the hand.
func TestEvaluatorPure(t *testing.T) {
	h := hand(card(SuitHearts, RankNine), card(SuitSpades, RankTwo), card(SuitClubs, RankKing), card(SuitDiamonds, RankFive))
	want := make([]Card, len(h))
	copy(want, h)

	for _, mode := range []WinMode{ModeAK47, ModePairs, ModeSequence} {
		eval := EvaluatorFor(mode)
		for i := 0; i < 3; i++ {
			eval.Wins(h)
			eval.NearWin(h)
			eval.Score(h)
		}
	}
	for i := range h {
		if h[i] != want[i] {
			t.Fatalf("hand mutated at %d: %v, want %v", i, h[i], want[i])
		}
	}
}

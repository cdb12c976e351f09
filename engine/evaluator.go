package engine

// Evaluator computes win, near-win and heuristic score for a hand under one
// win mode. Implementations are stateless: calls never mutate the hand and
// are deterministic given the same cards.
//
// Wins and NearWin are mutually exclusive — a winning hand is never also
// reported as a near-win.
type Evaluator interface {
	Mode() WinMode
	Wins(hand []Card) bool
	NearWin(hand []Card) bool
	Score(hand []Card) float64
}

// EvaluatorFor returns the strategy for the given win mode.
// Unknown modes fall back to AK47.
func EvaluatorFor(mode WinMode) Evaluator {
	switch mode {
	case ModePairs:
		return pairsEvaluator{}
	case ModeSequence:
		return sequenceEvaluator{}
	default:
		return ak47Evaluator{}
	}
}

// ScoreWeights tune the heuristic hand scoring used by the opponent policy.
type ScoreWeights struct {
	Win        float64 // flat score for a confirmed win; dominates everything else
	TargetRank float64 // AK47: per target rank present
	Pair       float64 // pairs: per rank appearing exactly twice
	Run3       float64 // sequence: per 3-card consecutive run
	Run2       float64 // sequence: per 2-card consecutive run
	RankUnit   float64 // all modes: per point of rank order, tie-breaks toward high cards
}

// DefaultWeights keeps the rank tie-break strictly below a single structural
// bonus so it never overrides a pattern improvement.
var DefaultWeights = ScoreWeights{
	Win:        1000,
	TargetRank: 30,
	Pair:       50,
	Run3:       40,
	Run2:       15,
	RankUnit:   0.1,
}

// rankCounts tallies how many cards of each rank the hand holds.
func rankCounts(hand []Card) [13]uint8 {
	var counts [13]uint8
	for _, c := range hand {
		if c != EmptyCard {
			counts[c.Rank()]++
		}
	}
	return counts
}

// sortedOrders returns the hand's rank orders in ascending order.
func sortedOrders(hand []Card) []int {
	orders := make([]int, 0, len(hand))
	for _, c := range hand {
		if c != EmptyCard {
			orders = append(orders, c.Order())
		}
	}
	// insertion sort; hands are at most 4 cards
	for i := 1; i < len(orders); i++ {
		for j := i; j > 0 && orders[j] < orders[j-1]; j-- {
			orders[j], orders[j-1] = orders[j-1], orders[j]
		}
	}
	return orders
}

func orderSum(hand []Card) float64 {
	sum := 0
	for _, c := range hand {
		if c != EmptyCard {
			sum += c.Order()
		}
	}
	return float64(sum)
}

// ---------------------------------------------------------------------------
// AK47 mode
// ---------------------------------------------------------------------------

// ak47Targets are the ranks a hand must collect to win.
var ak47Targets = [4]uint8{RankAce, RankKing, RankFour, RankSeven}

type ak47Evaluator struct{}

func (ak47Evaluator) Mode() WinMode { return ModeAK47 }

// matchedTargets counts how many distinct target ranks the hand contains.
// Duplicates of a target rank count once.
func (ak47Evaluator) matchedTargets(hand []Card) int {
	counts := rankCounts(hand)
	n := 0
	for _, r := range ak47Targets {
		if counts[r] > 0 {
			n++
		}
	}
	return n
}

func (e ak47Evaluator) Wins(hand []Card) bool {
	return e.matchedTargets(hand) == 4
}

func (e ak47Evaluator) NearWin(hand []Card) bool {
	return e.matchedTargets(hand) == 3
}

func (e ak47Evaluator) Score(hand []Card) float64 {
	if e.Wins(hand) {
		return DefaultWeights.Win
	}
	return DefaultWeights.TargetRank*float64(e.matchedTargets(hand)) +
		DefaultWeights.RankUnit*orderSum(hand)
}

// ---------------------------------------------------------------------------
// Pairs mode
// ---------------------------------------------------------------------------

type pairsEvaluator struct{}

func (pairsEvaluator) Mode() WinMode { return ModePairs }

// pairProfile partitions the hand's ranks into exact pairs and singletons.
// Ranks appearing three or four times count as neither.
func (pairsEvaluator) pairProfile(hand []Card) (pairs, singles int) {
	counts := rankCounts(hand)
	for _, n := range counts {
		switch n {
		case 2:
			pairs++
		case 1:
			singles++
		}
	}
	return pairs, singles
}

func (e pairsEvaluator) Wins(hand []Card) bool {
	pairs, _ := e.pairProfile(hand)
	return pairs == 2
}

func (e pairsEvaluator) NearWin(hand []Card) bool {
	pairs, singles := e.pairProfile(hand)
	return pairs == 1 && singles == 2
}

func (e pairsEvaluator) Score(hand []Card) float64 {
	if e.Wins(hand) {
		return DefaultWeights.Win
	}
	counts := rankCounts(hand)
	score := 0.0
	for rank, n := range counts {
		switch n {
		case 2:
			score += DefaultWeights.Pair
		case 1:
			score += DefaultWeights.RankUnit * float64(rank+2)
		}
	}
	return score
}

// ---------------------------------------------------------------------------
// Sequence mode
// ---------------------------------------------------------------------------

type sequenceEvaluator struct{}

func (sequenceEvaluator) Mode() WinMode { return ModeSequence }

// contiguous reports whether orders[from:from+n] is a strictly consecutive run.
func contiguous(orders []int, from, n int) bool {
	for i := from + 1; i < from+n; i++ {
		if orders[i] != orders[i-1]+1 {
			return false
		}
	}
	return true
}

func (sequenceEvaluator) Wins(hand []Card) bool {
	orders := sortedOrders(hand)
	return len(orders) == 4 && contiguous(orders, 0, 4)
}

func (e sequenceEvaluator) NearWin(hand []Card) bool {
	orders := sortedOrders(hand)
	if len(orders) != 4 || contiguous(orders, 0, 4) {
		return false
	}
	return contiguous(orders, 0, 3) || contiguous(orders, 1, 3)
}

func (e sequenceEvaluator) Score(hand []Card) float64 {
	if e.Wins(hand) {
		return DefaultWeights.Win
	}
	orders := sortedOrders(hand)
	score := DefaultWeights.RankUnit * orderSum(hand)
	for i := 0; i+2 < len(orders); i++ {
		if contiguous(orders, i, 3) {
			score += DefaultWeights.Run3
		}
	}
	for i := 0; i+1 < len(orders); i++ {
		if contiguous(orders, i, 2) {
			score += DefaultWeights.Run2
		}
	}
	return score
}

package engine

// WinMode selects which hand pattern governs win and near-win checks.
type WinMode string

const (
	// ModeAK47 wins on a hand containing all of Ace, King, Four, Seven.
	ModeAK47 WinMode = "ak47"
	// ModePairs wins on a hand of exactly two rank-pairs.
	ModePairs WinMode = "pairs"
	// ModeSequence wins on four contiguous ranks.
	ModeSequence WinMode = "sequence"
)

// Rules holds configurable game rule settings.
type Rules struct {
	WinMode        WinMode
	CardsPerPlayer uint8
	NumPlayers     uint8 // 0 treated as 2
}

// DefaultRules returns the standard AK47 rules.
func DefaultRules() Rules {
	return Rules{
		WinMode:        ModeAK47,
		CardsPerPlayer: 4,
		NumPlayers:     2,
	}
}

// numPlayers returns the effective number of players, treating 0 as 2.
func (r *Rules) numPlayers() uint8 {
	if r.NumPlayers == 0 {
		return 2
	}
	return r.NumPlayers
}

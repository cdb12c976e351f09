package engine

import (
	"context"
	"errors"
)

// Sentinel errors surfaced by draw and deal operations.
var (
	// ErrEmptyDrawSource is returned when neither the local reshuffled
	// pile nor the external source has a card left. The caller must
	// attempt ReshuffleDiscardToDraw or end the turn without replacing.
	ErrEmptyDrawSource = errors.New("draw source exhausted")
	// ErrShortDeal is returned when the source cannot supply enough
	// cards for the initial hands.
	ErrShortDeal = errors.New("not enough cards to deal")
)

// CardSource supplies a shuffled sequence of cards. The remote deck API and
// the in-memory test source both implement it; the engine never cares which.
//
// Draw returns the drawn cards and the source's remaining count. It must
// return an error (not a short read) when count cards are unavailable.
type CardSource interface {
	Draw(ctx context.Context, count int) ([]Card, int, error)
}

// StackSource is a deterministic in-memory CardSource. Cards are drawn in
// the exact order given, which makes engine and agent tests reproducible.
type StackSource struct {
	cards []Card
	pos   int
}

// NewStackSource returns a source that deals the given cards front to back.
func NewStackSource(cards ...Card) *StackSource {
	return &StackSource{cards: cards}
}

// NewShuffledSource returns a full 52-card deck shuffled with the given
// seed (Fisher–Yates over xorshift64). Seed 0 is corrected to 1.
func NewShuffledSource(seed uint64) *StackSource {
	if seed == 0 {
		seed = 1
	}
	deck := FullDeck()
	rng := seed
	next := func() uint64 {
		rng ^= rng << 13
		rng ^= rng >> 7
		rng ^= rng << 17
		return rng
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := int(next() % uint64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return &StackSource{cards: deck}
}

// Remaining returns how many cards are left undrawn.
func (s *StackSource) Remaining() int { return len(s.cards) - s.pos }

// Draw implements CardSource.
func (s *StackSource) Draw(_ context.Context, count int) ([]Card, int, error) {
	if count <= 0 {
		return nil, s.Remaining(), nil
	}
	if s.Remaining() < count {
		return nil, s.Remaining(), ErrEmptyDrawSource
	}
	out := make([]Card, count)
	copy(out, s.cards[s.pos:s.pos+count])
	s.pos += count
	return out, s.Remaining(), nil
}

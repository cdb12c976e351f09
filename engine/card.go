// Package engine implements the AK47 card game rules.
//
// The package is pure: it holds the authoritative game state and the
// draw/discard/declare turn protocol, but performs no I/O of its own.
// Cards enter the game only through an injected CardSource.
package engine

// Suit constants — packed into upper 4 bits of Card.
const (
	SuitHearts   uint8 = 0
	SuitDiamonds uint8 = 1
	SuitClubs    uint8 = 2
	SuitSpades   uint8 = 3
)

// Rank constants — packed into lower 4 bits of Card.
const (
	RankTwo   uint8 = 0
	RankThree uint8 = 1
	RankFour  uint8 = 2
	RankFive  uint8 = 3
	RankSix   uint8 = 4
	RankSeven uint8 = 5
	RankEight uint8 = 6
	RankNine  uint8 = 7
	RankTen   uint8 = 8
	RankJack  uint8 = 9
	RankQueen uint8 = 10
	RankKing  uint8 = 11
	RankAce   uint8 = 12
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// Order returns the card's position in the total rank order used for
// sequence checks: Two → 2 ... Ten → 10, Jack → 11, Queen → 12,
// King → 13, Ace → 14. Ace is always high; there is no wraparound.
func (c Card) Order() int {
	return int(c.Rank()) + 2
}

var rankCodes = [13]byte{'2', '3', '4', '5', '6', '7', '8', '9', '0', 'J', 'Q', 'K', 'A'}
var suitCodes = [4]byte{'H', 'D', 'C', 'S'}

// Code returns the two-character card code used by the deck API,
// e.g. "AS" for the ace of spades and "0D" for the ten of diamonds.
func (c Card) Code() string {
	if c == EmptyCard || c.Rank() > RankAce || c.Suit() > SuitSpades {
		return "??"
	}
	return string([]byte{rankCodes[c.Rank()], suitCodes[c.Suit()]})
}

var rankNames = [13]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
var suitNames = [4]string{"♥", "♦", "♣", "♠"}

// String renders the card for display, e.g. "A♠".
func (c Card) String() string {
	if c == EmptyCard || c.Rank() > RankAce || c.Suit() > SuitSpades {
		return "??"
	}
	return rankNames[c.Rank()] + suitNames[c.Suit()]
}

// ParseCode converts a deck-API card code back into a Card.
// Returns EmptyCard and false for codes it does not recognize.
func ParseCode(code string) (Card, bool) {
	if len(code) != 2 {
		return EmptyCard, false
	}
	var rank, suit uint8 = 0xFF, 0xFF
	for i, b := range rankCodes {
		if code[0] == b {
			rank = uint8(i)
			break
		}
	}
	for i, b := range suitCodes {
		if code[1] == b {
			suit = uint8(i)
			break
		}
	}
	if rank == 0xFF || suit == 0xFF {
		return EmptyCard, false
	}
	return NewCard(suit, rank), true
}

// FullDeck returns the 52 cards of a standard deck in a fixed order.
func FullDeck() []Card {
	deck := make([]Card, 0, 52)
	for suit := uint8(0); suit <= SuitSpades; suit++ {
		for rank := RankTwo; rank <= RankAce; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

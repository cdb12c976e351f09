package game

import (
	"github.com/google/uuid"

	"github.com/Walshwade-dev/ak47/engine"
)

// CardView is a card as the UI sees it. The ID is stable for the lifetime
// of a session so clients can animate a card moving between zones.
type CardView struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Rank string    `json:"rank"`
	Suit string    `json:"suit"`
}

// PlayerView is one seat's state within a snapshot. Hands are fully
// revealed: this is a local game, all state is visible.
type PlayerView struct {
	Index       int        `json:"index"`
	Hand        []CardView `json:"hand"`
	HandSize    int        `json:"handSize"`
	Declared    bool       `json:"declared"`
	MustDeclare bool       `json:"mustDeclare"`
	// ShowDeclare is the declare-button visibility rule.
	ShowDeclare   bool `json:"showDeclare"`
	PenaltyActive bool `json:"penaltyActive"`
	IsCurrentTurn bool `json:"isCurrentTurn"`
}

// SelectionView mirrors the pending discard selection.
type SelectionView struct {
	PlayerIndex int `json:"playerIndex"`
	SlotIndex   int `json:"slotIndex"`
}

// Snapshot is the read-only view of a session emitted after every mutating
// operation. The UI renders snapshots and never reads engine state directly.
type Snapshot struct {
	SessionID     uuid.UUID      `json:"sessionId"`
	WinMode       engine.WinMode `json:"winMode"`
	Started       bool           `json:"started"`
	GameOver      bool           `json:"gameOver"`
	Winner        int            `json:"winner"` // seat index, -1 while undecided
	CurrentPlayer int            `json:"currentPlayer"`
	TurnNumber    int            `json:"turnNumber"`
	Players       []PlayerView   `json:"players"`
	DiscardTop    *CardView      `json:"discardTop,omitempty"`
	DiscardSize   int            `json:"discardSize"`

	// CanTakeDiscard is false when the pile is empty or the top card was
	// discarded by the current player this cycle.
	CanTakeDiscard bool           `json:"canTakeDiscard"`
	DrawRemaining  int            `json:"drawRemaining"`
	Selected       *SelectionView `json:"selected,omitempty"`

	// LastOutcome is the result of the most recent turn resolution, empty
	// before the first one.
	LastOutcome engine.Outcome `json:"lastOutcome,omitempty"`
}

var rankLabels = [13]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
var suitLabels = [4]string{"hearts", "diamonds", "clubs", "spades"}

func rankToString(rank uint8) string {
	if int(rank) >= len(rankLabels) {
		return "?"
	}
	return rankLabels[rank]
}

func suitToString(suit uint8) string {
	if int(suit) >= len(suitLabels) {
		return "?"
	}
	return suitLabels[suit]
}

// cardView builds the UI view of a card, minting its session-stable ID on
// first sight. Assumes the session lock is held.
func (s *Session) cardView(c engine.Card) CardView {
	id, ok := s.cardIDs[c]
	if !ok {
		id = uuid.New()
		s.cardIDs[c] = id
	}
	return CardView{
		ID:   id,
		Code: c.Code(),
		Rank: rankToString(c.Rank()),
		Suit: suitToString(c.Suit()),
	}
}

// buildSnapshot assembles the current view. Assumes the session lock is held.
func (s *Session) buildSnapshot() Snapshot {
	g := &s.state
	snap := Snapshot{
		SessionID:     s.ID,
		WinMode:       g.Rules.WinMode,
		Started:       s.started,
		GameOver:      g.IsGameOver(),
		Winner:        int(g.Winner),
		CurrentPlayer: int(g.CurrentPlayer),
		TurnNumber:    int(g.TurnNumber),
		DiscardSize:   int(g.DiscardLen),
		DrawRemaining: g.DrawRemaining(),
		LastOutcome:   s.lastOutcome,
	}

	if top := g.DiscardTop(); top != engine.EmptyCard {
		cv := s.cardView(top)
		snap.DiscardTop = &cv
		snap.CanTakeDiscard = g.LastDiscardBy != int8(g.CurrentPlayer)
	}
	if g.Selected.Active {
		snap.Selected = &SelectionView{
			PlayerIndex: int(g.Selected.PlayerID),
			SlotIndex:   int(g.Selected.Index),
		}
	}

	snap.Players = make([]PlayerView, engine.MaxPlayers)
	for i := range snap.Players {
		p := &g.Players[i]
		pv := PlayerView{
			Index:         i,
			HandSize:      int(p.HandLen),
			Declared:      p.Declared,
			MustDeclare:   p.MustDeclare,
			ShowDeclare:   p.MustDeclare && !p.Declared,
			PenaltyActive: !p.CanWinNextTurn,
			IsCurrentTurn: int(g.CurrentPlayer) == i && s.started && !g.IsGameOver(),
		}
		pv.Hand = make([]CardView, p.HandLen)
		for j, c := range g.Hand(uint8(i)) {
			pv.Hand[j] = s.cardView(c)
		}
		snap.Players[i] = pv
	}
	return snap
}

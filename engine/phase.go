package engine

// TurnPhase describes where in the select → discard → replace sequence the
// acting player currently is. It is derived from state, never stored, and
// drives which operations a UI should offer.
type TurnPhase uint8

const (
	// PhaseIdle: no selection pending; the player may select a card or
	// take the discard top.
	PhaseIdle TurnPhase = iota
	// PhaseSelected: a slot is selected but the hand is still whole.
	PhaseSelected
	// PhaseDiscarded: the selected card is on the pile; the hand holds
	// three cards awaiting a replacement.
	PhaseDiscarded
	// PhaseTerminal: the game is over.
	PhaseTerminal
)

// Phase returns the current turn phase for the acting player.
func (g *GameState) Phase() TurnPhase {
	if g.IsGameOver() {
		return PhaseTerminal
	}
	if !g.Selected.Active {
		return PhaseIdle
	}
	if g.Players[g.Selected.PlayerID].HandLen < g.Rules.CardsPerPlayer {
		return PhaseDiscarded
	}
	return PhaseSelected
}

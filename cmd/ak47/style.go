package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/Walshwade-dev/ak47/engine"
	"github.com/Walshwade-dev/ak47/internal/game"
)

// cardLabel renders one card with suit colouring: red suits red, black
// suits default.
func cardLabel(c game.CardView) string {
	label := c.Rank + suitSymbol(c.Suit)
	if c.Suit == "hearts" || c.Suit == "diamonds" {
		return pterm.LightRed(label)
	}
	return label
}

func suitSymbol(suit string) string {
	switch suit {
	case "hearts":
		return "♥"
	case "diamonds":
		return "♦"
	case "clubs":
		return "♣"
	case "spades":
		return "♠"
	default:
		return "?"
	}
}

func handString(cards []game.CardView) string {
	labels := make([]string, len(cards))
	for i, c := range cards {
		labels[i] = cardLabel(c)
	}
	return strings.Join(labels, "  ")
}

// hiddenHandString renders card backs; the terminal client keeps the
// opponent's hand face down even though the snapshot carries it.
func hiddenHandString(n int) string {
	return strings.TrimSpace(strings.Repeat("▒▒ ", n))
}

func playerStatus(p game.PlayerView) string {
	var parts []string
	if p.IsCurrentTurn {
		parts = append(parts, pterm.LightGreen("to move"))
	}
	if p.Declared {
		parts = append(parts, pterm.LightYellow("declared"))
	} else if p.MustDeclare {
		parts = append(parts, pterm.LightYellow("must declare"))
	}
	if p.PenaltyActive {
		parts = append(parts, pterm.LightRed("penalty"))
	}
	if len(parts) == 0 {
		return "waiting"
	}
	return strings.Join(parts, ", ")
}

func printState(snap game.Snapshot) {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)

	opp := snap.Players[1]
	oppPanel := pterm.Panel{Data: pbox.
		WithTitle("Opponent").WithTitleTopLeft().
		Sprintf("%s\n%s\n", hiddenHandString(opp.HandSize), playerStatus(opp))}

	pileInfo := fmt.Sprintf("Discard top: %s   (pile: %d)\nDeck remaining: %d\nTurn %d — mode %s",
		discardTopLabel(snap), snap.DiscardSize, snap.DrawRemaining, snap.TurnNumber, snap.WinMode)
	tablePanel := pterm.Panel{Data: pbox.
		WithTitle(pterm.LightYellow("|TABLE|")).WithTitleTopCenter().
		Sprint(pileInfo)}

	you := snap.Players[0]
	youPanel := pterm.Panel{Data: pterm.DefaultBox.
		WithLeftPadding(10).WithRightPadding(10).WithTopPadding(1).WithBottomPadding(1).
		WithTitle("You").WithTitleTopLeft().
		Sprintf("%s\n%s\n", handString(you.Hand), playerStatus(you))}

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{oppPanel},
		{tablePanel},
		{youPanel},
	}).Render()
}

func discardTopLabel(snap game.Snapshot) string {
	if snap.DiscardTop == nil {
		return "—"
	}
	label := cardLabel(*snap.DiscardTop)
	if !snap.CanTakeDiscard {
		label += pterm.Gray(" (yours)")
	}
	return label
}

func printOutcome(outcome engine.Outcome) {
	switch outcome {
	case engine.OutcomeMustDeclare:
		pterm.Warning.Println("One card away from winning.")
	case engine.OutcomePenaltyActive:
		pterm.Warning.Println("Winning hand, but the declare penalty blocks it this turn.")
	case engine.OutcomeWinNow:
		pterm.Success.Println("Winning hand!")
	}
}

func printWinnerPanel(snap game.Snapshot) {
	pbox := pterm.DefaultBox.WithLeftPadding(6).WithRightPadding(6).WithTopPadding(1).WithBottomPadding(1)
	var msg string
	switch snap.Winner {
	case 0:
		msg = pterm.LightGreen("You win!") + "\nHand: " + handString(snap.Players[0].Hand)
	case 1:
		msg = pterm.LightRed("The opponent wins.") + "\nTheir hand: " + handString(snap.Players[1].Hand)
	default:
		msg = "Game over."
	}
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{{
		{Data: pbox.WithTitle(pterm.LightGreen("|GAME OVER|")).WithTitleTopCenter().Sprint(msg)},
	}}).Render()
}

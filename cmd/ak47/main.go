// Command ak47 plays the AK47 card game. By default it runs an interactive
// terminal game against the computer; "ak47 serve" instead exposes the
// session over the WebSocket gateway for an external UI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/sirupsen/logrus"

	"github.com/Walshwade-dev/ak47/engine"
	"github.com/Walshwade-dev/ak47/internal/config"
	"github.com/Walshwade-dev/ak47/internal/deckapi"
	"github.com/Walshwade-dev/ak47/internal/game"
	"github.com/Walshwade-dev/ak47/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)

	serveMode := len(os.Args) > 1 && os.Args[1] == "serve"
	if !serveMode {
		// Engine logs would tear the terminal UI; keep them out of the way.
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.WarnLevel)
	}

	session, err := game.NewSession(game.Options{
		WinMode:    cfg.WinMode,
		ThinkDelay: cfg.ThinkDelay,
		NewSource:  sourceFactory(cfg, log),
		Logger:     log,
	})
	if err != nil {
		log.WithError(err).Fatal("create session")
	}
	defer session.Close()

	if serveMode {
		runServer(cfg, session, log)
		return
	}
	runTerminal(cfg, session)
}

// sourceFactory picks the remote deck API when configured, else a locally
// shuffled in-memory deck.
func sourceFactory(cfg config.Config, log *logrus.Logger) game.SourceFactory {
	if cfg.DeckAPIBaseURL == "" {
		return func(context.Context) (engine.CardSource, error) {
			return engine.NewShuffledSource(uint64(time.Now().UnixNano())), nil
		}
	}
	httpClient := &http.Client{Timeout: cfg.DeckAPITimeout}
	return func(ctx context.Context) (engine.CardSource, error) {
		client := deckapi.NewClient(httpClient, cfg.DeckAPIBaseURL, log)
		if err := client.NewDeck(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}
}

func runServer(cfg config.Config, session *game.Session, log *logrus.Logger) {
	srv := server.New(session, log)
	if err := session.Start(context.Background()); err != nil {
		log.WithError(err).Fatal("start game")
	}
	log.WithField("addr", cfg.ListenAddr).Info("gateway listening")
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		log.WithError(err).Fatal("gateway stopped")
	}
}

func runTerminal(cfg config.Config, session *game.Session) {
	ctx := context.Background()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("AK", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("47", pterm.FgDarkGray.ToStyle()),
	).Render()
	pterm.Info.Printfln("Win mode: %s", cfg.WinMode)

	spinner, _ := pterm.DefaultSpinner.Start("Dealing cards ...")
	if err := session.Start(ctx); err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	spinner.Success()

	for {
		snap := session.Snapshot()
		printState(snap)

		if snap.GameOver {
			printWinnerPanel(snap)
			if !promptRematch() {
				return
			}
			if err := session.HandleAction(ctx, game.Action{Type: game.ActionRestart}); err != nil {
				pterm.Error.Printfln("Restart failed: %v", err)
				return
			}
			continue
		}

		if snap.CurrentPlayer != 0 {
			waitForOpponent(session)
			continue
		}

		if err := playHumanTurn(ctx, session, snap); err != nil {
			pterm.Error.Printfln("Turn failed: %v", err)
		}
	}
}

// playHumanTurn walks one full turn: pick a slot, discard it, choose the
// replacement source, then declare or pass.
func playHumanTurn(ctx context.Context, session *game.Session, snap game.Snapshot) error {
	hand := snap.Players[0].Hand

	options := make([]string, len(hand))
	for i, c := range hand {
		options[i] = cardLabel(c)
	}
	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Choose a card to discard").
		WithOptions(options).
		Show()
	idx := 0
	for i, o := range options {
		if o == choice {
			idx = i
			break
		}
	}

	if err := session.HandleAction(ctx, game.Action{Type: game.ActionSelect, Index: idx}); err != nil {
		return err
	}

	replaceOpts := []string{"Discard it and draw from the deck"}
	if snap.CanTakeDiscard && snap.DiscardTop != nil {
		replaceOpts = append(replaceOpts, "Swap it for "+cardLabel(*snap.DiscardTop)+" from the discard pile")
	}
	replace, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("What next?").
		WithOptions(replaceOpts).
		Show()

	if replace == replaceOpts[0] {
		if err := session.HandleAction(ctx, game.Action{Type: game.ActionDiscard}); err != nil {
			return err
		}
		if err := session.HandleAction(ctx, game.Action{Type: game.ActionDraw}); err != nil {
			return err
		}
	} else {
		if err := session.HandleAction(ctx, game.Action{Type: game.ActionTakeDiscard}); err != nil {
			return err
		}
	}

	snap = session.Snapshot()
	printOutcome(snap.LastOutcome)

	if snap.Players[0].ShowDeclare {
		declare, _ := pterm.DefaultInteractiveConfirm.
			WithDefaultText("You are one card away. Declare it?").
			WithDefaultValue(true).
			Show()
		if declare {
			if err := session.HandleAction(ctx, game.Action{Type: game.ActionDeclare}); err != nil {
				return err
			}
			pterm.Success.Println("Declared.")
		} else {
			pterm.Warning.Println("Not declaring — a win next turn will be blocked.")
		}
	}

	if snap.GameOver {
		return nil
	}
	return session.HandleAction(ctx, game.Action{Type: game.ActionEndTurn})
}

// waitForOpponent spins until the computer's think delay has elapsed and
// the turn is back with the human (or the game ended).
func waitForOpponent(session *game.Session) {
	spinner, _ := pterm.DefaultSpinner.Start("Opponent is thinking ...")
	for {
		time.Sleep(50 * time.Millisecond)
		snap := session.Snapshot()
		if snap.GameOver || snap.CurrentPlayer == 0 {
			break
		}
	}
	spinner.Success("Opponent moved")
}

func promptRematch() bool {
	again, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Play again?").
		WithDefaultValue(true).
		Show()
	return again
}

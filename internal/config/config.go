// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Walshwade-dev/ak47/engine"
)

type Config struct {
	// ListenAddr is the websocket gateway bind address.
	ListenAddr string
	// DeckAPIBaseURL points at a deckofcardsapi.com-compatible service.
	// Empty selects the local in-process shuffled source.
	DeckAPIBaseURL string
	DeckAPITimeout time.Duration
	WinMode        engine.WinMode
	// ThinkDelay is the opponent's artificial pause before acting.
	ThinkDelay time.Duration
	LogLevel   logrus.Level
}

// Load reads AK47_* variables, after sourcing .env when present. Missing
// variables fall back to defaults; malformed ones are errors.
func Load() (Config, error) {
	// A missing .env is the normal production case.
	_ = godotenv.Load()

	c := Config{
		ListenAddr:     envOr("AK47_LISTEN_ADDR", ":8421"),
		DeckAPIBaseURL: strings.TrimSpace(os.Getenv("AK47_DECK_API_URL")),
		DeckAPITimeout: 10 * time.Second,
		ThinkDelay:     400 * time.Millisecond,
	}

	mode, err := parseWinMode(envOr("AK47_WIN_MODE", string(engine.ModeAK47)))
	if err != nil {
		return Config{}, err
	}
	c.WinMode = mode

	if v := os.Getenv("AK47_DECK_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid AK47_DECK_API_TIMEOUT %q: %w", v, err)
		}
		c.DeckAPITimeout = d
	}

	if v := os.Getenv("AK47_THINK_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid AK47_THINK_DELAY %q: %w", v, err)
		}
		c.ThinkDelay = d
	}

	level, err := logrus.ParseLevel(envOr("AK47_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid AK47_LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseWinMode(s string) (engine.WinMode, error) {
	switch engine.WinMode(strings.ToLower(s)) {
	case engine.ModeAK47:
		return engine.ModeAK47, nil
	case engine.ModePairs:
		return engine.ModePairs, nil
	case engine.ModeSequence:
		return engine.ModeSequence, nil
	default:
		return "", fmt.Errorf("invalid AK47_WIN_MODE %q (want ak47, pairs or sequence)", s)
	}
}

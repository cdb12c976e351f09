// Package deckapi adapts a deckofcardsapi.com-compatible deck service to
// the engine's CardSource interface. A game session creates one shuffled
// remote deck up front and draws from it for the rest of the game; when
// the remote deck runs dry the engine falls back to its local reshuffle,
// never back to this package.
package deckapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Walshwade-dev/ak47/engine"
)

// Client talks to one remote deck. It is not safe for concurrent use; the
// game session serializes all draws.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry

	deckID    string
	remaining int
}

// shuffleResponse / drawResponse mirror the deck API's JSON shapes.
type shuffleResponse struct {
	Success   bool   `json:"success"`
	DeckID    string `json:"deck_id"`
	Remaining int    `json:"remaining"`
}

type drawResponse struct {
	Success   bool   `json:"success"`
	DeckID    string `json:"deck_id"`
	Remaining int    `json:"remaining"`
	Cards     []struct {
		Code string `json:"code"`
	} `json:"cards"`
}

// NewClient returns a client for the deck service at baseURL. No request
// is made until NewDeck.
func NewClient(httpClient *http.Client, baseURL string, log *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log.WithField("component", "deckapi"),
	}
}

// NewDeck creates and shuffles a fresh single remote deck, replacing any
// deck the client held before.
func (c *Client) NewDeck(ctx context.Context) error {
	var resp shuffleResponse
	if err := c.get(ctx, "/deck/new/shuffle/?deck_count=1", &resp); err != nil {
		return fmt.Errorf("new deck: %w", err)
	}
	if !resp.Success || resp.DeckID == "" {
		return fmt.Errorf("new deck: service reported failure")
	}
	c.deckID = resp.DeckID
	c.remaining = resp.Remaining
	c.log.WithFields(logrus.Fields{
		"deck_id":   resp.DeckID,
		"remaining": resp.Remaining,
	}).Info("remote deck shuffled")
	return nil
}

// DeckID returns the id of the current remote deck, empty before NewDeck.
func (c *Client) DeckID() string { return c.deckID }

// Remaining returns the card count reported by the last API response.
func (c *Client) Remaining() int { return c.remaining }

// Draw implements engine.CardSource. It maps an exhausted remote deck to
// engine.ErrEmptyDrawSource so the engine's reshuffle fallback engages.
func (c *Client) Draw(ctx context.Context, count int) ([]engine.Card, int, error) {
	if count <= 0 {
		return nil, c.remaining, nil
	}
	if c.deckID == "" {
		return nil, 0, fmt.Errorf("draw: no deck, call NewDeck first")
	}
	if c.remaining < count {
		return nil, c.remaining, engine.ErrEmptyDrawSource
	}

	path := fmt.Sprintf("/deck/%s/draw/?count=%d", url.PathEscape(c.deckID), count)
	var resp drawResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, c.remaining, fmt.Errorf("draw: %w", err)
	}
	c.remaining = resp.Remaining

	if !resp.Success {
		return nil, c.remaining, engine.ErrEmptyDrawSource
	}
	if len(resp.Cards) < count {
		// Short read: the service lied about its remaining count.
		c.log.WithFields(logrus.Fields{
			"want": count,
			"got":  len(resp.Cards),
		}).Warn("remote deck returned short draw")
		return nil, c.remaining, engine.ErrEmptyDrawSource
	}

	cards := make([]engine.Card, 0, count)
	for _, rc := range resp.Cards {
		card, ok := engine.ParseCode(rc.Code)
		if !ok {
			return nil, c.remaining, fmt.Errorf("draw: unrecognized card code %q", rc.Code)
		}
		cards = append(cards, card)
	}
	return cards, c.remaining, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

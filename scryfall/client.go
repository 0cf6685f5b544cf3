/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package scryfall is a small client for the Scryfall card data API.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikeb26/commanderraffle/internal"
	"golang.org/x/sync/errgroup"
)

var ErrCardNotFound = errors.New("card not found")

const (
	DefaultRandomCommanderQuery = "game:paper is:commander -t:background"
	defaultRandomTries          = 25
	lookupConcurrency           = 4
)

type Client struct {
	httpClient *http.Client
	baseURL    string

	// RandomCommanderQuery is the search used by RandomCommander
	RandomCommanderQuery string
}

// NewClient returns a client caching responses for a day, in S3 when
// cacheBucket is set and in memory otherwise.
func NewClient(ctx context.Context, cacheBucket string) *Client {
	return NewClientWithHTTP(internal.NewCachedHttpClient(ctx, cacheBucket,
		24*time.Hour), internal.ScryfallBase)
}

// NewClientWithHTTP returns a client using hc against baseURL.
func NewClientWithHTTP(hc *http.Client, baseURL string) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		httpClient:           hc,
		baseURL:              strings.TrimRight(baseURL, "/"),
		RandomCommanderQuery: DefaultRandomCommanderQuery,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values,
	out any) error {

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("unable to fetch scryfall %v (new): %w", path, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to fetch scryfall %v (do): %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrCardNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unable to fetch scryfall %v (http): %v", path,
			resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to parse scryfall %v: %w", path, err)
	}

	return nil
}

// CardByID looks up a card by its Scryfall id.
func (c *Client) CardByID(ctx context.Context, id string) (*Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrCardNotFound
	}
	var card Card
	if err := c.getJSON(ctx, "/cards/"+url.PathEscape(id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// NamedExact looks up a card by its exact name.
func (c *Client) NamedExact(ctx context.Context, name string) (*Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCardNotFound
	}
	var card Card
	err := c.getJSON(ctx, "/cards/named", url.Values{"exact": {name}}, &card)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

type searchResult struct {
	TotalCards int    `json:"total_cards"`
	Data       []Card `json:"data"`
}

// Search runs a card search with unique=cards.
func (c *Client) Search(ctx context.Context, q string) ([]Card, int, error) {
	var res searchResult
	err := c.getJSON(ctx, "/cards/search", url.Values{"q": {q}, "unique": {"cards"}},
		&res)
	if errors.Is(err, ErrCardNotFound) {
		// scryfall answers an empty search with 404
		return []Card{}, 0, nil
	} else if err != nil {
		return nil, 0, err
	}
	return res.Data, res.TotalCards, nil
}

// IsPartner reports whether the exactly named card has a partner ability.
func (c *Client) IsPartner(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	_, total, err := c.Search(ctx, fmt.Sprintf(`!"%v" is:partner`, name))
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// RandomCommander draws random commanders until one is not in exclude.
// A failed draw is retried; ErrCardNotFound is returned once the tries run
// out.
func (c *Client) RandomCommander(ctx context.Context,
	exclude map[string]bool) (*Card, error) {

	for try := 0; try < defaultRandomTries; try++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var card Card
		err := c.getJSON(ctx, "/cards/random",
			url.Values{"q": {c.RandomCommanderQuery}}, &card)
		if err != nil {
			log.Printf("scryfall.RandomCommander: draw %d failed: %v", try, err)
			continue
		}
		id := strings.TrimSpace(card.ID)
		if id == "" || strings.TrimSpace(card.Name) == "" || exclude[id] {
			continue
		}
		return &card, nil
	}

	return nil, fmt.Errorf("no unused commander after %d draws: %w",
		defaultRandomTries, ErrCardNotFound)
}

// LookupCommanders resolves names concurrently. The result is index aligned
// with names; unknown names yield nil without failing the whole lookup.
func (c *Client) LookupCommanders(ctx context.Context,
	names []string) ([]*Card, error) {

	cards := make([]*Card, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, name := range names {
		g.Go(func() error {
			card, err := c.NamedExact(gctx, name)
			if errors.Is(err, ErrCardNotFound) {
				return nil
			} else if err != nil {
				return fmt.Errorf("lookup %q: %w", name, err)
			}
			cards[i] = card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return cards, nil
}

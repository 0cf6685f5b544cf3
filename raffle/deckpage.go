/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/commanderraffle/internal"
)

// FetchDeckTitle returns the title of a deck list page (Moxfield,
// Archidekt, ...), preferring its og:title over the <title> element.
func FetchDeckTitle(ctx context.Context, client *http.Client,
	url string) (string, error) {

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("unable to fetch deck page (new): %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unable to fetch deck page (do): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unable to fetch deck page (http): %v", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("unable to parse deck page: %w", err)
	}

	return deckTitle(doc)
}

func deckTitle(doc *goquery.Document) (string, error) {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og, nil
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return strings.Join(strings.Fields(title), " "), nil
	}

	return "", fmt.Errorf("deck page title: %w", ErrNotFound)
}

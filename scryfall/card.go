/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package scryfall

import (
	"regexp"
	"strings"
)

// vended by https://api.scryfall.com/cards/...
// Card holds the subset of Scryfall's card object the raffle uses.
type Card struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	TypeLine      string            `json:"type_line"`
	OracleText    string            `json:"oracle_text"`
	ManaCost      string            `json:"mana_cost"`
	ColorIdentity []string          `json:"color_identity"`
	ScryfallURI   string            `json:"scryfall_uri"`
	ImageURIs     map[string]string `json:"image_uris"`
	CardFaces     []CardFace        `json:"card_faces"`
}

type CardFace struct {
	Name       string            `json:"name"`
	TypeLine   string            `json:"type_line"`
	OracleText string            `json:"oracle_text"`
	ImageURIs  map[string]string `json:"image_uris"`
}

// IsBackground reports whether the card is a Background enchantment.
func (c *Card) IsBackground() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "background")
}

// HasChooseABackground reports whether the commander may be paired with a
// Background.
func (c *Card) HasChooseABackground() bool {
	return strings.Contains(strings.ToLower(c.OracleText), "choose a background")
}

func (c *Card) HasFriendsForever() bool {
	return strings.Contains(strings.ToLower(c.OracleText), "friends forever")
}

var partnerWithRE = regexp.MustCompile(`(?i)partner with ([^\n(]+)`)

// PartnerWithTarget returns the named partner of a "Partner with X" card.
func (c *Card) PartnerWithTarget() (string, bool) {
	m := partnerWithRE.FindStringSubmatch(c.OracleText)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ImageURL returns the image of the given kind ("normal", "art_crop", ...),
// falling back to the front face for double faced cards.
func (c *Card) ImageURL(kind string) string {
	if u := c.ImageURIs[kind]; u != "" {
		return u
	}
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].ImageURIs[kind]
	}
	return ""
}

// BuildCardOutput formats a card for chat or terminal output.
func BuildCardOutput(c *Card, boldTag string) string {
	var sb strings.Builder

	sb.WriteString(boldTag + c.Name + boldTag)
	if c.ManaCost != "" {
		sb.WriteString(" " + c.ManaCost)
	}
	sb.WriteString("\n")
	if c.TypeLine != "" {
		sb.WriteString(c.TypeLine + "\n")
	}
	if c.OracleText != "" {
		sb.WriteString(c.OracleText + "\n")
	}
	if p, ok := c.PartnerWithTarget(); ok {
		sb.WriteString("Partner: " + p + "\n")
	} else if c.HasChooseABackground() {
		sb.WriteString("Partner: any Background\n")
	} else if c.HasFriendsForever() {
		sb.WriteString("Partner: any Friends forever commander\n")
	}
	if c.ScryfallURI != "" {
		sb.WriteString(c.ScryfallURI + "\n")
	}

	return sb.String()
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package raffle manages a Commander Raffle event: deck registration, the
// gift exchange that hands every registered deck to another player, event
// settings and the pairings state that drives play rounds. Documents are
// persisted as JSON through a Store.
package raffle

import (
	"errors"

	"github.com/mikeb26/commanderraffle/internal"
)

var (
	ErrNotEnoughDecks = errors.New("not enough registered decks")
	ErrNotConfirmed   = errors.New("not every deck has been confirmed as received")
	ErrSettingLocked  = errors.New("setting is locked for the current event state")
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
	ErrInvalidEntry   = errors.New("invalid deck registration")
	ErrNotFound       = errors.New("not found")
	ErrPhase          = errors.New("operation not allowed in the current phase")
)

// Entry is one registered deck. Field names match raffle.json.
type Entry struct {
	DeckID            *int     `json:"deck_id,omitempty"`
	Creator           string   `json:"deckersteller,omitempty"`
	Commander         string   `json:"commander,omitempty"`
	CommanderID       string   `json:"commander_id,omitempty"`
	Partner           string   `json:"partner,omitempty"`
	DeckURL           string   `json:"deckUrl,omitempty"`
	Owner             string   `json:"deckOwner,omitempty"`
	ReceivedConfirmed bool     `json:"received_confirmed"`
	PairingRound      int      `json:"pairing_round,omitempty"`
	PairingTable      *int     `json:"pairing_table,omitempty"`
	PairingPlayers    []string `json:"pairing_players,omitempty"`
	PairingPhase      Phase    `json:"pairing_phase,omitempty"`
}

// HasDeck reports whether e is a registered deck rather than a stray record.
func (e *Entry) HasDeck() bool {
	return e.DeckID != nil
}

func (e *Entry) owner() string {
	return internal.NormalizeName(e.Owner)
}

// Roster returns the deck owners in entry order, once each. Only entries
// with a deck id and a non-blank owner contribute.
func Roster(entries []Entry) []string {
	seen := make(map[string]bool)
	roster := make([]string, 0, len(entries))
	for i := range entries {
		if !entries[i].HasDeck() {
			continue
		}
		owner := internal.NormalizeName(entries[i].Owner)
		if owner == "" || seen[owner] {
			continue
		}
		seen[owner] = true
		roster = append(roster, owner)
	}

	return roster
}

// AllConfirmed reports whether every registered deck has been marked as
// received by its new owner.
func AllConfirmed(entries []Entry) bool {
	for i := range entries {
		if entries[i].HasDeck() && !entries[i].ReceivedConfirmed {
			return false
		}
	}

	return true
}

// FindDeck returns a pointer into entries for deckID, or nil.
func FindDeck(entries []Entry, deckID int) *Entry {
	for i := range entries {
		if entries[i].DeckID != nil && *entries[i].DeckID == deckID {
			return &entries[i]
		}
	}

	return nil
}

func nextDeckID(entries []Entry) int {
	max := 0
	for i := range entries {
		if entries[i].DeckID != nil && *entries[i].DeckID > max {
			max = *entries[i].DeckID
		}
	}

	return max + 1
}

func deckCount(entries []Entry) int {
	n := 0
	for i := range entries {
		if entries[i].HasDeck() {
			n++
		}
	}
	return n
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
)

// GlobalSignature fingerprints the event-wide state that observers (the
// round announcer, pollers) care about. It changes whenever decks are
// registered or confirmed, the raffle starts, the pairings phase or active
// round moves, or settings change. ps and s may be nil.
func GlobalSignature(started bool, entries []Entry, ps *PairingsState,
	s *Settings) string {

	ids := make(map[int]bool)
	total, confirmed := 0, 0
	for i := range entries {
		if !entries[i].HasDeck() {
			continue
		}
		ids[*entries[i].DeckID] = true
		total++
		if entries[i].ReceivedConfirmed {
			confirmed++
		}
	}

	obj := map[string]any{
		"start_file_exists": started,
		"deck_count":        len(ids),
		"total_decks":       total,
		"confirmed_count":   confirmed,
		"pairings_phase":    nil,
		"active_round":      nil,
		"pairings_hosts":    nil,
		"settings":          settingsOrEmpty(s),
	}
	if ps != nil {
		obj["pairings_phase"] = ps.Phase
		obj["active_round"] = ps.ActiveRound
		obj["pairings_hosts"] = ps.Hosts
	}

	return digest(obj)
}

// DeckSignature fingerprints what a single deck's page shows: its owner,
// confirmation and current seat.
func DeckSignature(deckID int, started bool, entries []Entry,
	s *Settings) string {

	obj := map[string]any{
		"deck_id":            deckID,
		"start_file_exists":  started,
		"registered":         false,
		"deckOwner":          nil,
		"received_confirmed": nil,
		"pairing_round":      nil,
		"pairing_table":      nil,
		"pairing_players":    nil,
		"pairing_phase":      nil,
		"settings":           settingsOrEmpty(s),
	}
	if e := FindDeck(entries, deckID); e != nil {
		obj["registered"] = true
		obj["deckOwner"] = e.Owner
		obj["received_confirmed"] = e.ReceivedConfirmed
		if e.PairingRound > 0 {
			obj["pairing_round"] = e.PairingRound
			obj["pairing_table"] = e.PairingTable
			obj["pairing_players"] = e.PairingPlayers
			obj["pairing_phase"] = e.PairingPhase
		}
	}

	return digest(obj)
}

func settingsOrEmpty(s *Settings) any {
	if s == nil {
		return map[string]any{}
	}
	return s
}

// digest hashes the JSON encoding of obj; encoding/json emits map keys in
// sorted order so equal states hash equally.
func digest(obj map[string]any) string {
	data, err := json.Marshal(obj)
	if err != nil {
		// only reachable with unencodable values, which obj never holds
		panic(err)
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

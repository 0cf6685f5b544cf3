/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"github.com/mikeb26/commanderraffle/pods"
)

// ApplyRound stamps round r onto every entry that has a deck id and an
// owner. Owners seated in r get their table and tablemates; owners missing
// from r get the round number with no table. Other entries are untouched.
func ApplyRound(entries []Entry, r pods.Round, phase Phase) {
	seats := r.Seating()
	for i := range entries {
		e := &entries[i]
		if !e.HasDeck() {
			continue
		}
		owner := e.owner()
		if owner == "" {
			continue
		}

		e.PairingRound = r.Number
		if seat, ok := seats[owner]; ok {
			table := seat.Table
			e.PairingTable = &table
			e.PairingPlayers = append([]string(nil), seat.Tablemates...)
		} else {
			e.PairingTable = nil
			e.PairingPlayers = []string{}
		}
		e.PairingPhase = phase
	}
}

// stampPhase sets pairing_phase on every entry ApplyRound would touch.
func stampPhase(entries []Entry, phase Phase) {
	for i := range entries {
		if entries[i].HasDeck() && entries[i].owner() != "" {
			entries[i].PairingPhase = phase
		}
	}
}

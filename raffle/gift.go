/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"fmt"
	"math/rand"
	"time"
)

// AssignDeckOwners runs the gift exchange: every distinct deck creator is
// handed a deck built by somebody else. At least minDecks distinct creators
// are required. Each assigned entry's received_confirmed flag is reset. It
// returns the number of distinct creators.
func AssignDeckOwners(entries []Entry, minDecks int, rng *rand.Rand) (int, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seen := make(map[string]bool)
	creators := make([]string, 0, len(entries))
	for i := range entries {
		c := entries[i].Creator
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		creators = append(creators, c)
	}
	if len(creators) < minDecks || len(creators) < 2 {
		return 0, fmt.Errorf("%w: the raffle needs at least %d decks, have %d",
			ErrNotEnoughDecks, minDecks, len(creators))
	}

	recipients := derangement(creators, rng)
	ownerByCreator := make(map[string]string, len(creators))
	for i, c := range creators {
		ownerByCreator[c] = recipients[i]
	}

	for i := range entries {
		if owner, ok := ownerByCreator[entries[i].Creator]; ok {
			entries[i].Owner = owner
			entries[i].ReceivedConfirmed = false
		}
	}

	return len(creators), nil
}

// derangement returns a shuffled copy of names in which no element keeps
// its original position. len(names) must be at least 2.
func derangement(names []string, rng *rand.Rand) []string {
	out := append([]string(nil), names...)
	for {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		fixed := false
		for i := range out {
			if out[i] == names[i] {
				fixed = true
				break
			}
		}
		if !fixed {
			return out
		}
	}
}

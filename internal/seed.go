/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("unable to read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a PRNG seeded with seed, or with NewSeed when seed is 0.
// The clock is the last resort if crypto/rand is unavailable.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		var err error
		seed, err = NewSeed()
		if err != nil {
			seed = time.Now().UnixNano()
		}
	}

	return rand.New(rand.NewSource(seed))
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package pods builds multi-round seating schedules for multiplayer pods.
// Given a roster and the number of simultaneous pods it searches for a short
// sequence of rounds in which every pair of players shares a pod at least
// once, then balances the remaining rounds to keep repeat pairings low.
//
// Everything in this package is synchronous and free of I/O. The only source
// of nondeterminism is the caller supplied *rand.Rand used for host seeding.
package pods

import (
	"errors"
	"sort"
)

var (
	// ErrInvalidPodConfiguration is returned for an empty or duplicated
	// roster, or a non-positive pod or round count.
	ErrInvalidPodConfiguration = errors.New("invalid pod configuration")

	// ErrInfeasiblePartition is returned when no partition of the roster
	// matches the resolved pod sizes.
	ErrInfeasiblePartition = errors.New("no feasible pairing for this roster/pod configuration")

	// ErrHostSeedMismatch is returned by ValidateHosts when a host is not on
	// the roster or there are more hosts than pods.
	ErrHostSeedMismatch = errors.New("host seed mismatch")
)

// PodSizes splits nPlayers into min(numPods, nPlayers) pods whose sizes
// differ by at most one, largest first. A numPods below one is treated as one.
func PodSizes(nPlayers int, numPods int) []int {
	if nPlayers < 1 {
		return []int{}
	}
	k := numPods
	if k < 1 {
		k = 1
	}
	if k > nPlayers {
		k = nPlayers
	}

	base := nPlayers / k
	rest := nPlayers % k
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = base
		if i < rest {
			sizes[i]++
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	return sizes
}

// sameSizes reports whether a and b hold the same multiset of pod sizes.
func sameSizes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}

	return true
}

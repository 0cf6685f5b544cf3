/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pods

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// ValidateHosts trims and deduplicates hosts, dropping blank names. It fails
// with ErrHostSeedMismatch when a host is not on the roster or when there are
// more hosts than pods.
func ValidateHosts(roster []string, numPods int, hosts []string) ([]string, error) {
	onRoster := make(map[string]bool, len(roster))
	for _, name := range roster {
		onRoster[name] = true
	}

	seen := make(map[string]bool)
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		if !onRoster[h] {
			return nil, fmt.Errorf("%w: %q is not on the roster",
				ErrHostSeedMismatch, h)
		}
		seen[h] = true
		out = append(out, h)
	}

	k := len(PodSizes(len(roster), numPods))
	if len(out) > k {
		return nil, fmt.Errorf("%w: %d hosts for %d pods", ErrHostSeedMismatch,
			len(out), k)
	}

	return out, nil
}

// FirstRoundWithHosts builds round 1 with each host anchoring their own pod:
// hosts sorted alphabetically sit at tables 1, 2, ... and the remaining
// players are shuffled with rng into the open seats. If the hosts do not
// validate, or the seeded round does not seat everyone correctly, an
// ordinary shuffled round is returned instead and the reason is logged. The
// boolean reports whether the hosts were honored. A nil rng is seeded from
// the clock.
func FirstRoundWithHosts(roster []string, numPods int, hosts []string,
	rng *rand.Rand) (Round, bool) {

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sizes := PodSizes(len(roster), numPods)

	valid, err := ValidateHosts(roster, numPods, hosts)
	if err != nil {
		log.Printf("pods.FirstRoundWithHosts: %v; seating round 1 without hosts", err)
	} else if len(valid) > 0 {
		if r, ok := seededRound(roster, sizes, valid, rng); ok {
			return r, true
		}
		log.Printf("pods.FirstRoundWithHosts: hosts %v do not fit pods of %v; seating round 1 without hosts",
			valid, sizes)
	}

	return shuffledRound(roster, sizes, rng), false
}

func seededRound(roster []string, sizes []int, hosts []string,
	rng *rand.Rand) (Round, bool) {

	sorted := append([]string(nil), hosts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := strings.ToLower(sorted[i]), strings.ToLower(sorted[j])
		if li != lj {
			return li < lj
		}
		return sorted[i] < sorted[j]
	})

	isHost := make(map[string]bool, len(sorted))
	for _, h := range sorted {
		isHost[h] = true
	}
	var rest []string
	for _, name := range roster {
		if !isHost[name] {
			rest = append(rest, name)
		}
	}
	rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	pods := make([][]string, len(sizes))
	for i, h := range sorted {
		if i >= len(pods) {
			break
		}
		pods[i] = append(pods[i], h)
	}
	next := 0
	for i := range pods {
		want := sizes[i] - len(pods[i])
		if want <= 0 {
			continue
		}
		if next+want > len(rest) {
			want = len(rest) - next
		}
		pods[i] = append(pods[i], rest[next:next+want]...)
		next += want
	}

	r := Round{Number: 1, Pods: pods}
	return r, seatsEveryone(r, roster, sizes)
}

func shuffledRound(roster []string, sizes []int, rng *rand.Rand) Round {
	order := append([]string(nil), roster...)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	pods := make([][]string, 0, len(sizes))
	next := 0
	for _, s := range sizes {
		pods = append(pods, append([]string(nil), order[next:next+s]...))
		next += s
	}

	return Round{Number: 1, Pods: pods}
}

func seatsEveryone(r Round, roster []string, sizes []int) bool {
	var got []int
	seated := make(map[string]int)
	for _, pod := range r.Pods {
		got = append(got, len(pod))
		for _, name := range pod {
			seated[name]++
		}
	}
	if !sameSizes(got, sizes) || len(seated) != len(roster) {
		return false
	}
	for _, name := range roster {
		if seated[name] != 1 {
			return false
		}
	}

	return true
}

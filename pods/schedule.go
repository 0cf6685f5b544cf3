/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pods

import (
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"slices"
	"sort"
	"strings"
)

// DefaultMaxCandidates is how many of the cheapest next rounds the search
// expands from each state.
const DefaultMaxCandidates = 60

// DefaultMaxSearchStates bounds how many distinct states the search may
// visit before it gives up and every round is chosen greedily.
const DefaultMaxSearchStates = 2_000_000

// Round is one seating of the whole roster. Number is 1-based and pod i is
// table i+1.
type Round struct {
	Number int        `json:"number"`
	Pods   [][]string `json:"pods"`
}

// Seat is where a single player sits in a round.
type Seat struct {
	Table      int
	Tablemates []string
}

// Seating maps every seated player to their table and the full list of
// players at that table, themselves included.
func (r Round) Seating() map[string]Seat {
	seats := make(map[string]Seat)
	for t, pod := range r.Pods {
		mates := append([]string(nil), pod...)
		for _, name := range pod {
			seats[name] = Seat{Table: t + 1, Tablemates: mates}
		}
	}

	return seats
}

// Opponents returns the tablemates other than player.
func (s Seat) Opponents(player string) []string {
	out := make([]string, 0, len(s.Tablemates))
	for _, name := range s.Tablemates {
		if name != player {
			out = append(out, name)
		}
	}
	return out
}

type options struct {
	maxCandidates int
	maxStates     int
}

// Option tunes BuildRounds.
type Option func(*options)

// WithMaxCandidates overrides DefaultMaxCandidates. Values below one are
// ignored.
func WithMaxCandidates(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxCandidates = n
		}
	}
}

// WithMaxSearchStates overrides DefaultMaxSearchStates. Values below one are
// ignored.
func WithMaxSearchStates(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxStates = n
		}
	}
}

// BuildRounds returns up to maxRounds rounds seating roster into numPods
// pods. It first searches breadth first for the fewest rounds in which every
// pair of players shares a pod, then fills the remaining rounds greedily to
// keep repeat pairings low. When full coverage cannot be reached within
// maxRounds, or the search exceeds its state budget, every round is chosen
// greedily instead.
//
// fixedFirst, when non-nil and consistent with the roster and pod sizes, is
// used as round 1. An inconsistent fixedFirst is ignored.
func BuildRounds(roster []string, numPods int, maxRounds int,
	fixedFirst *Round, opts ...Option) ([]Round, error) {

	o := options{maxCandidates: DefaultMaxCandidates,
		maxStates: DefaultMaxSearchStates}
	for _, opt := range opts {
		opt(&o)
	}

	index, err := rosterIndex(roster)
	if err != nil {
		return nil, err
	}
	if numPods < 1 {
		return nil, fmt.Errorf("%w: pod count %d", ErrInvalidPodConfiguration,
			numPods)
	}
	if maxRounds < 1 {
		return nil, fmt.Errorf("%w: round count %d", ErrInvalidPodConfiguration,
			maxRounds)
	}

	n := len(roster)
	sizes := PodSizes(n, numPods)
	pool := slices.Collect(Partitions(n, sizes))
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %d players in pods of %v",
			ErrInfeasiblePartition, n, sizes)
	}

	start := NewCoverage(n)
	var chosen []Partition
	if fixedFirst != nil {
		if p, ok := fixedPartition(fixedFirst.Pods, index, sizes); ok {
			chosen = append(chosen, p)
			start = start.Apply(p)
		}
	}

	path, covered, found := search(pool, start, len(chosen), maxRounds,
		o.maxCandidates, o.maxStates)
	if found {
		for _, idx := range path {
			chosen = append(chosen, pool[idx])
		}
		chosen = fill(pool, chosen, covered, maxRounds, cost.balanceLess)
	} else {
		chosen = fill(pool, chosen, start, maxRounds, cost.less)
	}

	return namedRounds(roster, chosen), nil
}

func rosterIndex(roster []string) (map[string]int, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("%w: empty roster", ErrInvalidPodConfiguration)
	}
	index := make(map[string]int, len(roster))
	for i, name := range roster {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %q appears more than once",
				ErrInvalidPodConfiguration, name)
		}
		index[name] = i
	}

	return index, nil
}

// fixedPartition converts a named round into roster indices, rejecting it
// unless every player appears exactly once in pods of the expected sizes.
func fixedPartition(pods [][]string, index map[string]int,
	sizes []int) (Partition, bool) {

	p := make(Partition, 0, len(pods))
	for _, pod := range pods {
		idx := make([]int, 0, len(pod))
		for _, name := range pod {
			i, ok := index[name]
			if !ok {
				return nil, false
			}
			idx = append(idx, i)
		}
		sort.Ints(idx)
		p = append(p, idx)
	}
	if !sameSizes(p.Sizes(), sizes) || !p.covers(len(index)) {
		return nil, false
	}

	return p, true
}

type node struct {
	key    string // Coverage.Key of the state
	depth  int
	idx    int // pool index of the round that led here
	parent *node
}

func (nd *node) path() []int {
	var out []int
	for p := nd; p.parent != nil; p = p.parent {
		out = append(out, p.idx)
	}
	slices.Reverse(out)
	return out
}

type visit struct {
	hash  uint64
	depth int
}

func stateHash(key string) uint64 {
	h := fnv.New64a()
	io.WriteString(h, key)
	return h.Sum64()
}

type candidate struct {
	cost cost
	idx  int
	key  string
	cov  Coverage
}

// search runs the bounded breadth first search. It returns the pool indices
// of the rounds leading to full coverage and the coverage reached. States are
// tested for full coverage as they are generated; since the queue holds them
// in generation order this finds the same path as testing them on dequeue.
// The search gives up once maxStates distinct states have been seen.
func search(pool []Partition, start Coverage, depth int, maxRounds int,
	maxCandidates int, maxStates int) ([]int, Coverage, bool) {

	if start.MissingPairs() == 0 {
		return nil, start, true
	}
	n := start.Players()
	root := &node{key: start.Key(), depth: depth}
	visited := map[visit]struct{}{{hash: stateHash(root.key), depth: depth}: {}}
	queue := []*node{root}

	for len(queue) > 0 {
		cur := queue[0]
		queue[0] = nil
		queue = queue[1:]

		if cur.depth >= maxRounds {
			continue
		}
		cov, err := CoverageFromKey(cur.key, n)
		if err != nil {
			panic(fmt.Sprintf("pods.search: %v", err))
		}

		cands := make([]candidate, 0, len(pool))
		for i, p := range pool {
			next := cov.Apply(p)
			key := next.Key()
			v := visit{hash: stateHash(key), depth: cur.depth + 1}
			if _, seen := visited[v]; seen {
				continue
			}
			if len(visited) >= maxStates {
				log.Printf("pods.search: gave up after %d states at depth %d",
					len(visited), cur.depth)
				return nil, Coverage{}, false
			}
			visited[v] = struct{}{}
			cands = append(cands, candidate{cost: next.cost(), idx: i, key: key,
				cov: next})
		}
		sort.SliceStable(cands, func(a, b int) bool {
			return cands[a].cost.less(cands[b].cost)
		})
		if len(cands) > maxCandidates {
			cands = cands[:maxCandidates]
		}

		for _, c := range cands {
			nd := &node{key: c.key, depth: cur.depth + 1, idx: c.idx, parent: cur}
			if c.cost.missing == 0 {
				return nd.path(), c.cov, true
			}
			queue = append(queue, nd)
		}
	}

	return nil, Coverage{}, false
}

// fill appends greedily chosen rounds until there are maxRounds of them.
// Ties keep the earliest partition in the pool.
func fill(pool []Partition, chosen []Partition, cov Coverage, maxRounds int,
	better func(a, b cost) bool) []Partition {

	for len(chosen) < maxRounds {
		best := -1
		var bestCost cost
		var bestCov Coverage
		for i, p := range pool {
			next := cov.Apply(p)
			c := next.cost()
			if best < 0 || better(c, bestCost) {
				best, bestCost, bestCov = i, c, next
			}
		}
		chosen = append(chosen, pool[best])
		cov = bestCov
	}

	return chosen
}

func namedRounds(roster []string, parts []Partition) []Round {
	rounds := make([]Round, 0, len(parts))
	for r, p := range parts {
		round := Round{Number: r + 1, Pods: make([][]string, 0, len(p))}
		for _, pod := range p {
			names := make([]string, 0, len(pod))
			for _, idx := range pod {
				names = append(names, roster[idx])
			}
			round.Pods = append(round.Pods, names)
		}
		rounds = append(rounds, round)
	}

	return rounds
}

// CoverageOf returns the pair coverage reached after playing rounds with the
// given roster. Names not on the roster are skipped.
func CoverageOf(roster []string, rounds []Round) Coverage {
	index := make(map[string]int, len(roster))
	for i, name := range roster {
		index[name] = i
	}
	cov := NewCoverage(len(roster))
	for _, r := range rounds {
		p := make(Partition, 0, len(r.Pods))
		for _, pod := range r.Pods {
			var idx []int
			for _, name := range pod {
				if i, ok := index[name]; ok {
					idx = append(idx, i)
				}
			}
			p = append(p, idx)
		}
		cov = cov.Apply(p)
	}

	return cov
}

// String renders the round as "Round N: [a b c] [d e f]".
func (r Round) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Round %d:", r.Number)
	for _, pod := range r.Pods {
		fmt.Fprintf(&sb, " [%s]", strings.Join(pod, " "))
	}
	return sb.String()
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pods

import (
	"iter"
	"sort"
)

// Partition splits the roster indices 0..n-1 into pods. Pods are ordered by
// descending size and the indices inside a pod are ascending.
type Partition [][]int

// Sizes returns the number of players in each pod of p.
func (p Partition) Sizes() []int {
	sizes := make([]int, len(p))
	for i, pod := range p {
		sizes[i] = len(pod)
	}

	return sizes
}

// covers reports whether p uses every index in 0..n-1 exactly once.
func (p Partition) covers(n int) bool {
	seen := make([]bool, n)
	count := 0
	for _, pod := range p {
		for _, idx := range pod {
			if idx < 0 || idx >= n || seen[idx] {
				return false
			}
			seen[idx] = true
			count++
		}
	}

	return count == n
}

// step is one pick made while building a partition. A run of equal sized
// pods first picks its members (unless it is the final run, which takes
// whatever is left) and then splits them one pod at a time, each pod pinned
// to the smallest member not yet seated.
type step struct {
	size      int
	pinned    bool
	pod       bool
	lastInRun bool
}

func planSteps(n int, sizes []int) []step {
	if n < 1 || len(sizes) == 0 {
		return nil
	}
	total := 0
	for _, s := range sizes {
		if s < 1 {
			return nil
		}
		total += s
	}
	if total != n {
		return nil
	}

	desc := append([]int(nil), sizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	var steps []step
	for i := 0; i < len(desc); {
		j := i
		for j < len(desc) && desc[j] == desc[i] {
			j++
		}
		if j < len(desc) {
			steps = append(steps, step{size: desc[i] * (j - i)})
		}
		for k := i; k < j; k++ {
			steps = append(steps, step{size: desc[i], pinned: true, pod: true,
				lastInRun: k == j-1})
		}
		i = j
	}

	return steps
}

type frame struct {
	pool    []int // candidates for this step, ascending
	outside []int // indices reserved for later runs
	comb    []int // chosen offsets into the unpinned part of pool
	started bool
}

// advance moves f to its next combination, returning false once exhausted.
func (f *frame) advance(st step) bool {
	free := len(f.pool)
	r := st.size
	if st.pinned {
		free--
		r--
	}
	if !f.started {
		if r < 0 || r > free {
			return false
		}
		f.comb = f.comb[:0]
		for i := 0; i < r; i++ {
			f.comb = append(f.comb, i)
		}
		f.started = true
		return true
	}

	return nextCombination(f.comb, free)
}

// take returns the indices selected by the current combination and the
// ones left over, both ascending.
func (f *frame) take(st step) (picked []int, rest []int) {
	picked = make([]int, 0, st.size)
	offset := 0
	if st.pinned {
		offset = 1
		picked = append(picked, f.pool[0])
	}
	c := 0
	for pos := offset; pos < len(f.pool); pos++ {
		if c < len(f.comb) && f.comb[c] == pos-offset {
			picked = append(picked, f.pool[pos])
			c++
		} else {
			rest = append(rest, f.pool[pos])
		}
	}

	return picked, rest
}

// nextCombination steps comb, an ascending selection of len(comb) offsets out
// of m, to its lexicographic successor.
func nextCombination(comb []int, m int) bool {
	r := len(comb)
	i := r - 1
	for i >= 0 && comb[i] == i+m-r {
		i--
	}
	if i < 0 {
		return false
	}
	comb[i]++
	for j := i + 1; j < r; j++ {
		comb[j] = comb[j-1] + 1
	}

	return true
}

// Partitions returns every way to split the indices 0..n-1 into pods of the
// given sizes, each exactly once. The sequence is produced lazily and starts
// over each time it is ranged. Sizes that are non-positive or that do not add
// up to n produce an empty sequence.
//
// With mixed sizes every split counts, so [3 2 2] over seven indices yields
// 105 partitions rather than the 45 obtained by pinning the smallest index to
// the first pod; schedules for uneven rosters follow from the larger pool.
func Partitions(n int, sizes []int) iter.Seq[Partition] {
	steps := planSteps(n, sizes)

	return func(yield func(Partition) bool) {
		if steps == nil {
			return
		}
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		frames := make([]frame, len(steps))
		chosen := make([][]int, len(steps))
		frames[0] = frame{pool: all}

		l := 0
		for l >= 0 {
			st := steps[l]
			f := &frames[l]
			if !f.advance(st) {
				f.started = false
				l--
				continue
			}
			picked, rest := f.take(st)
			if !st.pod {
				frames[l+1] = frame{pool: picked, outside: rest}
				l++
				continue
			}

			chosen[l] = picked
			if l == len(steps)-1 {
				if !yield(assemble(steps, chosen)) {
					return
				}
				continue
			}
			if st.lastInRun {
				frames[l+1] = frame{pool: f.outside}
			} else {
				frames[l+1] = frame{pool: rest, outside: f.outside}
			}
			l++
		}
	}
}

func assemble(steps []step, chosen [][]int) Partition {
	p := make(Partition, 0, len(steps))
	for i, st := range steps {
		if st.pod {
			p = append(p, append([]int(nil), chosen[i]...))
		}
	}

	return p
}

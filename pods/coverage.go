/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pods

import (
	"encoding/binary"
	"fmt"
)

// Coverage counts, for every unordered pair of roster indices, how many
// rounds have seated the pair in the same pod. Only the upper triangle is
// stored. A Coverage is a value; Apply returns a new one and never alters the
// receiver.
type Coverage struct {
	n      int
	counts []int
}

// NewCoverage returns an all-zero coverage for n players.
func NewCoverage(n int) Coverage {
	if n < 0 {
		n = 0
	}
	return Coverage{n: n, counts: make([]int, n*(n-1)/2)}
}

// Players returns the roster size c was built for.
func (c Coverage) Players() int {
	return c.n
}

func (c Coverage) offset(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return i*c.n - i*(i+1)/2 + (j - i - 1)
}

// Count returns how many times players i and j have shared a pod.
func (c Coverage) Count(i, j int) int {
	if i == j || i < 0 || j < 0 || i >= c.n || j >= c.n {
		return 0
	}
	return c.counts[c.offset(i, j)]
}

// Apply returns the coverage after one more round seated as p.
func (c Coverage) Apply(p Partition) Coverage {
	next := Coverage{n: c.n, counts: append([]int(nil), c.counts...)}
	for _, pod := range p {
		for a := 0; a < len(pod); a++ {
			for b := a + 1; b < len(pod); b++ {
				if pod[a] == pod[b] {
					continue
				}
				next.counts[next.offset(pod[a], pod[b])]++
			}
		}
	}

	return next
}

// Key encodes the upper triangle compactly so it can be used as a map key.
func (c Coverage) Key() string {
	buf := make([]byte, 0, len(c.counts))
	for _, v := range c.counts {
		buf = binary.AppendUvarint(buf, uint64(v))
	}

	return string(buf)
}

// CoverageFromKey decodes a key produced by Key for a roster of n players.
func CoverageFromKey(key string, n int) (Coverage, error) {
	c := NewCoverage(n)
	buf := []byte(key)
	for i := range c.counts {
		v, used := binary.Uvarint(buf)
		if used <= 0 {
			return Coverage{}, fmt.Errorf("pods: truncated coverage key at pair %d of %d",
				i, len(c.counts))
		}
		c.counts[i] = int(v)
		buf = buf[used:]
	}
	if len(buf) != 0 {
		return Coverage{}, fmt.Errorf("pods: coverage key has %d trailing bytes",
			len(buf))
	}

	return c, nil
}

// MissingPairs returns the number of pairs that have never shared a pod.
func (c Coverage) MissingPairs() int {
	m := 0
	for _, v := range c.counts {
		if v == 0 {
			m++
		}
	}
	return m
}

// MaxCount returns the largest number of times any pair has shared a pod.
func (c Coverage) MaxCount() int {
	mx := 0
	for _, v := range c.counts {
		if v > mx {
			mx = v
		}
	}
	return mx
}

// SumOfSquares returns the sum over all pairs of the squared pair count.
func (c Coverage) SumOfSquares() int {
	s := 0
	for _, v := range c.counts {
		s += v * v
	}
	return s
}

// cost orders candidate rounds: fewer missing pairs first, then the lowest
// worst-case repeat, then the most even spread of repeats.
type cost struct {
	missing int
	max     int
	sumSq   int
}

func (c Coverage) cost() cost {
	var out cost
	for _, v := range c.counts {
		if v == 0 {
			out.missing++
		}
		if v > out.max {
			out.max = v
		}
		out.sumSq += v * v
	}
	return out
}

func (a cost) less(b cost) bool {
	if a.missing != b.missing {
		return a.missing < b.missing
	}
	return a.balanceLess(b)
}

// balanceLess ignores missing pairs; used once every pair is covered.
func (a cost) balanceLess(b cost) bool {
	if a.max != b.max {
		return a.max < b.max
	}
	return a.sumSq < b.sumSq
}

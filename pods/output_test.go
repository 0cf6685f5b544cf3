/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pods

import (
	"strings"
	"testing"
)

func TestBuildRoundOutput(t *testing.T) {
	out := BuildRoundOutput(Round{Number: 3, Pods: [][]string{{"A", "B"}, {"C"}}})
	for _, want := range []string{"Round 3\n", "Table  Size  Players\n",
		"1.     2     A, B\n", "2.     1     C\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildScheduleOutput(t *testing.T) {
	roster := []string{"A", "B", "C", "D"}
	rounds := []Round{
		{Number: 1, Pods: [][]string{{"A", "B"}, {"C", "D"}}},
		{Number: 2, Pods: [][]string{{"A", "C"}, {"B", "D"}}},
	}
	out := BuildScheduleOutput(roster, rounds)
	if !strings.Contains(out, "Pairs covered: 4/6  Max repeats: 1") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if got := BuildScheduleOutput(roster, nil); got != "No rounds scheduled\n" {
		t.Errorf("empty schedule output = %q", got)
	}
}

func TestRoundString(t *testing.T) {
	r := Round{Number: 1, Pods: [][]string{{"A", "B"}, {"C"}}}
	if got := r.String(); got != "Round 1: [A B] [C]" {
		t.Errorf("String() = %q", got)
	}
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"slices"
	"testing"

	"github.com/mikeb26/commanderraffle/pods"
)

func TestApplyRound(t *testing.T) {
	entries := []Entry{
		deck(1, "X", "A"),
		deck(2, "Y", "B"),
		deck(3, "Z", "C"),
		deck(4, "W", "D"),
		deck(5, "V", "E"), // owner not seated this round
		deck(6, "U", ""),  // no owner yet
		{Creator: "Stray", Owner: "A"},
	}
	r := pods.Round{Number: 2, Pods: [][]string{{"A", "B"}, {"C", "D"}}}

	ApplyRound(entries, r, PhasePlaying)

	a := entries[0]
	if a.PairingRound != 2 || a.PairingTable == nil || *a.PairingTable != 1 {
		t.Errorf("A = round %d table %v; want round 2 table 1", a.PairingRound,
			a.PairingTable)
	}
	if !slices.Equal(a.PairingPlayers, []string{"A", "B"}) {
		t.Errorf("A tablemates = %v", a.PairingPlayers)
	}
	if a.PairingPhase != PhasePlaying {
		t.Errorf("A phase = %q", a.PairingPhase)
	}
	if d := entries[3]; d.PairingTable == nil || *d.PairingTable != 2 ||
		!slices.Equal(d.PairingPlayers, []string{"C", "D"}) {
		t.Errorf("D = table %v mates %v", d.PairingTable, d.PairingPlayers)
	}

	e := entries[4]
	if e.PairingRound != 2 || e.PairingTable != nil || e.PairingPlayers == nil ||
		len(e.PairingPlayers) != 0 {
		t.Errorf("unseated owner = round %d table %v mates %#v", e.PairingRound,
			e.PairingTable, e.PairingPlayers)
	}

	for _, i := range []int{5, 6} {
		u := entries[i]
		if u.PairingRound != 0 || u.PairingTable != nil || u.PairingPlayers != nil ||
			u.PairingPhase != "" {
			t.Errorf("entry %d should be untouched: %+v", i, u)
		}
	}

	// tablemates are copies, not shared with the round
	entries[0].PairingPlayers[0] = "changed"
	if entries[1].PairingPlayers[0] != "A" || r.Pods[0][0] != "A" {
		t.Errorf("tablemate slices are shared")
	}
}

func TestPairingsStateApply(t *testing.T) {
	ps := &PairingsState{
		Rounds: [][][]string{
			{{"A", "B"}, {"C", "D"}},
			{{"A", "C"}, {"B", "D"}},
		},
	}
	entries := []Entry{deck(1, "X", "A"), deck(2, "Y", "C")}

	ps.Apply(entries, 3)
	if entries[0].PairingRound != 0 {
		t.Fatalf("out of range round applied")
	}

	ps.Apply(entries, 2)
	if entries[0].PairingPhase != PhaseReady {
		t.Errorf("empty phase should apply as ready, got %q", entries[0].PairingPhase)
	}
	if *entries[1].PairingTable != 1 ||
		!slices.Equal(entries[1].PairingPlayers, []string{"A", "C"}) {
		t.Errorf("C = %+v", entries[1])
	}

	if _, err := ps.Round(0); err == nil {
		t.Errorf("Round(0) should fail")
	}
	if got := ps.Schedule(); len(got) != 2 || got[1].Number != 2 {
		t.Errorf("Schedule = %v", got)
	}
}

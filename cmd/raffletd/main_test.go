/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mikeb26/commanderraffle/pods"
	"github.com/mikeb26/commanderraffle/raffle"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"Ann", []string{"Ann"}},
		{" Ann , Bob,,  Cy  Dee ", []string{"Ann", "Bob", "Cy Dee"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := splitList(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("splitList(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMultiFlag(t *testing.T) {
	fs := newFlagSet("test")
	var m multiFlag
	fs.Var(&m, "set", "")
	if err := fs.Parse([]string{"--set", "a=1", "--set", "b=2"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual([]string(m), []string{"a=1", "b=2"}) {
		t.Errorf("m = %q", m)
	}
	if m.String() != "a=1,b=2" {
		t.Errorf("String() = %q", m.String())
	}
}

func TestParseSettingsPatch(t *testing.T) {
	patch, err := parseSettingsPatch([]string{
		"max_rounds=5",
		"require_all_confirmed_before_pairings=false",
		"event_date=2026-11-07",
		`participants=["Ann","Bob"]`,
		"ui.default_bg_zoom=1.2",
	})
	if err != nil {
		t.Fatalf("parseSettingsPatch: %v", err)
	}
	if patch["max_rounds"] != float64(5) {
		t.Errorf("max_rounds = %#v", patch["max_rounds"])
	}
	if patch["require_all_confirmed_before_pairings"] != false {
		t.Errorf("require = %#v", patch["require_all_confirmed_before_pairings"])
	}
	if patch["event_date"] != "2026-11-07" {
		t.Errorf("event_date = %#v", patch["event_date"])
	}
	if !reflect.DeepEqual(patch["participants"], []any{"Ann", "Bob"}) {
		t.Errorf("participants = %#v", patch["participants"])
	}

	_, err = parseSettingsPatch([]string{"novalue"})
	if !errors.Is(err, raffle.ErrInvalidSetting) {
		t.Errorf("err = %v, want ErrInvalidSetting", err)
	}
}

func TestBuildScheduleCoversPairs(t *testing.T) {
	roster := []string{"Ann", "Bob", "Cy", "Dee", "Eve", "Fay"}
	rounds, err := buildSchedule(roster, 2, 7, []string{"Ann", "Bob"}, 42)
	if err != nil {
		t.Fatalf("buildSchedule: %v", err)
	}
	if len(rounds) == 0 {
		t.Fatal("no rounds")
	}
	if got := pods.CoverageOf(roster, rounds).MissingPairs(); got != 0 {
		t.Errorf("missing pairs = %d", got)
	}
	first := rounds[0].Seating()
	if first["Ann"].Table == first["Bob"].Table {
		t.Errorf("hosts share table %d", first["Ann"].Table)
	}
}

func TestDescribeSeat(t *testing.T) {
	if _, err := describeSeat(nil, "Ann"); !errors.Is(err, raffle.ErrPhase) {
		t.Errorf("err = %v, want ErrPhase", err)
	}

	ps := &raffle.PairingsState{
		Phase:       raffle.PhasePlaying,
		ActiveRound: 1,
		NumPods:     2,
		Rounds: [][][]string{
			{{"Ann", "Bob", "Cy"}, {"Dee", "Eve", "Fay"}},
		},
	}
	msg, err := describeSeat(ps, "Eve")
	if err != nil {
		t.Fatalf("describeSeat: %v", err)
	}
	if want := "Round 1: Eve sits at table 2 with Dee, Fay"; msg != want {
		t.Errorf("msg = %q, want %q", msg, want)
	}
	if _, err := describeSeat(ps, "Zed"); !errors.Is(err, raffle.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBuildSettingsOutput(t *testing.T) {
	out := buildSettingsOutput(raffle.DefaultSettings(nil), raffle.StatePairingsRunning)
	if !strings.Contains(out, "max_rounds") {
		t.Errorf("missing max_rounds:\n%v", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "min_decks_to_start") && !strings.HasPrefix(line, "L") {
			t.Errorf("min_decks_to_start should be locked: %q", line)
		}
	}
}

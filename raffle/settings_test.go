/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/mikeb26/commanderraffle/internal"
)

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings(nil)
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if s.MinDecksToStart != 3 || s.DefaultNumPods != 2 || s.MaxRounds != 7 ||
		!s.RequireAllConfirmed {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.Participants == nil {
		t.Errorf("participants should be an empty list, not nil")
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Settings)
		ok   bool
	}{
		{"min decks low", func(s *Settings) { s.MinDecksToStart = 1 }, false},
		{"min decks high", func(s *Settings) { s.MinDecksToStart = 65 }, false},
		{"min decks edge", func(s *Settings) { s.MinDecksToStart = 64 }, true},
		{"pods zero", func(s *Settings) { s.DefaultNumPods = 0 }, false},
		{"pods max", func(s *Settings) { s.DefaultNumPods = 32 }, true},
		{"rounds high", func(s *Settings) { s.MaxRounds = 31 }, false},
		{"rounds one", func(s *Settings) { s.MaxRounds = 1 }, true},
		{"suggest limit", func(s *Settings) { s.API.SuggestLimit = 0 }, false},
		{"bad date", func(s *Settings) { s.EventDate = "someday" }, false},
		{"good date", func(s *Settings) { s.EventDate = "2026-11-21" }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := DefaultSettings(nil)
			c.mod(&s)
			err := s.Validate()
			if c.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidSetting) {
				t.Errorf("err = %v; want ErrInvalidSetting", err)
			}
		})
	}
}

func TestEventDateTime(t *testing.T) {
	s := DefaultSettings(nil)
	s.EventDate = "2026-11-21"
	got, err := s.EventDateTime()
	if err != nil {
		t.Fatalf("EventDateTime: %v", err)
	}
	if !got.Equal(time.Date(2026, 11, 21, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EventDateTime = %v", got)
	}
}

func TestLockLevels(t *testing.T) {
	states := []EventState{StateRegistrationEmpty, StateRegistrationOpen,
		StateRaffleStarted, StatePairingsRunning, StateVoting}
	want := map[LockLevel][]bool{
		LockAlways:                 {true, true, true, true, true},
		LockUntilFirstRegistration: {true, false, false, false, false},
		LockUntilRaffleStart:       {true, true, false, false, false},
		LockUntilPairingsStart:     {true, true, true, false, false},
		LockUntilVotingStart:       {true, true, true, true, false},
	}
	for level, allowed := range want {
		for i, st := range states {
			if got := level.Allows(st); got != allowed[i] {
				t.Errorf("%v.Allows(%v) = %v; want %v", level, st, got, allowed[i])
			}
		}
	}
	if LockLevel("bogus").Allows(StateRegistrationEmpty) {
		t.Errorf("unknown lock level should never allow edits")
	}
}

func TestEditable(t *testing.T) {
	s := DefaultSettings(nil)
	ok, err := s.Editable("max_rounds", StatePairingsRunning)
	if err != nil || ok {
		t.Errorf("max_rounds during pairings: %v, %v", ok, err)
	}
	ok, err = s.Editable("ui.default_bg_zoom", StateVoting)
	if err != nil || !ok {
		t.Errorf("ui.default_bg_zoom during voting: %v, %v", ok, err)
	}
	if _, err := s.Editable("nope", StateVoting); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("err = %v; want ErrUnknownSetting", err)
	}

	ed := SettingsEditability(StateRegistrationOpen)
	if len(ed) != len(SettingKeys()) {
		t.Errorf("editability covers %d keys; want %d", len(ed), len(SettingKeys()))
	}
	if e := ed["participants"]; e.Editable || e.LockLevel != LockUntilFirstRegistration {
		t.Errorf("participants = %+v", e)
	}
}

func TestPatch(t *testing.T) {
	s := DefaultSettings([]string{"Alice"})

	updated, changed, err := s.Patch(map[string]any{
		"max_rounds":            5,
		"ui":                    map[string]any{"default_bg_zoom": 1.5},
		"scryfall.default_background_query": "t:basic",
	}, StateRaffleStarted)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	want := []string{"max_rounds", "scryfall.default_background_query",
		"ui.default_bg_zoom"}
	if !slices.Equal(changed, want) {
		t.Errorf("changed = %v; want %v", changed, want)
	}
	if updated.MaxRounds != 5 || updated.UI.DefaultBgZoom != 1.5 ||
		updated.Scryfall.DefaultBackgroundQuery != "t:basic" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.DefaultNumPods != 2 || !slices.Equal(updated.Participants, []string{"Alice"}) {
		t.Errorf("untouched settings changed: %+v", updated)
	}
	if s.MaxRounds != 7 {
		t.Errorf("receiver was modified")
	}
}

func TestPatchRejects(t *testing.T) {
	s := DefaultSettings(nil)
	cases := []struct {
		name  string
		patch map[string]any
		state EventState
		want  error
	}{
		{"empty", map[string]any{}, StateRegistrationEmpty, ErrInvalidSetting},
		{"unknown", map[string]any{"colour": "red"}, StateRegistrationEmpty,
			ErrUnknownSetting},
		{"unknown nested", map[string]any{"ui": map[string]any{"theme": 1}},
			StateRegistrationEmpty, ErrUnknownSetting},
		{"locked", map[string]any{"default_num_pods": 3}, StatePairingsRunning,
			ErrSettingLocked},
		{"participants after registration",
			map[string]any{"participants": []any{"A"}}, StateRegistrationOpen,
			ErrSettingLocked},
		{"out of range", map[string]any{"max_rounds": 99}, StateRegistrationEmpty,
			ErrInvalidSetting},
		{"wrong type", map[string]any{"max_rounds": "five"}, StateRegistrationEmpty,
			ErrInvalidSetting},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, _, err := s.Patch(c.patch, c.state)
			if !errors.Is(err, c.want) {
				t.Errorf("err = %v; want %v", err, c.want)
			}
			if got.MaxRounds != s.MaxRounds {
				t.Errorf("rejected patch changed settings")
			}
		})
	}
}

func TestResetEditable(t *testing.T) {
	s := DefaultSettings(nil)
	s.MaxRounds = 3
	s.UI.DefaultBgZoom = 2
	s.MinDecksToStart = 10

	updated, changed, skipped, err := s.ResetEditable(DefaultSettings(nil),
		StateRaffleStarted)
	if err != nil {
		t.Fatalf("ResetEditable: %v", err)
	}
	if updated.MaxRounds != 7 || updated.UI.DefaultBgZoom != 1.12 {
		t.Errorf("editable settings not reset: %+v", updated)
	}
	if updated.MinDecksToStart != 10 {
		t.Errorf("locked min_decks_to_start was reset")
	}
	if !slices.Contains(skipped, "min_decks_to_start") ||
		!slices.Contains(skipped, "participants") {
		t.Errorf("skipped = %v", skipped)
	}
	if len(changed)+len(skipped) != len(SettingKeys()) {
		t.Errorf("changed %d + skipped %d != %d keys", len(changed), len(skipped),
			len(SettingKeys()))
	}
}

func TestLoadSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults with participants file", func(t *testing.T) {
		st := newMemStore()
		st.Put(ctx, internal.ParticipantsFile, []byte("Alice\n\n  Bob \n"))
		s, src := LoadSettings(ctx, st)
		if src.Source != "defaults" || src.Error != "" {
			t.Errorf("src = %+v", src)
		}
		if !slices.Equal(s.Participants, []string{"Alice", "Bob"}) {
			t.Errorf("participants = %v", s.Participants)
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		st := newMemStore()
		st.Put(ctx, internal.ParticipantsFile, []byte("Alice\n"))
		st.Put(ctx, internal.EventConfigFile, []byte(`{"max_rounds": 4, "ui": {"commander_bg_zoom": 1.3}}`))
		s, src := LoadSettings(ctx, st)
		if src.Source != "file" {
			t.Errorf("src = %+v", src)
		}
		if s.MaxRounds != 4 || s.UI.CommanderBgZoom != 1.3 {
			t.Errorf("settings = %+v", s)
		}
		if s.DefaultNumPods != 2 || s.UI.DefaultBgZoom != 1.12 {
			t.Errorf("missing fields should keep defaults: %+v", s)
		}
		if !slices.Equal(s.Participants, []string{"Alice"}) {
			t.Errorf("participants = %v", s.Participants)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		st := newMemStore()
		st.Put(ctx, internal.EventConfigFile, []byte(`{"max_rounds": 0}`))
		s, src := LoadSettings(ctx, st)
		if src.Source != "defaults" || src.Error == "" {
			t.Errorf("src = %+v", src)
		}
		if s.MaxRounds != 7 {
			t.Errorf("MaxRounds = %d", s.MaxRounds)
		}
	})

	t.Run("garbage file", func(t *testing.T) {
		st := newMemStore()
		st.Put(ctx, internal.EventConfigFile, []byte(`{not json`))
		_, src := LoadSettings(ctx, st)
		if src.Source != "defaults" || src.Error == "" {
			t.Errorf("src = %+v", src)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		st := newMemStore()
		s := DefaultSettings([]string{"Zed"})
		s.DefaultNumPods = 3
		if err := SaveSettings(ctx, st, s); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
		got, src := LoadSettings(ctx, st)
		if src.Source != "file" || got.DefaultNumPods != 3 ||
			!slices.Equal(got.Participants, []string{"Zed"}) {
			t.Errorf("got %+v from %+v", got, src)
		}
	})
}

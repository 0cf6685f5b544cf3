/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/mikeb26/commanderraffle/internal"
)

type ScryfallSettings struct {
	CommanderSuggestQueryTemplate    string `json:"commander_suggest_query_template"`
	PartnerSuggestQueryTemplate      string `json:"partner_suggest_query_template"`
	PartnerCapableQueryTemplate      string `json:"partner_capable_query_template"`
	DefaultBackgroundQuery           string `json:"default_background_query"`
	RandomCommanderQuery             string `json:"random_commander_query"`
	RoundReportAvatarQueryTemplate   string `json:"round_report_avatar_query_template"`
	CommanderPreviewQueryTemplate    string `json:"commander_preview_query_template"`
	CardPreviewQueryTemplate         string `json:"card_preview_query_template"`
	CardPreviewFallbackQueryTemplate string `json:"card_preview_fallback_query_template"`
}

type UISettings struct {
	DefaultBgZoom              float64 `json:"default_bg_zoom"`
	CommanderBgZoom            float64 `json:"commander_bg_zoom"`
	ChipPreviewModalStyle      bool    `json:"chip_preview_modal_style"`
	ChipPreviewRevealAnimation bool    `json:"chip_preview_reveal_animation"`
	ChipPreviewSwipeEnabled    bool    `json:"chip_preview_swipe_enabled"`
}

type APISettings struct {
	SuggestMinChars int `json:"suggest_min_chars"`
	SuggestLimit    int `json:"suggest_limit"`
}

// Settings is the contents of event_config.json.
type Settings struct {
	MinDecksToStart     int      `json:"min_decks_to_start"`
	DefaultNumPods      int      `json:"default_num_pods"`
	MaxRounds           int      `json:"max_rounds"`
	RequireAllConfirmed bool     `json:"require_all_confirmed_before_pairings"`
	Participants        []string `json:"participants"`
	EventDate           string   `json:"event_date"`

	Scryfall ScryfallSettings `json:"scryfall"`
	UI       UISettings       `json:"ui"`
	API      APISettings      `json:"api"`
}

// DefaultSettings returns the settings used when event_config.json is
// missing or invalid.
func DefaultSettings(participants []string) Settings {
	if participants == nil {
		participants = []string{}
	}

	return Settings{
		MinDecksToStart:     3,
		DefaultNumPods:      2,
		MaxRounds:           7,
		RequireAllConfirmed: true,
		Participants:        participants,
		Scryfall: ScryfallSettings{
			CommanderSuggestQueryTemplate:    "game:paper is:commander name:{q}",
			PartnerSuggestQueryTemplate:      "game:paper is:partner name:{q}",
			PartnerCapableQueryTemplate:      `!"{name}" is:partner`,
			DefaultBackgroundQuery:           "t:basic t:snow e:SLD",
			RandomCommanderQuery:             "game:paper is:commander -t:background",
			RoundReportAvatarQueryTemplate:   `game:paper is:normal !"{name}"`,
			CommanderPreviewQueryTemplate:    `game:paper is:commander !"{name}"`,
			CardPreviewQueryTemplate:         `game:paper is:commander !"{name}"`,
			CardPreviewFallbackQueryTemplate: `game:paper !"{name}"`,
		},
		UI: UISettings{
			DefaultBgZoom:   1.12,
			CommanderBgZoom: 1.0,
		},
		API: APISettings{
			SuggestMinChars: 3,
			SuggestLimit:    15,
		},
	}
}

type bound struct {
	key      string
	val      int
	min, max int
}

// Validate checks every numeric setting against its allowed range.
func (s Settings) Validate() error {
	bounds := []bound{
		{"min_decks_to_start", s.MinDecksToStart, 2, 64},
		{"default_num_pods", s.DefaultNumPods, 1, 32},
		{"max_rounds", s.MaxRounds, 1, 30},
		{"api.suggest_min_chars", s.API.SuggestMinChars, 1, 10},
		{"api.suggest_limit", s.API.SuggestLimit, 1, 100},
	}
	for _, b := range bounds {
		if b.val < b.min || b.val > b.max {
			return fmt.Errorf("%w: %v=%d must be between %d and %d",
				ErrInvalidSetting, b.key, b.val, b.min, b.max)
		}
	}
	if _, err := s.EventDateTime(); err != nil {
		return fmt.Errorf("%w: event_date %q: %v", ErrInvalidSetting,
			s.EventDate, err)
	}

	return nil
}

// EventDateTime parses EventDate in any common layout. An empty date is the
// zero time.
func (s Settings) EventDateTime() (time.Time, error) {
	return internal.ParseDateOrZero(s.EventDate)
}

// SettingsSource describes where LoadSettings got its values from.
type SettingsSource struct {
	Source string `json:"source"` // "file" or "defaults"
	Path   string `json:"path"`
	Error  string `json:"error,omitempty"`
}

// LoadSettings reads event_config.json. A missing, unreadable or invalid
// document falls back to the defaults; the reason is reported in the
// returned SettingsSource rather than as an error. An empty participant
// list is filled from teilnehmer.txt.
func LoadSettings(ctx context.Context, st Store) (Settings, SettingsSource) {
	src := SettingsSource{Source: "defaults", Path: internal.EventConfigFile}

	participants, err := LoadParticipants(ctx, st)
	if err != nil {
		log.Printf("raffle.LoadSettings: ignoring participants file: %v", err)
		participants = []string{}
	}
	defaults := DefaultSettings(participants)

	data, err := st.Get(ctx, internal.EventConfigFile)
	if errors.Is(err, ErrNotFound) {
		return defaults, src
	} else if err != nil {
		src.Error = fmt.Sprintf("read_error: %v", err)
		return defaults, src
	}

	s := DefaultSettings(nil)
	if err := strictUnmarshal(data, &s); err != nil {
		src.Error = fmt.Sprintf("read_error: %v", err)
		return defaults, src
	}
	if err := s.Validate(); err != nil {
		src.Error = fmt.Sprintf("validation_error: %v", err)
		return defaults, src
	}
	if len(s.Participants) == 0 {
		s.Participants = participants
	}
	src.Source = "file"

	return s, src
}

// SaveSettings writes event_config.json.
func SaveSettings(ctx context.Context, st Store, s Settings) error {
	return putJSON(ctx, st, internal.EventConfigFile, s)
}

type LockLevel string

const (
	LockAlways                 LockLevel = "always"
	LockUntilFirstRegistration LockLevel = "until_first_registration"
	LockUntilRaffleStart       LockLevel = "until_raffle_start"
	LockUntilPairingsStart     LockLevel = "until_pairings_start"
	LockUntilVotingStart       LockLevel = "until_voting_start"
)

// settingLocks lists every patchable setting and when it stops being
// editable. "always" means editable at any time.
var settingLocks = map[string]LockLevel{
	"participants":                          LockUntilFirstRegistration,
	"event_date":                            LockUntilRaffleStart,
	"min_decks_to_start":                    LockUntilRaffleStart,
	"default_num_pods":                      LockUntilPairingsStart,
	"max_rounds":                            LockUntilPairingsStart,
	"require_all_confirmed_before_pairings": LockUntilPairingsStart,

	"scryfall.commander_suggest_query_template":     LockUntilPairingsStart,
	"scryfall.partner_suggest_query_template":       LockUntilPairingsStart,
	"scryfall.partner_capable_query_template":       LockUntilPairingsStart,
	"scryfall.default_background_query":             LockAlways,
	"scryfall.random_commander_query":               LockUntilPairingsStart,
	"scryfall.round_report_avatar_query_template":   LockUntilPairingsStart,
	"scryfall.commander_preview_query_template":     LockUntilPairingsStart,
	"scryfall.card_preview_query_template":          LockAlways,
	"scryfall.card_preview_fallback_query_template": LockAlways,

	"ui.default_bg_zoom":               LockAlways,
	"ui.commander_bg_zoom":             LockAlways,
	"ui.chip_preview_modal_style":      LockAlways,
	"ui.chip_preview_reveal_animation": LockAlways,
	"ui.chip_preview_swipe_enabled":    LockAlways,

	"api.suggest_min_chars": LockAlways,
	"api.suggest_limit":     LockAlways,
}

// Allows reports whether a setting at this lock level may change while the
// event is in state.
func (l LockLevel) Allows(state EventState) bool {
	switch l {
	case LockAlways:
		return true
	case LockUntilFirstRegistration:
		return state == StateRegistrationEmpty
	case LockUntilRaffleStart:
		return state == StateRegistrationEmpty || state == StateRegistrationOpen
	case LockUntilPairingsStart:
		return state == StateRegistrationEmpty ||
			state == StateRegistrationOpen || state == StateRaffleStarted
	case LockUntilVotingStart:
		return state != StateVoting
	}
	return false
}

// SettingKeys returns every patchable dotted key, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingLocks))
	for k := range settingLocks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Editability struct {
	LockLevel LockLevel `json:"lock_level"`
	Editable  bool      `json:"editable"`
}

// SettingsEditability returns the lock level and current editability of every key.
func SettingsEditability(state EventState) map[string]Editability {
	out := make(map[string]Editability, len(settingLocks))
	for k, l := range settingLocks {
		out[k] = Editability{LockLevel: l, Editable: l.Allows(state)}
	}
	return out
}

// Editable reports whether key may be changed in state.
func (s Settings) Editable(key string, state EventState) (bool, error) {
	l, ok := settingLocks[key]
	if !ok {
		return false, fmt.Errorf("%w: %v", ErrUnknownSetting, key)
	}
	return l.Allows(state), nil
}

// Patch applies a partial update given as nested objects and/or dotted
// keys, e.g. {"max_rounds": 5, "ui": {"default_bg_zoom": 1.2}} or
// {"ui.default_bg_zoom": 1.2}. The whole patch is rejected if any key is
// unknown, locked in state, or produces an invalid configuration. It
// returns the updated settings and the sorted keys that were changed; s is
// not modified.
func (s Settings) Patch(patch map[string]any, state EventState) (Settings,
	[]string, error) {

	if len(patch) == 0 {
		return s, nil, fmt.Errorf("%w: patch must be a non-empty object",
			ErrInvalidSetting)
	}

	flat := make(map[string]any)
	flattenPatch(patch, "", flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var unknown, blocked []string
	for _, k := range keys {
		l, ok := settingLocks[k]
		if !ok {
			unknown = append(unknown, k)
		} else if !l.Allows(state) {
			blocked = append(blocked, k)
		}
	}
	if len(unknown) > 0 {
		return s, nil, fmt.Errorf("%w: %v", ErrUnknownSetting,
			strings.Join(unknown, ", "))
	}
	if len(blocked) > 0 {
		return s, nil, fmt.Errorf("%w (%v): %v", ErrSettingLocked, state,
			strings.Join(blocked, ", "))
	}

	merged, err := s.asMap()
	if err != nil {
		return s, nil, err
	}
	for _, k := range keys {
		setDotted(merged, k, flat[k])
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return s, nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	var updated Settings
	if err := strictUnmarshal(data, &updated); err != nil {
		return s, nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	if updated.Participants == nil {
		updated.Participants = []string{}
	}
	if err := updated.Validate(); err != nil {
		return s, nil, err
	}

	return updated, keys, nil
}

// ResetEditable restores the defaults for every key editable in state. It
// returns the updated settings, the keys that were reset and the keys that
// were skipped because they are locked.
func (s Settings) ResetEditable(defaults Settings, state EventState) (Settings,
	[]string, []string, error) {

	defMap, err := defaults.asMap()
	if err != nil {
		return s, nil, nil, err
	}

	patch := make(map[string]any)
	var skipped []string
	for _, k := range SettingKeys() {
		if !settingLocks[k].Allows(state) {
			skipped = append(skipped, k)
			continue
		}
		patch[k] = getDotted(defMap, k)
	}
	if len(patch) == 0 {
		return s, nil, skipped, nil
	}

	updated, changed, err := s.Patch(patch, state)
	if err != nil {
		return s, nil, skipped, err
	}
	return updated, changed, skipped, nil
}

func (s Settings) asMap() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("unable to encode settings: %w", err)
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	return m, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// flattenPatch turns nested objects into dotted keys. A path naming a
// setting is kept whole even when its value is an object.
func flattenPatch(patch map[string]any, prefix string, out map[string]any) {
	for k, v := range patch {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if _, ok := settingLocks[path]; ok {
			out[path] = v
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			flattenPatch(nested, path, out)
			continue
		}
		out[path] = v
	}
}

func setDotted(m map[string]any, key string, v any) {
	parts := strings.Split(key, ".")
	cur := m
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

func getDotted(m map[string]any, key string) any {
	var cur any = m
	for _, p := range strings.Split(key, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[p]
	}
	return cur
}

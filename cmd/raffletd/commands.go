/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mikeb26/commanderraffle/internal"
	"github.com/mikeb26/commanderraffle/pods"
	"github.com/mikeb26/commanderraffle/raffle"
	"github.com/mikeb26/commanderraffle/scryfall"
)

func handlePods(ctx context.Context, args []string) {
	fs := newFlagSet("pods")
	players := fs.Int("players", 0, "Number of players")
	numPods := fs.Int("pods", 2, "Number of pods")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *players <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --players count.")
		fs.Usage()
		os.Exit(1)
	}

	sizes := pods.PodSizes(*players, *numPods)
	fmt.Printf("%d players in %d pods: %v\n", *players, len(sizes), sizes)
}

func handleSchedule(ctx context.Context, args []string) {
	fs := newFlagSet("schedule")
	rosterArg := fs.String("roster", "", "Comma separated player names")
	numPods := fs.Int("pods", 2, "Number of pods")
	maxRounds := fs.Int("rounds", 7, "Maximum number of rounds")
	hostsArg := fs.String("hosts", "", "Comma separated hosts anchoring round 1")
	seed := fs.Int64("seed", 0, "Random seed for host seating (0 picks one)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	roster := splitList(*rosterArg)
	if len(roster) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide a --roster.")
		fs.Usage()
		os.Exit(1)
	}

	rounds, err := buildSchedule(roster, *numPods, *maxRounds,
		splitList(*hostsArg), *seed)
	if err != nil {
		log.Fatalf("Error building schedule: %v", err)
	}
	fmt.Print(pods.BuildScheduleOutput(roster, rounds))
}

func buildSchedule(roster []string, numPods, maxRounds int, hosts []string,
	seed int64) ([]pods.Round, error) {

	var first *pods.Round
	if len(hosts) > 0 {
		valid, err := pods.ValidateHosts(roster, numPods, hosts)
		if err != nil {
			return nil, err
		}
		r, honored := pods.FirstRoundWithHosts(roster, numPods, valid,
			internal.NewRand(seed))
		if !honored {
			log.Printf("raffletd.schedule: hosts not honored; round 1 is shuffled")
		}
		first = &r
	}

	return pods.BuildRounds(roster, numPods, maxRounds, first)
}

func handleRegister(ctx context.Context, args []string) {
	fs := newFlagSet("register")
	creator := fs.String("creator", "", "Name of the deck's creator")
	commander := fs.String("commander", "", "Commander card name")
	partner := fs.String("partner", "", "Partner or background card name")
	deckURL := fs.String("url", "", "Deck list url")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *creator == "" || *commander == "" {
		fmt.Fprintln(os.Stderr, "Please provide --creator and --commander.")
		fs.Usage()
		os.Exit(1)
	}

	entry := raffle.Entry{
		Creator:   *creator,
		Commander: *commander,
		Partner:   *partner,
		DeckURL:   *deckURL,
	}

	sc := scryfall.NewClient(ctx, cfg.WebCacheBucket)
	names := []string{*commander}
	if *partner != "" {
		names = append(names, *partner)
	}
	cards, err := sc.LookupCommanders(ctx, names)
	if err != nil {
		// best effort; registering does not depend on scryfall
		log.Printf("raffletd.register: card lookup failed: %v", err)
	} else {
		if cards[0] == nil {
			log.Printf("raffletd.register: warning %q is not a known card", *commander)
		} else {
			entry.Commander = cards[0].Name
			entry.CommanderID = cards[0].ID
		}
		if len(cards) > 1 {
			checkPartner(cards[0], cards[1], *partner)
		}
	}

	if *deckURL != "" {
		title, err := raffle.FetchDeckTitle(ctx, nil, *deckURL)
		if err != nil {
			log.Printf("raffletd.register: could not read deck page: %v", err)
		} else {
			fmt.Printf("Deck: %v\n", title)
		}
	}

	ev := openEvent(ctx)
	var registered raffle.Entry
	mutate(ctx, ev, func() error {
		registered, err = ev.Register(ctx, entry)
		return err
	})
	fmt.Printf("Registered deck %d: %v by %v\n", *registered.DeckID,
		registered.Commander, registered.Creator)
}

// checkPartner warns when a commander pair does not look legal.
func checkPartner(commander, partner *scryfall.Card, partnerName string) {
	if partner == nil {
		log.Printf("raffletd.register: warning %q is not a known card", partnerName)
		return
	}
	if target, ok := commander.PartnerWithTarget(); ok &&
		!strings.EqualFold(target, partner.Name) {
		log.Printf("raffletd.register: warning %v partners only with %v",
			commander.Name, target)
	}
	if partner.IsBackground() && !commander.HasChooseABackground() {
		log.Printf("raffletd.register: warning %v cannot choose a background",
			commander.Name)
	}
}

func handleStart(ctx context.Context, args []string) {
	ev := openEvent(ctx)
	var n int
	mutate(ctx, ev, func() error {
		var err error
		n, err = ev.StartRaffle(ctx)
		return err
	})
	fmt.Printf("Raffle started: %d decks assigned\n", n)
}

func handleConfirm(ctx context.Context, args []string) {
	fs := newFlagSet("confirm")
	deckID := fs.Int("deck", 0, "Deck id")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *deckID <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --deck ID.")
		fs.Usage()
		os.Exit(1)
	}

	ev := openEvent(ctx)
	var e raffle.Entry
	mutate(ctx, ev, func() error {
		var err error
		e, err = ev.ConfirmReceived(ctx, *deckID)
		return err
	})
	fmt.Printf("Deck %d confirmed by %v\n", *deckID, e.Owner)
}

func handlePairings(ctx context.Context, args []string) {
	fs := newFlagSet("pairings")
	numPods := fs.Int("pods", 0, "Number of pods (default from settings)")
	hostsArg := fs.String("hosts", "", "Comma separated hosts anchoring round 1")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ev := openEvent(ctx)
	var ps *raffle.PairingsState
	mutate(ctx, ev, func() error {
		var err error
		ps, err = ev.StartPairings(ctx, *numPods, splitList(*hostsArg))
		return err
	})

	snap, err := ev.Snapshot(ctx)
	if err != nil {
		log.Fatalf("Error loading event: %v", err)
	}
	fmt.Print(pods.BuildScheduleOutput(raffle.Roster(snap.Entries), ps.Schedule()))
}

func handleNext(ctx context.Context, args []string) {
	ev := openEvent(ctx)
	var ps *raffle.PairingsState
	mutate(ctx, ev, func() error {
		var err error
		ps, err = ev.NextRound(ctx)
		return err
	})

	if ps.Phase == raffle.PhaseVoting {
		fmt.Println("All rounds played; voting is open")
		return
	}
	r, err := ps.Round(ps.ActiveRound)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Print(pods.BuildRoundOutput(r))
}

func handleTable(ctx context.Context, args []string) {
	fs := newFlagSet("table")
	player := fs.String("player", "", "Player name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *player == "" {
		fmt.Fprintln(os.Stderr, "Please provide a --player.")
		fs.Usage()
		os.Exit(1)
	}

	snap, err := openEvent(ctx).Snapshot(ctx)
	if err != nil {
		log.Fatalf("Error loading event: %v", err)
	}
	msg, err := describeSeat(snap.Pairings, internal.NormalizeName(*player))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Println(msg)
}

// describeSeat reports where player sits in the active round.
func describeSeat(ps *raffle.PairingsState, player string) (string, error) {
	if ps == nil || ps.ActiveRound < 1 {
		return "", fmt.Errorf("%w: no round is being played", raffle.ErrPhase)
	}
	r, err := ps.Round(ps.ActiveRound)
	if err != nil {
		return "", err
	}
	seat, ok := r.Seating()[player]
	if !ok {
		return "", fmt.Errorf("%v is not seated in round %d: %w", player,
			r.Number, raffle.ErrNotFound)
	}

	return fmt.Sprintf("Round %d: %v sits at table %d with %v", r.Number, player,
		seat.Table, strings.Join(seat.Opponents(player), ", ")), nil
}

func handleStatus(ctx context.Context, args []string) {
	snap, err := openEvent(ctx).Snapshot(ctx)
	if err != nil {
		log.Fatalf("Error loading event: %v", err)
	}
	fmt.Print(buildStatusOutput(snap))
}

func buildStatusOutput(snap *raffle.Snapshot) string {
	var sb strings.Builder

	decks, confirmed := 0, 0
	for _, e := range snap.Entries {
		if e.HasDeck() {
			decks++
			if e.ReceivedConfirmed {
				confirmed++
			}
		}
	}
	sb.WriteString(fmt.Sprintf("State: %v\n", snap.State))
	if when, err := snap.Settings.EventDateTime(); err == nil && !when.IsZero() {
		sb.WriteString(fmt.Sprintf("Date: %v\n", when.Format("Mon Jan 2, 2006")))
	}
	sb.WriteString(fmt.Sprintf("Decks: %d (%d confirmed)\n", decks, confirmed))
	sb.WriteString(fmt.Sprintf("Settings: %v", snap.Source.Source))
	if snap.Source.Error != "" {
		sb.WriteString(fmt.Sprintf(" (%v)", snap.Source.Error))
	}
	sb.WriteString("\n")

	if ps := snap.Pairings; ps != nil {
		sb.WriteString(fmt.Sprintf("Pairings: %v, round %d of %d, %d pods",
			ps.Phase, ps.ActiveRound, len(ps.Rounds), ps.NumPods))
		if gen, err := ps.GeneratedTime(); err == nil && !gen.IsZero() {
			sb.WriteString(fmt.Sprintf(", generated %v", gen.Local().Format(time.Kitchen)))
		}
		sb.WriteString("\n")
		if ps.Phase == raffle.PhasePlaying {
			if r, err := ps.Round(ps.ActiveRound); err == nil {
				sb.WriteString("\n")
				sb.WriteString(pods.BuildRoundOutput(r))
			}
		}
	}
	sb.WriteString(fmt.Sprintf("Signature: %v\n", snap.GlobalSignature()))

	return sb.String()
}

func handleSettings(ctx context.Context, args []string) {
	fs := newFlagSet("settings")
	var sets multiFlag
	fs.Var(&sets, "set", "key=value to change (repeatable)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ev := openEvent(ctx)
	if len(sets) == 0 {
		snap, err := ev.Snapshot(ctx)
		if err != nil {
			log.Fatalf("Error loading event: %v", err)
		}
		fmt.Print(buildSettingsOutput(snap.Settings, snap.State))
		return
	}

	patch, err := parseSettingsPatch(sets)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	var changed []string
	mutate(ctx, ev, func() error {
		var err error
		_, changed, err = ev.UpdateSettings(ctx, patch)
		return err
	})
	fmt.Printf("Updated: %v\n", strings.Join(changed, ", "))
}

// parseSettingsPatch turns key=value pairs into a patch. Values are decoded
// as JSON when possible and taken as plain strings otherwise.
func parseSettingsPatch(sets []string) (map[string]any, error) {
	patch := make(map[string]any, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q is not key=value",
				raffle.ErrInvalidSetting, s)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		patch[key] = v
	}
	return patch, nil
}

func buildSettingsOutput(s raffle.Settings, state raffle.EventState) string {
	var sb strings.Builder

	values := map[string]any{}
	data, err := json.Marshal(s)
	if err == nil {
		var nested map[string]any
		if json.Unmarshal(data, &nested) == nil {
			flatten(nested, "", values)
		}
	}

	keys := raffle.SettingKeys()
	sort.Strings(keys)
	width := 0
	for _, k := range keys {
		if len(k) > width {
			width = len(k)
		}
	}
	ed := raffle.SettingsEditability(state)
	sb.WriteString(fmt.Sprintf("Event state: %v\n", state))
	for _, k := range keys {
		mark := " "
		if !ed[k].Editable {
			mark = "L"
		}
		val, _ := json.Marshal(values[k])
		sb.WriteString(fmt.Sprintf("%v %-*s %s\n", mark, width, k, val))
	}

	return sb.String()
}

func flatten(m map[string]any, prefix string, out map[string]any) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(nested, path, out)
			continue
		}
		out[path] = v
	}
}

func handleCard(ctx context.Context, args []string) {
	fs := newFlagSet("card")
	name := fs.String("name", "", "Exact card name")
	id := fs.String("id", "", "Scryfall card id")
	random := fs.Bool("random", false, "Draw a random commander not yet registered")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	sc := scryfall.NewClient(ctx, cfg.WebCacheBucket)
	var card *scryfall.Card
	var err error
	switch {
	case *name != "":
		card, err = sc.NamedExact(ctx, *name)
	case *id != "":
		card, err = sc.CardByID(ctx, *id)
	case *random:
		exclude := map[string]bool{}
		if snap, serr := openEvent(ctx).Snapshot(ctx); serr == nil {
			for _, e := range snap.Entries {
				if e.CommanderID != "" {
					exclude[e.CommanderID] = true
				}
			}
		}
		card, err = sc.RandomCommander(ctx, exclude)
	default:
		fmt.Fprintln(os.Stderr, "Please provide --name, --id or --random.")
		fs.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error fetching card: %v", err)
	}
	fmt.Print(scryfall.BuildCardOutput(card, ""))
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mikeb26/commanderraffle/internal"
	"github.com/mikeb26/commanderraffle/pods"
)

// Event coordinates changes to a single event's documents. Every mutating
// method performs a full load-modify-save cycle under one lock, so a
// process should share one Event per Store.
type Event struct {
	mu    sync.Mutex
	store Store
	rng   *rand.Rand
	now   func() time.Time
	opts  []pods.Option
}

type EventOption func(*Event)

// WithRand sets the source of randomness for the gift exchange and round 1
// host seating.
func WithRand(rng *rand.Rand) EventOption {
	return func(ev *Event) { ev.rng = rng }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) EventOption {
	return func(ev *Event) { ev.now = now }
}

// WithScheduleOptions passes opts through to pods.BuildRounds.
func WithScheduleOptions(opts ...pods.Option) EventOption {
	return func(ev *Event) { ev.opts = append(ev.opts, opts...) }
}

func NewEvent(store Store, opts ...EventOption) *Event {
	ev := &Event{
		store: store,
		now:   time.Now,
	}
	for _, o := range opts {
		o(ev)
	}
	if ev.rng == nil {
		ev.rng = internal.NewRand(0)
	}

	return ev
}

func (ev *Event) Store() Store {
	return ev.store
}

// Snapshot is a consistent read of every event document.
type Snapshot struct {
	Started  bool
	Entries  []Entry
	Pairings *PairingsState
	Settings Settings
	Source   SettingsSource
	State    EventState
}

func (s *Snapshot) GlobalSignature() string {
	return GlobalSignature(s.Started, s.Entries, s.Pairings, &s.Settings)
}

func (ev *Event) Snapshot(ctx context.Context) (*Snapshot, error) {
	ev.mu.Lock()
	defer ev.mu.Unlock()

	return ev.load(ctx)
}

func (ev *Event) load(ctx context.Context) (*Snapshot, error) {
	started, err := RaffleStarted(ctx, ev.store)
	if err != nil {
		return nil, err
	}
	entries, err := LoadEntries(ctx, ev.store)
	if err != nil {
		return nil, err
	}
	ps, err := LoadPairings(ctx, ev.store)
	if err != nil {
		return nil, err
	}
	settings, src := LoadSettings(ctx, ev.store)
	if src.Error != "" {
		log.Printf("raffle.load: using default settings: %v", src.Error)
	}

	return &Snapshot{
		Started:  started,
		Entries:  entries,
		Pairings: ps,
		Settings: settings,
		Source:   src,
		State:    DetectEventState(started, entries, ps),
	}, nil
}

// Register adds a deck and returns it with its assigned deck id. Decks can
// only be registered before the raffle starts.
func (ev *Event) Register(ctx context.Context, e Entry) (Entry, error) {
	e.Creator = internal.NormalizeName(e.Creator)
	e.Commander = strings.TrimSpace(e.Commander)
	e.Partner = strings.TrimSpace(e.Partner)
	e.DeckURL = strings.TrimSpace(e.DeckURL)
	if e.Creator == "" || e.Commander == "" {
		return Entry{}, fmt.Errorf("%w: a deck needs a creator and a commander",
			ErrInvalidEntry)
	}

	ev.mu.Lock()
	defer ev.mu.Unlock()

	snap, err := ev.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	if snap.Started {
		return Entry{}, fmt.Errorf("%w: registration is closed (%v)", ErrPhase,
			snap.State)
	}

	id := nextDeckID(snap.Entries)
	e.DeckID = &id
	e.Owner = ""
	e.ReceivedConfirmed = false
	snap.Entries = append(snap.Entries, e)
	if err := SaveEntries(ctx, ev.store, snap.Entries); err != nil {
		return Entry{}, err
	}

	return e, nil
}

// StartRaffle runs the gift exchange, writes the start marker and returns
// the number of decks handed out.
func (ev *Event) StartRaffle(ctx context.Context) (int, error) {
	ev.mu.Lock()
	defer ev.mu.Unlock()

	snap, err := ev.load(ctx)
	if err != nil {
		return 0, err
	}
	if snap.Started {
		return 0, fmt.Errorf("%w: the raffle has already started", ErrPhase)
	}

	n, err := AssignDeckOwners(snap.Entries, snap.Settings.MinDecksToStart, ev.rng)
	if err != nil {
		return 0, err
	}
	if err := SaveEntries(ctx, ev.store, snap.Entries); err != nil {
		return 0, err
	}
	if err := ev.store.Put(ctx, internal.StartFile, []byte{}); err != nil {
		return 0, err
	}
	log.Printf("raffle.StartRaffle: assigned %d decks", n)

	return n, nil
}

// ConfirmReceived records that the owner of deckID has received it.
func (ev *Event) ConfirmReceived(ctx context.Context, deckID int) (Entry, error) {
	ev.mu.Lock()
	defer ev.mu.Unlock()

	snap, err := ev.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	if !snap.Started {
		return Entry{}, fmt.Errorf("%w: the raffle has not started", ErrPhase)
	}
	e := FindDeck(snap.Entries, deckID)
	if e == nil {
		return Entry{}, fmt.Errorf("deck %d: %w", deckID, ErrNotFound)
	}
	e.ReceivedConfirmed = true
	if err := SaveEntries(ctx, ev.store, snap.Entries); err != nil {
		return Entry{}, err
	}

	return *e, nil
}

// StartPairings builds the round schedule from the deck owners and seats
// round 1. numPods <= 0 uses the configured default. Non-empty hosts must
// all be owners, at most one per pod; they anchor the pods of round 1.
func (ev *Event) StartPairings(ctx context.Context, numPods int,
	hosts []string) (*PairingsState, error) {

	ev.mu.Lock()
	defer ev.mu.Unlock()

	snap, err := ev.load(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.Started {
		return nil, fmt.Errorf("%w: the raffle has not started", ErrPhase)
	}
	if snap.State == StatePairingsRunning || snap.State == StateVoting {
		return nil, fmt.Errorf("%w: pairings already started (%v)", ErrPhase,
			snap.State)
	}
	if snap.Settings.RequireAllConfirmed && !AllConfirmed(snap.Entries) {
		return nil, ErrNotConfirmed
	}
	if numPods <= 0 {
		numPods = snap.Settings.DefaultNumPods
	}
	maxRounds := snap.Settings.MaxRounds

	roster := Roster(snap.Entries)
	hosts, err = pods.ValidateHosts(roster, numPods, hosts)
	if err != nil {
		return nil, err
	}

	var first *pods.Round
	if len(hosts) > 0 {
		r, honored := pods.FirstRoundWithHosts(roster, numPods, hosts, ev.rng)
		if !honored {
			log.Printf("raffle.StartPairings: could not seat hosts %v; using a shuffled first round",
				hosts)
		}
		first = &r
	}

	rounds, err := pods.BuildRounds(roster, numPods, maxRounds, first, ev.opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to schedule %d players in %d pods: %w",
			len(roster), numPods, err)
	}

	ps := newPairingsState(numPods, maxRounds, hosts, rounds, ev.now())
	ps.Apply(snap.Entries, 1)
	if err := ev.save(ctx, snap.Entries, ps); err != nil {
		return nil, err
	}
	log.Printf("raffle.StartPairings: %d players, %d pods, %d rounds",
		len(roster), numPods, len(rounds))

	return ps, nil
}

// NextRound advances to the next scheduled round and seats it. Advancing
// past the final round ends the play phase and moves the event to voting.
func (ev *Event) NextRound(ctx context.Context) (*PairingsState, error) {
	ev.mu.Lock()
	defer ev.mu.Unlock()

	snap, err := ev.load(ctx)
	if err != nil {
		return nil, err
	}
	ps := snap.Pairings
	if ps == nil || ps.Phase.normalized() != PhasePlaying {
		return nil, fmt.Errorf("%w: no round is being played (%v)", ErrPhase,
			snap.State)
	}

	if ps.ActiveRound < len(ps.Rounds) {
		ps.ActiveRound++
		ps.Apply(snap.Entries, ps.ActiveRound)
	} else {
		ps.Phase = PhaseVoting
		stampPhase(snap.Entries, PhaseVoting)
	}
	if err := ev.save(ctx, snap.Entries, ps); err != nil {
		return nil, err
	}

	return ps, nil
}

// UpdateSettings applies a settings patch subject to the lock levels of the
// current event state and returns the changed keys.
func (ev *Event) UpdateSettings(ctx context.Context,
	patch map[string]any) (Settings, []string, error) {

	ev.mu.Lock()
	defer ev.mu.Unlock()

	snap, err := ev.load(ctx)
	if err != nil {
		return Settings{}, nil, err
	}
	updated, changed, err := snap.Settings.Patch(patch, snap.State)
	if err != nil {
		return snap.Settings, nil, err
	}
	if err := SaveSettings(ctx, ev.store, updated); err != nil {
		return snap.Settings, nil, err
	}

	return updated, changed, nil
}

// save writes pairings.json before raffle.json so a crash in between leaves
// entries describing the previous round only.
func (ev *Event) save(ctx context.Context, entries []Entry,
	ps *PairingsState) error {

	if err := SavePairings(ctx, ev.store, ps); err != nil {
		return err
	}
	return SaveEntries(ctx, ev.store, entries)
}

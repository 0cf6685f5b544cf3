/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

type EventState string

const (
	StateRegistrationEmpty EventState = "registration_empty"
	StateRegistrationOpen  EventState = "registration_open"
	StateRaffleStarted     EventState = "raffle_started"
	StatePairingsRunning   EventState = "pairings_running"
	StateVoting            EventState = "voting"
)

// DetectEventState derives the event's lifecycle state from the start
// marker, the registered decks and the pairings state (which may be nil).
func DetectEventState(started bool, entries []Entry,
	ps *PairingsState) EventState {

	if !started {
		if deckCount(entries) == 0 {
			return StateRegistrationEmpty
		}
		return StateRegistrationOpen
	}
	if ps == nil {
		return StateRaffleStarted
	}
	if ps.Phase.normalized() == PhaseVoting {
		return StateVoting
	}
	if ps.ActiveRound > 0 {
		return StatePairingsRunning
	}

	return StateRaffleStarted
}

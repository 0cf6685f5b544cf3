/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/commanderraffle/internal"
	"github.com/mikeb26/commanderraffle/pods"
)

type Phase string

const (
	PhaseReady   Phase = "ready"
	PhasePlaying Phase = "playing"
	PhaseVoting  Phase = "voting"
)

func (p Phase) normalized() Phase {
	return Phase(strings.ToLower(strings.TrimSpace(string(p))))
}

// PairingsState is the contents of pairings.json. Rounds holds, per round,
// the pods as lists of owner names; table i is pod i+1.
type PairingsState struct {
	Phase       Phase        `json:"phase"`
	ActiveRound int          `json:"active_round"`
	NumPods     int          `json:"num_pods"`
	MaxRounds   int          `json:"max_rounds"`
	Hosts       []string     `json:"hosts"`
	Rounds      [][][]string `json:"rounds"`
	GeneratedAt string       `json:"generated_at,omitempty"`
}

func newPairingsState(numPods, maxRounds int, hosts []string,
	rounds []pods.Round, now time.Time) *PairingsState {

	ps := &PairingsState{
		Phase:       PhasePlaying,
		ActiveRound: 1,
		NumPods:     numPods,
		MaxRounds:   maxRounds,
		Hosts:       hosts,
		Rounds:      make([][][]string, 0, len(rounds)),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
	if ps.Hosts == nil {
		ps.Hosts = []string{}
	}
	for _, r := range rounds {
		ps.Rounds = append(ps.Rounds, r.Pods)
	}

	return ps
}

// Round returns round roundNo (1-based).
func (ps *PairingsState) Round(roundNo int) (pods.Round, error) {
	if roundNo < 1 || roundNo > len(ps.Rounds) {
		return pods.Round{}, fmt.Errorf("%w: round %d of %d", ErrNotFound,
			roundNo, len(ps.Rounds))
	}

	return pods.Round{Number: roundNo, Pods: ps.Rounds[roundNo-1]}, nil
}

// Schedule returns every round in order.
func (ps *PairingsState) Schedule() []pods.Round {
	out := make([]pods.Round, 0, len(ps.Rounds))
	for i, p := range ps.Rounds {
		out = append(out, pods.Round{Number: i + 1, Pods: p})
	}
	return out
}

// Apply stamps round roundNo onto entries using the state's phase. Round
// numbers outside the schedule leave entries untouched.
func (ps *PairingsState) Apply(entries []Entry, roundNo int) {
	r, err := ps.Round(roundNo)
	if err != nil {
		return
	}
	phase := ps.Phase
	if phase == "" {
		phase = PhaseReady
	}
	ApplyRound(entries, r, phase)
}

// GeneratedTime parses GeneratedAt; older files may carry any common date
// layout or none at all.
func (ps *PairingsState) GeneratedTime() (time.Time, error) {
	return internal.ParseDateOrZero(ps.GeneratedAt)
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pods

import (
	"fmt"
	"strings"
)

// BuildRoundOutput formats a single round as an aligned table listing.
func BuildRoundOutput(r Round) string {
	type row struct{ table, size, players string }
	rows := make([]row, 0, len(r.Pods))
	for t, pod := range r.Pods {
		rows = append(rows, row{
			table:   fmt.Sprintf("%d.", t+1),
			size:    fmt.Sprintf("%d", len(pod)),
			players: strings.Join(pod, ", "),
		})
	}

	maxT, maxS := len("Table"), len("Size")
	for _, rw := range rows {
		if l := len(rw.table); l > maxT {
			maxT = l
		}
		if l := len(rw.size); l > maxS {
			maxS = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %d\n", r.Number))
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %s\n", maxT, "Table", maxS, "Size",
		"Players"))
	for _, rw := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %s\n", maxT, rw.table, maxS,
			rw.size, rw.players))
	}

	return sb.String()
}

// BuildScheduleOutput formats every round followed by a short summary of
// how well the schedule covers the roster.
func BuildScheduleOutput(roster []string, rounds []Round) string {
	var sb strings.Builder
	if len(rounds) == 0 {
		sb.WriteString("No rounds scheduled\n")
		return sb.String()
	}
	for _, r := range rounds {
		sb.WriteString(BuildRoundOutput(r))
		sb.WriteString("\n")
	}

	cov := CoverageOf(roster, rounds)
	total := len(roster) * (len(roster) - 1) / 2
	sb.WriteString(fmt.Sprintf("Pairs covered: %d/%d  Max repeats: %d\n",
		total-cov.MissingPairs(), total, cov.MaxCount()))

	return sb.String()
}

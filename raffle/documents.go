/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mikeb26/commanderraffle/internal"
)

// LoadEntries reads raffle.json. A missing document is an empty list and a
// document holding a single object is a list of one.
func LoadEntries(ctx context.Context, st Store) ([]Entry, error) {
	data, err := st.Get(ctx, internal.RaffleFile)
	if errors.Is(err, ErrNotFound) {
		return []Entry{}, nil
	} else if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Entry{}, nil
	}
	if data[0] == '{' {
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("unable to parse %v: %w", internal.RaffleFile, err)
		}
		return []Entry{e}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unable to parse %v: %w", internal.RaffleFile, err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

func SaveEntries(ctx context.Context, st Store, entries []Entry) error {
	return putJSON(ctx, st, internal.RaffleFile, entries)
}

// LoadPairings reads pairings.json, returning nil when it does not exist.
func LoadPairings(ctx context.Context, st Store) (*PairingsState, error) {
	data, err := st.Get(ctx, internal.PairingsFile)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var ps PairingsState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("unable to parse %v: %w", internal.PairingsFile, err)
	}

	return &ps, nil
}

func SavePairings(ctx context.Context, st Store, ps *PairingsState) error {
	return putJSON(ctx, st, internal.PairingsFile, ps)
}

// RaffleStarted reports whether the start marker exists.
func RaffleStarted(ctx context.Context, st Store) (bool, error) {
	return exists(ctx, st, internal.StartFile)
}

// LoadParticipants reads teilnehmer.txt, one name per line. Blank lines are
// skipped and a missing file yields no names.
func LoadParticipants(ctx context.Context, st Store) ([]string, error) {
	data, err := st.Get(ctx, internal.ParticipantsFile)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}

	names := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read %v: %w", internal.ParticipantsFile, err)
	}

	return names, nil
}

func putJSON(ctx context.Context, st Store, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("unable to encode %v: %w", name, err)
	}

	return st.Put(ctx, name, append(data, '\n'))
}

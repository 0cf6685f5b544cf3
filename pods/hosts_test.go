/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pods

import (
	"bytes"
	"errors"
	"log"
	"math/rand"
	"os"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestFirstRoundWithHosts(t *testing.T) {
	roster := []string{"A", "B", "C", "D", "E", "F"}

	r, seeded := FirstRoundWithHosts(roster, 2, []string{"D", "A"},
		rand.New(rand.NewSource(7)))
	if !seeded {
		t.Fatalf("hosts were not honored")
	}
	if r.Number != 1 {
		t.Errorf("round number = %d; want 1", r.Number)
	}
	checkRounds(t, roster, 2, []Round{r})
	if r.Pods[0][0] != "A" {
		t.Errorf("pod 1 = %v; want host A first", r.Pods[0])
	}
	if r.Pods[1][0] != "D" {
		t.Errorf("pod 2 = %v; want host D first", r.Pods[1])
	}
	if slices.Contains(r.Pods[0], "D") || slices.Contains(r.Pods[1], "A") {
		t.Errorf("hosts share a pod: %v", r.Pods)
	}
}

func TestFirstRoundWithHostsCaseInsensitiveOrder(t *testing.T) {
	roster := []string{"bob", "Alice", "carl", "Dana"}
	r, seeded := FirstRoundWithHosts(roster, 2, []string{"bob", "Alice"},
		rand.New(rand.NewSource(1)))
	if !seeded {
		t.Fatalf("hosts were not honored")
	}
	if r.Pods[0][0] != "Alice" || r.Pods[1][0] != "bob" {
		t.Errorf("pods = %v; want Alice then bob as hosts", r.Pods)
	}
}

func TestFirstRoundWithHostsFallback(t *testing.T) {
	roster := []string{"A", "B", "C", "D", "E", "F"}
	cases := []struct {
		name   string
		hosts  []string
		logged bool
	}{
		{name: "unknown host", hosts: []string{"A", "Z"}, logged: true},
		{name: "too many hosts", hosts: []string{"A", "B", "C"}, logged: true},
		{name: "no hosts", hosts: nil, logged: false},
	}
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf.Reset()
			r, seeded := FirstRoundWithHosts(roster, 2, c.hosts,
				rand.New(rand.NewSource(3)))
			if seeded {
				t.Errorf("expected an unseeded round")
			}
			checkRounds(t, roster, 2, []Round{r})
			got := strings.Contains(buf.String(), "pods.FirstRoundWithHosts:")
			if got != c.logged {
				t.Errorf("logged = %v; want %v (log %q)", got, c.logged, buf.String())
			}
		})
	}
}

func TestFirstRoundWithHostsSeedIsReproducible(t *testing.T) {
	roster := []string{"A", "B", "C", "D", "E", "F", "G"}
	a, _ := FirstRoundWithHosts(roster, 3, []string{"G"}, rand.New(rand.NewSource(9)))
	b, _ := FirstRoundWithHosts(roster, 3, []string{"G"}, rand.New(rand.NewSource(9)))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestFirstRoundWithHostsNilRand(t *testing.T) {
	roster := []string{"A", "B", "C", "D"}
	r, seeded := FirstRoundWithHosts(roster, 2, []string{"C"}, nil)
	if !seeded {
		t.Fatalf("hosts were not honored")
	}
	checkRounds(t, roster, 2, []Round{r})
}

func TestValidateHosts(t *testing.T) {
	roster := []string{"A", "B", "C", "D", "E", "F"}
	cases := []struct {
		name    string
		hosts   []string
		want    []string
		wantErr bool
	}{
		{name: "valid", hosts: []string{"D", "A"}, want: []string{"D", "A"}},
		{name: "trim and dedup", hosts: []string{" A ", "A", "", "B"}, want: []string{"A", "B"}},
		{name: "not on roster", hosts: []string{"Q"}, wantErr: true},
		{name: "more hosts than pods", hosts: []string{"A", "B", "C"}, wantErr: true},
		{name: "none", hosts: nil, want: []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ValidateHosts(roster, 2, c.hosts)
			if c.wantErr {
				if !errors.Is(err, ErrHostSeedMismatch) {
					t.Errorf("err = %v; want ErrHostSeedMismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("got %v; want %v", got, c.want)
			}
		})
	}
}

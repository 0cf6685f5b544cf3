/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mikeb26/commanderraffle/internal"
	"github.com/mikeb26/commanderraffle/notify"
	"github.com/mikeb26/commanderraffle/raffle"
	"github.com/mikeb26/commanderraffle/s3cache"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":     handleHelp,
	"pods":     handlePods,
	"schedule": handleSchedule,
	"register": handleRegister,
	"start":    handleStart,
	"confirm":  handleConfirm,
	"pairings": handlePairings,
	"next":     handleNext,
	"table":    handleTable,
	"status":   handleStatus,
	"settings": handleSettings,
	"card":     handleCard,
}

var cfg internal.Config

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	var err error
	cfg, err = internal.LoadConfig()
	if err != nil {
		log.Fatalf("raffletd: %v", err)
	}

	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// openStore returns the S3 store when a bucket is configured and the local
// directory store otherwise.
func openStore(ctx context.Context) raffle.Store {
	if cfg.S3Bucket == "" {
		return raffle.NewFileStore(cfg.DataDir)
	}

	cache := s3cache.New(ctx, cfg.S3Bucket, false, true).WithPrefix(cfg.S3Prefix)
	if err := cache.Init(); err != nil {
		log.Fatalf("Error opening event bucket %v: %v", cfg.S3Bucket, err)
	}
	return raffle.NewS3Store(cache)
}

func openEvent(ctx context.Context) *raffle.Event {
	return raffle.NewEvent(openStore(ctx))
}

func newNotifier() notify.Notifier {
	if cfg.DiscordWebhook == "" {
		return notify.LogNotifier{}
	}
	n, err := notify.NewDiscordWebhook(cfg.DiscordWebhook)
	if err != nil {
		log.Printf("raffletd: announcements go to the log: %v", err)
		return notify.LogNotifier{}
	}
	return n
}

// mutate runs f and announces the result if the event state changed.
func mutate(ctx context.Context, ev *raffle.Event, f func() error) {
	before, err := ev.Snapshot(ctx)
	if err != nil {
		log.Fatalf("Error loading event: %v", err)
	}
	if err := f(); err != nil {
		log.Fatalf("Error: %v", err)
	}
	after, err := ev.Snapshot(ctx)
	if err != nil {
		log.Fatalf("Error loading event: %v", err)
	}

	a := notify.NewAnnouncer(newNotifier(), before.GlobalSignature())
	if _, err := a.Announce(ctx, after); err != nil {
		// the change itself is saved; only the announcement failed
		log.Printf("raffletd: %v", err)
	}
}

// splitList parses a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = internal.NormalizeName(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// multiFlag collects a repeated string flag.
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

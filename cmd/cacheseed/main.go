/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikeb26/commanderraffle/internal"
	"github.com/mikeb26/commanderraffle/raffle"
	"github.com/mikeb26/commanderraffle/s3cache"
	"github.com/mikeb26/commanderraffle/scryfall"
)

// this program exists just to seed the http cache with the cards of every
// registered deck

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func main() {
	ctx := context.Background()

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}
	if cfg.WebCacheBucket == "" {
		log.Printf("cacheseed: RAFFLE_WEB_CACHE_BUCKET is not set; the cache lives only as long as this process")
	}

	var st raffle.Store = raffle.NewFileStore(cfg.DataDir)
	if cfg.S3Bucket != "" {
		cache := s3cache.New(ctx, cfg.S3Bucket, false, true).WithPrefix(cfg.S3Prefix)
		if err := cache.Init(); err != nil {
			log.Fatalf("cacheseed: %v", err)
		}
		st = raffle.NewS3Store(cache)
	}
	entries, err := raffle.LoadEntries(ctx, st)
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}

	names := seedNames(entries)
	sc := scryfall.NewClient(ctx, cfg.WebCacheBucket)
	// scryfall asks for no more than ~10 requests a second
	for start := 0; start < len(names); start += 4 {
		end := min(start+4, len(names))
		cards, err := sc.LookupCommanders(ctx, names[start:end])
		if err != nil {
			// best effort
			log.Printf("cacheseed: %v", err)
		} else {
			for i, c := range cards {
				if c == nil {
					fmt.Printf("unknown card %q\n", names[start+i])
					continue
				}
				fmt.Printf("seeded %v\n", c.Name)
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// seedNames returns every distinct commander and partner name in entries.
func seedNames(entries []raffle.Entry) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		for _, n := range []string{e.Commander, e.Partner} {
			n = internal.NormalizeName(n)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

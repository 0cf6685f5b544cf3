/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process level configuration shared by the binaries. Event
// settings (pod counts, round limits, ...) live in event_config.json instead.
type Config struct {
	// DataDir holds raffle.json, pairings.json etc. when no bucket is set
	DataDir string `env:"RAFFLE_DATA_DIR" envDefault:"."`
	// S3Bucket, if set, stores event documents in S3 rather than DataDir
	S3Bucket string `env:"RAFFLE_S3_BUCKET"`
	// S3Prefix is prepended to every event document key in S3Bucket
	S3Prefix string `env:"RAFFLE_S3_PREFIX" envDefault:"raffle/"`
	// WebCacheBucket backs the Scryfall http cache; empty means in-memory
	WebCacheBucket string `env:"RAFFLE_WEB_CACHE_BUCKET"`

	DiscordWebhook string `env:"RAFFLE_DISCORD_WEBHOOK"`
	DiscordPubKey  string `env:"RAFFLE_DISCORD_PUBKEY"`
	DiscordToken   string `env:"RAFFLE_DISCORD_TOKEN"`
	DiscordAppID   string `env:"RAFFLE_DISCORD_APP_ID"`
	ListenAddr     string `env:"RAFFLE_LISTEN_ADDR" envDefault:":8080"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse environment config: %w", err)
	}

	return cfg, nil
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package notify announces round changes to the players' Discord channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/commanderraffle/pods"
	"github.com/mikeb26/commanderraffle/raffle"
)

var ErrBadWebhookURL = errors.New("invalid discord webhook url")

const botName = "Commander Raffle"

type Notifier interface {
	Notify(ctx context.Context, content string) error
}

// LogNotifier writes announcements to the log; used when no webhook is
// configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, content string) error {
	log.Printf("notify: %v", content)
	return nil
}

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool,
		data *discordgo.WebhookParams,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordWebhook posts announcements through a Discord channel webhook.
type DiscordWebhook struct {
	exec  webhookExecutor
	id    string
	token string
}

// NewDiscordWebhook returns a notifier for a webhook url of the form
// https://discord.com/api/webhooks/<id>/<token>.
func NewDiscordWebhook(webhookURL string) (*DiscordWebhook, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// webhook execution needs no bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("unable to initialize discord client: %w", err)
	}

	return &DiscordWebhook{exec: session, id: id, token: token}, nil
}

func (d *DiscordWebhook) Notify(ctx context.Context, content string) error {
	_, err := d.exec.WebhookExecute(d.id, d.token, false,
		&discordgo.WebhookParams{
			Content:  TruncateContent(content),
			Username: botName,
		}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("unable to post discord announcement: %w", err)
	}

	return nil
}

// ParseWebhookURL splits a Discord webhook url into its id and token.
func ParseWebhookURL(webhookURL string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(webhookURL))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrBadWebhookURL, err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadWebhookURL, webhookURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] != "webhooks" {
			continue
		}
		if id, token := parts[i+1], parts[i+2]; id != "" && token != "" {
			return id, token, nil
		}
	}

	return "", "", fmt.Errorf("%w: %q", ErrBadWebhookURL, webhookURL)
}

// TruncateContent keeps s within Discord's 2000 character message limit.
func TruncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}

// BuildRoundAnnouncement formats the seating of r for Discord.
func BuildRoundAnnouncement(r pods.Round, totalRounds int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Round %d of %d** is starting. Find your table:\n",
		r.Number, totalRounds))
	sb.WriteString(fmt.Sprintf("```\n%s```", pods.BuildRoundOutput(r)))

	return sb.String()
}

// BuildAnnouncement describes the event's current state, or returns "" when
// there is nothing players need to hear about.
func BuildAnnouncement(snap *raffle.Snapshot) string {
	switch snap.State {
	case raffle.StateRaffleStarted:
		return fmt.Sprintf("The raffle has started: %d decks have found their new owners. Please confirm once you have received yours.",
			len(raffle.Roster(snap.Entries)))
	case raffle.StatePairingsRunning:
		ps := snap.Pairings
		r, err := ps.Round(ps.ActiveRound)
		if err != nil {
			return ""
		}
		return BuildRoundAnnouncement(r, len(ps.Rounds))
	case raffle.StateVoting:
		return "All rounds are complete. Voting is now open!"
	}

	return ""
}

// Announcer posts an announcement whenever the event's global signature
// changes.
type Announcer struct {
	n    Notifier
	last string
}

// NewAnnouncer returns an Announcer that treats lastSig as already
// announced.
func NewAnnouncer(n Notifier, lastSig string) *Announcer {
	return &Announcer{n: n, last: lastSig}
}

// Announce notifies if snap differs from the last announced state and
// reports whether a message was sent. The signature is only recorded once
// the notification succeeds.
func (a *Announcer) Announce(ctx context.Context,
	snap *raffle.Snapshot) (bool, error) {

	sig := snap.GlobalSignature()
	if sig == a.last {
		return false, nil
	}
	msg := BuildAnnouncement(snap)
	if msg == "" {
		a.last = sig
		return false, nil
	}
	if err := a.n.Notify(ctx, msg); err != nil {
		return false, err
	}
	a.last = sig

	return true, nil
}

func (a *Announcer) LastSignature() string {
	return a.last
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/commanderraffle/internal"
	"github.com/mikeb26/commanderraffle/notify"
	"github.com/mikeb26/commanderraffle/pods"
	"github.com/mikeb26/commanderraffle/raffle"
	"github.com/mikeb26/commanderraffle/scryfall"
)

type RaffleSubCommand string

const (
	RaffleHelpCmd   RaffleSubCommand = "help"
	RaffleStatusCmd RaffleSubCommand = "status"
	RaffleRoundCmd  RaffleSubCommand = "round"
	RaffleTableCmd  RaffleSubCommand = "table"
	RaffleDeckCmd   RaffleSubCommand = "deck"
	RaffleCardCmd   RaffleSubCommand = "card"
)

var raffleSubCmdHdlrs = map[RaffleSubCommand]CmdHandler{
	RaffleHelpCmd:   raffleHelpCmdHandler,
	RaffleStatusCmd: raffleStatusCmdHandler,
	RaffleRoundCmd:  raffleRoundCmdHandler,
	RaffleTableCmd:  raffleTableCmdHandler,
	RaffleDeckCmd:   raffleDeckCmdHandler,
	RaffleCardCmd:   raffleCardCmdHandler,
}

func raffleCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := raffleHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := raffleSubCmdHdlrs[RaffleSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions returns the options of the invoked subcommand and applies the
// common broadcast option to resp.
func subOptions(inter *discordgo.Interaction,
	resp *discordgo.InteractionResponse) map[string]*discordgo.ApplicationCommandInteractionDataOption {

	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts
	}
	for _, opt := range data.Options[0].Options {
		opts[opt.Name] = opt
	}
	if b, ok := opts["broadcast"]; ok && b.BoolValue() {
		resp.Data.Flags = 0
	}
	return opts
}

//go:embed help.md
var helpText string

func raffleHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = notify.TruncateContent(helpText)
	return resp
}

func raffleStatusCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	subOptions(inter, resp)

	snap, err := event.Snapshot(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading event: %v", err)
		log.Printf("discordbot.status: %v", resp.Data.Content)
		return resp
	}

	var sb strings.Builder
	decks, confirmed := 0, 0
	for _, e := range snap.Entries {
		if e.HasDeck() {
			decks++
			if e.ReceivedConfirmed {
				confirmed++
			}
		}
	}
	sb.WriteString(fmt.Sprintf("**State**: %v\n", snap.State))
	if when, err := snap.Settings.EventDateTime(); err == nil && !when.IsZero() {
		sb.WriteString(fmt.Sprintf("**Date**: %v\n", when.Format("Mon Jan 2, 2006")))
	}
	sb.WriteString(fmt.Sprintf("**Decks**: %d registered", decks))
	if snap.Started {
		sb.WriteString(fmt.Sprintf(", %d received", confirmed))
	}
	sb.WriteString("\n")
	if ps := snap.Pairings; ps != nil && ps.Phase == raffle.PhasePlaying {
		sb.WriteString(fmt.Sprintf("**Round**: %d of %d\n", ps.ActiveRound,
			len(ps.Rounds)))
	}
	resp.Data.Content = notify.TruncateContent(sb.String())

	return resp
}

func raffleRoundCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter, resp)

	snap, err := event.Snapshot(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading event: %v", err)
		log.Printf("discordbot.round: %v", resp.Data.Content)
		return resp
	}
	ps := snap.Pairings
	if ps == nil || ps.ActiveRound < 1 {
		resp.Data.Content = "Pairings have not started yet."
		return resp
	}
	roundNo := ps.ActiveRound
	if opt, ok := opts["number"]; ok {
		roundNo = int(opt.IntValue())
	}
	r, err := ps.Round(roundNo)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("There is no round %d; this event has %d rounds.",
			roundNo, len(ps.Rounds))
		return resp
	}

	resp.Data.Content = notify.TruncateContent(
		notify.BuildRoundAnnouncement(r, len(ps.Rounds)))

	return resp
}

func raffleTableCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter, resp)

	opt, ok := opts["player"]
	if !ok || internal.NormalizeName(opt.StringValue()) == "" {
		resp.Data.Content = "Please provide a player name."
		log.Printf("discordbot.table: %v", resp.Data.Content)
		return resp
	}
	player := internal.NormalizeName(opt.StringValue())

	snap, err := event.Snapshot(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading event: %v", err)
		log.Printf("discordbot.table: %v", resp.Data.Content)
		return resp
	}
	ps := snap.Pairings
	if ps == nil || ps.Phase != raffle.PhasePlaying {
		resp.Data.Content = "No round is being played right now."
		return resp
	}
	r, err := ps.Round(ps.ActiveRound)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error: %v", err)
		return resp
	}
	name, seat, ok := lookupSeat(r, player)
	if !ok {
		resp.Data.Content = fmt.Sprintf("%v is not seated in round %d.", player,
			r.Number)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("Round %d: **%v** plays at **table %d** with %v.",
		r.Number, name, seat.Table, strings.Join(seat.Opponents(name), ", "))

	return resp
}

// lookupSeat finds player in r ignoring case and returns the seated name.
func lookupSeat(r pods.Round, player string) (string, pods.Seat, bool) {
	seating := r.Seating()
	if seat, ok := seating[player]; ok {
		return player, seat, true
	}
	for name, seat := range seating {
		if strings.EqualFold(name, player) {
			return name, seat, true
		}
	}
	return "", pods.Seat{}, false
}

func raffleDeckCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter, resp)

	opt, ok := opts["id"]
	if !ok {
		resp.Data.Content = "Please provide a deck ID."
		log.Printf("discordbot.deck: %v", resp.Data.Content)
		return resp
	}
	deckID := int(opt.IntValue())

	snap, err := event.Snapshot(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading event: %v", err)
		log.Printf("discordbot.deck: %v", resp.Data.Content)
		return resp
	}
	e := raffle.FindDeck(snap.Entries, deckID)
	if e == nil {
		resp.Data.Content = fmt.Sprintf("Deck %d is not registered.", deckID)
		return resp
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Commander**: %v\n", e.Commander))
	if e.Partner != "" {
		sb.WriteString(fmt.Sprintf("**Partner**: %v\n", e.Partner))
	}
	sb.WriteString(fmt.Sprintf("**Built by**: %v\n", e.Creator))
	if e.Owner != "" {
		sb.WriteString(fmt.Sprintf("**Played by**: %v", e.Owner))
		if e.ReceivedConfirmed {
			sb.WriteString(" (received)")
		}
		sb.WriteString("\n")
	}
	if e.PairingRound > 0 && e.PairingTable != nil {
		sb.WriteString(fmt.Sprintf("**Round %d**: table %d with %v\n",
			e.PairingRound, *e.PairingTable, strings.Join(e.PairingPlayers, ", ")))
	}
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Deck %d", deckID),
		URL:         e.DeckURL,
		Type:        discordgo.EmbedTypeRich,
		Description: sb.String(),
	}
	resp.Data.Embeds = []*discordgo.MessageEmbed{embed}

	return resp
}

func raffleCardCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter, resp)

	var card *scryfall.Card
	var err error
	if opt, ok := opts["name"]; ok && strings.TrimSpace(opt.StringValue()) != "" {
		card, err = cards.NamedExact(ctx, strings.TrimSpace(opt.StringValue()))
	} else {
		card, err = cards.RandomCommander(ctx, registeredCommanders(ctx))
	}
	if errors.Is(err, scryfall.ErrCardNotFound) {
		resp.Data.Content = "No such card."
		return resp
	} else if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching card: %v", err)
		log.Printf("discordbot.card: %v", resp.Data.Content)
		return resp
	}

	embed := &discordgo.MessageEmbed{
		Title:       card.Name,
		URL:         card.ScryfallURI,
		Type:        discordgo.EmbedTypeRich,
		Description: scryfall.BuildCardOutput(card, "**"),
	}
	if img := card.ImageURL("normal"); img != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: img}
	}
	resp.Data.Embeds = []*discordgo.MessageEmbed{embed}

	return resp
}

// registeredCommanders returns the scryfall ids already in the raffle.
func registeredCommanders(ctx context.Context) map[string]bool {
	exclude := make(map[string]bool)
	snap, err := event.Snapshot(ctx)
	if err != nil {
		// best effort
		return exclude
	}
	for _, e := range snap.Entries {
		if e.CommanderID != "" {
			exclude[e.CommanderID] = true
		}
	}
	return exclude
}

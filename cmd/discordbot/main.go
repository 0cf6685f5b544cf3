/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/commanderraffle/internal"
	"github.com/mikeb26/commanderraffle/raffle"
	"github.com/mikeb26/commanderraffle/s3cache"
	"github.com/mikeb26/commanderraffle/scryfall"
)

// cmdHashFile records the hash of the last registered command so restarts
// only edit the registration when it changed.
const cmdHashFile = "discord_cmd.hash"

var (
	cfg       internal.Config
	botPubKey ed25519.PublicKey
	client    *discordgo.Session
	event     *raffle.Event
	cards     *scryfall.Client
)

type TopLevelCommand string

const (
	RaffleCmd TopLevelCommand = "raffle"
)

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	RaffleCmd: raffleCmdHandler,
}

type interactionServer struct {
	pubKey ed25519.PublicKey
}

func (s *interactionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, s.pubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("discordbot.int: unimplemented interation type %v: inter:%v",
			inter.Type, inter)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func openStore(ctx context.Context) raffle.Store {
	if cfg.S3Bucket == "" {
		return raffle.NewFileStore(cfg.DataDir)
	}

	cache := s3cache.New(ctx, cfg.S3Bucket, false, true).WithPrefix(cfg.S3Prefix)
	if err := cache.Init(); err != nil {
		log.Fatalf("discordbot.init: failed to open bucket %v: %v", cfg.S3Bucket, err)
	}
	return raffle.NewS3Store(cache)
}

func cmdHash(cmd *discordgo.ApplicationCommand) (string, error) {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("unable to hash command: %w", err)
	}
	hash := sha256.Sum256(cmdJson)
	return hex.EncodeToString(hash[:]), nil
}

func shouldUpdateCmdRegistration(ctx context.Context, st raffle.Store,
	hash string) bool {

	last, err := st.Get(ctx, cmdHashFile)
	if err != nil && !errors.Is(err, raffle.ErrNotFound) {
		log.Printf("discordbot.reg: failed to read %v: %v", cmdHashFile, err)
	}

	return strings.TrimSpace(string(last)) != hash
}

var broadcastOpt = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionBoolean,
	Name:        "broadcast",
	Description: "Share with the rest of the channel instead of only to you (default is false)",
	Required:    false,
}

func raffleCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(RaffleCmd),
		Description: "Commander raffle commands; try /raffle help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaffleHelpCmd),
				Description: "Show usage for raffle",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaffleStatusCmd),
				Description: "Show where the event stands",
				Options:     []*discordgo.ApplicationCommandOption{broadcastOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaffleRoundCmd),
				Description: "Show the pods of a round",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "number",
						Description: "Round number (default is the active round)",
						Required:    false,
					},
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaffleTableCmd),
				Description: "Find a player's table in the active round",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "player",
						Description: "Player name",
						Required:    true,
					},
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaffleDeckCmd),
				Description: "Show a registered deck",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "id",
						Description: "Deck id",
						Required:    true,
					},
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaffleCardCmd),
				Description: "Look up a card, or draw a random unregistered commander",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Exact card name (default is a random commander)",
						Required:    false,
					},
					broadcastOpt,
				},
			},
		},
	}
}

func registerSlashCommands(ctx context.Context, st raffle.Store) {
	cmd := raffleCommand()
	hash, err := cmdHash(cmd)
	if err != nil {
		log.Printf("discordbot.reg: %v", err)
		return
	}
	if !shouldUpdateCmdRegistration(ctx, st, hash) {
		return
	}

	existing, err := client.ApplicationCommands(cfg.DiscordAppID, "",
		discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("discordbot.reg: failed to list commands: %v", err)
		return
	}
	var registered *discordgo.ApplicationCommand
	for _, c := range existing {
		if c.Name == cmd.Name {
			registered = c
			break
		}
	}

	if registered == nil {
		registered, err = client.ApplicationCommandCreate(cfg.DiscordAppID, "", cmd,
			discordgo.WithContext(ctx))
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", cmd.Name, err)
			return
		}
		log.Printf("discordbot.reg: registered %v(cmdID:%v)", registered.Name,
			registered.ID)
	} else {
		registered, err = client.ApplicationCommandEdit(cfg.DiscordAppID, "",
			registered.ID, cmd, discordgo.WithContext(ctx))
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", cmd.Name, err)
			return
		}
		log.Printf("discordbot.reg: updated %v(cmdID:%v)", registered.Name,
			registered.ID)
	}

	if err := st.Put(ctx, cmdHashFile, []byte(hash+"\n")); err != nil {
		log.Printf("discordbot.reg: failed to save %v: %v", cmdHashFile, err)
	}
}

func main() {
	ctx := context.Background()

	var err error
	cfg, err = internal.LoadConfig()
	if err != nil {
		log.Fatalf("discordbot.init: %v", err)
	}
	pubKeyBytes, err := hex.DecodeString(strings.TrimSpace(cfg.DiscordPubKey))
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		log.Fatalf("discordbot.init: Failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	client, err = discordgo.New("Bot " + strings.TrimSpace(cfg.DiscordToken))
	if err != nil {
		log.Fatalf("discordbot.init: Failed to initialize discord client: %v", err)
	}

	st := openStore(ctx)
	event = raffle.NewEvent(st)
	cards = scryfall.NewClient(ctx, cfg.WebCacheBucket)

	go registerSlashCommands(ctx, st)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v%v", hostname, cfg.ListenAddr)

	http.Handle("/DiscordBot/Interaction", &interactionServer{pubKey: botPubKey})
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}

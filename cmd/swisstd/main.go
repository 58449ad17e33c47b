/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/boylstonchessclub-swiss/internal"
	"github.com/mikeb26/boylstonchessclub-swiss/league"
	"github.com/mikeb26/boylstonchessclub-swiss/s3cache"
	"github.com/mikeb26/boylstonchessclub-swiss/store"
	"github.com/mikeb26/boylstonchessclub-swiss/swiss"
	"github.com/rs/zerolog"
)

//go:embed help.txt
var helpText string

//go:embed rules.txt
var rulesText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, a *app, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":       handleHelp,
	"rules":      handleRules,
	"new":        handleNew,
	"list":       handleList,
	"player":     handlePlayer,
	"pair":       handlePair,
	"result":     handleResult,
	"pairings":   handlePairings,
	"standings":  handleStandings,
	"crosstable": handleCrossTable,
	"status":     handleStatus,
}

type app struct {
	log   zerolog.Logger
	store *store.Store
	svc   *league.Service
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	handler(ctx, newApp(ctx, cfg), os.Args[2:])
}

func newApp(ctx context.Context, cfg internal.Config) *app {
	log := internal.NewLogger(cfg.LogLevel)

	mode, err := swiss.ParseMode(cfg.PairingMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid SWISS_PAIRING_MODE")
	}
	st := store.New(openCache(ctx, cfg, log), log)
	opts := swiss.Options{Mode: mode, SearchLimit: cfg.SearchLimit}

	return &app{
		log:   log,
		store: st,
		svc:   league.NewService(st, opts, log),
	}
}

// openCache prefers S3 when a bucket is configured and falls back to the
// local state directory if the bucket cannot be reached.
func openCache(ctx context.Context, cfg internal.Config,
	log zerolog.Logger) httpcache.Cache {

	if cfg.Bucket != "" {
		cache := s3cache.New(ctx, cfg.Bucket, cfg.Prefix, cfg.Gzip, log)
		err := cache.Init()
		if err == nil {
			return cache
		}
		log.Warn().Err(err).Str("bucket", cfg.Bucket).
			Str("dir", cfg.StateDir).Msg("failed to init S3 snapshots; using local state")
	}
	return store.NewDiskCache(cfg.StateDir)
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, a *app, args []string) {
	usage()
}

func handleRules(ctx context.Context, a *app, args []string) {
	fmt.Printf("%v", rulesText)
}

// demoRoster seeds a tournament for trying out the pairing engine.
var demoRoster = []league.Entry{
	{Player: swiss.Player{Name: "Alpha", Rating: 1800}},
	{Player: swiss.Player{Name: "Bravo", Rating: 1700}},
	{Player: swiss.Player{Name: "Charlie", Rating: 1650}},
	{Player: swiss.Player{Name: "Delta", Rating: 1600}},
	{Player: swiss.Player{Name: "Echo", Rating: 1550}},
	{Player: swiss.Player{Name: "Foxtrot", Rating: 1500}},
	{Player: swiss.Player{Name: "Golf", Rating: 1450}},
	{Player: swiss.Player{Name: "Hotel", Rating: 1400}},
}

func handleNew(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	mode := fs.String("mode", "", "Pairing mode (greedy or strict); defaults to SWISS_PAIRING_MODE")
	demo := fs.Bool("demo", false, "Register a demo roster of eight players")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "Please provide a --name.")
		fs.Usage()
		os.Exit(1)
	}

	t, err := a.svc.Create(ctx, *name, *mode)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to create tournament")
	}
	if *demo {
		for _, e := range demoRoster {
			if _, err := a.svc.AddPlayer(ctx, t.ID, e); err != nil {
				a.log.Fatal().Err(err).Str("player", e.Name).Msg("failed to seed roster")
			}
		}
	}

	fmt.Printf("Created tournament %s (TID:%s)\n", t.Name, t.ID)
	fmt.Printf("\nRun '%s player add --tid %s --name <Name>' to register players\n",
		os.Args[0], t.ID)
}

func handleList(ctx context.Context, a *app, args []string) {
	ids, err := a.store.List(ctx)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to list tournaments")
	}
	if len(ids) == 0 {
		fmt.Println("No tournaments found.")
		return
	}
	for _, id := range ids {
		t, err := a.store.Load(ctx, id)
		if err != nil {
			a.log.Warn().Err(err).Str("tournament", id).Msg("skipping unreadable tournament")
			continue
		}
		fmt.Printf("  - %s (TID:%s) players:%d rounds:%d\n", t.Name, t.ID,
			len(t.Players), len(t.Rounds))
	}
}

// tidFlag registers the --tid flag shared by every per-tournament command.
func tidFlag(fs *flag.FlagSet) *string {
	return fs.String("tid", "", "Tournament ID")
}

func requireTID(fs *flag.FlagSet, tid string) {
	if tid == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --tid ID.")
		fs.Usage()
		os.Exit(1)
	}
}

func handlePlayer(ctx context.Context, a *app, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: player <add|withdraw|reinstate|remove> [flags]")
		os.Exit(1)
	}
	sub, args := args[0], args[1:]

	fs := flag.NewFlagSet("player "+sub, flag.ExitOnError)
	tid := tidFlag(fs)
	switch sub {
	case "add":
		name := fs.String("name", "", "Player name")
		rating := fs.Int("rating", 0, "Rating; unrated players are seeded at 1200")
		section := fs.String("section", "", "Section name, e.g. Open or U1600")
		club := fs.String("club", "", "Club affiliation")
		if err := fs.Parse(args); err != nil {
			os.Exit(1)
		}
		requireTID(fs, *tid)
		e, err := a.svc.AddPlayer(ctx, *tid, league.Entry{
			Player:  swiss.Player{Name: *name, Rating: *rating},
			Section: *section,
			Club:    *club,
		})
		if err != nil {
			a.log.Fatal().Err(err).Msg("failed to add player")
		}
		fmt.Printf("Added %s (%d) as player %d\n", e.Name, e.Rating, e.ID)

	case "withdraw", "reinstate", "remove":
		pid := fs.Int("id", 0, "Player ID")
		if err := fs.Parse(args); err != nil {
			os.Exit(1)
		}
		requireTID(fs, *tid)
		if *pid <= 0 {
			fmt.Fprintln(os.Stderr, "Please provide a valid --id player ID.")
			fs.Usage()
			os.Exit(1)
		}
		var err error
		if sub == "remove" {
			err = a.svc.RemovePlayer(ctx, *tid, swiss.PlayerID(*pid))
		} else {
			err = a.svc.SetWithdrawn(ctx, *tid, swiss.PlayerID(*pid), sub == "withdraw")
		}
		if err != nil {
			a.log.Fatal().Err(err).Int("player", *pid).Msgf("failed to %s player", sub)
		}
		fmt.Printf("Player %d: %s done\n", *pid, sub)

	default:
		fmt.Fprintf(os.Stderr, "Unknown player command: %s\n", sub)
		os.Exit(1)
	}
}

func handlePair(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	tid := tidFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireTID(fs, *tid)

	r, err := a.svc.NextRound(ctx, *tid)
	if err != nil {
		a.log.Fatal().Err(err).Str("tournament", *tid).Msg("failed to pair next round")
	}
	t, err := a.svc.Get(ctx, *tid)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to reload tournament")
	}
	fmt.Print(league.BuildPairingsOutput(t, r.Number))
}

func handleResult(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("result", flag.ExitOnError)
	tid := tidFlag(fs)
	round := fs.Int("round", 0, "Round number; defaults to the latest round")
	board := fs.Int("board", 0, "Board number")
	result := fs.String("result", "", "Result: 1-0, 0-1, ½-½ (or 1/2-1/2), or * to clear")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireTID(fs, *tid)
	if *board <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --board number.")
		fs.Usage()
		os.Exit(1)
	}
	if *result == "" {
		fmt.Fprintln(os.Stderr, "Please provide a --result; use * to clear one.")
		fs.Usage()
		os.Exit(1)
	}
	if *round <= 0 {
		t, err := a.svc.Get(ctx, *tid)
		if err != nil {
			a.log.Fatal().Err(err).Msg("failed to load tournament")
		}
		if last := t.LastRound(); last != nil {
			*round = last.Number
		}
	}

	if err := a.svc.RecordResult(ctx, *tid, *round, *board, *result); err != nil {
		a.log.Fatal().Err(err).Msg("failed to record result")
	}
	outcome, _ := league.ParseResult(*result)
	fmt.Printf("Round %d board %d: %s\n", *round, *board, league.ResultString(outcome))
}

func handlePairings(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("pairings", flag.ExitOnError)
	tid := tidFlag(fs)
	round := fs.Int("round", 0, "Round number; defaults to the latest round")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireTID(fs, *tid)

	t, err := a.svc.Get(ctx, *tid)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to load tournament")
	}
	if *round <= 0 {
		last := t.LastRound()
		if last == nil {
			fmt.Println("No rounds have been paired.")
			return
		}
		*round = last.Number
	}
	fmt.Print(league.BuildPairingsOutput(t, *round))
}

func handleStandings(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	tid := tidFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireTID(fs, *tid)

	t, err := a.svc.Get(ctx, *tid)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to load tournament")
	}
	all, err := league.ComputeStandings(t)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to compute standings")
	}
	fmt.Print(league.BuildStandingsOutput(t, all))
}

func handleCrossTable(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("crosstable", flag.ExitOnError)
	tid := tidFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireTID(fs, *tid)

	t, err := a.svc.Get(ctx, *tid)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to load tournament")
	}
	all, err := league.ComputeStandings(t)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to compute standings")
	}
	for _, ss := range all {
		fmt.Print(league.BuildCrossTableOutput(t, ss))
	}
}

func handleStatus(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	tid := tidFlag(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireTID(fs, *tid)

	st, err := a.svc.Status(ctx, *tid)
	if err != nil {
		a.log.Fatal().Err(err).Msg("failed to load tournament")
	}
	fmt.Printf("Rounds paired: %d\n", st.Rounds)
	fmt.Printf("Unplayed boards: %d\n", st.Unplayed)
	if st.CanGenerate {
		fmt.Printf("Round %d can be paired.\n", st.NextRound)
	} else {
		fmt.Printf("Round %d cannot be paired yet: %s\n", st.NextRound, st.Reason)
	}
}

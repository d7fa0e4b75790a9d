package main

import (
	"context"
	"flag"
	"fmt"
	"isolation/engine"
	"isolation/experiments"
	"isolation/game"
	"isolation/player"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "game", "Either game or experiment")
	configPath := flag.String("config", "", "YAML experiment config, the defaults are used when empty")
	p1 := flag.String("p1", player.MCTS, "First player: mcts, random or greedy")
	p2 := flag.String("p2", player.Greedy, "Second player: mcts, random or greedy")
	timeLimit := flag.Duration("time", 150*time.Millisecond, "Time per move")
	seed := flag.Uint64("seed", 0, "Seed of the players, 0 seeds from the clock")
	verbose := flag.Bool("v", false, "Log every search")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	var err error
	switch *mode {
	case "game":
		err = playGame(ctx, [2]string{*p1, *p2}, *timeLimit, *seed)
	case "experiment":
		err = runExperiment(ctx, *configPath)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func playGame(ctx context.Context, kinds [2]string, timeLimit time.Duration, seed uint64) error {
	var players [2]player.Player
	for i, kind := range kinds {
		s := seed
		if s != 0 {
			s += uint64(i)
		}
		p, err := player.New(kind, s)
		if err != nil {
			return err
		}
		players[i] = p
	}

	e := engine.NewLocalEngine(players, timeLimit, engine.WithObserver(func(board game.Board) {
		fmt.Println(render(board))
	}))
	winner, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}

	result := fmt.Sprintf("%s (%s) wins after %d moves", mark(winner), kinds[winner], gameMetric.TotalMoves)
	if gameMetric.Forfeit {
		result += " by forfeit"
	}
	fmt.Println(result)
	return nil
}

func runExperiment(ctx context.Context, path string) error {
	config := experiments.DefaultConfig()
	if path != "" {
		var err error
		if config, err = experiments.LoadConfig(path); err != nil {
			return err
		}
	}

	results, err := experiments.Run(ctx, config)
	if err != nil {
		return err
	}
	for _, result := range results {
		fmt.Printf("agent %s vs agent %s: %s - %s (%d forfeits)\n",
			p1Style(fmt.Sprint(result.Matchup[0])), p2Style(fmt.Sprint(result.Matchup[1])),
			p1Style(fmt.Sprint(result.Wins[0])), p2Style(fmt.Sprint(result.Wins[1])),
			result.Forfeits)
	}
	return nil
}

package experiments

import (
	"context"
	"fmt"
	"isolation/engine"
	"isolation/experiments/metrics"
	"isolation/player"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result counts the wins of the two agents of a matchup, in matchup order.
type Result struct {
	Matchup  [2]int
	Wins     [2]int
	Forfeits int
}

type match struct {
	id      int
	matchup int
	agents  [2]metrics.AgentConfig // Player 0 first
	swapped bool                   // Agents play in reverse matchup order
}

type outcome struct {
	record metrics.GameRecord
	moves  []metrics.MoveRecord
}

// Run plays every matchup of the experiment and stores the records as CSV
// files under the config's output directory.
func Run(ctx context.Context, config Config) ([]Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)

	matches := []match{}
	for mi, matchup := range config.Matchups {
		for i := 0; i < config.Games; i++ {
			g := match{
				id:      len(matches) + 1,
				matchup: mi,
				agents:  [2]metrics.AgentConfig{config.agent(matchup[0]), config.agent(matchup[1])},
			}
			if i%2 == 1 { // Alternate the starting agent
				g.agents[0], g.agents[1] = g.agents[1], g.agents[0]
				g.swapped = true
			}
			matches = append(matches, g)
		}
	}

	logger.Info().Msgf("starting %s experiment with %d games...", config.Name, len(matches))

	outcomes := make([]outcome, len(matches))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(config.Parallel)
	for i, g := range matches {
		eg.Go(func() error {
			o, err := runGame(egCtx, config, g)
			if err != nil {
				return fmt.Errorf("game %d: %w", g.id, err)
			}
			outcomes[i] = o
			logger.Info().Msgf("completed game %d of %d with winner: agent %d", g.id, len(matches), g.agents[o.record.Winner].ID)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, len(config.Matchups))
	for mi, matchup := range config.Matchups {
		results[mi].Matchup = matchup
	}
	gameRecords := make([]metrics.GameRecord, 0, len(outcomes))
	moveRecords := []metrics.MoveRecord{}
	for i, o := range outcomes {
		g := matches[i]
		winner := o.record.Winner
		if g.swapped {
			winner = 1 - winner
		}
		results[g.matchup].Wins[winner]++
		if o.record.Forfeit {
			results[g.matchup].Forfeits++
		}
		gameRecords = append(gameRecords, o.record)
		moveRecords = append(moveRecords, o.moves...)
	}

	logger.Info().Msgf("completed %s experiment", config.Name)

	if err := store(ctx, config, gameRecords, moveRecords); err != nil {
		return nil, err
	}
	return results, nil
}

func runGame(ctx context.Context, config Config, g match) (outcome, error) {
	var players [2]player.Player
	for i, agent := range g.agents {
		seed := agent.Seed
		if seed != 0 { // Reproducible but different in every game
			seed += uint64(g.id)
		}
		p, err := player.New(agent.Kind, seed)
		if err != nil {
			return outcome{}, err
		}
		players[i] = p
	}

	e := engine.NewLocalEngine(players, config.TimeLimit)
	_, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return outcome{}, err
	}

	o := outcome{
		record: metrics.GameRecord{
			ID:         g.id,
			Agent1:     g.agents[0].ID,
			Agent2:     g.agents[1].ID,
			GameMetric: gameMetric,
		},
	}
	for _, mm := range moveMetrics {
		o.moves = append(o.moves, metrics.MoveRecord{Game: g.id, MoveMetric: mm})
	}
	return o, nil
}

func store(ctx context.Context, config Config, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	logger := zerolog.Ctx(ctx)

	writer, err := metrics.NewWriter(config.OutDir, config.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(config.Agents); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	logger.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	logger.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	logger.Info().Str("dir", writer.Dir()).Msg("stored move records")
	return nil
}

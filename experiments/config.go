package experiments

import (
	"fmt"
	"isolation/experiments/metrics"
	"isolation/player"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes an experiment: the agents taking part and the matchups
// played between them.
type Config struct {
	Name      string                `yaml:"name"`
	OutDir    string                `yaml:"out_dir"`
	Games     int                   `yaml:"games"`      // Per matchup, the first player alternates
	Parallel  int                   `yaml:"parallel"`   // Games played at once
	TimeLimit time.Duration         `yaml:"time_limit"` // Per move
	Agents    []metrics.AgentConfig `yaml:"agents"`
	Matchups  [][2]int              `yaml:"matchups"` // Pairs of AgentConfig.ID
}

func DefaultConfig() Config {
	return Config{
		Name:      "mcts_vs_baselines",
		OutDir:    "results",
		Games:     10,
		Parallel:  2,
		TimeLimit: 100 * time.Millisecond,
		Agents: []metrics.AgentConfig{
			{ID: 1, Kind: player.MCTS},
			{ID: 2, Kind: player.Random},
			{ID: 3, Kind: player.Greedy},
		},
		Matchups: [][2]int{{1, 2}, {1, 3}},
	}
}

// LoadConfig reads a YAML config. Fields missing from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("experiment needs a name")
	}
	if c.Games <= 0 || c.Parallel <= 0 {
		return fmt.Errorf("games (%d) and parallel (%d) must be positive", c.Games, c.Parallel)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %v", c.TimeLimit)
	}

	ids := map[int]bool{}
	for _, agent := range c.Agents {
		if ids[agent.ID] {
			return fmt.Errorf("duplicate agent id %d", agent.ID)
		}
		if _, err := player.New(agent.Kind, 1); err != nil {
			return fmt.Errorf("agent %d: %w", agent.ID, err)
		}
		ids[agent.ID] = true
	}
	for _, matchup := range c.Matchups {
		for _, id := range matchup {
			if !ids[id] {
				return fmt.Errorf("matchup %v refers to unknown agent %d", matchup, id)
			}
		}
	}
	return nil
}

func (c Config) agent(id int) metrics.AgentConfig {
	for _, agent := range c.Agents {
		if agent.ID == id {
			return agent
		}
	}
	panic(fmt.Sprintf("unknown agent %d", id))
}

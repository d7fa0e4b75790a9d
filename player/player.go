package player

import (
	"context"
	"errors"
	"fmt"
	"isolation/game"
	"isolation/searcher"
	"time"

	"golang.org/x/exp/rand"
)

const (
	MCTS   = "mcts"
	Random = "random"
	Greedy = "greedy"
)

// Player chooses moves for one side of a game. FindMove puts its choice
// into queue, possibly several times; the last action put before the turn
// ends is played.
type Player interface {
	FindMove(ctx context.Context, state game.State, queue searcher.Queue) error
}

// New creates a player of the given kind. A zero seed seeds from the clock.
func New(kind string, seed uint64) (Player, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	switch kind {
	case MCTS:
		return searcher.NewMCTS(searcher.WithSeed(seed), searcher.WithMetrics()), nil
	case Random:
		return NewRandomPlayer(seed), nil
	case Greedy:
		return NewGreedyPlayer(), nil
	default:
		return nil, fmt.Errorf("unknown player kind %q", kind)
	}
}

// RandomPlayer plays a uniformly random legal action.
type RandomPlayer struct {
	rng *rand.Rand
}

func NewRandomPlayer(seed uint64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) FindMove(_ context.Context, state game.State, queue searcher.Queue) error {
	actions := state.Actions()
	if len(actions) == 0 {
		return searcher.ErrNoLegalActions
	}
	return put(queue, actions[p.rng.Intn(len(actions))])
}

// GreedyPlayer plays the action that leaves it the most liberties. Ties go
// to the first action.
type GreedyPlayer struct{}

func NewGreedyPlayer() *GreedyPlayer {
	return &GreedyPlayer{}
}

func (p *GreedyPlayer) FindMove(_ context.Context, state game.State, queue searcher.Queue) error {
	actions := state.Actions()
	if len(actions) == 0 {
		return searcher.ErrNoLegalActions
	}

	player := state.Player()
	best, bestScore := actions[0], -1
	for _, action := range actions {
		next := state.Result(action)
		if score := len(next.Liberties(next.Locs()[player])); score > bestScore {
			best, bestScore = action, score
		}
	}
	return put(queue, best)
}

// put publishes a single action. Running out of time is not a failure: the
// action was either recorded or the turn is already over.
func put(queue searcher.Queue, action game.Action) error {
	if err := queue.Put(action); err != nil && !errors.Is(err, searcher.ErrStopSearch) {
		return fmt.Errorf("failed to publish action: %w", err)
	}
	return nil
}

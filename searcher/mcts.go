package searcher

import (
	"context"
	"errors"
	"fmt"
	"isolation/experiments/metrics"
	"isolation/game"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var (
	// ErrStopSearch is returned by Queue.Put once the turn is over
	ErrStopSearch = errors.New("stop search")
	// ErrUnexpectedState means the observed state is not a reply to the move
	// chosen on the previous turn, so the tree no longer matches the game
	ErrUnexpectedState = errors.New("unexpected state")
	ErrNoLegalActions  = errors.New("no legal actions")
)

// Queue receives the best action found so far. The last action put before
// the turn ends is the one played.
type Queue interface {
	Put(action game.Action) error
}

type Option func(mcts *MCTS)

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// MCTS searches incrementally and keeps its tree across the turns of a game.
// It is not safe for concurrent use.
type MCTS struct {
	rng     *rand.Rand
	root    *Node
	player  int // Player to move at the root, rewards are from its perspective
	metrics metrics.Collector
	metric  metrics.SearchMetric
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// FindMove searches from state and puts the best action into queue after
// every visit, until queue returns ErrStopSearch or ctx is done. The first
// call of a game starts a new tree; later calls re-root the tree at the reply
// to the previously chosen move.
func (m *MCTS) FindMove(ctx context.Context, state game.State, queue Queue) error {
	if state.TerminalTest() {
		return fmt.Errorf("cannot search from terminal state: %w", ErrNoLegalActions)
	}

	m.metrics.Start()
	if err := m.findRoot(state); err != nil {
		return err
	}
	m.player = m.root.state.Player()
	m.root.best = nil
	defer m.complete()

	for {
		if !m.root.explored {
			m.visit(m.root)
			m.metrics.AddEpisode()
		}
		best := selectChild(m.root, true)

		// The best child is the last action the queue accepted, so that the
		// next turn re-roots below the move actually played
		if err := queue.Put(best.action); err != nil {
			if m.root.best == nil {
				m.root.best = best
			}
			if errors.Is(err, ErrStopSearch) {
				return nil
			}
			return fmt.Errorf("failed to publish action: %w", err)
		}
		m.root.best = best
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Reset drops the tree so that the next FindMove starts a new game.
func (m *MCTS) Reset() {
	m.root = nil
}

// Metric returns the metrics of the last search, if collected.
func (m *MCTS) Metric() metrics.SearchMetric {
	return m.metric
}

func (m *MCTS) complete() {
	m.metric = m.metrics.Complete(m.root.visits)
	log.Debug().
		Int("player", m.player).
		Int("visits", m.root.visits).
		Bool("explored", m.root.explored).
		Float64("average", m.root.best.Average()).
		Msgf("chose action %v", m.root.best.action.Location())
}

func (m *MCTS) findRoot(state game.State) error {
	if m.root == nil {
		m.root = newRoot(state)
		m.metrics.SetTreeReset(true)
		return nil
	}

	root := traverse(m.root.best, state, m.rng)
	if root == nil {
		return fmt.Errorf("state is not a reply to the chosen action: %w", ErrUnexpectedState)
	}
	// The previous root and every sibling on the way are dropped here
	m.root = root
	m.metrics.SetTreeReset(false)
	return nil
}

// traverse finds the child of chosen whose state equals state, expanding
// chosen if it was never visited.
func traverse(chosen *Node, state game.State, rng *rand.Rand) *Node {
	if chosen == nil || chosen.state.TerminalTest() {
		return nil
	}
	for _, child := range chosen.expand(rng) {
		if child.state == state {
			return child
		}
	}
	return nil
}

// visit walks one path from node, expanding at most one node and rolling out
// from one of its children, then backs the reward up along the path.
func (m *MCTS) visit(node *Node) int {
	var reward int
	switch {
	case node.state.TerminalTest():
		reward = m.reward(node.state)
		node.explored = true
	case !node.expanded:
		node.expand(m.rng)
		reward = m.simulate(selectChild(node, false))
		node.updateExplored()
	default:
		child := selectChild(node, false)
		if child == nil { // Subtree exhausted
			node.explored = true
			return 0
		}
		reward = m.visit(child)
		node.updateExplored()
	}

	node.visits++
	node.reward += reward
	return reward
}

// simulate plays uniformly random actions from node's state to the end of the
// game. A node that is already terminal is marked explored.
func (m *MCTS) simulate(node *Node) int {
	state := node.state
	if state.TerminalTest() {
		node.explored = true
	}
	for !state.TerminalTest() {
		actions := state.Actions()
		state = state.Result(actions[m.rng.Intn(len(actions))])
	}
	m.metrics.AddFullPlayout()
	return m.reward(state)
}

func (m *MCTS) reward(state game.State) int {
	return game.Mobility(state, m.player)
}

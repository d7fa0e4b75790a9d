package engine

import (
	"context"
	"errors"
	"fmt"
	"isolation/experiments/metrics"
	"isolation/game"
	"isolation/player"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultGrace is how long a player may take to return after its time is up
const DefaultGrace = 50 * time.Millisecond

var errTimeout = errors.New("player did not return in time")

// Players that report search metrics after each turn
type metricReporter interface {
	Metric() metrics.SearchMetric
}

// Players that keep state between the turns of a game
type resetter interface {
	Reset()
}

type Option func(e *LocalEngine)

// WithGrace sets how long a player may overrun its time before forfeiting.
func WithGrace(grace time.Duration) Option {
	return func(e *LocalEngine) {
		e.grace = grace
	}
}

// WithBoard starts the game from board instead of an empty board.
func WithBoard(board game.Board) Option {
	return func(e *LocalEngine) {
		e.board = board
	}
}

// WithObserver calls observe with every position of the game.
func WithObserver(observe func(board game.Board)) Option {
	return func(e *LocalEngine) {
		e.observe = observe
	}
}

// LocalEngine plays a game between two in-process players, giving each a
// fixed time per move.
type LocalEngine struct {
	players   [2]player.Player
	timeLimit time.Duration
	grace     time.Duration
	board     game.Board
	observe   func(board game.Board)
}

func NewLocalEngine(players [2]player.Player, timeLimit time.Duration, options ...Option) *LocalEngine {
	e := &LocalEngine{ // Default values
		players:   players,
		timeLimit: timeLimit,
		grace:     DefaultGrace,
		board:     game.NewBoard(),
		observe:   func(game.Board) {},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until a player is isolated or forfeits. A
// player that fails with an error aborts the game.
func (e *LocalEngine) Run(ctx context.Context) (int, metrics.GameMetric, []metrics.MoveMetric, error) {
	for _, p := range e.players {
		if r, ok := p.(resetter); ok {
			r.Reset()
		}
	}

	board := e.board
	gameMetric := metrics.GameMetric{
		StartingPlayer: board.Player(),
		Winner:         -1,
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric
	log.Info().Msgf("player %d is starting", board.Player())
	e.observe(board)

	for step := 1; !board.TerminalTest(); step++ {
		if err := ctx.Err(); err != nil {
			return -1, gameMetric, moveMetrics, err
		}

		current := board.Player()
		action, ok, err := e.turn(ctx, e.players[current], board)
		if errors.Is(err, errTimeout) {
			log.Warn().Msgf("player %d did not return in time", current)
			ok = false
		} else if err != nil {
			return -1, gameMetric, moveMetrics, fmt.Errorf("player %d failed at step %d: %w", current, step, err)
		}
		if r, isReporter := e.players[current].(metricReporter); isReporter && err == nil {
			moveMetrics = append(moveMetrics, metrics.MoveMetric{
				Step:         step,
				Player:       current,
				SearchMetric: r.Metric(),
			})
		}

		if !ok || !board.IsLegal(action) {
			log.Info().Msgf("player %d forfeits at step %d", current, step)
			gameMetric.Forfeit = true
			gameMetric.Winner = 1 - current
			e.finish(&gameMetric)
			return gameMetric.Winner, gameMetric, moveMetrics, nil
		}

		board = board.Play(action)
		gameMetric.TotalMoves++
		log.Debug().Int("step", step).Int("player", current).Msgf("played %v", action.Location())
		e.observe(board)
	}

	gameMetric.Winner = board.Winner()
	e.finish(&gameMetric)
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}

func (e *LocalEngine) finish(gameMetric *metrics.GameMetric) {
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	log.Info().Msgf("player %d won after %d moves", gameMetric.Winner, gameMetric.TotalMoves)
}

// turn lets p search until its time is up and returns the last action it
// put. ok is false if it put none. A player still searching after the grace
// period is abandoned with errTimeout.
func (e *LocalEngine) turn(ctx context.Context, p player.Player, board game.Board) (action game.Action, ok bool, err error) {
	turnCtx, cancel := context.WithTimeout(ctx, e.timeLimit)
	defer cancel()

	queue := NewTimedQueue(turnCtx)
	done := make(chan error, 1)
	go func() {
		done <- p.FindMove(turnCtx, board, queue)
	}()

	timer := time.NewTimer(e.timeLimit + e.grace)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			return 0, false, err
		}
	case <-timer.C:
		queue.Close()
		return 0, false, errTimeout
	}

	action, ok = queue.Close()
	return action, ok, nil
}

package engine

import (
	"context"
	"errors"
	"isolation/game"
	"isolation/player"
	"isolation/searcher"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type playerFunc func(ctx context.Context, state game.State, queue searcher.Queue) error

func (f playerFunc) FindMove(ctx context.Context, state game.State, queue searcher.Queue) error {
	return f(ctx, state, queue)
}

func TestTimedQueue(t *testing.T) {
	t.Run("keeps the last action", func(t *testing.T) {
		queue := NewTimedQueue(context.Background())
		require.NoError(t, queue.Put(1))
		require.NoError(t, queue.Put(2))

		action, ok := queue.Close()
		require.True(t, ok, "Queue should have an action")
		require.Equal(t, game.Action(2), action, "Last action should be kept")
	})

	t.Run("refuses actions after the deadline", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		queue := NewTimedQueue(ctx)
		require.NoError(t, queue.Put(1))
		cancel()

		require.ErrorIs(t, queue.Put(2), searcher.ErrStopSearch, "Late action should stop the search")
		action, ok := queue.Close()
		require.True(t, ok)
		require.Equal(t, game.Action(1), action, "Late action should not be stored")
	})

	t.Run("refuses actions once closed", func(t *testing.T) {
		queue := NewTimedQueue(context.Background())
		_, ok := queue.Close()
		require.False(t, ok, "Empty queue should have no action")
		require.ErrorIs(t, queue.Put(1), searcher.ErrStopSearch, "Closed queue should stop the search")
	})
}

func TestLocalEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("greedy players play to the end", func(t *testing.T) {
		var last game.Board
		e := NewLocalEngine(
			[2]player.Player{player.NewGreedyPlayer(), player.NewGreedyPlayer()},
			20*time.Millisecond,
			WithObserver(func(board game.Board) { last = board }),
		)

		winner, gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.True(t, last.TerminalTest(), "Last position should be terminal")
		require.Equal(t, last.Winner(), winner, "Winner should be the player that is not isolated")
		require.Equal(t, winner, gameMetric.Winner)
		require.False(t, gameMetric.Forfeit, "Nobody should forfeit")
		require.Equal(t, last.Ply(), gameMetric.TotalMoves, "Every ply should be counted")
		require.False(t, gameMetric.EndTime.Before(gameMetric.StartTime), "Game should end after it starts")
		require.Empty(t, moveMetrics, "Greedy players do not report metrics")
	})

	t.Run("search reuses its tree across turns", func(t *testing.T) {
		e := NewLocalEngine(
			[2]player.Player{
				searcher.NewMCTS(searcher.WithSeed(1), searcher.WithMetrics()),
				player.NewRandomPlayer(2),
			},
			5*time.Millisecond,
		)

		winner, gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err, "Re-rooting should follow the game")
		require.Contains(t, []int{0, 1}, winner)
		require.False(t, gameMetric.Forfeit, "Search should always have an answer ready")
		require.NotEmpty(t, moveMetrics, "Search should report metrics")
		for i, moveMetric := range moveMetrics {
			require.Equal(t, 0, moveMetric.Player, "Only the search reports metrics")
			require.Equal(t, i == 0, moveMetric.IsTreeReset, "Only the first turn should start a new tree")
			require.Positive(t, moveMetric.RootVisits, "Search should have visited its root")
		}
	})

	t.Run("player without an action forfeits", func(t *testing.T) {
		silent := playerFunc(func(context.Context, game.State, searcher.Queue) error { return nil })
		e := NewLocalEngine([2]player.Player{silent, player.NewGreedyPlayer()}, 5*time.Millisecond)

		winner, gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 1, winner, "Opponent should win")
		require.True(t, gameMetric.Forfeit, "Game should be forfeited")
		require.Zero(t, gameMetric.TotalMoves, "No move should be played")
	})

	t.Run("illegal action forfeits", func(t *testing.T) {
		cheat := playerFunc(func(_ context.Context, _ game.State, queue searcher.Queue) error {
			return queue.Put(game.Action(game.Cells))
		})
		e := NewLocalEngine([2]player.Player{player.NewGreedyPlayer(), cheat}, 5*time.Millisecond)

		winner, gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 0, winner, "Opponent should win")
		require.True(t, gameMetric.Forfeit, "Game should be forfeited")
		require.Equal(t, 1, gameMetric.TotalMoves, "Only the first move should be played")
	})

	t.Run("player that overruns its time forfeits", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		slow := playerFunc(func(_ context.Context, _ game.State, queue searcher.Queue) error {
			queue.Put(game.Action(game.At(0, 0)))
			<-release
			return nil
		})
		e := NewLocalEngine([2]player.Player{slow, player.NewGreedyPlayer()}, 5*time.Millisecond, WithGrace(5*time.Millisecond))

		winner, gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 1, winner, "Opponent should win")
		require.True(t, gameMetric.Forfeit, "Game should be forfeited")
	})

	t.Run("player failure aborts the game", func(t *testing.T) {
		failure := errors.New("lost track of the game")
		broken := playerFunc(func(context.Context, game.State, searcher.Queue) error { return failure })
		e := NewLocalEngine([2]player.Player{broken, player.NewGreedyPlayer()}, 5*time.Millisecond)

		winner, _, _, err := e.Run(ctx)

		require.ErrorIs(t, err, failure, "Player failure should be returned")
		require.Equal(t, -1, winner, "Aborted game has no winner")
	})

	t.Run("cancelled context aborts the game", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		e := NewLocalEngine([2]player.Player{player.NewGreedyPlayer(), player.NewGreedyPlayer()}, 5*time.Millisecond)

		_, _, _, err := e.Run(cancelled)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("starts from the given board", func(t *testing.T) {
		// Player 0 in the corner with both jumps blocked
		board := game.NewBoard(game.At(1, 2), game.At(2, 1)).Play(game.Action(game.At(0, 0))).Play(game.Action(game.At(10, 8)))
		e := NewLocalEngine([2]player.Player{player.NewGreedyPlayer(), player.NewGreedyPlayer()}, 5*time.Millisecond, WithBoard(board))

		winner, gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 1, winner, "Isolated player should lose")
		require.Zero(t, gameMetric.TotalMoves)
	})
}

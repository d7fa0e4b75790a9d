package engine

import (
	"context"
	"isolation/game"
	"isolation/searcher"
	"sync"
)

// TimedQueue keeps the last action a player puts during its turn. Once the
// turn's context is done or the queue is closed, Put refuses further actions
// with searcher.ErrStopSearch.
type TimedQueue struct {
	ctx    context.Context
	mu     sync.Mutex
	action game.Action
	ok     bool
	closed bool
}

func NewTimedQueue(ctx context.Context) *TimedQueue {
	return &TimedQueue{ctx: ctx}
}

func (q *TimedQueue) Put(action game.Action) error {
	if q.ctx.Err() != nil {
		return searcher.ErrStopSearch
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return searcher.ErrStopSearch
	}
	q.action = action
	q.ok = true
	return nil
}

// Close ends the turn and returns the last action put, if any.
func (q *TimedQueue) Close() (game.Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return q.action, q.ok
}

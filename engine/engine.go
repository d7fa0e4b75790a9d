package engine

import (
	"context"
	"isolation/experiments/metrics"
)

type Engine interface {
	// Run plays a game till one of the players is isolated or forfeits
	Run(ctx context.Context) (winner int, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

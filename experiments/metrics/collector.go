package metrics

import (
	"time"
)

type SearchMetric struct {
	Duration     time.Duration
	Episodes     int // Visits from the root
	FullPlayouts int // Random rollouts to a terminal state
	RootVisits   int // Visits of the root when the search stopped, reused ones included
	IsTreeReset  bool
}

type MoveMetric struct {
	Step   int
	Player int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int
	Forfeit        bool // Loser failed to answer in time or answered illegally
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start()
	SetTreeReset(value bool)
	AddFullPlayout()
	AddEpisode()
	Complete(rootVisits int) SearchMetric
}

// collector is owned by a single search, so no synchronization is needed
type collector struct {
	startTime    time.Time
	episodes     int
	fullPlayouts int
	isTreeReset  bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.episodes = 0
	m.fullPlayouts = 0
	m.isTreeReset = false
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset = value
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *collector) AddEpisode() {
	m.episodes++
}

func (m *collector) Complete(rootVisits int) SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Episodes:     m.episodes,
		FullPlayouts: m.fullPlayouts,
		RootVisits:   rootVisits,
		IsTreeReset:  m.isTreeReset,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                              {}
func (m *dummyCollector) SetTreeReset(value bool)             {}
func (m *dummyCollector) AddFullPlayout()                     {}
func (m *dummyCollector) AddEpisode()                         {}
func (m *dummyCollector) Complete(rootVisits int) SearchMetric { return SearchMetric{} }

package events

import (
	"time"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// Event type constants
const (
	TypeRunStarted      = "run.started"
	TypeRunEnded        = "run.ended"
	TypeEmbeddingBuilt  = "embedding.built"
	TypeSearchCompleted = "search.completed"
	TypeSearchFailed    = "search.failed"
)

// RunStartedEvent is published before a benchmark run issues its first query
type RunStartedEvent struct {
	BaseEvent
	Map        string   `json:"map"`
	Rows       int      `json:"rows"`
	Cols       int      `json:"cols"`
	Heuristics []string `json:"heuristics"`
	Queries    int      `json:"queries"`
}

// NewRunStartedEvent creates a new RunStartedEvent
func NewRunStartedEvent(runID, mapName string, rows, cols int, heuristics []string, queries int) *RunStartedEvent {
	return &RunStartedEvent{
		BaseEvent:  newBase(TypeRunStarted, runID),
		Map:        mapName,
		Rows:       rows,
		Cols:       cols,
		Heuristics: heuristics,
		Queries:    queries,
	}
}

// RunEndedEvent is published once every heuristic finished every query
type RunEndedEvent struct {
	BaseEvent
	Duration time.Duration `json:"duration"`
	Searches int           `json:"searches"`
	Failures int           `json:"failures"`
}

// NewRunEndedEvent creates a new RunEndedEvent
func NewRunEndedEvent(runID string, duration time.Duration, searches, failures int) *RunEndedEvent {
	return &RunEndedEvent{
		BaseEvent: newBase(TypeRunEnded, runID),
		Duration:  duration,
		Searches:  searches,
		Failures:  failures,
	}
}

// EmbeddingBuiltEvent is published after a FastMap embedding is computed
type EmbeddingBuiltEvent struct {
	BaseEvent
	Dims     int           `json:"dims"`
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
}

// NewEmbeddingBuiltEvent creates a new EmbeddingBuiltEvent
func NewEmbeddingBuiltEvent(runID string, dims, nodes int, duration time.Duration) *EmbeddingBuiltEvent {
	return &EmbeddingBuiltEvent{
		BaseEvent: newBase(TypeEmbeddingBuilt, runID),
		Dims:      dims,
		Nodes:     nodes,
		Duration:  duration,
	}
}

// SearchCompletedEvent is published for every finished A* query, found or not
type SearchCompletedEvent struct {
	BaseEvent
	Heuristic string        `json:"heuristic"`
	Start     grid.Node     `json:"start"`
	Goal      grid.Node     `json:"goal"`
	Found     bool          `json:"found"`
	Cost      float64       `json:"cost"`
	Expanded  int           `json:"expanded"`
	Duration  time.Duration `json:"duration"`
}

// NewSearchCompletedEvent creates a new SearchCompletedEvent
func NewSearchCompletedEvent(runID, heuristic string, start, goal grid.Node, found bool, cost float64, expanded int, duration time.Duration) *SearchCompletedEvent {
	return &SearchCompletedEvent{
		BaseEvent: newBase(TypeSearchCompleted, runID),
		Heuristic: heuristic,
		Start:     start,
		Goal:      goal,
		Found:     found,
		Cost:      cost,
		Expanded:  expanded,
		Duration:  duration,
	}
}

// SearchFailedEvent is published when a query is rejected or aborted
type SearchFailedEvent struct {
	BaseEvent
	Heuristic string    `json:"heuristic"`
	Start     grid.Node `json:"start"`
	Goal      grid.Node `json:"goal"`
	Reason    string    `json:"reason"`
}

// NewSearchFailedEvent creates a new SearchFailedEvent
func NewSearchFailedEvent(runID, heuristic string, start, goal grid.Node, reason string) *SearchFailedEvent {
	return &SearchFailedEvent{
		BaseEvent: newBase(TypeSearchFailed, runID),
		Heuristic: heuristic,
		Start:     start,
		Goal:      goal,
		Reason:    reason,
	}
}

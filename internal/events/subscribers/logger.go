package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GridFastMap/internal/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables logging the full event as JSON
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("run_id", event.RunID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if ls.logLevel == zerolog.NoLevel {
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.RunStartedEvent:
		logEvent.
			Str("map", e.Map).
			Int("rows", e.Rows).
			Int("cols", e.Cols).
			Strs("heuristics", e.Heuristics).
			Int("queries", e.Queries)

	case *events.RunEndedEvent:
		logEvent.
			Dur("duration", e.Duration).
			Int("searches", e.Searches).
			Int("failures", e.Failures)

	case *events.EmbeddingBuiltEvent:
		logEvent.
			Int("dims", e.Dims).
			Int("nodes", e.Nodes).
			Dur("duration", e.Duration)

	case *events.SearchCompletedEvent:
		logEvent.
			Str("heuristic", e.Heuristic).
			Stringer("start", e.Start).
			Stringer("goal", e.Goal).
			Bool("found", e.Found).
			Float64("cost", e.Cost).
			Int("expanded", e.Expanded).
			Dur("duration", e.Duration)

	case *events.SearchFailedEvent:
		logEvent.
			Str("heuristic", e.Heuristic).
			Stringer("start", e.Start).
			Stringer("goal", e.Goal).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Search event")
}

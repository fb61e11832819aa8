package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GridFastMap/internal/events"
	"github.com/mitchelldurbincs/GridFastMap/internal/events/subscribers"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("test-logger", zerolog.New(&buf), zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeRunStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))

	logSub.SetEventFilter([]string{events.TypeRunEnded})
	assert.True(t, logSub.InterestedIn(events.TypeRunEnded))
	assert.False(t, logSub.InterestedIn(events.TypeRunStarted))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeRunStarted))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "RunStarted",
			event: events.NewRunStartedEvent("run-1", "arena.map", 49, 50, []string{"octile", "fastmap"}, 120),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "arena.map", logLine["map"])
				assert.Equal(t, float64(49), logLine["rows"])
				assert.Equal(t, float64(50), logLine["cols"])
				assert.Equal(t, []interface{}{"octile", "fastmap"}, logLine["heuristics"])
				assert.Equal(t, float64(120), logLine["queries"])
			},
		},
		{
			name:  "RunEnded",
			event: events.NewRunEndedEvent("run-1", 2*time.Second, 240, 3),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(240), logLine["searches"])
				assert.Equal(t, float64(3), logLine["failures"])
				assert.Contains(t, logLine, "duration")
			},
		},
		{
			name:  "EmbeddingBuilt",
			event: events.NewEmbeddingBuiltEvent("run-1", 5, 1800, time.Millisecond),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(5), logLine["dims"])
				assert.Equal(t, float64(1800), logLine["nodes"])
			},
		},
		{
			name: "SearchCompleted",
			event: events.NewSearchCompletedEvent("run-1", "octile",
				grid.Node{Row: 0, Col: 0}, grid.Node{Row: 0, Col: 4}, true, 4, 5, time.Microsecond),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "octile", logLine["heuristic"])
				assert.Equal(t, "(0,0)", logLine["start"])
				assert.Equal(t, "(0,4)", logLine["goal"])
				assert.Equal(t, true, logLine["found"])
				assert.Equal(t, float64(4), logLine["cost"])
				assert.Equal(t, float64(5), logLine["expanded"])
			},
		},
		{
			name: "SearchFailed",
			event: events.NewSearchFailedEvent("run-1", "manhattan",
				grid.Node{Row: 1, Col: 1}, grid.Node{Row: 2, Col: 2}, "start blocked"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "manhattan", logLine["heuristic"])
				assert.Equal(t, "start blocked", logLine["reason"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)
			logSub.HandleEvent(tc.event)

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			logLine := lines[0]
			assert.Equal(t, "Search event", logLine["message"])
			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "run-1", logLine["run_id"])
			assert.Equal(t, "event_logger", logLine["subscriber"])
			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberLevels(t *testing.T) {
	for _, level := range []zerolog.Level{zerolog.DebugLevel, zerolog.WarnLevel, zerolog.ErrorLevel} {
		t.Run(level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("lvl", zerolog.New(&buf), level)
			logSub.HandleEvent(events.NewRunEndedEvent("run-2", time.Second, 1, 0))

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, level.String(), lines[0]["level"])
		})
	}
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewSearchCompletedEvent("run-3", "zero",
		grid.Node{Row: 2, Col: 3}, grid.Node{Row: 4, Col: 5}, false, 0, 7, 0))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	data, ok := lines[0]["event_data"].(map[string]interface{})
	require.True(t, ok, "dev mode embeds the event as JSON")
	assert.Equal(t, "search.completed", data["type"])
	assert.Equal(t, map[string]interface{}{"row": float64(2), "col": float64(3)}, data["start"])
}

func TestLoggerSubscriberOnBus(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewEventBus()
	bus.Subscribe(subscribers.NewLoggerSubscriber("bus-logger", zerolog.New(&buf), zerolog.InfoLevel))

	bus.Publish(events.NewRunStartedEvent("run-4", "m", 1, 1, nil, 0))
	bus.Publish(events.NewRunEndedEvent("run-4", 0, 0, 0))

	assert.Len(t, decodeLines(t, &buf), 2)
}

package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received Event
	id := bus.SubscribeFunc(TypeRunStarted, func(e Event) {
		received = e
	})
	assert.Equal(t, "run.started_func_1", id)

	bus.Publish(NewRunStartedEvent("run-1", "arena.map", 49, 49, []string{"octile"}, 10))

	require.NotNil(t, received)
	assert.Equal(t, TypeRunStarted, received.Type())
	assert.Equal(t, "run-1", received.RunID())
	assert.WithinDuration(t, time.Now(), received.Timestamp(), time.Second)
}

func TestEventBusMultipleHandlers(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false
	bus.SubscribeFunc(TypeSearchCompleted, func(e Event) { handler1Called = true })
	bus.SubscribeFunc(TypeSearchCompleted, func(e Event) { handler2Called = true })
	assert.Equal(t, 2, bus.FuncHandlerCount(TypeSearchCompleted))

	bus.Publish(NewSearchCompletedEvent("run-1", "octile", grid.Node{}, grid.Node{Row: 1}, true, 1, 2, time.Millisecond))

	assert.True(t, handler1Called)
	assert.True(t, handler2Called)
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string {
	return ts.id
}

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

type panickingSubscriber struct{}

func (panickingSubscriber) ID() string               { return "panics" }
func (panickingSubscriber) HandleEvent(Event)        { panic("boom") }
func (panickingSubscriber) InterestedIn(string) bool { return true }

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus()

	all := &TestSubscriber{id: "all"}
	runsOnly := &TestSubscriber{id: "runs", interestedTypes: map[string]bool{TypeRunEnded: true}}
	bus.Subscribe(all)
	bus.Subscribe(runsOnly)
	assert.Equal(t, 2, bus.SubscriberCount())

	bus.Publish(NewEmbeddingBuiltEvent("run-2", 4, 100, time.Second))
	bus.Publish(NewRunEndedEvent("run-2", time.Minute, 10, 0))

	assert.Len(t, all.receivedEvents, 2)
	require.Len(t, runsOnly.receivedEvents, 1)
	assert.Equal(t, TypeRunEnded, runsOnly.receivedEvents[0].Type())

	bus.Unsubscribe("runs")
	assert.Equal(t, 1, bus.SubscriberCount())
	bus.Publish(NewRunEndedEvent("run-3", time.Minute, 10, 0))
	assert.Len(t, runsOnly.receivedEvents, 1)
}

func TestEventBusRecoversFromPanics(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(panickingSubscriber{})

	called := false
	bus.SubscribeFunc(TypeSearchFailed, func(Event) { panic("handler boom") })
	bus.SubscribeFunc(TypeSearchFailed, func(Event) { called = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewSearchFailedEvent("run-4", "octile", grid.Node{}, grid.Node{}, "blocked"))
	})
	assert.True(t, called, "later handlers still run after a panic")
}

func TestEventBusConcurrentPublish(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeFunc(TypeSearchCompleted, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(NewSearchCompletedEvent("run-5", "zero", grid.Node{}, grid.Node{}, false, 0, 1, 0))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, count)
}

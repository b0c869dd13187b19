package workflow

import (
	"sync"
	"testing"

	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/stretchr/testify/require"
)

type collectingHandler struct {
	mu     sync.Mutex
	events []Event
}

func (h *collectingHandler) HandleEvent(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *collectingHandler) collected() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events...)
}

type panickingHandler struct{}

func (h *panickingHandler) HandleEvent(event Event) {
	panic("handler blew up")
}

func TestAsyncSinkDeliversToAllHandlers(t *testing.T) {
	first := &collectingHandler{}
	second := &collectingHandler{}
	sink := NewAsyncSink(first, second)

	entity := &hgmodel.CulturalEntity{UUID: "abc"}
	sink.Publish(Event{Type: EventSubmitted, Entity: entity})
	sink.Publish(Event{Type: EventAccepted, Entity: entity})
	sink.Stop()

	for _, h := range []*collectingHandler{first, second} {
		events := h.collected()
		require.Len(t, events, 2)
		require.Equal(t, EventSubmitted, events[0].Type)
		require.Equal(t, EventAccepted, events[1].Type)
	}
}

func TestAsyncSinkSurvivesPanickingHandler(t *testing.T) {
	collecting := &collectingHandler{}
	sink := NewAsyncSink(&panickingHandler{}, collecting)

	entity := &hgmodel.CulturalEntity{UUID: "abc"}
	sink.Publish(Event{Type: EventRejected, Entity: entity})
	sink.Publish(Event{Type: EventRevised, Entity: entity})
	sink.Stop()

	events := collecting.collected()
	require.Len(t, events, 2)
	require.Equal(t, EventRejected, events[0].Type)
	require.Equal(t, EventRevised, events[1].Type)
}

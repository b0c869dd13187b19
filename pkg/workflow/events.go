package workflow

import (
	"github.com/apex/log"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
)

type EventType string

const (
	EventEntityCreated EventType = "entity_created"
	EventSubmitted     EventType = "submitted"
	EventAccepted      EventType = "accepted"
	EventRejected      EventType = "rejected"
	EventRevised       EventType = "revised"
)

// Event describes a completed workflow transition. Events are published
// after the transition's transaction commits; a handler failure never
// affects the transition itself.
type Event struct {
	Type    EventType
	Entity  *hgmodel.CulturalEntity
	Actor   *hgmodel.User
	Comment string
}

// EventSink receives events from the engine. Publish must not block the
// caller and must not return an error to it.
type EventSink interface {
	Publish(event Event)
}

// Handler is a side-effect consumer (notifications, stats) driven by an
// AsyncSink.
type Handler interface {
	HandleEvent(event Event)
}

// AsyncSink fans events out to its handlers on a background goroutine. If
// the buffer fills the event is dropped with a warning rather than
// blocking a transition.
type AsyncSink struct {
	events chan Event
	done   chan struct{}
}

const asyncSinkBuffer = 128

func NewAsyncSink(handlers ...Handler) *AsyncSink {
	s := &AsyncSink{
		events: make(chan Event, asyncSinkBuffer),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		for event := range s.events {
			for _, h := range handlers {
				handleSafely(h, event)
			}
		}
	}()

	return s
}

func (s *AsyncSink) Publish(event Event) {
	select {
	case s.events <- event:
	default:
		log.Warnf("event buffer full, dropping %s event for entity %s", event.Type, event.Entity.UUID)
	}
}

// Stop closes the sink and waits for queued events to drain.
func (s *AsyncSink) Stop() {
	close(s.events)
	<-s.done
}

func handleSafely(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("event handler panicked on %s event: %v", event.Type, r)
		}
	}()

	h.HandleEvent(event)
}

package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventType identifies what happened during resource initialization.
type EventType string

const (
	// EventStageStarted is published when an initialization stage begins.
	EventStageStarted EventType = "stage.started"

	// EventStageCompleted is published when a stage finishes successfully.
	EventStageCompleted EventType = "stage.completed"

	// EventStageFailed is published when a stage aborts with an error.
	EventStageFailed EventType = "stage.failed"

	// EventComponentValidated is published per successfully validated
	// component.
	EventComponentValidated EventType = "component.validated"

	// EventResourceEnsured is published per resource handed to a
	// handler's Ensure call.
	EventResourceEnsured EventType = "resource.ensured"

	// EventPolicyViolation is published per policy violation found.
	EventPolicyViolation EventType = "policy.violation"
)

// Event is a single entry in the initialization timeline.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// Type is the event type.
	Type EventType `json:"type"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Stage is the initialization stage, if any.
	Stage string `json:"stage,omitempty"`

	// Component is the component name, if any.
	Component string `json:"component,omitempty"`

	// ResourceID is the resource id, if any.
	ResourceID string `json:"resource_id,omitempty"`

	// ResourceType is the resource type tag, if any.
	ResourceType string `json:"resource_type,omitempty"`

	// Message is a human-readable description.
	Message string `json:"message,omitempty"`

	// Error holds the error text for failure events.
	Error string `json:"error,omitempty"`
}

// EventFilter selects the events a subscriber wants. A nil filter matches
// everything.
type EventFilter func(Event) bool

// FilterByType matches events of any of the given types.
func FilterByType(types ...EventType) EventFilter {
	return func(e Event) bool {
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
		return false
	}
}

// FilterByStage matches events of a single stage.
func FilterByStage(stage string) EventFilter {
	return func(e Event) bool { return e.Stage == stage }
}

type subscriber struct {
	ch     chan Event
	filter EventFilter
}

// EventPublisher fans initialization events out to subscribers. Publishing
// never blocks; events are dropped for subscribers that fall behind.
type EventPublisher struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	bufferSize  int
	logger      zerolog.Logger
	closed      bool
}

// NewEventPublisher creates an event publisher. bufferSize is the per
// subscriber channel capacity.
func NewEventPublisher(cfg EventsConfig, logger zerolog.Logger) *EventPublisher {
	size := cfg.BufferSize
	if size <= 0 {
		size = 256
	}
	return &EventPublisher{
		subscribers: make(map[string]*subscriber),
		bufferSize:  size,
		logger:      logger.With().Str("subsystem", "events").Logger(),
	}
}

// Publish delivers an event to all matching subscribers. The event's ID and
// Timestamp are filled in when empty.
func (p *EventPublisher) Publish(event Event) {
	if p == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	for id, sub := range p.subscribers {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			p.logger.Warn().
				Str("subscriber", id).
				Str("event_type", string(event.Type)).
				Msg("Subscriber buffer full, dropping event")
		}
	}
}

// Subscribe registers a new subscriber. The returned channel receives all
// events matching the filter until unsubscribe is called.
func (p *EventPublisher) Subscribe(filter EventFilter) (<-chan Event, func()) {
	sub := &subscriber{
		ch:     make(chan Event, p.bufferSize),
		filter: filter,
	}
	id := uuid.New().String()

	p.mu.Lock()
	p.subscribers[id] = sub
	p.mu.Unlock()

	unsubscribe := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if s, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			close(s.ch)
		}
	}
	return sub.ch, unsubscribe
}

// Close shuts the publisher down, closing all subscriber channels.
func (p *EventPublisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, sub := range p.subscribers {
		delete(p.subscribers, id)
		close(sub.ch)
	}
}

// Package notify holds the queue of transient user-facing notifications.
package notify

import (
	"sync"
	"time"

	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/logging"
)

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Default lifetimes per kind.
const (
	DefaultSuccessLifetime = 5000 * time.Millisecond
	DefaultErrorLifetime   = 7000 * time.Millisecond
	DefaultWarningLifetime = 6000 * time.Millisecond
	DefaultInfoLifetime    = 5000 * time.Millisecond
)

// Notification is one active toast. A zero Lifetime persists until dismissed.
type Notification struct {
	ID        int
	Kind      Kind
	Title     string
	Body      string
	Lifetime  time.Duration
	CreatedAt time.Time
}

// EventType tells subscribers what changed.
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
	EventCleared EventType = "cleared"
)

// Event is sent to subscribers after each mutation.
type Event struct {
	Type         EventType
	Notification Notification
}

// Sink receives every notification as it is enqueued.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Notify calls f(n).
func (f SinkFunc) Notify(n Notification) { f(n) }

// Lifetimes are the per-kind defaults used by the Success/Error/Warning/Info helpers.
type Lifetimes struct {
	Success time.Duration
	Error   time.Duration
	Warning time.Duration
	Info    time.Duration
}

// DefaultLifetimes returns the built-in lifetimes.
func DefaultLifetimes() Lifetimes {
	return Lifetimes{
		Success: DefaultSuccessLifetime,
		Error:   DefaultErrorLifetime,
		Warning: DefaultWarningLifetime,
		Info:    DefaultInfoLifetime,
	}
}

// LifetimesFromConfig reads toast_*_ms from the loaded configuration.
func LifetimesFromConfig() Lifetimes {
	ms := func(key string, def time.Duration) time.Duration {
		return time.Duration(config.GetInt(key, int(def/time.Millisecond))) * time.Millisecond
	}
	return Lifetimes{
		Success: ms("toast_success_ms", DefaultSuccessLifetime),
		Error:   ms("toast_error_ms", DefaultErrorLifetime),
		Warning: ms("toast_warning_ms", DefaultWarningLifetime),
		Info:    ms("toast_info_ms", DefaultInfoLifetime),
	}
}

// Option configures a Queue.
type Option func(*Queue)

// WithLifetimes overrides the per-kind default lifetimes.
func WithLifetimes(l Lifetimes) Option {
	return func(q *Queue) { q.lifetimes = l }
}

// WithSink adds a sink that sees every enqueued notification.
func WithSink(s Sink) Option {
	return func(q *Queue) { q.sinks = append(q.sinks, s) }
}

// Queue is an ordered list of active notifications. Insertion order is
// display order. It is safe for concurrent use.
type Queue struct {
	mu        sync.Mutex
	nextID    int
	items     []Notification
	timers    map[int]*time.Timer
	subs      []chan Event
	sinks     []Sink
	lifetimes Lifetimes
	now       func() time.Time
	logger    logging.Logger
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		nextID:    1,
		timers:    make(map[int]*time.Timer),
		lifetimes: DefaultLifetimes(),
		now:       time.Now,
		logger:    logging.With("component", "notify"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a notification and returns its id. A positive lifetime
// schedules automatic removal.
func (q *Queue) Enqueue(kind Kind, title, body string, lifetime time.Duration) int {
	if lifetime < 0 {
		lifetime = 0
	}
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	n := Notification{ID: id, Kind: kind, Title: title, Body: body, Lifetime: lifetime, CreatedAt: q.now()}
	q.items = append(q.items, n)
	if lifetime > 0 {
		q.timers[id] = time.AfterFunc(lifetime, func() { q.Dismiss(id) })
	}
	q.publish(Event{Type: EventAdded, Notification: n})
	sinks := append([]Sink(nil), q.sinks...)
	q.mu.Unlock()

	q.logger.Debug("notification enqueued", "id", id, "kind", string(kind), "title", title)
	for _, s := range sinks {
		s.Notify(n)
	}
	return id
}

// Success enqueues a success notification with the default lifetime.
func (q *Queue) Success(title, body string) int {
	return q.Enqueue(KindSuccess, title, body, q.lifetimes.Success)
}

// Error enqueues an error notification with the default lifetime.
func (q *Queue) Error(title, body string) int {
	return q.Enqueue(KindError, title, body, q.lifetimes.Error)
}

// Warning enqueues a warning notification with the default lifetime.
func (q *Queue) Warning(title, body string) int {
	return q.Enqueue(KindWarning, title, body, q.lifetimes.Warning)
}

// Info enqueues an info notification with the default lifetime.
func (q *Queue) Info(title, body string) int {
	return q.Enqueue(KindInfo, title, body, q.lifetimes.Info)
}

// Dismiss removes the notification with id. Unknown ids are ignored, so an
// expiry timer racing a manual dismissal removes the entry once.
func (q *Queue) Dismiss(id int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.publish(Event{Type: EventRemoved, Notification: n})
			return
		}
	}
}

// Clear removes every notification and stops pending timers.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.items = nil
	q.publish(Event{Type: EventCleared})
}

// List returns a snapshot of the active notifications in display order.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notification(nil), q.items...)
}

// Len returns the number of active notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Subscribe returns a channel receiving change events and a function that
// cancels the subscription. Slow subscribers miss events rather than block
// the queue.
func (q *Queue) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	q.mu.Lock()
	q.subs = append(q.subs, ch)
	q.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			for i, s := range q.subs {
				if s == ch {
					q.subs = append(q.subs[:i], q.subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// publish must be called with q.mu held.
func (q *Queue) publish(ev Event) {
	for _, ch := range q.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/five82/reclamos/internal/logging"
	"github.com/five82/reclamos/internal/metrics"
	"github.com/five82/reclamos/internal/status"
)

// DefaultDedupWindow is how long an identical transition is absorbed.
const DefaultDedupWindow = 2 * time.Second

// Listener receives a newest-first snapshot after every mutation. Listeners
// may read from the store but must not mutate it.
type Listener func(events []Event)

type listenerHandle struct {
	id uint64
	fn Listener
}

// Store holds the session's status-change events. Construct one per
// application session with NewStore and share it explicitly.
type Store struct {
	// deliverMu serialises mutate+deliver so subscribers see snapshots in
	// mutation order. mu guards the fields below it.
	deliverMu sync.Mutex

	mu        sync.RWMutex
	events    []Event
	listeners []listenerHandle
	nextID    uint64

	window  time.Duration
	now     func() time.Time
	newID   func() string
	logger  *log.Logger
	metrics *metrics.Metrics
}

// Option customises a Store.
type Option func(*Store)

// WithDedupWindow overrides DefaultDedupWindow. Zero disables deduplication.
func WithDedupWindow(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.window = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator injects the event id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires notification counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		window: DefaultDedupWindow,
		now:    time.Now,
		newID:  func() string { return "NOTIF-" + uuid.NewString() },
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record prepends a new event for the transition and notifies subscribers.
// When the same (subject, previous, next) triple was recorded within the
// dedup window, the earlier event is returned unchanged and nobody is
// notified. An empty actor becomes DefaultActor.
func (s *Store) Record(subjectID, subjectLabel string, prev, next status.Status, actor string) Event {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	if actor == "" {
		actor = DefaultActor
	}
	now := s.now()

	s.mu.Lock()
	if dup, ok := s.recentDuplicateLocked(subjectID, prev, next, now); ok {
		s.mu.Unlock()
		s.metrics.NotificationDeduplicated()
		s.logger.WithFields(log.Fields{
			"subject_id": subjectID,
			"event_id":   dup.ID,
		}).Debug("duplicate status change absorbed")
		return dup
	}

	ev := Event{
		ID:           s.newID(),
		SubjectID:    subjectID,
		SubjectLabel: subjectLabel,
		Previous:     prev,
		Next:         next,
		OccurredAt:   now,
		Actor:        actor,
	}
	events := make([]Event, 0, len(s.events)+1)
	events = append(events, ev)
	s.events = append(events, s.events...)
	snapshot, listeners := s.stageLocked()
	s.mu.Unlock()

	if !prev.Valid() || !next.Valid() {
		s.logger.WithFields(log.Fields{
			"subject_id": subjectID,
			"previous":   prev,
			"next":       next,
		}).Debug("recorded transition with unknown status")
	}
	s.metrics.NotificationRecorded()
	deliver(listeners, snapshot)
	return ev
}

// MarkRead flags the event with id as read. Unknown ids leave the data
// untouched; subscribers are notified either way.
func (s *Store) MarkRead(id string) {
	s.mutate(func() {
		for i := range s.events {
			if s.events[i].ID == id {
				s.events[i].Read = true
				return
			}
		}
	})
}

// MarkAllRead flags every event as read.
func (s *Store) MarkAllRead() {
	s.mutate(func() {
		for i := range s.events {
			s.events[i].Read = true
		}
	})
}

// ClearAll drops every event.
func (s *Store) ClearAll() {
	s.mutate(func() {
		s.events = nil
	})
}

// List returns a newest-first copy of the events.
func (s *Store) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(s.events)
}

// UnreadCount returns the number of events not yet read.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, ev := range s.events {
		if !ev.Read {
			count++
		}
	}
	return count
}

// Subscribe registers fn for every future mutation. The returned function
// removes it and may be called any number of times.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerHandle{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.listeners {
		if h.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *Store) mutate(apply func()) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	apply()
	snapshot, listeners := s.stageLocked()
	s.mu.Unlock()

	deliver(listeners, snapshot)
}

func (s *Store) recentDuplicateLocked(subjectID string, prev, next status.Status, now time.Time) (Event, bool) {
	if s.window <= 0 {
		return Event{}, false
	}
	for _, ev := range s.events {
		if ev.sameTransition(subjectID, prev, next) && now.Sub(ev.OccurredAt) < s.window {
			return ev, true
		}
	}
	return Event{}, false
}

// stageLocked captures what to deliver once the write lock is released.
func (s *Store) stageLocked() ([]Event, []listenerHandle) {
	listeners := make([]listenerHandle, len(s.listeners))
	copy(listeners, s.listeners)
	return cloneEvents(s.events), listeners
}

func deliver(listeners []listenerHandle, snapshot []Event) {
	for _, h := range listeners {
		h.fn(cloneEvents(snapshot))
	}
}

package state

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the lifecycle position of a screen's list.
type Phase int

const (
	PhaseIdle    Phase = iota // nothing fetched yet
	PhaseLoading              // a fetch is in flight
	PhaseReady                // items reflect the last successful fetch
	PhaseFailed               // the first load failed; no items to show
	PhaseStopped              // the screen was torn down
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot represents the latest data available to a screen.
type Snapshot[T any] struct {
	Items               []T
	Phase               Phase
	Loading             bool // true only while a manual load is in flight
	LastSyncedAt        time.Time
	LastAttempt         time.Time
	LastError           error
	ConsecutiveFailures int
	Epoch               uint64 // number of full-list replacements so far
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// HasData reports whether at least one fetch has succeeded.
func (s Snapshot[T]) HasData() bool {
	return !s.LastSyncedAt.IsZero()
}

// Store coordinates concurrent updates to a screen's list. The zero value is
// ready to use.
type Store[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
	clock    func() time.Time
}

// New returns a Store using clock for timestamps; nil means time.Now.
func New[T any](clock func() time.Time) *Store[T] {
	return &Store[T]{clock: clock}
}

func (s *Store[T]) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}

// BeginLoad moves the store into the loading phase. Only manual loads raise
// the Loading flag; background refreshes stay invisible.
func (s *Store[T]) BeginLoad(manual bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Phase == PhaseStopped {
		return
	}
	s.snapshot.Phase = PhaseLoading
	if manual {
		s.snapshot.Loading = true
	}
	s.snapshot.LastAttempt = s.now()
}

// Replace swaps the whole list for items. It reports false when the store is
// already stopped and the result was dropped.
func (s *Store[T]) Replace(items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Phase == PhaseStopped {
		return false
	}
	now := s.now()
	s.snapshot.Items = cloneItems(items)
	s.snapshot.Phase = PhaseReady
	s.snapshot.Loading = false
	s.snapshot.LastError = nil
	s.snapshot.LastSyncedAt = now
	s.snapshot.LastAttempt = now
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Epoch++
	return true
}

// Fail records a failed fetch. The previous items are kept.
func (s *Store[T]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Phase == PhaseStopped {
		return
	}
	s.snapshot.LastError = err
	s.snapshot.LastAttempt = s.now()
	s.snapshot.ConsecutiveFailures++
	s.snapshot.Loading = false
	if s.snapshot.LastSyncedAt.IsZero() {
		s.snapshot.Phase = PhaseFailed
	} else {
		s.snapshot.Phase = PhaseReady
	}
}

// Patch applies mutate to the first item matching match. It returns the item
// as it was before, and the epoch the patch was applied in.
func (s *Store[T]) Patch(match func(T) bool, mutate func(T) T) (before T, epoch uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.snapshot.Items {
		if match(item) {
			s.snapshot.Items[i] = mutate(item)
			return item, s.snapshot.Epoch, true
		}
	}
	return before, s.snapshot.Epoch, false
}

// Revert puts before back in place of the item matching match, but only if
// no replacement happened since epoch. A newer full list always wins.
func (s *Store[T]) Revert(match func(T) bool, before T, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Epoch != epoch || s.snapshot.Phase == PhaseStopped {
		return false
	}
	for i, item := range s.snapshot.Items {
		if match(item) {
			s.snapshot.Items[i] = before
			return true
		}
	}
	return false
}

// Stop marks the store as torn down; later updates are ignored.
func (s *Store[T]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseStopped
	s.snapshot.Loading = false
}

// Snapshot returns a copy of the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = cloneItems(s.snapshot.Items)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}

package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/five82/reclamos/internal/logging"
	"github.com/five82/reclamos/internal/metrics"
	"github.com/five82/reclamos/internal/state"
)

// DefaultInterval is the dashboard refresh cadence.
const DefaultInterval = 5 * time.Second

const fetchKey = "fetch"

var (
	// ErrStopped is returned once the synchronizer has been stopped.
	ErrStopped = errors.New("poller: stopped")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("poller: already started")
	// ErrNoKey is returned by Mutate when Options.Key is unset.
	ErrNoKey = errors.New("poller: mutate requires Options.Key")
)

// Reconcile selects what happens to an optimistic change whose remote call
// failed.
type Reconcile int

const (
	// ReconcileRollback restores the pre-mutation item unless a newer list
	// has already replaced it.
	ReconcileRollback Reconcile = iota
	// ReconcileNextPoll leaves the local value until the next poll
	// overwrites it.
	ReconcileNextPoll
)

func (r Reconcile) String() string {
	if r == ReconcileNextPoll {
		return "next-poll"
	}
	return "rollback"
}

// FetchFunc loads the full list for a screen.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Options configures a Synchronizer.
type Options[T any] struct {
	Interval  time.Duration
	Key       func(T) string
	OnSuccess func([]T)
	OnError   func(err error, manual bool)
	Backoff   bool
	Reconcile Reconcile
	Logger    *log.Logger
	Metrics   *metrics.Metrics
	Name      string
	Clock     func() time.Time
}

// Synchronizer keeps a screen's list fresh by refetching it on a fixed
// cadence. Start it once, Stop it when the screen goes away.
type Synchronizer[T any] struct {
	fetch   FetchFunc[T]
	opts    Options[T]
	store   *state.Store[T]
	group   singleflight.Group
	logger  *log.Entry
	metrics *metrics.Metrics

	// fetchSeq numbers fetches as they start; applied is the newest one
	// whose outcome reached the store. Older outcomes are dropped.
	fetchSeq atomic.Uint64
	applyMu  sync.Mutex
	applied  uint64

	mu         sync.Mutex
	mutations  map[string]*pendingMutation
	mutateSeq  uint64
	generation uint64
	started    bool
	stopped    bool
	cancel     context.CancelFunc
	done       chan struct{}
	reset      chan struct{}
}

// New builds an idle Synchronizer around fetch.
func New[T any](fetch FetchFunc[T], opts Options[T]) *Synchronizer[T] {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Name == "" {
		opts.Name = "list"
	}
	return &Synchronizer[T]{
		fetch:     fetch,
		opts:      opts,
		store:     state.New[T](opts.Clock),
		logger:    logging.OrDiscard(opts.Logger).WithField("screen", opts.Name),
		metrics:   opts.Metrics,
		reset:     make(chan struct{}, 1),
		mutations: make(map[string]*pendingMutation),
	}
}

// Name returns the screen name used in logs and metrics.
func (s *Synchronizer[T]) Name() string { return s.opts.Name }

// Interval returns the configured base cadence.
func (s *Synchronizer[T]) Interval() time.Duration { return s.opts.Interval }

// Start performs the first load synchronously (as a manual load, so the
// loading indicator and any error surface) and then launches the periodic
// loop. The loop keeps running even if the first load fails.
func (s *Synchronizer[T]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.started = true
	s.cancel = cancel
	s.done = make(chan struct{})
	gen := s.generation
	s.mu.Unlock()

	err := s.refresh(loopCtx, gen, true)
	go s.loop(loopCtx, gen)
	return err
}

// Stop halts the loop and discards any fetch still in flight. It is safe to
// call more than once and blocks until the loop goroutine has exited, so it
// must not be called from OnSuccess or OnError.
func (s *Synchronizer[T]) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.generation++
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	s.store.Stop()
	if cancel != nil {
		cancel()
		<-done
	}
	s.logger.Debug("synchronizer stopped")
}

// TriggerImmediate fetches right away and restarts the interval from now.
// It never joins a fetch that was already running, so a refresh requested
// after a write sees that write.
func (s *Synchronizer[T]) TriggerImmediate(ctx context.Context) error {
	gen, ok := s.currentGeneration()
	if !ok {
		return ErrStopped
	}
	err := s.refresh(ctx, gen, true)
	select {
	case s.reset <- struct{}{}:
	default:
	}
	return err
}

// Mutate applies an optimistic change to the item keyed by id, then runs
// call. If call fails the change is reconciled per Options.Reconcile and the
// error is returned. A rollback is skipped when another Mutate of the same
// id started while this one was in flight, so it cannot undo that newer
// change.
func (s *Synchronizer[T]) Mutate(ctx context.Context, id string, apply func(T) T, call func(context.Context) error) error {
	if s.opts.Key == nil {
		return ErrNoKey
	}
	if _, ok := s.currentGeneration(); !ok {
		return ErrStopped
	}
	match := func(item T) bool { return s.opts.Key(item) == id }

	seq := s.beginMutation(id)
	defer s.endMutation(id)

	before, epoch, found := s.store.Patch(match, apply)
	err := call(ctx)
	s.metrics.ObserveMutation(s.opts.Name, err)
	if err == nil {
		return nil
	}

	entry := s.logger.WithFields(log.Fields{
		"id":        id,
		"reconcile": s.opts.Reconcile.String(),
	}).WithError(err)
	switch {
	case !found:
		entry.Warn("mutation failed; item was not in the local list")
	case s.opts.Reconcile == ReconcileNextPoll:
		entry.Warn("mutation failed; local change kept until next poll")
	case !s.latestMutation(id, seq):
		entry.Warn("mutation failed; a newer local change superseded it")
	case s.store.Revert(match, before, epoch):
		entry.Warn("mutation failed; local change rolled back")
	default:
		entry.Warn("mutation failed; a newer list already replaced the local change")
	}
	return err
}

// Snapshot returns the current list and sync status.
func (s *Synchronizer[T]) Snapshot() state.Snapshot[T] {
	return s.store.Snapshot()
}

// pendingMutation tracks the Mutate calls in flight for one id.
type pendingMutation struct {
	latest  uint64
	pending int
}

func (s *Synchronizer[T]) beginMutation(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutateSeq++
	p := s.mutations[id]
	if p == nil {
		p = &pendingMutation{}
		s.mutations[id] = p
	}
	p.latest = s.mutateSeq
	p.pending++
	return s.mutateSeq
}

func (s *Synchronizer[T]) endMutation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.mutations[id]
	if p == nil {
		return
	}
	if p.pending--; p.pending <= 0 {
		delete(s.mutations, id)
	}
}

// latestMutation reports whether no Mutate of id started after seq. It must
// be called while seq is still pending.
func (s *Synchronizer[T]) latestMutation(id string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.mutations[id]
	return p == nil || p.latest == seq
}

func (s *Synchronizer[T]) currentGeneration() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation, !s.stopped
}

func (s *Synchronizer[T]) isCurrent(gen uint64) bool {
	current, ok := s.currentGeneration()
	return ok && current == gen
}

func (s *Synchronizer[T]) loop(ctx context.Context, gen uint64) {
	defer close(s.done)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.reset:
			ticker.Reset(s.nextDelay())
		case <-ticker.C:
			_ = s.refresh(ctx, gen, false)
			if s.opts.Backoff {
				ticker.Reset(s.nextDelay())
			}
		}
	}
}

func (s *Synchronizer[T]) nextDelay() time.Duration {
	if !s.opts.Backoff {
		return s.opts.Interval
	}
	return calculateBackoff(s.store.Snapshot().ConsecutiveFailures, s.opts.Interval)
}

type fetchResult[T any] struct {
	items []T
	seq   uint64
}

// refresh runs one fetch and applies its outcome unless the synchronizer
// was stopped meanwhile. Background callers share a fetch already in flight.
// Manual callers always start a new one, which background callers may then
// join.
func (s *Synchronizer[T]) refresh(ctx context.Context, gen uint64, manual bool) error {
	s.store.BeginLoad(manual)

	if manual {
		s.group.Forget(fetchKey)
	}
	v, err, shared := s.group.Do(fetchKey, func() (any, error) {
		seq := s.fetchSeq.Add(1)
		start := time.Now()
		items, err := s.fetch(ctx)
		s.metrics.ObservePoll(s.opts.Name, time.Since(start), err)
		return fetchResult[T]{items: items, seq: seq}, err
	})
	res, _ := v.(fetchResult[T])
	seq := res.seq

	if !s.isCurrent(gen) {
		s.logger.WithField("shared", shared).Debug("discarding fetch result after stop")
		return ErrStopped
	}

	s.applyMu.Lock()
	if applied := s.applied; seq < applied {
		s.applyMu.Unlock()
		s.logger.WithFields(log.Fields{"seq": seq, "applied": applied}).Debug("discarding fetch older than the applied list")
		return nil
	}
	s.applied = seq

	if err != nil {
		s.store.Fail(err)
		s.applyMu.Unlock()
		entry := s.logger.WithError(err).WithField("manual", manual)
		if manual {
			entry.Warn("load failed")
		} else {
			entry.Warn("background refresh failed; keeping previous list")
		}
		if s.opts.OnError != nil {
			s.opts.OnError(err, manual)
		}
		return err
	}

	replaced := s.store.Replace(res.items)
	s.applyMu.Unlock()
	if !replaced {
		return ErrStopped
	}
	s.logger.WithFields(log.Fields{"items": len(res.items), "manual": manual}).Debug("list refreshed")
	if s.opts.OnSuccess != nil {
		dup := make([]T, len(res.items))
		copy(dup, res.items)
		s.opts.OnSuccess(dup)
	}
	return nil
}

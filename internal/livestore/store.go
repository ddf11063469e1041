// Package livestore keeps the latest snapshot of a remote collection fresh by
// polling it on a fixed cadence.
//
// Concurrency model: the current snapshot lives behind an atomic pointer and
// is replaced wholesale, so readers never see a partially applied refresh.
// Concurrent Refresh calls share one in-flight fetch; results are applied in
// completion order under a mutex, so the most recently completed fetch wins.
// A failed fetch leaves the previous snapshot in place.
//
// A shared fetch runs on a context owned by the store, not by whichever
// caller started it: a caller that gives up only stops waiting. The fetch is
// bounded by the fetch timeout and cancelled by Stop.
package livestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/starford/vitrine/internal/apperr"
	"github.com/starford/vitrine/internal/checksum"
)

// Defaults used when no option overrides them.
const (
	DefaultInterval     = 2 * time.Second
	DefaultFetchTimeout = 30 * time.Second
)

// FetchFunc retrieves a complete collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Snapshot is an immutable view of the collection after a completed refresh.
type Snapshot[T any] struct {
	Items     []T       `json:"items"`
	Version   uint64    `json:"version"`
	Checksum  string    `json:"checksum,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Status summarises a store for health and status endpoints.
type Status struct {
	Name      string    `json:"name"`
	Version   uint64    `json:"version"`
	Count     int       `json:"count"`
	Checksum  string    `json:"checksum,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	LastError string    `json:"last_error,omitempty"`
}

// Store polls a FetchFunc and exposes the latest successful result.
type Store[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	onChange func(Snapshot[T])

	current atomic.Pointer[Snapshot[T]]
	lastErr atomic.Pointer[string]

	group   singleflight.Group
	applyMu sync.Mutex
	stopped bool               // guarded by applyMu
	life    context.Context    // guarded by applyMu; parent of every fetch
	kill    context.CancelFunc // guarded by applyMu

	lifeMu  sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithInterval sets the polling cadence. Non-positive values keep the default.
func WithInterval[T any](d time.Duration) Option[T] {
	return func(s *Store[T]) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithFetchTimeout bounds a single fetch. Non-positive values keep the default.
func WithFetchTimeout[T any](d time.Duration) Option[T] {
	return func(s *Store[T]) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used by the polling loop.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(s *Store[T]) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOnChange registers fn to be called after a refresh whose content
// differs from the previous snapshot. fn runs on the refreshing goroutine.
func WithOnChange[T any](fn func(Snapshot[T])) Option[T] {
	return func(s *Store[T]) { s.onChange = fn }
}

// New creates a store named name. The initial snapshot is empty with version 0.
func New[T any](name string, fetch FetchFunc[T], opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:     name,
		fetch:    fetch,
		interval: DefaultInterval,
		timeout:  DefaultFetchTimeout,
		logger:   slog.Default(),
	}
	s.life, s.kill = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot[T]{Items: []T{}})
	return s
}

// Name returns the store name.
func (s *Store[T]) Name() string { return s.name }

// Interval returns the polling cadence.
func (s *Store[T]) Interval() time.Duration { return s.interval }

// Snapshot returns the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] { return *s.current.Load() }

// Items returns the items of the current snapshot. The slice is shared with
// the snapshot and must not be modified.
func (s *Store[T]) Items() []T { return s.current.Load().Items }

// Status reports the current snapshot metadata and the last fetch error, if
// the most recent fetch failed.
func (s *Store[T]) Status() Status {
	snap := s.current.Load()
	st := Status{
		Name:      s.name,
		Version:   snap.Version,
		Count:     len(snap.Items),
		Checksum:  snap.Checksum,
		FetchedAt: snap.FetchedAt,
	}
	if e := s.lastErr.Load(); e != nil {
		st.LastError = *e
	}
	return st
}

// Refresh fetches the collection once and applies the result. Callers that
// arrive while a fetch is in flight wait for that fetch instead of starting
// another. On error the previous snapshot is kept and the error returned.
// If ctx ends first, Refresh returns ctx.Err() and the fetch carries on for
// the remaining callers.
func (s *Store[T]) Refresh(ctx context.Context) error {
	ch := s.group.DoChan("refresh", func() (any, error) {
		fetchCtx, cancel := s.fetchContext()
		defer cancel()
		items, err := s.fetch(fetchCtx)
		if err != nil {
			msg := err.Error()
			s.lastErr.Store(&msg)
			return nil, fmt.Errorf("livestore %s: %w", s.name, err)
		}
		return nil, s.apply(items)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store[T]) fetchContext() (context.Context, context.CancelFunc) {
	s.applyMu.Lock()
	life := s.life
	s.applyMu.Unlock()
	return context.WithTimeout(life, s.timeout)
}

func (s *Store[T]) apply(items []T) error {
	if items == nil {
		items = []T{}
	}
	sum, err := checksum.Of(items)
	if err != nil {
		return fmt.Errorf("livestore %s: %w", s.name, err)
	}

	s.applyMu.Lock()
	if s.stopped {
		s.applyMu.Unlock()
		return fmt.Errorf("livestore %s: %w", s.name, apperr.ErrClosed)
	}
	prev := s.current.Load()
	next := &Snapshot[T]{
		Items:     items,
		Version:   prev.Version + 1,
		Checksum:  sum,
		FetchedAt: time.Now(),
	}
	s.current.Store(next)
	s.lastErr.Store(nil)
	s.applyMu.Unlock()

	if sum != prev.Checksum && s.onChange != nil {
		s.onChange(*next)
	}
	return nil
}

// Start launches the polling loop: an immediate refresh, then one per
// interval. Ticks that fire while a refresh is still running are skipped.
// The loop runs until ctx is cancelled or Stop is called.
// Calling Start on a running store is a no-op.
func (s *Store[T]) Start(ctx context.Context) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.running {
		return
	}
	s.applyMu.Lock()
	s.stopped = false
	if s.life.Err() != nil {
		s.life, s.kill = context.WithCancel(context.Background())
	}
	s.applyMu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	go s.loop(loopCtx, s.done)
}

func (s *Store[T]) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	// The ticker drops ticks while tick is running, so a slow fetch never
	// queues up a backlog of refreshes.
	tick := func() {
		if err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, apperr.ErrClosed) {
			s.logger.Warn("livestore: refresh failed, keeping last snapshot",
				slog.String("store", s.name),
				slog.String("error", err.Error()))
		}
	}

	tick()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// Stop terminates the polling loop, cancels any fetch in flight and waits for
// the loop to exit. Results of fetches that complete after Stop are
// discarded. Stop is idempotent.
func (s *Store[T]) Stop() {
	s.applyMu.Lock()
	s.stopped = true
	s.kill()
	s.applyMu.Unlock()

	s.lifeMu.Lock()
	if !s.running {
		s.lifeMu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.lifeMu.Unlock()

	cancel()
	<-done
}

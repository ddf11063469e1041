package reveal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/vitrine/internal/apperr"
)

// Instance is one mounted section being observed.
type Instance struct {
	ID        string    `json:"id"`
	Section   string    `json:"section"`
	MountedAt time.Time `json:"mounted_at"`

	latch    *Latch
	lastSeen time.Time
}

// State returns the latch state of the instance.
func (in *Instance) State() State { return in.latch.State() }

// Observer owns the latches of all mounted section instances.
type Observer struct {
	opts Options
	now  func() time.Time

	mu        sync.Mutex
	instances map[string]*Instance
	closed    bool
}

// NewObserver creates an observer applying opts to every instance.
func NewObserver(opts Options) *Observer {
	return &Observer{
		opts:      opts,
		now:       time.Now,
		instances: make(map[string]*Instance),
	}
}

// Options returns the detection parameters.
func (o *Observer) Options() Options { return o.opts }

// Mount starts observing a new instance of section and returns it in the
// Hidden state.
func (o *Observer) Mount(section string) (*Instance, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil, apperr.ErrClosed
	}
	now := o.now()
	in := &Instance{
		ID:        uuid.NewString(),
		Section:   section,
		MountedAt: now,
		latch:     NewLatch(o.opts),
		lastSeen:  now,
	}
	o.instances[in.ID] = in
	return in, nil
}

// Get returns a mounted instance.
func (o *Observer) Get(id string) (*Instance, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	in, ok := o.instances[id]
	if !ok {
		return nil, fmt.Errorf("instance %s: %w", id, apperr.ErrNotFound)
	}
	return in, nil
}

// Report feeds an intersection entry to the instance and returns its state
// and whether this entry triggered the transition to Visible.
func (o *Observer) Report(id string, e Entry) (State, bool, error) {
	o.mu.Lock()
	in, ok := o.instances[id]
	if ok {
		in.lastSeen = o.now()
	}
	o.mu.Unlock()
	if !ok {
		return Hidden, false, fmt.Errorf("instance %s: %w", id, apperr.ErrNotFound)
	}
	// The instance may have been unmounted since the lookup.
	changed := in.latch.Observe(e)
	if !changed && in.latch.Released() {
		return in.latch.State(), false, fmt.Errorf("instance %s: %w", id, apperr.ErrReleased)
	}
	return in.latch.State(), changed, nil
}

// Unmount stops observing the instance and releases its latch.
func (o *Observer) Unmount(id string) error {
	o.mu.Lock()
	in, ok := o.instances[id]
	delete(o.instances, id)
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("instance %s: %w", id, apperr.ErrNotFound)
	}
	in.latch.Release()
	return nil
}

// Sweep releases instances that have not been mounted or reported for longer
// than maxIdle, for clients that went away without unmounting. It returns the
// number of released instances.
func (o *Observer) Sweep(maxIdle time.Duration) int {
	cutoff := o.now().Add(-maxIdle)
	o.mu.Lock()
	var stale []*Instance
	for id, in := range o.instances {
		if in.lastSeen.Before(cutoff) {
			stale = append(stale, in)
			delete(o.instances, id)
		}
	}
	o.mu.Unlock()
	for _, in := range stale {
		in.latch.Release()
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (o *Observer) RunSweeper(ctx context.Context, every, maxIdle time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := o.Sweep(maxIdle); n > 0 {
				logger.Debug("reveal: released idle instances", slog.Int("count", n))
			}
		}
	}
}

// Len returns the number of mounted instances.
func (o *Observer) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.instances)
}

// Close releases every instance and rejects further mounts.
func (o *Observer) Close() {
	o.mu.Lock()
	all := o.instances
	o.instances = make(map[string]*Instance)
	o.closed = true
	o.mu.Unlock()
	for _, in := range all {
		in.latch.Release()
	}
}

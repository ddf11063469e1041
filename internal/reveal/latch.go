// Package reveal drives one-shot entrance animations for sections that
// scroll into view.
//
// Every mounted section instance owns a Latch that starts Hidden and flips to
// Visible the first time an intersection entry crosses the threshold. The
// latch never goes back; remounting creates a fresh latch. An Observer owns
// the latches of all mounted instances and must be told when an instance
// unmounts so its latch is released.
package reveal

import "sync"

// State of a latch.
type State string

const (
	Hidden  State = "hidden"
	Visible State = "visible"
)

// Default observation parameters.
const (
	DefaultThreshold    = 0.1
	DefaultBottomMargin = 50
)

// Options configures intersection detection.
type Options struct {
	// Threshold is the visible fraction of the target that triggers the latch.
	Threshold float64 `json:"threshold"`
	// RootMargin adjusts the viewport before intersecting; negative values
	// shrink it.
	RootMargin Margin `json:"root_margin"`
}

// DefaultOptions triggers at 10% visibility with the viewport bottom shrunk
// by 50px, so sections start animating slightly before fully entering.
func DefaultOptions() Options {
	return Options{
		Threshold:  DefaultThreshold,
		RootMargin: Margin{Bottom: -DefaultBottomMargin},
	}
}

// Entry is one intersection sample: the target bounds and the viewport.
type Entry struct {
	Target Rect `json:"target"`
	Root   Rect `json:"root"`
}

// Crosses reports whether e satisfies opts.
func (opts Options) Crosses(e Entry) bool {
	ratio, ok := Ratio(e.Target, e.Root, opts.RootMargin)
	return ok && ratio > 0 && ratio >= opts.Threshold
}

// Latch is the Hidden -> Visible state machine of one section instance.
// It is safe for concurrent use.
type Latch struct {
	opts Options

	mu       sync.Mutex
	state    State
	released bool
}

// NewLatch returns a Hidden latch.
func NewLatch(opts Options) *Latch {
	return &Latch{opts: opts, state: Hidden}
}

// State returns the current state.
func (l *Latch) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Observe feeds an intersection entry to the latch and reports whether this
// entry caused the Hidden -> Visible transition. It returns true at most once
// over the lifetime of the latch, and never after Release.
func (l *Latch) Observe(e Entry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released || l.state == Visible {
		return false
	}
	if !l.opts.Crosses(e) {
		return false
	}
	l.state = Visible
	return true
}

// Release stops the latch from reacting to further entries.
func (l *Latch) Release() {
	l.mu.Lock()
	l.released = true
	l.mu.Unlock()
}

// Released reports whether Release was called.
func (l *Latch) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

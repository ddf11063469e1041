package reveal

import (
	"encoding/json"
	"time"
)

// Frame is a set of animatable properties of an element.
type Frame struct {
	Opacity float64 `json:"opacity"`
	Y       float64 `json:"y"`
}

// Transition times an entrance. Durations are serialized in seconds, the
// unit animation libraries on the page expect.
type Transition struct {
	Duration time.Duration
	Delay    time.Duration
	Ease     string
}

// MarshalJSON encodes durations as seconds.
func (t Transition) MarshalJSON() ([]byte, error) {
	d, delay := t.Seconds()
	return json.Marshal(struct {
		Duration float64 `json:"duration"`
		Delay    float64 `json:"delay"`
		Ease     string  `json:"ease,omitempty"`
	}{d, delay, t.Ease})
}

// Seconds returns the duration and delay in seconds.
func (t Transition) Seconds() (duration, delay float64) {
	return t.Duration.Seconds(), t.Delay.Seconds()
}

// Motion describes the entrance of one child element.
type Motion struct {
	Initial    Frame      `json:"initial"`
	Target     Frame      `json:"target"`
	Transition Transition `json:"transition"`
}

// Rise returns the common entrance: fade in while rising by offset pixels.
func Rise(offset float64, duration time.Duration) Motion {
	return Motion{
		Initial:    Frame{Opacity: 0, Y: offset},
		Target:     Frame{Opacity: 1, Y: 0},
		Transition: Transition{Duration: duration, Ease: "easeOut"},
	}
}

// WithDelay returns a copy of m starting delay after the transition fires.
func (m Motion) WithDelay(delay time.Duration) Motion {
	m.Transition.Delay = delay
	return m
}

// At returns the frame an element should hold in state s: the initial frame
// while Hidden, the target frame once Visible.
func (m Motion) At(s State) Frame {
	if s == Visible {
		return m.Target
	}
	return m.Initial
}

// Stagger returns n copies of base whose delays grow by step per index,
// starting at base's own delay. Delays are fixed at construction.
func Stagger(base Motion, n int, step time.Duration) []Motion {
	if n <= 0 {
		return nil
	}
	out := make([]Motion, n)
	for i := range out {
		out[i] = base.WithDelay(base.Transition.Delay + time.Duration(i)*step)
	}
	return out
}

// Cue is the resolved animation parameters of one element in a given state.
type Cue struct {
	Frame    Frame   `json:"frame"`
	Duration float64 `json:"duration"`
	Delay    float64 `json:"delay"`
	Ease     string  `json:"ease,omitempty"`
}

// Cues resolves every motion for state s.
func Cues(motions []Motion, s State) []Cue {
	out := make([]Cue, len(motions))
	for i, m := range motions {
		d, delay := m.Transition.Seconds()
		out[i] = Cue{Frame: m.At(s), Duration: d, Delay: delay, Ease: m.Transition.Ease}
	}
	return out
}

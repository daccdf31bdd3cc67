// Package reorder implements the drag gesture state machine for the
// ordered location list. One gesture moves an item by at most one
// position: begin on an index, accumulate vertical displacement, and
// on release move one step in the drag direction when the displacement
// beats the threshold. Out-of-range targets are clamped, never
// reported as errors.
package reorder

import "math"

type State int

const (
	StateIdle State = iota
	StateDragging
)

// DefaultThreshold is the displacement (in the client's pixel units) a
// release must beat before an item moves.
const DefaultThreshold = 30.0

// Controller is not safe for concurrent use; callers serialize access.
// The gesture itself has no asynchronous steps.
type Controller struct {
	state     State
	index     int
	delta     float64
	threshold float64
}

func NewController(threshold float64) *Controller {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Controller{threshold: threshold}
}

func (c *Controller) State() State {
	return c.state
}

// Dragging reports whether a gesture is active. List scrolling stays
// suspended while this is true.
func (c *Controller) Dragging() bool {
	return c.state == StateDragging
}

// Begin grabs the item at index. A second grab during an active
// gesture is ignored.
func (c *Controller) Begin(index int) {
	if c.state == StateDragging {
		return
	}
	if index < 0 {
		index = 0
	}
	c.state = StateDragging
	c.index = index
	c.delta = 0
}

// Update accumulates signed vertical displacement. No-op while idle.
func (c *Controller) Update(delta float64) {
	if c.state != StateDragging {
		return
	}
	c.delta += delta
}

// End releases the gesture over a list of the given length and reports
// the single-step move to perform, if any. The controller always
// returns to idle, whether or not an item moved.
func (c *Controller) End(length int) (from, to int, moved bool) {
	defer func() {
		c.state = StateIdle
		c.index = 0
		c.delta = 0
	}()

	if c.state != StateDragging || length == 0 {
		return 0, 0, false
	}
	from = clamp(c.index, 0, length-1)
	to = from
	if math.Abs(c.delta) <= c.threshold {
		return from, to, false
	}
	direction := 1
	if c.delta < 0 {
		direction = -1
	}
	to = clamp(from+direction, 0, length-1)
	return from, to, to != from
}

// Move returns a copy of items with the element at from reinserted at
// to. Indexes are clamped into range; a degenerate move returns the
// items unchanged.
func Move[T any](items []T, from, to int) []T {
	out := append([]T(nil), items...)
	if len(out) == 0 {
		return out
	}
	from = clamp(from, 0, len(out)-1)
	to = clamp(to, 0, len(out)-1)
	if from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

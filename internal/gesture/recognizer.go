// Package gesture turns raw pointer and touch events into pan, zoom and
// paint actions. Mouse and touch feed the same state machine.
package gesture

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DragThreshold is the displacement, in pixels on either axis, after
	// which a press becomes a pan.
	DragThreshold = 5.0
	// TapDuration is the longest touch that still counts as a tap.
	TapDuration = 200 * time.Millisecond

	wheelZoomIn  = 1.1
	wheelZoomOut = 0.9
)

// Target receives the recognizer's decisions.
type Target interface {
	PanBy(dx, dy float64)
	ZoomAt(factor, anchorX, anchorY float64)
	Paint(x, y float64)
}

// Source identifies the pointer family that produced an event.
type Source int

const (
	Mouse Source = iota
	Touch
)

// EventType is the abstract pointer capability set.
type EventType int

const (
	Down EventType = iota
	Move
	Up
	Cancel
)

// Point is a position in viewport pixels.
type Point struct {
	X, Y float64
}

// Event is one pointer or touch event. Points holds every contact that is
// down after the event; for Up that is the remaining contacts, so a final
// release carries none. Mouse events carry exactly one point, including Up.
type Event struct {
	Type   EventType
	Source Source
	Points []Point
}

// Phase is the recognizer's position in the per-interaction state machine.
type Phase int

const (
	Idle Phase = iota
	Pressed
	Dragging
	Pinching
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	case Pinching:
		return "pinching"
	}
	return "unknown"
}

// Recognizer classifies one interaction at a time. It is not safe for
// concurrent use; callers serialize events.
type Recognizer struct {
	target Target
	clock  clockwork.Clock

	phase   Phase
	source  Source
	origin  Point
	last    Point
	started time.Time
	pinched bool
	spread  float64
}

// New returns an idle recognizer. A nil clock uses the real clock.
func New(target Target, clock clockwork.Clock) *Recognizer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Recognizer{target: target, clock: clock}
}

func (r *Recognizer) Phase() Phase { return r.phase }

// Reset discards any interaction in progress without side effects.
func (r *Recognizer) Reset() {
	r.phase = Idle
	r.pinched = false
	r.spread = 0
}

// Handle feeds one event through the state machine.
func (r *Recognizer) Handle(ev Event) {
	if r.phase != Idle && ev.Source != r.source {
		// Only one interaction at a time; the other family waits.
		return
	}
	switch ev.Type {
	case Down:
		r.down(ev)
	case Move:
		r.move(ev)
	case Up:
		r.up(ev)
	case Cancel:
		r.Reset()
	}
}

// Wheel zooms around (x, y); positive deltaY zooms out.
func (r *Recognizer) Wheel(deltaY, x, y float64) {
	switch {
	case deltaY > 0:
		r.target.ZoomAt(wheelZoomOut, x, y)
	case deltaY < 0:
		r.target.ZoomAt(wheelZoomIn, x, y)
	}
}

func (r *Recognizer) down(ev Event) {
	switch {
	case len(ev.Points) == 0:
		return
	case ev.Source == Touch && len(ev.Points) >= 2:
		if r.phase == Idle {
			r.begin(ev)
		}
		r.startPinch(ev.Points)
	case r.phase == Idle:
		r.begin(ev)
	}
}

func (r *Recognizer) begin(ev Event) {
	r.phase = Pressed
	r.source = ev.Source
	r.origin = ev.Points[0]
	r.last = ev.Points[0]
	r.started = r.clock.Now()
	r.pinched = false
	r.spread = 0
}

func (r *Recognizer) startPinch(pts []Point) {
	r.phase = Pinching
	r.pinched = true
	r.spread = distance(pts[0], pts[1])
}

func (r *Recognizer) move(ev Event) {
	if r.phase == Idle || len(ev.Points) == 0 {
		return
	}

	if r.phase == Pinching {
		if len(ev.Points) < 2 {
			return
		}
		cur := distance(ev.Points[0], ev.Points[1])
		if r.spread > 0 && cur > 0 {
			mid := midpoint(ev.Points[0], ev.Points[1])
			r.target.ZoomAt(cur/r.spread, mid.X, mid.Y)
		}
		r.spread = cur
		return
	}

	p := ev.Points[0]
	if r.phase == Pressed {
		if math.Abs(p.X-r.origin.X) <= DragThreshold && math.Abs(p.Y-r.origin.Y) <= DragThreshold {
			r.last = p
			return
		}
		r.phase = Dragging
		r.last = r.origin
	}
	r.target.PanBy(p.X-r.last.X, p.Y-r.last.Y)
	r.last = p
}

func (r *Recognizer) up(ev Event) {
	if r.phase == Idle {
		return
	}

	if ev.Source == Touch && len(ev.Points) > 0 {
		if r.phase == Pinching && len(ev.Points) == 1 {
			// One finger lifted from a pinch: keep panning with the other.
			r.phase = Dragging
			r.last = ev.Points[0]
		}
		return
	}

	at := r.last
	if ev.Source == Mouse && len(ev.Points) > 0 {
		at = ev.Points[0]
	}
	if r.isTap() {
		r.target.Paint(at.X, at.Y)
	}
	r.Reset()
}

func (r *Recognizer) isTap() bool {
	if r.phase != Pressed || r.pinched {
		return false
	}
	if r.source == Touch {
		return r.clock.Since(r.started) < TapDuration
	}
	return true
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

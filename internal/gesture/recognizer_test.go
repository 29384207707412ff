package gesture

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type zoomCall struct {
	factor, x, y float64
}

// recordingTarget captures every action the recognizer emits.
type recordingTarget struct {
	pans   []Point
	zooms  []zoomCall
	paints []Point
}

func (t *recordingTarget) PanBy(dx, dy float64) { t.pans = append(t.pans, Point{dx, dy}) }
func (t *recordingTarget) ZoomAt(f, x, y float64) {
	t.zooms = append(t.zooms, zoomCall{f, x, y})
}
func (t *recordingTarget) Paint(x, y float64) { t.paints = append(t.paints, Point{x, y}) }

func mouse(typ EventType, x, y float64) Event {
	return Event{Type: typ, Source: Mouse, Points: []Point{{x, y}}}
}

func touch(typ EventType, pts ...Point) Event {
	return Event{Type: typ, Source: Touch, Points: pts}
}

func newTestRecognizer() (*Recognizer, *recordingTarget, *clockwork.FakeClock) {
	target := &recordingTarget{}
	clock := clockwork.NewFakeClock()
	return New(target, clock), target, clock
}

func TestMouseClickPaints(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Handle(mouse(Down, 100, 100))
	r.Handle(mouse(Move, 103, 96))
	r.Handle(mouse(Up, 104, 97))

	if len(target.paints) != 1 || target.paints[0] != (Point{104, 97}) {
		t.Fatalf("paints = %v, want one at (104, 97)", target.paints)
	}
	if len(target.pans) != 0 {
		t.Errorf("pans = %v, want none", target.pans)
	}
	if r.Phase() != Idle {
		t.Errorf("phase = %v, want idle", r.Phase())
	}
}

func TestMouseDragPans(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Handle(mouse(Down, 100, 100))
	r.Handle(mouse(Move, 103, 100))
	r.Handle(mouse(Move, 110, 100))
	if r.Phase() != Dragging {
		t.Fatalf("phase = %v, want dragging", r.Phase())
	}
	r.Handle(mouse(Move, 115, 90))
	r.Handle(mouse(Up, 115, 90))

	if len(target.paints) != 0 {
		t.Errorf("paints = %v, want none after a drag", target.paints)
	}
	want := []Point{{10, 0}, {5, -10}}
	if len(target.pans) != len(want) {
		t.Fatalf("pans = %v, want %v", target.pans, want)
	}
	for i := range want {
		if target.pans[i] != want[i] {
			t.Errorf("pan %d = %v, want %v", i, target.pans[i], want[i])
		}
	}
}

func TestMouseLeaveCancels(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Handle(mouse(Down, 50, 50))
	r.Handle(Event{Type: Cancel, Source: Mouse})
	r.Handle(mouse(Up, 50, 50))

	if len(target.paints) != 0 {
		t.Errorf("paints = %v, want none after cancel", target.paints)
	}
}

func TestTouchTapPaints(t *testing.T) {
	r, target, clock := newTestRecognizer()

	r.Handle(touch(Down, Point{40, 60}))
	clock.Advance(120 * time.Millisecond)
	r.Handle(touch(Move, Point{42, 61}))
	r.Handle(touch(Up))

	if len(target.paints) != 1 || target.paints[0] != (Point{42, 61}) {
		t.Fatalf("paints = %v, want one at (42, 61)", target.paints)
	}
	if len(target.pans) != 0 {
		t.Errorf("pans = %v, want none", target.pans)
	}
}

func TestTouchLongPressDoesNotPaint(t *testing.T) {
	r, target, clock := newTestRecognizer()

	r.Handle(touch(Down, Point{40, 60}))
	clock.Advance(TapDuration)
	r.Handle(touch(Up))

	if len(target.paints) != 0 {
		t.Errorf("paints = %v, want none for a long press", target.paints)
	}
}

func TestTouchDragDoesNotPaint(t *testing.T) {
	r, target, clock := newTestRecognizer()

	r.Handle(touch(Down, Point{40, 60}))
	r.Handle(touch(Move, Point{40, 80}))
	clock.Advance(50 * time.Millisecond)
	r.Handle(touch(Up))

	if len(target.paints) != 0 {
		t.Errorf("paints = %v, want none", target.paints)
	}
	if len(target.pans) != 1 || target.pans[0] != (Point{0, 20}) {
		t.Errorf("pans = %v, want [{0 20}]", target.pans)
	}
}

func TestPinchZoom(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Handle(touch(Down, Point{100, 100}))
	r.Handle(touch(Down, Point{100, 100}, Point{200, 100}))
	if r.Phase() != Pinching {
		t.Fatalf("phase = %v, want pinching", r.Phase())
	}

	r.Handle(touch(Move, Point{90, 100}, Point{210, 100}))
	r.Handle(touch(Move, Point{60, 100}, Point{240, 100}))

	if len(target.zooms) != 2 {
		t.Fatalf("zooms = %v, want 2", target.zooms)
	}
	// The ratio is incremental: 120/100, then 180/120.
	if z := target.zooms[0]; z.factor != 1.2 || z.x != 150 || z.y != 100 {
		t.Errorf("first zoom = %+v", z)
	}
	if z := target.zooms[1]; z.factor != 1.5 {
		t.Errorf("second zoom factor = %v, want 1.5", z.factor)
	}

	r.Handle(touch(Up, Point{240, 100}))
	r.Handle(touch(Up))
	if len(target.paints) != 0 {
		t.Errorf("paints = %v, want none after a pinch", target.paints)
	}
}

func TestSecondFingerCancelsTap(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Handle(touch(Down, Point{10, 10}))
	r.Handle(touch(Down, Point{10, 10}, Point{30, 10}))
	r.Handle(touch(Up, Point{10, 10}))
	r.Handle(touch(Up))

	if len(target.paints) != 0 {
		t.Errorf("paints = %v, want none", target.paints)
	}
}

func TestPinchThenPanWithRemainingFinger(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Handle(touch(Down, Point{10, 10}, Point{50, 10}))
	r.Handle(touch(Up, Point{50, 10}))
	r.Handle(touch(Move, Point{45, 20}))

	if len(target.pans) != 1 || target.pans[0] != (Point{-5, 10}) {
		t.Errorf("pans = %v, want [{-5 10}]", target.pans)
	}
}

func TestSourcesAreExclusive(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Handle(touch(Down, Point{10, 10}))
	r.Handle(mouse(Down, 300, 300))
	r.Handle(mouse(Up, 300, 300))
	if len(target.paints) != 0 {
		t.Fatalf("mouse interaction leaked through an active touch: %v", target.paints)
	}

	r.Handle(touch(Up))
	if len(target.paints) != 1 || target.paints[0] != (Point{10, 10}) {
		t.Errorf("paints = %v, want the touch tap only", target.paints)
	}
}

func TestWheel(t *testing.T) {
	r, target, _ := newTestRecognizer()

	r.Wheel(3, 10, 20)
	r.Wheel(-3, 30, 40)
	r.Wheel(0, 0, 0)

	want := []zoomCall{{wheelZoomOut, 10, 20}, {wheelZoomIn, 30, 40}}
	if len(target.zooms) != len(want) {
		t.Fatalf("zooms = %v, want %v", target.zooms, want)
	}
	for i := range want {
		if target.zooms[i] != want[i] {
			t.Errorf("zoom %d = %v, want %v", i, target.zooms[i], want[i])
		}
	}
}

package fogwall

import (
	"math"
	"testing"
)

func newTestSession() *Session {
	tu := DefaultTuning()
	return NewSession(&tu)
}

func TestSessionDragRotates(t *testing.T) {
	s := newTestSession()
	s.PointerDown(100, 100)
	if !s.Dragging() {
		t.Fatal("expected dragging after PointerDown")
	}
	s.PointerMove(150, 120)
	assertNear(t, "Yaw", s.Rotation.Yaw, 50*0.005)
	assertNear(t, "Pitch", s.Rotation.Pitch, 20*0.005)

	s.PointerUp()
	s.PointerMove(400, 400)
	// Rotation persists after the drag ends.
	assertNear(t, "Yaw after release", s.Rotation.Yaw, 0.25)
	assertNear(t, "Pitch after release", s.Rotation.Pitch, 0.1)
	if s.Cursor == nil || s.Cursor.X != 400 || s.Cursor.Y != 400 {
		t.Errorf("Cursor = %v, want (400, 400)", s.Cursor)
	}
}

func TestSessionHoverDoesNotRotate(t *testing.T) {
	s := newTestSession()
	s.PointerMove(10, 10)
	s.PointerMove(300, 200)
	if s.Rotation != (Rotation{}) {
		t.Errorf("Rotation = %+v, want zero", s.Rotation)
	}
}

func TestSessionPointerLeave(t *testing.T) {
	s := newTestSession()
	s.PointerDown(50, 50)
	s.Advance(0.5)
	s.PointerLeave()
	if s.Cursor != nil {
		t.Error("Cursor should be nil after PointerLeave")
	}
	if s.Dragging() {
		t.Error("drag should end on PointerLeave")
	}
	if !s.Focus.Shrinking || s.Focus.Expanding {
		t.Errorf("focus = %+v, want shrinking", s.Focus)
	}
}

// The focus circle grows at 280 px/s for a 2 s hold to 560 px, then shrinks
// at 660 px/s and switches off after about 0.85 s.
func TestFocusCircleHoldAndRelease(t *testing.T) {
	s := newTestSession()
	s.PointerDown(400, 300)

	const step = 1.0 / 60
	prev := 0.0
	for i := 0; i < 120; i++ {
		s.Advance(step)
		if s.Focus.Radius < prev {
			t.Fatalf("radius shrank while expanding: %v -> %v", prev, s.Focus.Radius)
		}
		prev = s.Focus.Radius
	}
	if !approxEqual(s.Focus.Radius, 560, 1e-6) {
		t.Fatalf("radius after 2s = %v, want 560", s.Focus.Radius)
	}

	s.PointerUp()
	elapsed := 0.0
	for s.Focus.Active {
		s.Advance(step)
		elapsed += step
		if s.Focus.Active && s.Focus.Radius > prev {
			t.Fatalf("radius grew while shrinking: %v -> %v", prev, s.Focus.Radius)
		}
		prev = s.Focus.Radius
		if elapsed > 2 {
			t.Fatal("focus circle never switched off")
		}
	}
	if !approxEqual(elapsed, 560.0/660, 2*step) {
		t.Errorf("shrink took %.3fs, want about %.3fs", elapsed, 560.0/660)
	}
	if s.Focus != (FocusCircle{}) {
		t.Errorf("focus = %+v, want reset", s.Focus)
	}
}

func TestFocusCircleMaxRadius(t *testing.T) {
	s := newTestSession()
	s.PointerDown(0, 0)
	s.Advance(10)
	assertNear(t, "Radius", s.Focus.Radius, 1000)
}

func TestFocusSwirlPhaseWraps(t *testing.T) {
	s := newTestSession()
	s.PointerDown(0, 0)
	for i := 0; i < 500; i++ {
		s.Advance(0.05)
		if s.Focus.SwirlPhase < 0 || s.Focus.SwirlPhase >= 2*math.Pi {
			t.Fatalf("SwirlPhase = %v, want within [0, 2π)", s.Focus.SwirlPhase)
		}
	}
}

func TestAdvanceIgnoresInactiveFocus(t *testing.T) {
	s := newTestSession()
	s.Advance(1)
	if s.Focus != (FocusCircle{}) {
		t.Errorf("focus = %+v, want zero", s.Focus)
	}
}

func TestFocusContains(t *testing.T) {
	tu := DefaultTuning()
	s := NewSession(&tu)
	if s.focusContains(0, 0, &tu) {
		t.Error("inactive focus contains nothing")
	}
	s.PointerDown(100, 100)
	if s.focusContains(100, 100, &tu) {
		t.Error("zero-radius focus contains nothing")
	}
	s.Advance(0.5) // radius 140
	if !s.focusContains(100, 100, &tu) {
		t.Error("center should be inside")
	}
	if !s.focusContains(200, 100, &tu) {
		t.Error("point 100 px away should be inside a 140 px circle")
	}
	if s.focusContains(260, 100, &tu) {
		t.Error("point 160 px away should be outside (edge ripple is at most 8 px)")
	}
}

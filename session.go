package fogwall

import "math"

// focusDeactivateRadius is the radius at or below which a shrinking focus
// circle switches off.
const focusDeactivateRadius = 0.5

// Rotation is the accumulated view rotation in radians.
type Rotation struct {
	Pitch float64 // around the X axis
	Yaw   float64 // around the Y axis
}

// FocusCircle is the pointer-held zone in which particles snap back home.
type FocusCircle struct {
	Active     bool
	Expanding  bool
	Shrinking  bool
	X, Y       float64
	Radius     float64
	SwirlPhase float64
}

// Session is the mutable interaction state of one open gallery canvas.
// Input handlers write it; the next frame's update pass reads it.
type Session struct {
	// Cursor is the last known pointer position, nil when the pointer is
	// outside the canvas.
	Cursor   *Vec2
	Rotation Rotation
	Focus    FocusCircle

	dragging     bool
	lastX, lastY float64
	tuning       *Tuning
}

// NewSession creates a session using the given tuning for rotation speed and
// focus circle behavior.
func NewSession(t *Tuning) *Session {
	return &Session{tuning: t}
}

// Dragging reports whether a drag-rotate gesture is in progress.
func (s *Session) Dragging() bool {
	return s.dragging
}

// PointerMove updates the repulsion cursor and, while dragging, the rotation.
func (s *Session) PointerMove(x, y float64) {
	if s.Cursor == nil {
		s.Cursor = &Vec2{}
	}
	s.Cursor.X, s.Cursor.Y = x, y
	if s.dragging {
		s.Rotation.Yaw += (x - s.lastX) * s.tuning.RotateSpeed
		s.Rotation.Pitch += (y - s.lastY) * s.tuning.RotateSpeed
	}
	s.lastX, s.lastY = x, y
}

// PointerDown starts a drag-rotate gesture and a fresh focus circle at (x, y).
func (s *Session) PointerDown(x, y float64) {
	if s.Cursor == nil {
		s.Cursor = &Vec2{}
	}
	s.Cursor.X, s.Cursor.Y = x, y
	s.dragging = true
	s.lastX, s.lastY = x, y
	s.Focus = FocusCircle{
		Active:    true,
		Expanding: true,
		X:         x,
		Y:         y,
	}
}

// PointerUp ends the drag and starts shrinking the focus circle.
func (s *Session) PointerUp() {
	s.dragging = false
	if s.Focus.Active {
		s.Focus.Expanding = false
		s.Focus.Shrinking = true
	}
}

// PointerLeave behaves like PointerUp and clears the cursor.
func (s *Session) PointerLeave() {
	s.PointerUp()
	s.Cursor = nil
}

// Advance moves the focus circle animation forward by seconds of real time.
func (s *Session) Advance(seconds float64) {
	f := &s.Focus
	if !f.Active || seconds <= 0 {
		return
	}
	t := s.tuning
	f.SwirlPhase = math.Mod(f.SwirlPhase+t.FocusSwirlSpeed*seconds, 2*math.Pi)
	switch {
	case f.Expanding:
		f.Radius = math.Min(t.FocusMaxRadius, f.Radius+t.FocusExpandSpeed*seconds)
	case f.Shrinking:
		f.Radius = math.Max(0, f.Radius-t.FocusShrinkSpeed*seconds)
		if f.Radius <= focusDeactivateRadius {
			*f = FocusCircle{}
		}
	}
}

// focusContains reports whether (x, y) lies inside the rippled focus circle.
func (s *Session) focusContains(x, y float64, t *Tuning) bool {
	f := &s.Focus
	if !f.Active || f.Radius <= 0 {
		return false
	}
	dx := x - f.X
	dy := y - f.Y
	angle := math.Atan2(dy, dx)
	edge := f.Radius + math.Sin(angle*t.FocusSwirlFreq+f.SwirlPhase)*t.FocusSwirlAmp
	return dx*dx+dy*dy <= edge*edge && edge > 0
}

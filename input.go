package fogwall

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// navigationKeys are the keys the gallery reacts to.
var navigationKeys = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyEscape}

// syntheticPointerEvent is a queued pointer event in canvas coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InputController turns raw pointer and keyboard state into Session updates
// and gallery navigation. Synthetic events queued with the Inject methods take
// precedence over real input, one event per frame.
type InputController struct {
	down     bool
	consumed bool // current press landed on an indicator
	inside   bool
	lastX    float64
	lastY    float64

	injectQueue []syntheticPointerEvent
	keyQueue    []ebiten.Key
	touchIDs    []ebiten.TouchID

	// injectedOnly ignores the mouse, touch screen and keyboard.
	injectedOnly bool
}

// InjectPress queues a pointer press at (x, y).
func (ic *InputController) InjectPress(x, y float64) {
	ic.injectQueue = append(ic.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move at (x, y) with the button held.
func (ic *InputController) InjectMove(x, y float64) {
	ic.injectQueue = append(ic.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectHover queues a pointer move at (x, y) with no button held.
func (ic *InputController) InjectHover(x, y float64) {
	ic.injectQueue = append(ic.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectRelease queues a pointer release at (x, y).
func (ic *InputController) InjectRelease(x, y float64) {
	ic.injectQueue = append(ic.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release. Consumes two frames.
func (ic *InputController) InjectClick(x, y float64) {
	ic.InjectPress(x, y)
	ic.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves and
// a release at (toX, toY). Minimum frames is 2.
func (ic *InputController) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	ic.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		ic.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	ic.InjectRelease(toX, toY)
}

// InjectKey queues a key press.
func (ic *InputController) InjectKey(k ebiten.Key) {
	ic.keyQueue = append(ic.keyQueue, k)
}

// Pending reports whether injected events are still queued.
func (ic *InputController) Pending() bool {
	return len(ic.injectQueue) > 0 || len(ic.keyQueue) > 0
}

// Poll reads one frame of input and applies it to g.
func (ic *InputController) Poll(g *Gallery) {
	ic.pollKeys(g)
	if g.closed {
		return
	}
	if len(ic.injectQueue) > 0 {
		evt := ic.injectQueue[0]
		copy(ic.injectQueue, ic.injectQueue[1:])
		ic.injectQueue = ic.injectQueue[:len(ic.injectQueue)-1]
		ic.process(g, evt.x, evt.y, evt.pressed, true)
		return
	}
	if ic.injectedOnly {
		return
	}
	x, y, pressed := ic.readPointer()
	inside := x >= 0 && y >= 0 && x < float64(g.width) && y < float64(g.height)
	ic.process(g, x, y, pressed, inside)
}

func (ic *InputController) pollKeys(g *Gallery) {
	if len(ic.keyQueue) > 0 {
		k := ic.keyQueue[0]
		ic.keyQueue = ic.keyQueue[1:]
		g.HandleKey(k)
		return
	}
	if ic.injectedOnly {
		return
	}
	for _, k := range navigationKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.HandleKey(k)
		}
	}
}

// readPointer returns the primary pointer: the first touch if any, else the mouse.
func (ic *InputController) readPointer() (x, y float64, pressed bool) {
	ic.touchIDs = ebiten.AppendTouchIDs(ic.touchIDs[:0])
	if len(ic.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(ic.touchIDs[0])
		return float64(tx), float64(ty), true
	}
	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// process runs the pointer state machine for one sample.
func (ic *InputController) process(g *Gallery, x, y float64, pressed, inside bool) {
	s := g.session
	if s == nil {
		return
	}

	if !inside {
		if ic.inside || ic.down {
			s.PointerLeave()
		}
		ic.inside = false
		ic.down = false
		ic.consumed = false
		return
	}
	ic.inside = true

	switch {
	case pressed && !ic.down:
		ic.down = true
		if i := g.indicatorAt(x, y); i >= 0 {
			ic.consumed = true
			g.Jump(i)
		} else {
			s.PointerDown(x, y)
		}
	case !pressed && ic.down:
		ic.down = false
		if ic.consumed {
			ic.consumed = false
		} else {
			s.PointerMove(x, y)
			s.PointerUp()
		}
	case x != ic.lastX || y != ic.lastY || s.Cursor == nil:
		s.PointerMove(x, y)
	}
	ic.lastX, ic.lastY = x, y
}

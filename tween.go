package fogwall

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Call Update(dt)
// each frame; values are written to the fields as the tweens advance.
// There is no global animation manager; owners call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	length float32
	// Delay holds the group at its start values for this many seconds.
	Delay float32
	Done  bool
}

// Update advances all tweens by dt seconds and writes values to the fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.Delay > 0 {
		if dt <= g.Delay {
			g.Delay -= dt
			return
		}
		dt -= g.Delay
		g.Delay = 0
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Finish jumps every field to its end value.
func (g *TweenGroup) Finish() {
	for i := 0; i < g.count; i++ {
		val, _ := g.tweens[i].Set(g.length)
		*g.fields[i] = float64(val)
	}
	g.Delay = 0
	g.Done = true
}

// TweenValue creates a TweenGroup that animates *field to the target value
// over duration seconds using the easing function.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, length: duration}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// TweenFromTo creates a TweenGroup that animates each field from the matching
// from value to the matching to value. Extra fields beyond 4 are ignored.
func TweenFromTo(fields []*float64, from, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{length: duration}
	for i := 0; i < len(fields) && i < len(from) && i < len(to) && i < len(g.tweens); i++ {
		*fields[i] = from[i]
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.fields[i] = fields[i]
		g.count++
	}
	return g
}

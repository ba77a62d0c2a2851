package fogwall

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// manualClock only moves when advanced.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// solidImage returns a w×h image filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

var opaqueRed = color.NRGBA{R: 220, G: 30, B: 40, A: 255}

// countingLoader serves solid images and counts loads per source.
type countingLoader struct {
	mu     sync.Mutex
	loads  map[string]int
	total  atomic.Int32
	size   int
	failOn map[string]error
}

func newCountingLoader(size int) *countingLoader {
	return &countingLoader{loads: make(map[string]int), size: size, failOn: make(map[string]error)}
}

func (l *countingLoader) Load(ctx context.Context, source string) (image.Image, error) {
	l.total.Add(1)
	l.mu.Lock()
	l.loads[source]++
	err := l.failOn[source]
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return solidImage(l.size, l.size, opaqueRed), nil
}

func (l *countingLoader) count(source string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[source]
}

// testSampling samples a solid size×size image on a w×h canvas.
func testSampling(size, w, h int) Sampling {
	t := DefaultTuning()
	return sampleImage(solidImage(size, size, opaqueRed), w, h, &t)
}

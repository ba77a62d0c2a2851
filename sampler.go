package fogwall

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Display box limits for the scaled image.
const (
	displayWidthRatio  = 0.85
	displayHeightRatio = 0.7
	displayMaxWidth    = 800
	displayMaxHeight   = 600
)

// Sampling gap lookup by scaled pixel area.
const (
	areaSmall  = 160_000
	areaMedium = 300_000
	areaLarge  = 480_000

	gapSmall  = 1.7
	gapMedium = 2.1
	gapLarge  = 2.5
	gapHuge   = 3.0
)

// Sample is one surviving pixel of the scaled image. X and Y are in scaled
// image space; R, G, B are 0-255 and A is the boosted alpha in (0, 1].
type Sample struct {
	X, Y    float64
	R, G, B uint8
	A       float64
}

// Sampling is the result of SampleImage.
type Sampling struct {
	Samples []Sample
	// Gap is the grid spacing in scaled pixels. Particles use it as their size.
	Gap float64
	// Width and Height are the scaled image dimensions.
	Width, Height int
	// CanvasW and CanvasH are the canvas size the sampling was computed for.
	CanvasW, CanvasH int
}

// Empty reports whether the sampling produced no samples.
func (s Sampling) Empty() bool {
	return len(s.Samples) == 0
}

// SampleImage downscales img to fit the display box of a canvasW×canvasH
// canvas and walks it on a grid, returning one sample per visible pixel.
// Output is deterministic for a given image and canvas size.
func SampleImage(img image.Image, canvasW, canvasH int) Sampling {
	t := DefaultTuning()
	return sampleImage(img, canvasW, canvasH, &t)
}

// SampleImageWith is SampleImage with explicit tuning.
func SampleImageWith(img image.Image, canvasW, canvasH int, t *Tuning) Sampling {
	return sampleImage(img, canvasW, canvasH, t)
}

func sampleImage(img image.Image, canvasW, canvasH int, t *Tuning) Sampling {
	out := Sampling{CanvasW: canvasW, CanvasH: canvasH}
	if img == nil || canvasW <= 0 || canvasH <= 0 {
		return out
	}
	b := img.Bounds()
	if b.Empty() {
		return out
	}

	w, h := fitDisplayBox(b.Dx(), b.Dy(), canvasW, canvasH)
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(scaled, scaled.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
	}

	gap := samplingGap(w, h, t.MaxSamples)
	out.Gap = gap
	out.Width = w
	out.Height = h
	out.Samples = make([]Sample, 0, gridCount(w, h, gap))

	fw, fh := float64(w), float64(h)
	for y := 0.0; y < fh; y += gap {
		for x := 0.0; x < fw; x += gap {
			c := scaled.NRGBAAt(int(x), int(y))
			if c.A <= t.AlphaCutoff {
				continue
			}
			out.Samples = append(out.Samples, Sample{
				X: x, Y: y,
				R: c.R, G: c.G, B: c.B,
				A: math.Min(1, float64(c.A)/255+t.AlphaBoost),
			})
		}
	}
	return out
}

// fitDisplayBox returns the scaled size of an iw×ih image. Images are only
// ever scaled down, never up.
func fitDisplayBox(iw, ih, canvasW, canvasH int) (int, int) {
	maxW := math.Min(float64(canvasW)*displayWidthRatio, displayMaxWidth)
	maxH := math.Min(float64(canvasH)*displayHeightRatio, displayMaxHeight)
	scale := math.Min(1, math.Min(maxW/float64(iw), maxH/float64(ih)))
	w := max(1, int(float64(iw)*scale))
	h := max(1, int(float64(ih)*scale))
	return w, h
}

// samplingGap picks the grid spacing for a w×h bitmap so that the number of
// grid points never exceeds maxSamples.
func samplingGap(w, h, maxSamples int) float64 {
	area := float64(w) * float64(h)
	var gap float64
	switch {
	case area <= areaSmall:
		gap = gapSmall
	case area <= areaMedium:
		gap = gapMedium
	case area <= areaLarge:
		gap = gapLarge
	default:
		gap = gapHuge
	}
	if maxSamples <= 0 {
		return gap
	}
	limit := float64(maxSamples)
	if area/(gap*gap) > limit {
		gap = math.Sqrt(area / limit)
	}
	// The estimate ignores partial rows and columns.
	for gridCount(w, h, gap) > maxSamples {
		gap *= 1.01
	}
	return gap
}

// gridCount is the exact number of grid points visited for a w×h bitmap.
func gridCount(w, h int, gap float64) int {
	return gridSteps(float64(w), gap) * gridSteps(float64(h), gap)
}

func gridSteps(n, gap float64) int {
	steps := 0
	for v := 0.0; v < n; v += gap {
		steps++
	}
	return steps
}

// sampleColor converts a sample to a straight-alpha Color.
func sampleColor(s Sample) Color {
	return Color{
		R: float64(s.R) / 255,
		G: float64(s.G) / 255,
		B: float64(s.B) / 255,
		A: s.A,
	}
}

package fogwall

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

const (
	captionBottom    = 80  // px between the caption and the canvas bottom
	captionDelay     = 0.5 // seconds before the caption fades in
	captionFade      = 0.6
	captionRise      = 20
	captionLineGap   = 8
	reviewWrap       = 64 // characters per review line

	indicatorSize     = 8
	indicatorActive   = 24
	indicatorGap      = 8
	indicatorBottom   = 32
	indicatorHitSlack = 4
	indicatorTween    = 0.3
)

var (
	colorCaptionTitle  = Color{R: 1, G: 1, B: 1, A: 1}
	colorCaptionReview = Color{R: 0.63, G: 0.63, B: 0.67, A: 1}
	colorIndicatorOn   = Color{R: 0.13, G: 0.83, B: 0.93, A: 1}
	colorIndicatorOff  = Color{R: 0.32, G: 0.32, B: 0.36, A: 1}
)

// caption draws a poster's title and review below the image and fades them
// in whenever the poster changes.
type caption struct {
	title  *ebiten.Image
	review *ebiten.Image

	alpha   float64
	offsetY float64
	tween   *TweenGroup
}

// set replaces the caption text and restarts the fade-in. Without fonts the
// caption stays blank.
func (c *caption) set(p Poster) {
	c.dispose()
	title, review, err := captionFonts()
	if err == nil {
		c.title = title.render(p.DisplayTitle())
		c.review = review.render(wrapText(p.Review, reviewWrap))
	}
	c.tween = TweenFromTo(
		[]*float64{&c.alpha, &c.offsetY},
		[]float64{0, captionRise},
		[]float64{1, 0},
		captionFade, ease.OutCubic,
	)
	c.tween.Delay = captionDelay
}

func (c *caption) update(dt float32) {
	if c.tween != nil {
		c.tween.Update(dt)
	}
}

func (c *caption) draw(dst *ebiten.Image, w, h int) {
	if c.title == nil || c.alpha <= 0 {
		return
	}
	y := float64(h) - captionBottom + c.offsetY
	if c.review != nil {
		y -= float64(c.review.Bounds().Dy()) + captionLineGap
	}
	ty := y - float64(c.title.Bounds().Dy())
	drawText(dst, c.title, float64(w)/2, ty, colorCaptionTitle, c.alpha)
	if c.review != nil {
		drawText(dst, c.review, float64(w)/2, y+captionLineGap, colorCaptionReview, c.alpha)
	}
}

func (c *caption) dispose() {
	if c.title != nil {
		c.title.Deallocate()
		c.title = nil
	}
	if c.review != nil {
		c.review.Deallocate()
		c.review = nil
	}
}

// drawText draws a text image horizontally centered on cx.
func drawText(dst, img *ebiten.Image, cx, y float64, c Color, alpha float64) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(cx-float64(img.Bounds().Dx())/2, y)
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), 1)
	op.ColorScale.ScaleAlpha(float32(alpha * c.A))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, &op)
}

// wrapText breaks s into lines of at most width characters on word
// boundaries. Words longer than width are kept whole.
func wrapText(s string, width int) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(s) {
		wl := len([]rune(word))
		switch {
		case n == 0:
		case n+1+wl > width:
			b.WriteByte('\n')
			n = 0
		default:
			b.WriteByte(' ')
			n++
		}
		b.WriteString(word)
		n += wl
	}
	return b.String()
}

// indicators is the row of dots that shows and selects the current poster.
type indicators struct {
	widths []float64
	tweens []*TweenGroup
	rects  []Rect
}

func newIndicators(n, active int) *indicators {
	in := &indicators{
		widths: make([]float64, n),
		tweens: make([]*TweenGroup, n),
		rects:  make([]Rect, n),
	}
	for i := range in.widths {
		in.widths[i] = indicatorSize
	}
	if active >= 0 && active < n {
		in.widths[active] = indicatorActive
	}
	return in
}

// activate animates the dot at next wide and the dot at prev narrow.
func (in *indicators) activate(prev, next int) {
	if prev >= 0 && prev < len(in.widths) && prev != next {
		in.tweens[prev] = TweenValue(&in.widths[prev], indicatorSize, indicatorTween, ease.OutQuad)
	}
	if next >= 0 && next < len(in.widths) {
		in.tweens[next] = TweenValue(&in.widths[next], indicatorActive, indicatorTween, ease.OutQuad)
	}
}

func (in *indicators) update(dt float32) {
	for i, tw := range in.tweens {
		if tw == nil {
			continue
		}
		tw.Update(dt)
		if tw.Done {
			in.tweens[i] = nil
		}
	}
}

// layout positions the dots centered along the bottom of a w×h canvas.
func (in *indicators) layout(w, h int) {
	total := 0.0
	for _, wd := range in.widths {
		total += wd
	}
	total += float64(max(0, len(in.widths)-1)) * indicatorGap
	x := (float64(w) - total) / 2
	y := float64(h) - indicatorBottom
	for i, wd := range in.widths {
		in.rects[i] = Rect{X: x, Y: y, Width: wd, Height: indicatorSize}
		x += wd + indicatorGap
	}
}

// hit returns the index of the dot at (x, y), or -1.
func (in *indicators) hit(x, y float64) int {
	for i, r := range in.rects {
		r.X -= indicatorHitSlack
		r.Y -= indicatorHitSlack
		r.Width += 2 * indicatorHitSlack
		r.Height += 2 * indicatorHitSlack
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

func (in *indicators) draw(dst *ebiten.Image, active int) {
	for i, r := range in.rects {
		c := colorIndicatorOff
		if i == active {
			c = colorIndicatorOn
		}
		vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height),
			c.toRGBA(), true)
	}
}

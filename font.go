package fogwall

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Caption font sizes in pixels.
const (
	titleFontSize  = 28
	reviewFontSize = 14
)

// captionFont wraps a text/v2 face with its cached line height.
type captionFont struct {
	face *text.GoTextFace
	lh   float64
}

// loadFont parses TrueType or OpenType data at the given size.
func loadFont(ttfData []byte, size float64) (*captionFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("fogwall: parse font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &captionFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// measure returns the size of s laid out with the font's line height.
func (f *captionFont) measure(s string) (w, h float64) {
	return text.Measure(s, f.face, f.lh)
}

// render draws s in white onto a tightly sized image, each line centered.
// Empty strings yield nil.
func (f *captionFont) render(s string) *ebiten.Image {
	if s == "" {
		return nil
	}
	w, h := f.measure(s)
	iw, ih := int(math.Ceil(w))+1, int(math.Ceil(h))+1
	img := ebiten.NewImage(iw, ih)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(iw)/2, 0)
	op.LineSpacing = f.lh
	op.PrimaryAlign = text.AlignCenter
	text.Draw(img, s, f.face, op)
	return img
}

var (
	fontsOnce  sync.Once
	titleFont  *captionFont
	reviewFont *captionFont
	fontsErr   error
)

// captionFonts lazily parses the bundled Go Regular face at the caption sizes.
func captionFonts() (title, review *captionFont, err error) {
	fontsOnce.Do(func() {
		if titleFont, fontsErr = loadFont(goregular.TTF, titleFontSize); fontsErr != nil {
			return
		}
		reviewFont, fontsErr = loadFont(goregular.TTF, reviewFontSize)
	})
	return titleFont, reviewFont, fontsErr
}

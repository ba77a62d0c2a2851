package fogwall

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"empty", "", 10, ""},
		{"fits", "one two", 10, "one two"},
		{"breaks", "one two three", 9, "one two\nthree"},
		{"exact", "abc def", 7, "abc def"},
		{"long word", "a supercalifragilistic b", 5, "a\nsupercalifragilistic\nb"},
		{"collapses space", "  a   b  ", 10, "a b"},
		{"multibyte", "héllo wörld", 5, "héllo\nwörld"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.in, tt.width); got != tt.want {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapTextLineWidth(t *testing.T) {
	review := strings.Repeat("a quiet film about fog and memory ", 12)
	for _, line := range strings.Split(wrapText(review, reviewWrap), "\n") {
		if n := len([]rune(line)); n > reviewWrap {
			t.Fatalf("line %q has %d characters", line, n)
		}
	}
}

func TestIndicatorsLayout(t *testing.T) {
	in := newIndicators(3, 1)
	in.layout(800, 600)

	// 8 + 24 + 8 plus two gaps = 56, centered on 400.
	wantX := []float64{372, 388, 420}
	wantW := []float64{indicatorSize, indicatorActive, indicatorSize}
	for i, r := range in.rects {
		if r.X != wantX[i] || r.Width != wantW[i] {
			t.Errorf("dot %d = %+v, want X=%v W=%v", i, r, wantX[i], wantW[i])
		}
		if r.Y != 600-indicatorBottom || r.Height != indicatorSize {
			t.Errorf("dot %d Y/H = %v/%v", i, r.Y, r.Height)
		}
	}
}

func TestIndicatorsHit(t *testing.T) {
	in := newIndicators(3, 0)
	in.layout(800, 600)
	y := float64(600 - indicatorBottom + indicatorSize/2)

	tests := []struct {
		x, y float64
		want int
	}{
		{in.rects[0].X + 1, y, 0},
		{in.rects[2].X + 4, y, 2},
		{in.rects[1].X - 2, y, 1}, // inside the hit slack
		{in.rects[2].X + indicatorSize + 20, y, -1},
		{400, 100, -1},
	}
	for _, tt := range tests {
		if got := in.hit(tt.x, tt.y); got != tt.want {
			t.Errorf("hit(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestIndicatorsActivate(t *testing.T) {
	in := newIndicators(4, 0)
	in.activate(0, 2)
	for range 30 {
		in.update(1.0 / 60)
	}
	if in.widths[0] != indicatorSize || in.widths[2] != indicatorActive {
		t.Errorf("widths = %v", in.widths)
	}
	for i, tw := range in.tweens {
		if tw != nil {
			t.Errorf("tween %d not released after finishing", i)
		}
	}
}

func TestNewIndicatorsOutOfRangeActive(t *testing.T) {
	in := newIndicators(2, 5)
	for i, w := range in.widths {
		if w != indicatorSize {
			t.Errorf("width %d = %v, want %v", i, w, indicatorSize)
		}
	}
}

func TestCaptionFadesIn(t *testing.T) {
	var c caption
	c.set(Poster{Title: "Fog", Review: "Soft and slow."})
	defer c.dispose()

	if c.alpha != 0 || c.offsetY != captionRise {
		t.Fatalf("start alpha %v offset %v", c.alpha, c.offsetY)
	}
	c.update(captionDelay)
	if c.alpha != 0 {
		t.Errorf("alpha moved during delay: %v", c.alpha)
	}
	c.update(captionFade + 0.1)
	if c.alpha != 1 || c.offsetY != 0 {
		t.Errorf("end alpha %v offset %v, want 1 and 0", c.alpha, c.offsetY)
	}

	dst := ebiten.NewImage(800, 600)
	defer dst.Deallocate()
	c.draw(dst, 800, 600)
}

func TestCaptionWithoutReview(t *testing.T) {
	var c caption
	c.set(Poster{})
	defer c.dispose()
	if c.title == nil || c.review != nil {
		t.Error("untitled poster should get a title image and no review image")
	}
}

func TestCaptionRendersNonASCII(t *testing.T) {
	title, _, err := captionFonts()
	if err != nil {
		t.Fatalf("captionFonts: %v", err)
	}
	ascii, _ := title.measure("Amelie")
	accented, _ := title.measure("Amélie")
	if ascii <= 0 || accented <= 0 {
		t.Fatalf("widths %v and %v, want positive", ascii, accented)
	}

	var c caption
	c.set(Poster{Title: "Amélie", Review: "Ein Märchen über Paris, 夢."})
	defer c.dispose()
	if c.title == nil || c.review == nil {
		t.Fatal("expected title and review images")
	}
	if w := c.title.Bounds().Dx(); float64(w) < accented {
		t.Errorf("title image width %d narrower than text %v", w, accented)
	}
}

func TestCaptionReviewLines(t *testing.T) {
	_, review, err := captionFonts()
	if err != nil {
		t.Fatalf("captionFonts: %v", err)
	}
	_, one := review.measure("line")
	_, two := review.measure("line\nline")
	if two <= one {
		t.Errorf("two-line height %v, want more than one-line %v", two, one)
	}
	if img := review.render(""); img != nil {
		t.Error("empty text should not allocate an image")
	}
}

func TestLoadFontInvalidData(t *testing.T) {
	if _, err := loadFont([]byte("not a TTF file"), 16); err == nil {
		t.Error("expected an error for invalid font data")
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := (Poster{}).DisplayTitle(); got != "Untitled" {
		t.Errorf("empty title = %q", got)
	}
	if got := (Poster{Title: "Ash"}).DisplayTitle(); got != "Ash" {
		t.Errorf("title = %q", got)
	}
}

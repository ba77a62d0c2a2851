package fogwall

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlay shows FPS, TPS and particle stats in the top-left corner. The text
// is refreshed every half second.
type overlay struct {
	img     *ebiten.Image
	elapsed float64
}

func newOverlay() *overlay {
	// 200x80 fits five debug-font lines.
	return &overlay{img: ebiten.NewImage(200, 80), elapsed: overlayRefresh}
}

const overlayRefresh = 0.5

func (o *overlay) update(dt float64, g *Gallery) {
	o.elapsed += dt
	if o.elapsed < overlayRefresh {
		return
	}
	o.elapsed = 0

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text(g))
}

func (o *overlay) text(g *Gallery) string {
	n, speed := 0, 0.0
	if g.field != nil {
		n = g.field.Len()
		speed = g.field.MeanSpeed()
	}
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nparticles: %d\nspeed: %.2f\nphase: %s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), n, speed, g.phase.Phase())
}

func (o *overlay) draw(dst *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	dst.DrawImage(o.img, &op)
}

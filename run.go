package fogwall

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// TPS overrides ebiten's default tick rate when positive.
	TPS int
}

// Run opens a window and drives g until it closes. Closing through Escape or
// Close is not an error.
func Run(g *Gallery, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "fogwall"
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = g.width, g.height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	defer g.Close()
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

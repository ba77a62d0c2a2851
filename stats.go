package fogwall

import (
	"time"

	"go.uber.org/zap"
)

// statsLogEvery is the number of frames between debug stat log lines.
const statsLogEvery = 60

// frameStats holds per-frame timings. Only populated in debug mode.
type frameStats struct {
	update    time.Duration
	draw      time.Duration
	particles int
	frames    int
}

// logStats writes one line of frame stats every statsLogEvery frames.
func (g *Gallery) logStats() {
	g.stats.frames++
	if g.stats.frames < statsLogEvery {
		return
	}
	g.stats.frames = 0
	g.log.Debug("frame stats",
		zap.Duration("update", g.stats.update),
		zap.Duration("draw", g.stats.draw),
		zap.Duration("total", g.stats.update+g.stats.draw),
		zap.Int("particles_drawn", g.stats.particles),
		zap.Stringer("phase", g.phase.Phase()),
		zap.Int("index", g.index))
}

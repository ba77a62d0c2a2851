package fogwall

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Default canvas size used until the first Layout call.
const (
	defaultCanvasW = 800
	defaultCanvasH = 600
)

// seedMix spreads poster indices across the field seed space.
const seedMix = 0x9e3779b97f4a7c15

var backgroundColor = color.RGBA{R: 3, G: 3, B: 6, A: 255}

// Options configures a Gallery. The zero value is usable.
type Options struct {
	// Tuning overrides DefaultTuning when non-nil.
	Tuning *Tuning
	// Seed makes particle layouts reproducible.
	Seed uint64
	// StartIndex is the poster shown first; it wraps like any other index.
	StartIndex int
	// Width and Height are the canvas size before the first Layout call.
	Width, Height int

	Loader Loader
	Clock  Clock
	Logger *zap.Logger
	// MaxConcurrentDecodes bounds background image decoding. Zero means 2.
	MaxConcurrentDecodes int

	// InjectedOnly ignores device input so only events queued through
	// Input() drive the gallery.
	InjectedOnly bool

	// Debug shows the stats overlay and logs frame timings.
	Debug bool
	// ScreenshotDir receives PNGs requested with Screenshot. Empty means "screenshots".
	ScreenshotDir string
}

// Gallery sequences posters as particle images and implements ebiten.Game.
// Every method must be called from the game loop goroutine.
type Gallery struct {
	posters []Poster
	index   int

	tuning Tuning
	seed   uint64
	log    *zap.Logger
	clock  Clock

	session  *Session
	phase    *PhaseController
	input    *InputController
	dec      *decoder
	renderer *Renderer
	field    *ParticleField
	frame    Frame

	// samplings caches finished samplings for the current canvas generation.
	samplings map[int]Sampling
	failed    map[int]bool
	gen       uint64

	width, height int
	resizeW       int
	resizeH       int

	caption    caption
	indicators *indicators
	overlay    *overlay
	stats      frameStats
	debug      bool

	opened    time.Time
	lastFrame time.Time
	closed    bool

	screenshotDir   string
	screenshotQueue []string
	script          *ScriptRunner

	// OnClose is called once when the gallery closes.
	OnClose func()
}

// Open creates a gallery session for posters and starts decoding the first
// poster. An empty list yields a gallery that draws nothing and never decodes.
func Open(posters []Poster, opts Options) *Gallery {
	g := &Gallery{
		posters:   posters,
		seed:      opts.Seed,
		log:       opts.Logger,
		clock:     opts.Clock,
		samplings: make(map[int]Sampling),
		failed:    make(map[int]bool),
		width:     opts.Width,
		height:    opts.Height,
		debug:     opts.Debug,

		screenshotDir: opts.ScreenshotDir,
	}
	if opts.Tuning != nil {
		g.tuning = *opts.Tuning
	} else {
		g.tuning = DefaultTuning()
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.clock == nil {
		g.clock = SystemClock{}
	}
	if g.width <= 0 || g.height <= 0 {
		g.width, g.height = defaultCanvasW, defaultCanvasH
	}
	if g.screenshotDir == "" {
		g.screenshotDir = "screenshots"
	}
	loader := opts.Loader
	if loader == nil {
		loader = &SourceLoader{}
	}

	g.session = NewSession(&g.tuning)
	g.input = &InputController{injectedOnly: opts.InjectedOnly}
	g.phase = NewPhaseController(g.tuning.ScatterDuration, g.tuning.AssembleDuration)
	g.phase.OnScatter = g.onScatter
	g.phase.OnSwap = g.onSwap
	g.phase.OnIdle = g.onIdle
	g.dec = newDecoder(loader, &g.tuning, opts.MaxConcurrentDecodes)
	g.frame = Frame{Session: g.session, Tuning: &g.tuning}
	if g.debug {
		g.overlay = newOverlay()
	}

	g.opened = g.clock.Now()
	g.lastFrame = g.opened

	if len(posters) == 0 {
		g.log.Info("gallery opened with no posters")
		return g
	}
	if _, _, err := captionFonts(); err != nil {
		g.log.Warn("captions disabled", zap.Error(err))
	}
	g.index = wrapIndex(opts.StartIndex, len(posters))
	g.indicators = newIndicators(len(posters), g.index)
	g.indicators.layout(g.width, g.height)
	g.caption.set(posters[g.index])
	g.requestDecode(g.index)
	g.prefetchNeighbors()
	g.dec.pump()

	g.log.Info("gallery opened",
		zap.Int("posters", len(posters)),
		zap.Int("index", g.index),
		zap.Int("width", g.width),
		zap.Int("height", g.height))
	return g
}

// Index returns the displayed poster index.
func (g *Gallery) Index() int {
	return g.index
}

// Len returns the number of posters.
func (g *Gallery) Len() int {
	return len(g.posters)
}

// Phase returns the current transition phase.
func (g *Gallery) Phase() Phase {
	return g.phase.Phase()
}

// Field returns the particle field of the displayed poster, or nil while its
// image is decoding, failed to decode, or the gallery is closed.
func (g *Gallery) Field() *ParticleField {
	return g.field
}

// Session returns the interaction state, nil once closed.
func (g *Gallery) Session() *Session {
	return g.session
}

// Input returns the input controller, for injecting synthetic events.
func (g *Gallery) Input() *InputController {
	return g.input
}

// Closed reports whether Close has been called.
func (g *Gallery) Closed() bool {
	return g.closed
}

// Next requests the following poster.
func (g *Gallery) Next() bool {
	return g.Jump(g.index + 1)
}

// Prev requests the preceding poster.
func (g *Gallery) Prev() bool {
	return g.Jump(g.index - 1)
}

// Jump requests poster i (wrapped into range). It returns false when the
// request is ignored: the gallery is closed or has fewer than two posters,
// i is already displayed, or a transition is in flight.
func (g *Gallery) Jump(i int) bool {
	if g.closed || len(g.posters) < 2 {
		return false
	}
	target := wrapIndex(i, len(g.posters))
	if target == g.index {
		return false
	}
	if !g.phase.Begin(g.clock.Now(), target) {
		g.log.Debug("navigation ignored during transition",
			zap.Int("target", target), zap.Stringer("phase", g.phase.Phase()))
		return false
	}
	return true
}

// HandleKey applies a navigation key.
func (g *Gallery) HandleKey(k ebiten.Key) {
	switch k {
	case ebiten.KeyArrowLeft:
		g.Prev()
	case ebiten.KeyArrowRight:
		g.Next()
	case ebiten.KeyEscape:
		g.Close()
	}
}

// Close ends the session: pending transitions are cancelled before the
// particle state is discarded, background decodes are stopped, and the next
// Update returns ebiten.Termination. Close is idempotent.
func (g *Gallery) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.phase.Cancel()
	g.dec.close()
	g.field = nil
	g.session = nil
	g.frame.Session = nil
	g.caption.dispose()
	g.log.Info("gallery closed", zap.Int("index", g.index))
	if g.OnClose != nil {
		g.OnClose()
	}
}

// Update advances one frame.
func (g *Gallery) Update() error {
	if g.closed {
		return ebiten.Termination
	}
	start := time.Now()
	now := g.clock.Now()
	elapsed := now.Sub(g.lastFrame)
	g.lastFrame = now

	if g.script != nil {
		g.script.step(g)
	}
	g.input.Poll(g)
	if g.closed {
		return ebiten.Termination
	}
	g.session.Advance(elapsed.Seconds())
	g.drainDecodes()
	g.phase.Update(now)

	if g.field != nil {
		g.frame.DT = FrameDT(float64(elapsed) / float64(time.Millisecond))
		g.frame.Phase = g.phase.Phase()
		g.field.Update(&g.frame)
	}

	dt := float32(elapsed.Seconds())
	g.caption.update(dt)
	if g.indicators != nil {
		g.indicators.update(dt)
		g.indicators.layout(g.width, g.height)
	}
	if g.overlay != nil {
		g.overlay.update(elapsed.Seconds(), g)
	}
	g.stats.update = time.Since(start)
	return nil
}

// Draw renders the current frame.
func (g *Gallery) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	if g.closed || len(g.posters) == 0 {
		return
	}
	start := time.Now()
	seconds := g.lastFrame.Sub(g.opened).Seconds()
	if g.renderer == nil {
		g.renderer = NewRenderer(g.fieldLen())
	}
	g.renderer.Draw(screen, g.field, g.session.Rotation, g.phase.Phase(), seconds, &g.tuning)
	g.caption.draw(screen, g.width, g.height)
	if len(g.posters) > 1 {
		g.indicators.draw(screen, g.index)
	}
	if g.overlay != nil {
		g.overlay.draw(screen)
	}
	g.flushScreenshots(screen)

	if g.debug {
		g.stats.draw = time.Since(start)
		g.stats.particles = g.renderer.Drawn
		g.logStats()
	}
}

// Layout tracks the outside size and uses it as the canvas size. A new size
// regenerates the field once no transition is in flight.
func (g *Gallery) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.resizeW, g.resizeH = outsideWidth, outsideHeight
		if !g.phase.Busy() {
			g.applyResize()
		}
	}
	return outsideWidth, outsideHeight
}

func (g *Gallery) applyResize() {
	if g.resizeW <= 0 || g.resizeH <= 0 {
		return
	}
	g.width, g.height = g.resizeW, g.resizeH
	g.resizeW, g.resizeH = 0, 0
	if g.closed || len(g.posters) == 0 {
		return
	}
	g.gen++
	g.dec.dropStale(g.gen)
	clear(g.samplings)
	clear(g.failed)
	g.field = nil
	g.log.Debug("canvas resized", zap.Int("width", g.width), zap.Int("height", g.height))
	g.requestDecode(g.index)
	g.prefetchNeighbors()
	g.dec.pump()
}

// --- transition hooks ---

func (g *Gallery) onScatter() {
	if g.field != nil {
		g.field.Scatter()
	}
	g.requestDecode(g.phase.pending)
	g.dec.pump()
	g.log.Debug("transition started",
		zap.Int("from", g.index), zap.Int("to", g.phase.pending))
}

func (g *Gallery) onSwap(index int) {
	prev := g.index
	g.index = index
	g.field = nil
	g.showIndex(index)
	if g.field != nil {
		g.field.Assemble()
	}
	g.caption.set(g.posters[index])
	g.indicators.activate(prev, index)
	g.prefetchNeighbors()
	g.dec.pump()
}

func (g *Gallery) onIdle() {
	if g.resizeW > 0 {
		g.applyResize()
	}
}

// --- fields and decoding ---

// showIndex builds the field for index if its sampling is ready.
func (g *Gallery) showIndex(index int) {
	s, ok := g.samplings[index]
	if !ok {
		return
	}
	g.field = NewParticleField(s, g.width, g.height, g.fieldSeed(index), &g.tuning)
	if g.renderer == nil {
		g.renderer = NewRenderer(g.field.Len())
	}
	g.log.Debug("particle field created",
		zap.Int("index", index),
		zap.Int("image_particles", g.field.ImageCount),
		zap.Int("ambient_extras", g.field.AmbientExtras()),
		zap.Float64("gap", s.Gap))
}

func (g *Gallery) fieldSeed(index int) uint64 {
	return g.seed ^ (uint64(index)+1)*seedMix
}

func (g *Gallery) fieldLen() int {
	if g.field == nil {
		return 0
	}
	return g.field.Len()
}

func (g *Gallery) requestDecode(index int) {
	if len(g.posters) == 0 {
		return
	}
	if _, ok := g.samplings[index]; ok || g.failed[index] {
		return
	}
	g.dec.request(decodeRequest{
		gen:    g.gen,
		index:  index,
		source: g.posters[index].ImageSource,
		w:      g.width,
		h:      g.height,
	})
}

func (g *Gallery) prefetchNeighbors() {
	if len(g.posters) < 2 {
		return
	}
	g.requestDecode(wrapIndex(g.index+1, len(g.posters)))
	g.requestDecode(wrapIndex(g.index-1, len(g.posters)))
}

// drainDecodes applies every finished decode. Results for an older canvas
// generation are dropped.
func (g *Gallery) drainDecodes() {
	for {
		res, ok := g.dec.poll()
		if !ok {
			break
		}
		if res.gen != g.gen {
			continue
		}
		p := g.posters[res.index]
		if res.err != nil {
			g.failed[res.index] = true
			g.log.Error("poster image failed to load",
				zap.Int("index", res.index),
				zap.String("poster", p.DisplayTitle()),
				zap.String("source", describeSource(p.ImageSource)),
				zap.Error(res.err))
			continue
		}
		g.samplings[res.index] = res.sampling
		if res.index == g.index && g.field == nil {
			g.showIndex(res.index)
			if g.field != nil && g.phase.Phase() == PhaseScatter {
				g.field.Scatter()
			}
		}
	}
	g.dec.pump()
}

// indicatorAt returns the indicator under (x, y), or -1.
func (g *Gallery) indicatorAt(x, y float64) int {
	if g.indicators == nil || len(g.posters) < 2 {
		return -1
	}
	return g.indicators.hit(x, y)
}

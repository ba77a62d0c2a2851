package fogwall

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color mix toward the particle tint per phase.
const (
	scatterTintMix  = 0.55
	assembleTintMix = 0.25
)

// maxBatchQuads caps the quads submitted per DrawTriangles32 call.
const maxBatchQuads = 65535 / 4

// Projection is a particle's position and size on screen.
type Projection struct {
	X, Y  float64
	Scale float64
}

// Project rotates a particle around the canvas center (pitch, then yaw) and
// applies perspective. wave is a vertical screen-space offset, ignored for
// focus-locked particles. ok is false for points at or behind the camera.
func Project(p *Particle, rot Rotation, w, h int, cameraDepth, wave float64) (proj Projection, ok bool) {
	cx, cy := float64(w)/2, float64(h)/2

	x := p.Pos.X - cx
	y := p.Pos.Y - cy
	z := p.Pos.Z
	if !p.FocusLocked {
		y += wave
	}

	// Pitch: rotate around X.
	cp, sp := math.Cos(rot.Pitch), math.Sin(rot.Pitch)
	y, z = y*cp-z*sp, y*sp+z*cp
	// Yaw: rotate around Y.
	cyw, syw := math.Cos(rot.Yaw), math.Sin(rot.Yaw)
	x, z = x*cyw+z*syw, -x*syw+z*cyw

	denom := cameraDepth + z
	if denom <= 0 {
		return Projection{}, false
	}
	s := cameraDepth / denom
	return Projection{X: x*s + cx, Y: y*s + cy, Scale: s}, true
}

// ParticleColor returns the color a particle is drawn with in the given phase.
func ParticleColor(p *Particle, phase Phase) Color {
	switch phase {
	case PhaseScatter:
		return p.Color.Lerp(p.Tint, scatterTintMix)
	case PhaseAssemble:
		return p.Color.Lerp(p.Tint, assembleTintMix)
	default:
		return p.Color
	}
}

// waveOffset is the vertical shimmer applied at screen column x.
func waveOffset(x, seconds float64, t *Tuning) float64 {
	return math.Sin(x*t.WaveFreq+seconds*t.WaveSpeed) * t.WaveAmp
}

// Renderer draws a ParticleField as one filled square per particle, batched
// into as few DrawTriangles32 calls as possible.
type Renderer struct {
	verts []ebiten.Vertex
	inds  []uint32
	pixel *ebiten.Image

	// Drawn is the number of particles submitted by the last Draw.
	Drawn int
}

// NewRenderer creates a Renderer with buffers sized for n particles.
func NewRenderer(n int) *Renderer {
	n = min(n, maxBatchQuads)
	return &Renderer{
		verts: make([]ebiten.Vertex, 0, n*4),
		inds:  make([]uint32, 0, n*6),
	}
}

// whitePixel lazily creates the 1x1 source image every quad samples from.
func (r *Renderer) whitePixel() *ebiten.Image {
	if r.pixel == nil {
		r.pixel = ebiten.NewImage(1, 1)
		r.pixel.Fill(ColorWhite.toRGBA())
	}
	return r.pixel
}

// Draw projects and fills every particle of pf onto dst. seconds drives the
// shimmer wave.
func (r *Renderer) Draw(dst *ebiten.Image, pf *ParticleField, rot Rotation, phase Phase, seconds float64, t *Tuning) {
	r.Drawn = 0
	if pf == nil || len(pf.Particles) == 0 {
		return
	}
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]

	for i := range pf.Particles {
		p := &pf.Particles[i]
		proj, ok := Project(p, rot, pf.Width, pf.Height, t.CameraDepth, waveOffset(p.Pos.X, seconds, t))
		if !ok {
			continue
		}
		r.appendQuad(proj, p.Size*proj.Scale, ParticleColor(p, phase))
		r.Drawn++
		if len(r.verts)/4 >= maxBatchQuads {
			r.flush(dst)
		}
	}
	r.flush(dst)
}

// appendQuad adds one size×size square centered on proj.
func (r *Renderer) appendQuad(proj Projection, size float64, c Color) {
	half := size / 2
	x0 := float32(proj.X - half)
	y0 := float32(proj.Y - half)
	x1 := float32(proj.X + half)
	y1 := float32(proj.Y + half)

	a := float32(clamp01(c.A))
	cr := float32(clamp01(c.R)) * a
	cg := float32(clamp01(c.G)) * a
	cb := float32(clamp01(c.B)) * a

	base := uint32(len(r.verts))
	qx := [4]float32{x0, x1, x0, x1}
	qy := [4]float32{y0, y0, y1, y1}
	sx := [4]float32{0, 1, 0, 1}
	sy := [4]float32{0, 0, 1, 1}
	for j := 0; j < 4; j++ {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   qx[j],
			DstY:   qy[j],
			SrcX:   sx[j],
			SrcY:   sy[j],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: a,
		})
	}
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// flush submits and clears the pending batch.
func (r *Renderer) flush(dst *ebiten.Image) {
	if len(r.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.Blend = ebiten.BlendSourceOver
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(r.verts, r.inds, r.whitePixel(), &op)
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

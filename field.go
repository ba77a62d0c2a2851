package fogwall

import (
	"math"
	"math/rand/v2"
)

// Diffuse fog distribution shape.
const (
	diffuseRadiusPower = 0.75
	diffuseRadiusScale = 0.9
	diffuseSwirlFreq   = 2.4
	diffuseSwirlAmp    = 0.04
	diffuseNoiseFreq   = 3.1
	diffuseNoiseAmp    = 0.03
	diffuseSquash      = 0.82
	diffuseMargin      = 0.12
)

// ParticleField owns every particle for one displayed image: the image
// particles followed by the ambient-only extras.
type ParticleField struct {
	Particles []Particle
	// ImageCount is the number of image particles at the front of Particles.
	ImageCount int
	Width      int
	Height     int

	rng    *rand.Rand
	tuning *Tuning
}

// NewParticleField builds the field for a sampling on a w×h canvas.
// The same sampling, size, seed and tuning always produce the same field.
func NewParticleField(s Sampling, w, h int, seed uint64, t *Tuning) *ParticleField {
	pf := &ParticleField{
		Width:  w,
		Height: h,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		tuning: t,
	}
	n := len(s.Samples)
	extras := int(math.Floor(float64(n) * t.AmbientExtraRatio))
	pf.Particles = make([]Particle, 0, n+extras)
	pf.ImageCount = n

	offX := (float64(w) - float64(s.Width)) / 2
	offY := (float64(h)-float64(s.Height))/2 - t.CaptionReserve

	for i := range s.Samples {
		smp := &s.Samples[i]
		c := sampleColor(*smp)
		p := pf.newParticle(Vec2{X: smp.X + offX, Y: smp.Y + offY}, s.Gap)
		p.Color = c
		p.Tint = fogTint(c, t.FogTint)
		p.Ambient = pf.rng.Float64() < t.AmbientImageRatio
		if p.Ambient {
			p.Scattering = true
			p.Target = pf.DiffusePosition()
		}
		pf.Particles = append(pf.Particles, p)
	}

	for range extras {
		p := pf.newParticle(pf.DiffusePosition(), s.Gap*t.AmbientSizeScale)
		p.Color = t.AmbientTint
		p.Tint = t.AmbientTint
		p.Ambient = true
		p.Scattering = true
		p.Target = pf.DiffusePosition()
		pf.Particles = append(pf.Particles, p)
	}
	return pf
}

// newParticle creates a particle anchored at home, starting in the fog.
func (pf *ParticleField) newParticle(home Vec2, size float64) Particle {
	t := pf.tuning
	start := pf.DiffusePosition()
	return Particle{
		Pos:           Vec3{X: start.X, Y: start.Y},
		Home:          home,
		Target:        home,
		Size:          size,
		HomeSpring:    t.HomeSpring.Random(pf.rng),
		ScatterSpring: t.ScatterSpring.Random(pf.rng),
		DriftPhase:    pf.rng.Float64() * 2 * math.Pi,
		DriftSpeed:    t.DriftSpeed.Random(pf.rng),
		DriftStrength: t.DriftStrength.Random(pf.rng),
		ZPhase:        pf.rng.Float64() * 2 * math.Pi,
		ZSpeed:        t.ZSpeed.Random(pf.rng),
	}
}

// DiffusePosition returns a random center-weighted fog point.
func (pf *ParticleField) DiffusePosition() Vec2 {
	w, h := float64(pf.Width), float64(pf.Height)
	minSide := math.Min(w, h)
	angle := pf.rng.Float64() * 2 * math.Pi
	radius := math.Pow(pf.rng.Float64(), diffuseRadiusPower) * minSide * diffuseRadiusScale

	x := math.Cos(angle)*radius + math.Sin(angle*diffuseSwirlFreq)*minSide*diffuseSwirlAmp
	y := math.Sin(angle)*radius + math.Cos(angle*diffuseNoiseFreq)*minSide*diffuseNoiseAmp
	y *= diffuseSquash

	mx, my := w*diffuseMargin, h*diffuseMargin
	return Vec2{
		X: clamp(w/2+x, -mx, w+mx),
		Y: clamp(h/2+y, -my, h+my),
	}
}

// Scatter sends every image particle into the fog on the weak spring.
func (pf *ParticleField) Scatter() {
	for i := range pf.Particles {
		p := &pf.Particles[i]
		if p.Ambient {
			continue
		}
		p.Target = pf.DiffusePosition()
		p.Scattering = true
	}
}

// Assemble retargets every image particle to its home on the home spring.
func (pf *ParticleField) Assemble() {
	for i := range pf.Particles {
		p := &pf.Particles[i]
		if p.Ambient {
			continue
		}
		p.Target = p.Home
		p.Scattering = false
	}
}

// Update integrates every particle for one frame and gives ambient particles
// that reached their fog target a new one.
func (pf *ParticleField) Update(f *Frame) {
	reach := pf.tuning.AmbientRetargetDistance
	reach *= reach
	for i := range pf.Particles {
		p := &pf.Particles[i]
		UpdateParticle(p, f)
		if !p.Ambient {
			continue
		}
		if p.FocusLocked {
			continue
		}
		dx := p.Target.X - p.Pos.X
		dy := p.Target.Y - p.Pos.Y
		if dx*dx+dy*dy <= reach {
			p.Target = pf.DiffusePosition()
		}
	}
}

// Len returns the total number of particles, ambient extras included.
func (pf *ParticleField) Len() int {
	return len(pf.Particles)
}

// AmbientExtras returns the number of ambient-only particles.
func (pf *ParticleField) AmbientExtras() int {
	return len(pf.Particles) - pf.ImageCount
}

// MeanSpeed returns the average particle speed, 0 for an empty field.
func (pf *ParticleField) MeanSpeed() float64 {
	if len(pf.Particles) == 0 {
		return 0
	}
	var sum float64
	for i := range pf.Particles {
		sum += pf.Particles[i].Speed()
	}
	return sum / float64(len(pf.Particles))
}

// fogTint is the color an image particle fades toward while scattered: its
// luminance pulled toward the fog color.
func fogTint(c, fog Color) Color {
	lum := 0.299*c.R + 0.587*c.G + 0.114*c.B
	gray := Color{R: lum, G: lum, B: lum, A: c.A}
	return gray.Lerp(fog, 0.5)
}

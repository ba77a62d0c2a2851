package fogwall

import "math"

// frameBaseline is the frame time, in milliseconds, that Frame.DT is
// normalized against.
const frameBaseline = 1000.0 / 60.0

const (
	minFrameDT = 0.5
	maxFrameDT = 2.0
)

// Particle holds per-entity simulation state. It is a plain record; all
// behavior lives in UpdateParticle, Project and ParticleColor.
type Particle struct {
	Pos    Vec3
	Vel    Vec3
	Home   Vec2 // anchor from the sampled image; never changes after creation
	Target Vec2 // current spring destination

	Color Color // sampled color
	Tint  Color // color blended toward while the gallery is transitioning
	Size  float64

	HomeSpring    float64
	ScatterSpring float64
	DriftPhase    float64
	DriftSpeed    float64
	DriftStrength float64
	ZPhase        float64
	ZSpeed        float64

	// Ambient particles never assemble into the image.
	Ambient bool
	// Scattering selects ScatterSpring instead of HomeSpring.
	Scattering bool
	// FocusLocked is set while the focus circle contains the particle.
	FocusLocked bool
}

// Frame is the per-frame input to UpdateParticle.
type Frame struct {
	// DT is the frame time normalized to a 60 Hz frame, see FrameDT.
	DT      float64
	Phase   Phase
	Session *Session
	Tuning  *Tuning
}

// FrameDT converts an elapsed frame time in milliseconds into the normalized
// integration step, clamped to [0.5, 2].
func FrameDT(elapsedMS float64) float64 {
	return clamp(elapsedMS/frameBaseline, minFrameDT, maxFrameDT)
}

// spring returns the active spring coefficient.
func (p *Particle) spring() float64 {
	if p.Scattering {
		return p.ScatterSpring
	}
	return p.HomeSpring
}

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 {
	return math.Sqrt(p.Vel.X*p.Vel.X + p.Vel.Y*p.Vel.Y + p.Vel.Z*p.Vel.Z)
}

// UpdateParticle advances one particle by one frame.
func UpdateParticle(p *Particle, f *Frame) {
	t := f.Tuning
	dt := f.DT
	s := f.Session

	// Focus circle: snap home and skip all other forces. Target is left
	// alone so the particle resumes its phase target once released.
	if s != nil && s.focusContains(p.Pos.X, p.Pos.Y, t) {
		p.FocusLocked = true
		p.Vel = Vec3{}
		k := math.Min(1, t.FocusSnapRate*dt)
		p.Pos.X += (p.Home.X - p.Pos.X) * k
		p.Pos.Y += (p.Home.Y - p.Pos.Y) * k
		p.Pos.Z += (0 - p.Pos.Z) * k
		return
	}
	p.FocusLocked = false

	// Drift.
	p.Vel.X += math.Cos(p.DriftPhase) * p.DriftStrength * dt
	p.Vel.Y += math.Sin(p.DriftPhase) * p.DriftStrength * dt
	p.DriftPhase += p.DriftSpeed

	// Pointer repulsion.
	if s != nil && s.Cursor != nil {
		r := t.RepulsionRadius
		dx := p.Pos.X - s.Cursor.X
		dy := p.Pos.Y - s.Cursor.Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d < r && d > 0 {
			push := (r - d) / r * t.PushStrength * dt
			p.Vel.X += dx / d * push
			p.Vel.Y += dy / d * push
		}
	}

	// Spring toward target.
	k := p.spring() * dt
	tx := p.Target.X - p.Pos.X
	ty := p.Target.Y - p.Pos.Y
	p.Vel.X += tx * k
	p.Vel.Y += ty * k

	// Swirl-assist curves assembling particles into place.
	if f.Phase == PhaseAssemble && !p.Ambient {
		d := math.Sqrt(tx*tx + ty*ty)
		if d > 1 {
			mag := math.Min(t.SwirlAssistMax, t.SwirlAssist/d) * dt
			p.Vel.X += -ty / d * mag
			p.Vel.Y += tx / d * mag
		}
	}

	// Depth breathing.
	p.ZPhase += p.ZSpeed * dt
	zTarget := math.Sin(p.ZPhase) * t.DepthAmplitude
	p.Vel.Z += (zTarget - p.Pos.Z) * t.DepthRate * dt

	// Frame-rate independent friction.
	fr := math.Pow(t.Friction, dt)
	p.Vel.X *= fr
	p.Vel.Y *= fr
	p.Vel.Z *= fr

	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt
	p.Pos.Z += p.Vel.Z * dt
}

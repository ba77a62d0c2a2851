package fogwall

import "time"

// Tuning holds the simulation and interaction constants. The zero value is not
// useful; start from DefaultTuning and override individual fields.
type Tuning struct {
	// --- Sampling ---

	// MaxSamples caps the number of image particles per field.
	MaxSamples int
	// AlphaCutoff skips source pixels with alpha (0-255) at or below it.
	AlphaCutoff uint8
	// AlphaBoost is added to each sample's normalized alpha before clamping.
	AlphaBoost float64
	// CaptionReserve shifts the image up to leave room for the caption.
	CaptionReserve float64

	// --- Field ---

	// AmbientExtraRatio is the number of ambient-only particles spawned per
	// image particle.
	AmbientExtraRatio float64
	// AmbientImageRatio is the probability that an image particle is
	// permanently ambient.
	AmbientImageRatio float64
	// AmbientSizeScale scales the sampling gap to get the size of ambient-only particles.
	AmbientSizeScale float64
	// AmbientTint is the fixed dim color of ambient-only particles.
	AmbientTint Color
	// FogTint is the color image particles fade toward while scattered.
	FogTint Color
	// AmbientRetargetDistance is how close an ambient particle gets to its
	// diffuse target before a new one is generated.
	AmbientRetargetDistance float64

	HomeSpring    Range
	ScatterSpring Range
	DriftSpeed    Range
	DriftStrength Range
	ZSpeed        Range

	// --- Integrator ---

	Friction float64
	// RepulsionRadius is the pointer's push radius in pixels.
	RepulsionRadius float64
	PushStrength    float64
	// SwirlAssist scales the tangential force applied while assembling.
	SwirlAssist    float64
	SwirlAssistMax float64
	// DepthAmplitude is the z range of the breathing oscillation.
	DepthAmplitude float64
	DepthRate      float64
	FocusSnapRate  float64

	// --- Focus circle ---

	FocusExpandSpeed float64 // px/s
	FocusShrinkSpeed float64 // px/s
	FocusMaxRadius   float64
	FocusSwirlFreq   float64
	FocusSwirlAmp    float64
	FocusSwirlSpeed  float64 // rad/s

	// --- Rendering ---

	// RotateSpeed converts drag pixels to radians.
	RotateSpeed float64
	CameraDepth float64
	WaveAmp     float64
	WaveFreq    float64
	WaveSpeed   float64 // rad/s

	// --- Transitions ---

	ScatterDuration  time.Duration
	AssembleDuration time.Duration
}

// DefaultTuning returns the tuning used by the gallery unless overridden.
func DefaultTuning() Tuning {
	return Tuning{
		MaxSamples:     42000,
		AlphaCutoff:    40,
		AlphaBoost:     0.1,
		CaptionReserve: 50,

		AmbientExtraRatio:       0.22,
		AmbientImageRatio:       0.28,
		AmbientSizeScale:        0.7,
		AmbientTint:             Color{R: 0.55, G: 0.62, B: 0.78, A: 0.35},
		FogTint:                 Color{R: 0.42, G: 0.55, B: 0.72, A: 0.55},
		AmbientRetargetDistance: 6,

		HomeSpring:    Range{Min: 0.08, Max: 0.12},
		ScatterSpring: Range{Min: 0.006, Max: 0.014},
		DriftSpeed:    Range{Min: 0.02, Max: 0.05},
		DriftStrength: Range{Min: 0.04, Max: 0.12},
		ZSpeed:        Range{Min: 0.01, Max: 0.03},

		Friction:        0.92,
		RepulsionRadius: 60,
		PushStrength:    6,
		SwirlAssist:     2.5,
		SwirlAssistMax:  0.6,
		DepthAmplitude:  24,
		DepthRate:       0.02,
		FocusSnapRate:   0.6,

		FocusExpandSpeed: 280,
		FocusShrinkSpeed: 660,
		FocusMaxRadius:   1000,
		FocusSwirlFreq:   6,
		FocusSwirlAmp:    8,
		FocusSwirlSpeed:  3,

		RotateSpeed: 0.005,
		CameraDepth: 800,
		WaveAmp:     1.2,
		WaveFreq:    0.012,
		WaveSpeed:   1.6,

		ScatterDuration:  3000 * time.Millisecond,
		AssembleDuration: 100 * time.Millisecond,
	}
}

package scene

import (
	"math"
	"math/rand"
)

// Starfield layout constants
const (
	starRadiusExponent = 1.7   // biases orbits toward the centre
	starRadiusSpread   = 0.9   // fraction of max(w,h) used by the power-law term
	starRadiusMin      = 40.0  // pixels, keeps every orbit clear of the centre
	starSpeedMin       = 0.001 // radians per frame
	starSpeedRange     = 0.0018
	starSizeMin        = 0.6 // pixels
	starSizeRange      = 1.8
	starBrightnessMin  = 0.75
	starAlphaFloor     = 0.15
	starAlphaGain      = 0.7
)

// Particle is a single orbiting star
type Particle struct {
	OrbitRadius float64 // Distance from the orbit centre
	Angle       float64 // Current angular position in [0, 2π)
	Speed       float64 // Radians per frame; the sign sets the direction
	Size        float64 // Dot radius in logical pixels
	Brightness  float64 // Alpha multiplier in [0.75, 1)
	CenterX     float64
	CenterY     float64

	// Derived each tick
	X, Y  float64
	Alpha float64
}

// StarfieldOptions configures the starfield
type StarfieldOptions struct {
	Count        int     // Requested particle count on desktop
	CenterRatioX float64 // Orbit centre as a fraction of viewport width
	CenterRatioY float64 // Orbit centre as a fraction of viewport height
	MobileFactor float64 // Count multiplier below MobileWidth
}

// DefaultStarfieldOptions returns the stock layout: 160 stars orbiting a point
// just off the right edge
func DefaultStarfieldOptions() StarfieldOptions {
	return StarfieldOptions{
		Count:        160,
		CenterRatioX: 1.05,
		CenterRatioY: 0.25,
		MobileFactor: 0.6,
	}
}

// Starfield owns a set of particles orbiting a focal point
type Starfield struct {
	opts      StarfieldOptions
	rng       *rand.Rand
	particles []Particle
	width     float64
	height    float64
}

// NewStarfield creates an empty starfield; call Regenerate to populate it
func NewStarfield(opts StarfieldOptions, rng *rand.Rand) *Starfield {
	return &Starfield{opts: opts, rng: rng}
}

// EffectiveCount returns the number of particles generated for a width
func (s *Starfield) EffectiveCount(width float64, count int) int {
	if count <= 0 {
		return 0
	}
	if width < MobileWidth {
		return int(math.Round(float64(count) * s.opts.MobileFactor))
	}
	return count
}

// Regenerate replaces the particle set for the given viewport and count
func (s *Starfield) Regenerate(width, height float64, count int) {
	n := s.EffectiveCount(width, count)
	cx := width * s.opts.CenterRatioX
	cy := height * s.opts.CenterRatioY
	span := math.Max(width, height) * starRadiusSpread

	next := make([]Particle, n)
	for i := range next {
		speed := starSpeedMin + s.rng.Float64()*starSpeedRange
		if s.rng.Float64() < 0.5 {
			speed = -speed
		}
		p := Particle{
			OrbitRadius: math.Pow(s.rng.Float64(), starRadiusExponent)*span + starRadiusMin,
			Angle:       s.rng.Float64() * 2 * math.Pi,
			Speed:       speed,
			Size:        s.rng.Float64()*starSizeRange + starSizeMin,
			Brightness:  starBrightnessMin + s.rng.Float64()*(1-starBrightnessMin),
			CenterX:     cx,
			CenterY:     cy,
		}
		p.place()
		next[i] = p
	}

	// Swap in one assignment; the renderer never sees a half-built set
	s.particles = next
	s.width = width
	s.height = height
}

// Tick advances every particle by one frame
func (s *Starfield) Tick(Frame) error {
	for i := range s.particles {
		p := &s.particles[i]
		p.Angle = wrapAngle(p.Angle + p.Speed)
		p.place()
	}
	return nil
}

// place derives screen position and twinkle alpha from the angle
func (p *Particle) place() {
	p.X = p.CenterX + math.Cos(p.Angle)*p.OrbitRadius
	p.Y = p.CenterY + math.Sin(p.Angle)*p.OrbitRadius
	p.Alpha = math.Max(starAlphaFloor, math.Abs(math.Cos(p.Angle*3))*starAlphaGain) * p.Brightness
}

// Particles returns the current set. Callers must treat it as read-only.
func (s *Starfield) Particles() []Particle {
	return s.particles
}

// Len returns the particle count
func (s *Starfield) Len() int {
	return len(s.particles)
}

// Center returns the orbit focal point for the current layout
func (s *Starfield) Center() (float64, float64) {
	return s.width * s.opts.CenterRatioX, s.height * s.opts.CenterRatioY
}

// Surface returns the backing canvas size and the scale applied to draw in
// logical pixels. A zero size means there is nothing to draw on.
func (s *Starfield) Surface(vp Viewport) (w, h int, scale float64) {
	w, h = vp.DevicePixels()
	return w, h, vp.Scale()
}

// wrapAngle maps a into [0, 2π)
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

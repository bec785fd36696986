package scene

import (
	"math"
	"math/rand"
)

// Torus depth and motion constants
const (
	torusZFront        = -50.0  // depth mapped to depth01 = 1
	torusZBack         = -600.0 // depth mapped to depth01 = 0
	torusOffsetWrap    = 4 * math.Pi
	torusOpacityBase   = 0.15
	torusOpacityGain   = 0.85
	torusScaleBase     = 0.6
	torusScaleGain     = 0.9
	torusPerspectiveLo = 700.0
	torusPerspectiveHi = 1200.0
	torusDotRadius     = 0.75 // logical pixels at scale 1
	torusHitSlop       = 3.0
)

// TorusOptions configures the belt
type TorusOptions struct {
	MajorRadius      float64 // R, centre of tube to centre of torus
	MinorRadius      float64 // r, static tube radius used until a sun radius arrives
	MinorRadiusRatio float64 // r as a fraction of the broadcast sun radius
	Rings            int     // samples around the major ring
	Slices           int     // samples around the tube
	RotationStep     float64 // global offset increment per frame
	JitterTheta      float64 // half-width of the theta jitter
	JitterPhi        float64 // half-width of the phi jitter
}

// DefaultTorusOptions returns a 32x12 belt
func DefaultTorusOptions() TorusOptions {
	return TorusOptions{
		MajorRadius:      320,
		MinorRadius:      80,
		MinorRadiusRatio: 0.25,
		Rings:            32,
		Slices:           12,
		RotationStep:     0.01,
		JitterTheta:      0.2,
		JitterPhi:        0.15,
	}
}

// TorusSample is one point of the belt. Its fields are fixed at construction.
type TorusSample struct {
	Ring, Slice   int
	Theta, Phi    float64 // base angles including jitter
	JitterTheta   float64
	JitterPhi     float64
	SizeMul       float64 // in [0.7, 1.3)
	BrightnessMul float64 // in [0.6, 1.0)
	SpeedMul      float64 // in [0.6, 1.4)
}

// Projection is the per-frame visual state of a sample
type Projection struct {
	X, Y, Z     float64 // torus-local coordinates
	ScreenX     float64
	ScreenY     float64
	Depth       float64 // depth01
	Opacity     float64
	Scale       float64
	Visible     bool
	Interactive bool
}

// TorusBelt projects a parametric torus of samples to the screen, culls the
// far hemisphere and rotates continuously
type TorusBelt struct {
	opts    TorusOptions
	rng     *rand.Rand
	samples []TorusSample
	proj    []Projection
	offset  float64
	minor   float64
	originX float64
	originY float64
	persp   float64
}

// NewTorusBelt creates a belt with no samples
func NewTorusBelt(opts TorusOptions, rng *rand.Rand) *TorusBelt {
	return &TorusBelt{
		opts:  opts,
		rng:   rng,
		minor: opts.MinorRadius,
		persp: torusPerspectiveLo,
	}
}

// Regenerate rebuilds rings*slices samples. Jitter and multipliers are rolled
// once here and never again.
func (b *TorusBelt) Regenerate(rings, slices int) {
	if rings < 0 {
		rings = 0
	}
	if slices < 0 {
		slices = 0
	}
	samples := make([]TorusSample, 0, rings*slices)
	for i := 0; i < rings; i++ {
		for j := 0; j < slices; j++ {
			jt := (b.rng.Float64() - 0.5) * 2 * b.opts.JitterTheta
			jp := (b.rng.Float64() - 0.5) * 2 * b.opts.JitterPhi
			samples = append(samples, TorusSample{
				Ring:          i,
				Slice:         j,
				Theta:         RingAngle(i, rings) + jt,
				Phi:           RingAngle(j, slices) + jp,
				JitterTheta:   jt,
				JitterPhi:     jp,
				SizeMul:       0.7 + b.rng.Float64()*0.6,
				BrightnessMul: 0.6 + b.rng.Float64()*0.4,
				SpeedMul:      0.6 + b.rng.Float64()*0.8,
			})
		}
	}
	b.samples = samples
	b.proj = make([]Projection, len(samples))
	b.project()
}

// RingAngle returns the evenly spaced base angle of index i out of n
func RingAngle(i, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(i) / float64(n) * 2 * math.Pi
}

// Resize updates the perspective distance for the viewport width
func (b *TorusBelt) Resize(vp Viewport) {
	b.persp = math.Min(torusPerspectiveHi, math.Max(torusPerspectiveLo, vp.Width))
	b.project()
}

// OnSun re-anchors the belt on the sun without regenerating it
func (b *TorusBelt) OnSun(p SunPosition) {
	b.originX = p.X
	b.originY = p.Y
	if p.HasRadius() && b.opts.MinorRadiusRatio > 0 {
		b.minor = p.Radius * b.opts.MinorRadiusRatio
	} else {
		b.minor = b.opts.MinorRadius
	}
	b.project()
}

// Tick advances the global rotation and reprojects every sample
func (b *TorusBelt) Tick(Frame) error {
	b.offset = math.Mod(b.offset+b.opts.RotationStep, torusOffsetWrap)
	b.project()
	return nil
}

func (b *TorusBelt) project() {
	R := b.opts.MajorRadius
	r := b.minor
	for i, s := range b.samples {
		th := s.Theta + b.offset*s.SpeedMul
		cosPhi, sinPhi := math.Cos(s.Phi), math.Sin(s.Phi)
		ring := R + r*cosPhi
		x := ring * math.Cos(th)
		y := r * sinPhi
		z := ring * math.Sin(th)

		p := Projection{X: x, Y: y, Z: z}
		if z <= 0 {
			p.Depth = Depth01(z)
			p.Opacity = (torusOpacityBase + p.Depth*torusOpacityGain) * s.BrightnessMul
			p.Scale = (torusScaleBase + p.Depth*torusScaleGain) * s.SizeMul
			p.Visible = true
			p.Interactive = true

			// z is negative toward the viewer, so the point is magnified
			k := b.persp / (b.persp + z)
			if b.persp+z <= 0 {
				k = 1
			}
			p.ScreenX = b.originX + x*k
			p.ScreenY = b.originY + y*k
			p.Scale *= k
		}
		// Far hemisphere stays zeroed: opacity 0, not interactive
		b.proj[i] = p
	}
}

// Depth01 normalises z between the back and front bounds
func Depth01(z float64) float64 {
	d := (z - torusZBack) / (torusZFront - torusZBack)
	return math.Max(0, math.Min(1, d))
}

// Samples returns the sample set. Callers must treat it as read-only.
func (b *TorusBelt) Samples() []TorusSample {
	return b.samples
}

// Projections returns this frame's visual state, index-aligned with Samples
func (b *TorusBelt) Projections() []Projection {
	return b.proj
}

// Offset returns the global rotation offset
func (b *TorusBelt) Offset() float64 {
	return b.offset
}

// MinorRadius returns the tube radius in use
func (b *TorusBelt) MinorRadius() float64 {
	return b.minor
}

// Origin returns the current anchor point
func (b *TorusBelt) Origin() (float64, float64) {
	return b.originX, b.originY
}

// DotRadius returns the drawn radius of a projected sample
func DotRadius(p Projection) float64 {
	return torusDotRadius * p.Scale
}

// HitTest returns the interactive sample nearest to (x, y) within its dot
// radius plus a small slop. Culled samples never match.
func (b *TorusBelt) HitTest(x, y float64) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, p := range b.proj {
		if !p.Interactive {
			continue
		}
		d := math.Hypot(p.ScreenX-x, p.ScreenY-y)
		if d <= DotRadius(p)+torusHitSlop && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

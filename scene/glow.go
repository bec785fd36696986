package scene

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	glowBase     = 0.85
	glowGain     = 0.3
	glowMin      = 0.7
	glowMax      = 1.0
	glowFreq     = 0.015 // noise units per frame
	glowAlpha    = 2.0
	glowBeta     = 2.0
	glowOctaves  = 3
	glowSeedSalt = 0x5eed
)

// SunGlow drives the flicker of the sun's corona from 1D Perlin noise
type SunGlow struct {
	noise     *perlin.Perlin
	phase     float64
	intensity float64
}

// NewSunGlow creates a glow at its resting intensity
func NewSunGlow(seed int64) *SunGlow {
	return &SunGlow{
		noise:     perlin.NewPerlin(glowAlpha, glowBeta, glowOctaves, seed^glowSeedSalt),
		intensity: glowBase,
	}
}

// Tick samples the next noise value
func (g *SunGlow) Tick(Frame) error {
	g.phase += glowFreq
	v := glowBase + g.noise.Noise1D(g.phase)*glowGain
	g.intensity = math.Max(glowMin, math.Min(glowMax, v))
	return nil
}

// Intensity returns the corona brightness in [0.7, 1]
func (g *SunGlow) Intensity() float64 {
	return g.intensity
}

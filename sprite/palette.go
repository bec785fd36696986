// Package sprite builds the CPU-side images shared by the windowed renderer
// and the poster exporter: radial gradients for the sun, its halo and the
// sunlight tint, and antialiased circle paths for stars and belt dots.
package sprite

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"
)

// Palette
var (
	ColorBackground = color.NRGBA{R: 10, G: 10, B: 10, A: 255} // neutral-950
	ColorStar       = colornames.White
	ColorBeltDot    = colornames.White
	ColorBeltHover  = colornames.Gold
	ColorSunCore    = color.NRGBA{R: 255, G: 200, B: 120, A: 255}
	ColorSunMid     = color.NRGBA{R: 255, G: 160, B: 80, A: 255}
	ColorSunRim     = color.NRGBA{R: 255, G: 120, B: 40, A: 255}
	ColorSunEdge    = color.NRGBA{R: 255, G: 100, B: 20, A: 255}
	ColorStarGlow   = color.NRGBA{R: 255, G: 190, B: 120, A: 255}
	ColorTintWarm   = color.NRGBA{R: 255, G: 150, B: 60, A: 255}
	ColorTintDeep   = color.NRGBA{R: 255, G: 120, B: 30, A: 255}
)

// WithAlpha returns c with its alpha multiplied by a in [0,1]
func WithAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a = math.Max(0, math.Min(1, a))
	n.A = uint8(math.Round(float64(n.A) * a))
	return n
}

// Stop is a gradient colour stop; Offset is in [0,1]
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// S is shorthand for a stop with an alpha applied to a palette colour
func S(offset float64, c color.Color, alpha float64) Stop {
	return Stop{Offset: offset, Color: WithAlpha(c, alpha)}
}

// Transparent is the fully clear end stop
func Transparent(offset float64) Stop {
	return Stop{Offset: offset}
}

// Stock gradients
var (
	// SunCore is the solid body of the sun
	SunCore = []Stop{
		S(0, ColorSunCore, 1),
		S(0.25, ColorSunMid, 0.85),
		S(0.5, ColorSunRim, 0.5),
		S(0.75, ColorSunEdge, 0.25),
		Transparent(1),
	}
	// SunHaloInner is the tight blur layer
	SunHaloInner = []Stop{
		S(0, ColorSunCore, 0.8),
		S(0.5, ColorSunMid, 0.35),
		Transparent(1),
	}
	// SunHaloOuter is the wide blur layer
	SunHaloOuter = []Stop{
		S(0, ColorSunCore, 0.4),
		Transparent(1),
	}
	// SunlightTint is the scroll-driven overlay
	SunlightTint = []Stop{
		S(0, ColorSunCore, 0.45),
		S(0.4, ColorTintWarm, 0.25),
		S(0.65, ColorTintDeep, 0.15),
		Transparent(1),
	}
	// StarGlow is the faint glow behind the starfield centre
	StarGlow = []Stop{
		S(0, ColorStarGlow, 0.08),
		Transparent(1),
	}
)

// At samples the gradient at offset t
func At(stops []Stop, t float64) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return lerp(a.Color, b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

func lerp(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	// Fading into transparent keeps the hue of the opaque side
	if b.A == 0 {
		b.R, b.G, b.B = a.R, a.G, a.B
	}
	if a.A == 0 {
		a.R, a.G, a.B = b.R, b.G, b.B
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

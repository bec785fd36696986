package sprite

import (
	"orbitfolio/scene"
)

// Halo blur spread in CSS pixels
const (
	haloInnerSpread = 40.0
	haloOuterSpread = scene.SunHaloSpread
)

// Overlay box geometry relative to the viewport
const (
	overlayBoxHeight = 1.2 // box height in viewport heights before scaling
	overlayRadiusX   = 1.2 // ellipse radii relative to the box
	overlayRadiusY   = 0.8
)

// Rect is a floating point rectangle in CSS pixels
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Dx returns the width
func (r Rect) Dx() float64 { return r.X1 - r.X0 }

// Dy returns the height
func (r Rect) Dy() float64 { return r.Y1 - r.Y0 }

// Scale multiplies every coordinate by s
func (r Rect) Scale(s float64) Rect {
	return Rect{r.X0 * s, r.Y0 * s, r.X1 * s, r.Y1 * s}
}

// CenteredRect returns the square of side d centred on (cx, cy)
func CenteredRect(cx, cy, d float64) Rect {
	return Rect{cx - d/2, cy - d/2, cx + d/2, cy + d/2}
}

// Layer names, stable across frames so renderers can cache textures
const (
	LayerHaloOuter = "halo-outer"
	LayerHaloInner = "halo-inner"
	LayerSunCore   = "sun-core"
	LayerStarGlow  = "star-glow"
	LayerSunlight  = "sunlight"
)

// Layer is one gradient blit: a gradient, where it lands, and its opacity
type Layer struct {
	Name  string
	Stops []Stop
	Rect  Rect
	Alpha float64
}

// SunLayers returns the sun's gradient stack, back to front, for a sun of the
// given radius centred at (x, y). Halo opacity follows the glow intensity.
func SunLayers(x, y, radius, intensity float64) []Layer {
	if radius <= 0 {
		return nil
	}
	d := radius * 2
	return []Layer{
		{Name: LayerHaloOuter, Stops: SunHaloOuter, Rect: CenteredRect(x, y, d+2*haloOuterSpread), Alpha: intensity},
		{Name: LayerHaloInner, Stops: SunHaloInner, Rect: CenteredRect(x, y, d+2*haloInnerSpread), Alpha: intensity},
		{Name: LayerSunCore, Stops: SunCore, Rect: CenteredRect(x, y, d), Alpha: 1},
	}
}

// StarGlowLayer is the faint glow around the starfield centre
func StarGlowLayer(vp scene.Viewport, cx, cy float64) Layer {
	d := max(vp.Width, vp.Height) * 1.2
	return Layer{Name: LayerStarGlow, Stops: StarGlow, Rect: CenteredRect(cx, cy, d), Alpha: 1}
}

// OverlayLayer places the sunlight tint. The tint lives in a box anchored to
// the top of the viewport that stretches downward by ScaleY; clip is that box.
func OverlayLayer(vp scene.Viewport, st scene.OverlayState) (layer Layer, clip Rect) {
	boxH := vp.Height * overlayBoxHeight * st.ScaleY
	cx := vp.Width * st.FocusX / 100
	cy := vp.Height * st.FocusY / 100
	rx := vp.Width * overlayRadiusX
	ry := boxH * overlayRadiusY

	layer = Layer{
		Name:  LayerSunlight,
		Stops: SunlightTint,
		Rect:  Rect{cx - rx, cy - ry, cx + rx, cy + ry},
		Alpha: st.Opacity,
	}
	clip = Rect{0, 0, vp.Width, boxH}
	return layer, clip
}

// Faded returns stops with every alpha multiplied by a
func Faded(stops []Stop, a float64) []Stop {
	if a >= 1 {
		return stops
	}
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = Stop{Offset: s.Offset, Color: WithAlpha(s.Color, a)}
	}
	return out
}

package scene

import "math"

const (
	overlaySpan        = 1.25 // viewport heights to full expansion
	overlayMaxScale    = 6.0
	overlayOpacityBase = 0.35
	overlayOpacityGain = 0.25
)

// OverlayState is the visual state of the sunlight tint
type OverlayState struct {
	ScaleY  float64 // vertical stretch, 1 to 6
	Opacity float64
	FocusX  float64 // gradient focal point, percent of viewport width
	FocusY  float64 // gradient focal point, percent of viewport height
}

// SunlightOverlay is a scroll-driven warm tint whose gradient follows the sun
type SunlightOverlay struct {
	vp      Viewport
	scrollY float64
	reduced bool
	state   OverlayState
}

// NewSunlightOverlay creates an overlay at rest with its focus on the top
// right, where the gradient sits before the first sun broadcast
func NewSunlightOverlay() *SunlightOverlay {
	return &SunlightOverlay{
		state: OverlayState{ScaleY: 1, Opacity: overlayOpacityBase, FocusX: 80, FocusY: 0},
	}
}

// Ease is the quadratic ease-out t(2-t)
func Ease(t float64) float64 {
	return t * (2 - t)
}

// Mount applies the initial scroll offset
func (o *SunlightOverlay) Mount(vp Viewport, scrollY float64, reduced bool) {
	o.vp = vp
	o.reduced = reduced
	o.scrollY = scrollY
	o.update()
}

// SetScroll records the offset without recomputing
func (o *SunlightOverlay) SetScroll(scrollY float64) {
	o.scrollY = scrollY
}

// Scroll recomputes the tint. Under reduced motion the offset is remembered
// and applied on the next resize.
func (o *SunlightOverlay) Scroll(scrollY float64) {
	o.SetScroll(scrollY)
	if o.reduced {
		return
	}
	o.update()
}

// Resize recomputes against the new viewport height and the latest offset
func (o *SunlightOverlay) Resize(vp Viewport) {
	o.vp = vp
	o.update()
}

// SetReducedMotion toggles scroll tracking
func (o *SunlightOverlay) SetReducedMotion(reduced bool) {
	o.reduced = reduced
}

// OnSun re-centres the gradient on the sun
func (o *SunlightOverlay) OnSun(p SunPosition) {
	if o.vp.Empty() {
		return
	}
	o.state.FocusX = p.X / o.vp.Width * 100
	o.state.FocusY = p.Y / o.vp.Height * 100
}

// State returns the current visual state
func (o *SunlightOverlay) State() OverlayState {
	return o.state
}

func (o *SunlightOverlay) update() {
	if o.vp.Height <= 0 {
		return
	}
	t := math.Min(1, math.Max(0, o.scrollY)/(o.vp.Height*overlaySpan))
	e := Ease(t)
	o.state.ScaleY = 1 + e*(overlayMaxScale-1)
	o.state.Opacity = overlayOpacityBase + e*overlayOpacityGain
}

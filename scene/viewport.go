package scene

import "math"

// MobileWidth is the viewport width below which layouts switch to their
// reduced, mobile variant
const MobileWidth = 640.0

// Viewport is a read-only snapshot of the host window taken on resize
type Viewport struct {
	Width  float64 // Logical width in pixels
	Height float64 // Logical height in pixels
	DPR    float64 // Device pixel ratio
}

// Scale returns the device pixel ratio, never less than 1
func (v Viewport) Scale() float64 {
	if v.DPR < 1 || math.IsNaN(v.DPR) {
		return 1
	}
	return v.DPR
}

// Empty reports whether the viewport has no drawable area
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// IsMobile reports whether the viewport is narrower than MobileWidth
func (v Viewport) IsMobile() bool {
	return v.Width < MobileWidth
}

// DevicePixels returns the backing surface size for the viewport
func (v Viewport) DevicePixels() (int, int) {
	s := v.Scale()
	return int(math.Floor(v.Width * s)), int(math.Floor(v.Height * s))
}

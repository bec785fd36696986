package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEase(t *testing.T) {
	assert.Equal(t, 0.0, Ease(0))
	assert.Equal(t, 0.75, Ease(0.5))
	assert.Equal(t, 1.0, Ease(1))
}

func TestSunlightOverlay_Scroll(t *testing.T) {
	o := NewSunlightOverlay()
	o.Mount(Viewport{Width: 1280, Height: 800}, 0, false)
	assert.Equal(t, 1.0, o.State().ScaleY)
	assert.InDelta(t, 0.35, o.State().Opacity, 1e-12)

	o.Scroll(500) // t = 0.5
	assert.InDelta(t, 1+0.75*5, o.State().ScaleY, 1e-12)
	assert.InDelta(t, 0.35+0.75*0.25, o.State().Opacity, 1e-12)

	o.Scroll(10000)
	assert.InDelta(t, 6.0, o.State().ScaleY, 1e-12)
	assert.InDelta(t, 0.6, o.State().Opacity, 1e-12)

	o.Scroll(-300)
	assert.Equal(t, 1.0, o.State().ScaleY, "negative offsets clamp to rest")
}

func TestSunlightOverlay_ReducedMotion(t *testing.T) {
	o := NewSunlightOverlay()
	o.Mount(Viewport{Width: 1280, Height: 800}, 400, true)
	mounted := o.State()
	assert.Greater(t, mounted.ScaleY, 1.0, "mount applies the current offset")

	o.Scroll(1000)
	assert.Equal(t, mounted, o.State())

	o.SetReducedMotion(false)
	o.Scroll(1000)
	assert.InDelta(t, 6.0, o.State().ScaleY, 1e-12)
}

func TestSunlightOverlay_ResizeRecomputes(t *testing.T) {
	o := NewSunlightOverlay()
	o.Mount(Viewport{Width: 1280, Height: 800}, 500, false)
	before := o.State().ScaleY

	o.Resize(Viewport{Width: 1280, Height: 400})
	assert.Greater(t, o.State().ScaleY, before)
}

func TestSunlightOverlay_ResizeUsesOffsetRememberedUnderReducedMotion(t *testing.T) {
	o := NewSunlightOverlay()
	o.Mount(Viewport{Width: 1280, Height: 800}, 0, true)

	o.Scroll(500)
	assert.Equal(t, 1.0, o.State().ScaleY, "scroll is suppressed")

	o.Resize(Viewport{Width: 1280, Height: 400})
	assert.InDelta(t, 6.0, o.State().ScaleY, 1e-12, "500px is past full expansion at 400px tall")
}

func TestSunlightOverlay_FocusFollowsSun(t *testing.T) {
	o := NewSunlightOverlay()
	assert.Equal(t, 80.0, o.State().FocusX)

	o.OnSun(SunPosition{X: 640, Y: 400})
	assert.Equal(t, 80.0, o.State().FocusX, "ignored before a viewport is known")

	o.Mount(Viewport{Width: 1280, Height: 800}, 0, false)
	o.OnSun(SunPosition{X: 1280, Y: -200})
	assert.Equal(t, 100.0, o.State().FocusX)
	assert.Equal(t, -25.0, o.State().FocusY)
}

// Package poster rasterises a still frame of a scene without a GPU or window.
// The result is the static fallback shown to visitors who prefer reduced
// motion.
package poster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"orbitfolio/scene"
	"orbitfolio/sprite"
)

// gradientRes is the side of the gradient texture scaled into each layer
const gradientRes = 256

// Options tweaks what the poster includes
type Options struct {
	HideStars   bool
	HideBelt    bool
	HideSun     bool
	HideOverlay bool
	Background  color.Color
}

// Render draws the scene's current state at device resolution. An unmounted
// or empty scene yields an empty image.
func Render(sc *scene.Scene, opts Options) *image.RGBA {
	vp := sc.Viewport()
	w, h := vp.DevicePixels()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	r := &renderer{dst: dst, scale: vp.Scale()}

	bg := opts.Background
	if bg == nil {
		bg = sprite.ColorBackground
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if !opts.HideStars {
		cx, cy := sc.Stars.Center()
		r.layer(sprite.StarGlowLayer(vp, cx, cy), dst)
		r.stars(sc.Stars.Particles())
	}
	if !opts.HideSun {
		sun := sc.Sun.Last()
		for _, l := range sprite.SunLayers(sun.X, sun.Y, sun.Radius, sc.Glow.Intensity()) {
			r.layer(l, dst)
		}
	}
	if !opts.HideOverlay {
		l, clip := sprite.OverlayLayer(vp, sc.Overlay.State())
		box := r.pixels(clip).Intersect(dst.Bounds())
		if !box.Empty() {
			r.layer(l, dst.SubImage(box).(*image.RGBA))
		}
	}
	if !opts.HideBelt {
		r.belt(sc.Belt.Projections())
	}
	return dst
}

type renderer struct {
	dst   *image.RGBA
	scale float64
	z     vector.Rasterizer
}

// pixels converts a CSS-pixel rect to device pixels
func (r *renderer) pixels(rc sprite.Rect) image.Rectangle {
	d := rc.Scale(r.scale)
	return image.Rect(
		int(math.Floor(d.X0)), int(math.Floor(d.Y0)),
		int(math.Ceil(d.X1)), int(math.Ceil(d.Y1)))
}

// layer scales a gradient into place, blending over dst
func (r *renderer) layer(l sprite.Layer, dst draw.Image) {
	if l.Alpha <= 0 {
		return
	}
	dr := r.pixels(l.Rect)
	if len(l.Stops) == 0 || dr.Empty() {
		return
	}
	tex := sprite.RadialGradient(gradientRes, gradientRes, sprite.Faded(l.Stops, l.Alpha))
	xdraw.BiLinear.Scale(dst, dr, tex, tex.Bounds(), xdraw.Over, nil)
}

func (r *renderer) stars(particles []scene.Particle) {
	for _, p := range particles {
		r.dot(p.X, p.Y, p.Size, sprite.WithAlpha(sprite.ColorStar, p.Alpha))
	}
}

func (r *renderer) belt(proj []scene.Projection) {
	for _, p := range proj {
		if !p.Visible || p.Opacity <= 0 {
			continue
		}
		r.dot(p.ScreenX, p.ScreenY, scene.DotRadius(p), sprite.WithAlpha(sprite.ColorBeltDot, p.Opacity))
	}
}

// dot rasterises one antialiased circle into a mask sized to its bounds and
// composites it; DrawMask clips dots straddling the edge
func (r *renderer) dot(x, y, radius float64, c color.NRGBA) {
	if c.A == 0 || radius <= 0 {
		return
	}
	x, y, radius = x*r.scale, y*r.scale, radius*r.scale
	x0 := int(math.Floor(x - radius - 1))
	y0 := int(math.Floor(y - radius - 1))
	size := int(math.Ceil(radius*2)) + 3
	bounds := image.Rect(x0, y0, x0+size, y0+size)
	if !bounds.Overlaps(r.dst.Bounds()) {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	r.z.Reset(size, size)
	sprite.AddCircle(&r.z, float32(x-float64(x0)), float32(y-float64(y0)), float32(radius))
	r.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(r.dst, bounds, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

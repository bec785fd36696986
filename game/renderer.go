package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"orbitfolio/config"
	"orbitfolio/scene"
	"orbitfolio/sprite"
)

// textureRes is the side of each gradient texture
const textureRes = 256

// hoverScale enlarges the dot under the pointer
const hoverScale = 1.8

// Renderer draws a scene onto the device-pixel screen. It also measures the
// sun sprite for the scene.
type Renderer struct {
	cfg *config.Config
	vp  scene.Viewport

	// Starfield canvas sized to the device pixel surface
	stars *ebiten.Image

	textures map[string]*ebiten.Image
}

// NewRenderer creates a renderer
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		cfg:      cfg,
		textures: make(map[string]*ebiten.Image),
	}
}

// SunRadius reports the laid-out sun radius for the current viewport
func (r *Renderer) SunRadius() (float64, bool) {
	if r.vp.Empty() {
		return 0, false
	}
	return r.cfg.SunRadius(r.vp), true
}

// Resize re-derives the starfield surface from the viewport
func (r *Renderer) Resize(vp scene.Viewport, stars *scene.Starfield) {
	r.vp = vp
	w, h, _ := stars.Surface(vp)
	if r.stars != nil {
		if b := r.stars.Bounds(); b.Dx() == w && b.Dy() == h {
			return
		}
		r.stars.Deallocate()
		r.stars = nil
	}
	if w == 0 || h == 0 {
		return
	}
	r.stars = ebiten.NewImage(w, h)
}

// Draw renders every layer back to front
func (r *Renderer) Draw(screen *ebiten.Image, sc *scene.Scene, hovered int) {
	screen.Fill(sprite.ColorBackground)
	if r.vp.Empty() || !sc.Mounted() {
		return
	}
	s := r.vp.Scale()

	r.drawStars(sc, s)
	if r.stars != nil {
		screen.DrawImage(r.stars, nil)
	}

	sun := sc.Sun.Last()
	for _, l := range sprite.SunLayers(sun.X, sun.Y, sun.Radius, sc.Glow.Intensity()) {
		r.drawLayer(screen, l, s)
	}

	l, clip := sprite.OverlayLayer(r.vp, sc.Overlay.State())
	if box := rectOf(clip.Scale(s)).Intersect(screen.Bounds()); !box.Empty() {
		r.drawLayer(screen.SubImage(box).(*ebiten.Image), l, s)
	}

	r.drawBelt(screen, sc.Belt.Projections(), hovered, s)
}

// drawStars repaints the starfield canvas. A missing surface is a no-op.
func (r *Renderer) drawStars(sc *scene.Scene, s float64) {
	if r.stars == nil {
		return
	}
	r.stars.Clear()

	cx, cy := sc.Stars.Center()
	r.drawLayer(r.stars, sprite.StarGlowLayer(r.vp, cx, cy), s)

	for _, p := range sc.Stars.Particles() {
		clr := sprite.WithAlpha(sprite.ColorStar, p.Alpha)
		vector.DrawFilledCircle(r.stars, float32(p.X*s), float32(p.Y*s), float32(p.Size*s), clr, true)
	}
}

func (r *Renderer) drawBelt(screen *ebiten.Image, proj []scene.Projection, hovered int, s float64) {
	for i, p := range proj {
		if !p.Visible || p.Opacity <= 0 {
			continue
		}
		radius := scene.DotRadius(p)
		var clr color.Color = sprite.WithAlpha(sprite.ColorBeltDot, p.Opacity)
		if i == hovered {
			radius *= hoverScale
			clr = sprite.ColorBeltHover
		}
		vector.DrawFilledCircle(screen, float32(p.ScreenX*s), float32(p.ScreenY*s), float32(radius*s), clr, true)
	}
}

// drawLayer stretches the layer's gradient texture over its rectangle
func (r *Renderer) drawLayer(dst *ebiten.Image, l sprite.Layer, s float64) {
	if l.Alpha <= 0 {
		return
	}
	rect := l.Rect.Scale(s)
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return
	}
	tex := r.texture(l)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(rect.Dx()/textureRes, rect.Dy()/textureRes)
	op.GeoM.Translate(rect.X0, rect.Y0)
	op.ColorScale.ScaleAlpha(float32(l.Alpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(tex, op)
}

// texture returns the GPU image for a layer, built on first use
func (r *Renderer) texture(l sprite.Layer) *ebiten.Image {
	if tex, ok := r.textures[l.Name]; ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(sprite.RadialGradient(textureRes, textureRes, l.Stops))
	r.textures[l.Name] = tex
	return tex
}

// rectOf rounds a float rectangle outward to pixels
func rectOf(rc sprite.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(rc.X0)), int(math.Floor(rc.Y0)),
		int(math.Ceil(rc.X1)), int(math.Ceil(rc.Y1)))
}

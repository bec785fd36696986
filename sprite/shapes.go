package sprite

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// circleSegments is the polygon resolution used for discs
const circleSegments = 32

// RadialGradient renders an elliptical closest-side gradient filling a w x h
// image. Offset 0 is the centre, offset 1 touches the nearest edge.
func RadialGradient(w, h int, stops []Stop) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	if w <= 0 || h <= 0 {
		return img
	}
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		dy := (float64(y) + 0.5 - cy) / cy
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - cx) / cx
			img.SetNRGBA(x, y, At(stops, math.Sqrt(dx*dx+dy*dy)))
		}
	}
	return img
}

// AddCircle appends a closed circular path to z
func AddCircle(z *vector.Rasterizer, cx, cy, r float32) {
	z.MoveTo(cx+r, cy)
	for i := 1; i < circleSegments; i++ {
		a := float64(i) / circleSegments * 2 * math.Pi
		z.LineTo(cx+r*float32(math.Cos(a)), cy+r*float32(math.Sin(a)))
	}
	z.ClosePath()
}

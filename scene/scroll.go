package scene

import "math"

const (
	scrollEase = 0.25 // fraction of the remaining distance covered per frame
	scrollSnap = 0.5  // pixels
)

// Scroller models the virtual document the backdrop sits behind. The offset
// eases toward its target one frame at a time; with reduced motion the scene
// jumps straight to the target instead.
type Scroller struct {
	pages    float64
	vpHeight float64
	current  float64
	target   float64
	onChange func(y float64)
}

// NewScroller creates a scroller over a document pages viewport-heights tall
func NewScroller(pages float64, onChange func(y float64)) *Scroller {
	if pages < 1 {
		pages = 1
	}
	return &Scroller{pages: pages, onChange: onChange}
}

// Resize sets the viewport height and re-clamps both offsets
func (s *Scroller) Resize(vp Viewport) {
	s.vpHeight = vp.Height
	s.target = s.clamp(s.target)
	s.current = s.clamp(s.current)
}

// Max returns the largest scroll offset
func (s *Scroller) Max() float64 {
	return math.Max(0, (s.pages-1)*s.vpHeight)
}

// ScrollBy moves the target by dy pixels
func (s *Scroller) ScrollBy(dy float64) {
	s.ScrollTo(s.target + dy)
}

// ScrollTo sets the target offset
func (s *Scroller) ScrollTo(y float64) {
	s.target = s.clamp(y)
}

// Page moves the target by n viewport heights
func (s *Scroller) Page(n float64) {
	s.ScrollBy(n * s.vpHeight)
}

// Home scrolls to the top of the document
func (s *Scroller) Home() {
	s.ScrollTo(0)
}

// End scrolls to the bottom of the document
func (s *Scroller) End() {
	s.ScrollTo(s.Max())
}

// Jump moves the offset to the target immediately
func (s *Scroller) Jump() {
	s.settle(s.target)
}

// Tick eases the offset toward the target
func (s *Scroller) Tick(Frame) error {
	if s.current == s.target {
		return nil
	}
	next := s.current + (s.target-s.current)*scrollEase
	if math.Abs(s.target-next) < scrollSnap {
		next = s.target
	}
	s.settle(next)
	return nil
}

// Offset returns the current scroll offset
func (s *Scroller) Offset() float64 {
	return s.current
}

// Target returns the offset being eased toward
func (s *Scroller) Target() float64 {
	return s.target
}

func (s *Scroller) settle(y float64) {
	if y == s.current {
		return
	}
	s.current = y
	if s.onChange != nil {
		s.onChange(y)
	}
}

func (s *Scroller) clamp(y float64) float64 {
	return math.Max(0, math.Min(s.Max(), y))
}

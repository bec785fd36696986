// Package scene implements the ambient space backdrop: an orbiting starfield,
// a scroll-driven sun, a rotating torus belt centred on the sun and a warm
// sunlight overlay. Everything here is renderer-agnostic; the game and poster
// packages turn the computed state into pixels.
//
// Scene is the composition root. It owns one Scheduler that drives every
// animated component and one SunBus over which the SunEmitter publishes the
// sun position to the belt and the overlay. All methods must be called from a
// single goroutine.
package scene

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Options configures a Scene
type Options struct {
	Seed      int64   // 0 picks a time-based seed
	Pages     float64 // Virtual document height in viewport heights
	Starfield StarfieldOptions
	Torus     TorusOptions
	Sun       SunOptions
}

// DefaultOptions returns the stock backdrop
func DefaultOptions() Options {
	return Options{
		Pages:     4,
		Starfield: DefaultStarfieldOptions(),
		Torus:     DefaultTorusOptions(),
		Sun:       DefaultSunOptions(),
	}
}

// Scene wires every component of the backdrop together
type Scene struct {
	log  *zap.Logger
	opts Options
	seed int64

	Scheduler *Scheduler
	Bus       *SunBus
	Stars     *Starfield
	Sun       *SunEmitter
	Belt      *TorusBelt
	Overlay   *SunlightOverlay
	Glow      *SunGlow
	Scroll    *Scroller

	vp       Viewport
	mounted  bool
	tornDown bool
	regs     []*Registration
	unsubs   []func()
}

// New builds a scene. Nothing animates until Mount.
func New(opts Options, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	seed := ResolveSeed(opts.Seed)
	s := &Scene{
		log:       log.Named("scene"),
		opts:      opts,
		seed:      seed,
		Scheduler: NewScheduler(log),
		Bus:       NewSunBus(log),
		Stars:     NewStarfield(opts.Starfield, newStream(seed, streamStarfield)),
		Belt:      NewTorusBelt(opts.Torus, newStream(seed, streamTorus)),
		Overlay:   NewSunlightOverlay(),
		Glow:      NewSunGlow(seed + streamGlow),
	}

	sun, err := NewSunEmitter(opts.Sun, s.Bus, s.Scheduler, log)
	if err != nil {
		return nil, fmt.Errorf("create sun emitter: %w", err)
	}
	s.Sun = sun
	s.Scroll = NewScroller(opts.Pages, s.applyScroll)

	s.unsubs = append(s.unsubs,
		s.Bus.Subscribe("torus-belt", s.Belt.OnSun),
		s.Bus.Subscribe("sunlight-overlay", s.Overlay.OnSun),
	)

	// Scroll settles first so the sun broadcast lands before the belt moves
	s.regs = append(s.regs,
		s.Scheduler.Register("scroller", s.Scroll),
		s.Scheduler.Register("starfield", s.Stars),
		s.Scheduler.Register("torus-belt", s.Belt),
		s.Scheduler.Register("sun-glow", s.Glow),
	)

	s.log.Info("scene created",
		zap.Int64("seed", seed),
		zap.Int("stars", opts.Starfield.Count),
		zap.Int("rings", opts.Torus.Rings),
		zap.Int("slices", opts.Torus.Slices))
	return s, nil
}

// Seed returns the resolved random seed
func (s *Scene) Seed() int64 {
	return s.seed
}

// Viewport returns the last viewport snapshot
func (s *Scene) Viewport() Viewport {
	return s.vp
}

// Mounted reports whether Mount has run and Teardown has not
func (s *Scene) Mounted() bool {
	return s.mounted && !s.tornDown
}

// SetMeasurer installs the source of measured sun dimensions
func (s *Scene) SetMeasurer(m SunMeasurer) {
	s.Sun.SetMeasurer(m)
}

// Mount lays every component out for vp, broadcasts the sun once and starts
// the frame loop unless reduced motion is requested
func (s *Scene) Mount(vp Viewport, reduced bool) {
	if s.tornDown || s.mounted {
		return
	}
	s.mounted = true
	s.vp = vp

	s.layout(vp)
	s.Overlay.Mount(vp, s.Scroll.Offset(), reduced)
	s.Sun.Mount(vp, s.Scroll.Offset(), reduced)

	s.Scheduler.SetReducedMotion(reduced)
	s.Scheduler.Mount()

	s.log.Info("scene mounted",
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.Float64("dpr", vp.Scale()),
		zap.Bool("reduced_motion", reduced))
}

// Resize is a full re-initialisation: particle and sample sets are
// regenerated and the sun is re-broadcast
func (s *Scene) Resize(vp Viewport) {
	if !s.Mounted() || vp == s.vp {
		return
	}
	s.vp = vp
	s.layout(vp)

	// The scroller clamps quietly when the document shrinks
	y := s.Scroll.Offset()
	s.Overlay.SetScroll(y)
	s.Sun.SetScroll(y)
	s.Overlay.Resize(vp)
	s.Sun.Resize(vp)
	s.log.Debug("scene resized",
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.Float64("dpr", vp.Scale()),
		zap.Int("stars", s.Stars.Len()))
}

func (s *Scene) layout(vp Viewport) {
	s.Scroll.Resize(vp)
	s.Stars.Regenerate(vp.Width, vp.Height, s.opts.Starfield.Count)
	s.Belt.Regenerate(s.opts.Torus.Rings, s.opts.Torus.Slices)
	s.Belt.Resize(vp)
}

// ScrollBy scrolls the virtual document by dy pixels
func (s *Scene) ScrollBy(dy float64) {
	s.Scroll.ScrollBy(dy)
	s.settleScroll()
}

// ScrollTo scrolls the virtual document to y
func (s *Scene) ScrollTo(y float64) {
	s.Scroll.ScrollTo(y)
	s.settleScroll()
}

// Page scrolls by n viewport heights
func (s *Scene) Page(n float64) {
	s.Scroll.Page(n)
	s.settleScroll()
}

// Home scrolls to the top of the document
func (s *Scene) Home() {
	s.Scroll.Home()
	s.settleScroll()
}

// End scrolls to the bottom of the document
func (s *Scene) End() {
	s.Scroll.End()
	s.settleScroll()
}

// settleScroll jumps to the target when no frames will ease toward it
func (s *Scene) settleScroll() {
	if s.Scheduler.State() != SchedulerRunning {
		s.Scroll.Jump()
	}
}

func (s *Scene) applyScroll(y float64) {
	if !s.Mounted() {
		return
	}
	s.Sun.Scroll(y)
	s.Overlay.Scroll(y)
}

// SetReducedMotion applies a preference change to every component
func (s *Scene) SetReducedMotion(reduced bool) {
	if s.tornDown || reduced == s.Scheduler.ReducedMotion() {
		return
	}
	s.Scheduler.SetReducedMotion(reduced)
	s.Sun.SetReducedMotion(reduced)
	s.Overlay.SetReducedMotion(reduced)
	if reduced {
		s.Scroll.Jump()
		return
	}
	// Catch up with any scrolling that happened while suppressed
	y := s.Scroll.Offset()
	s.Sun.Scroll(y)
	s.Overlay.Scroll(y)
}

// ReducedMotion returns the active preference
func (s *Scene) ReducedMotion() bool {
	return s.Scheduler.ReducedMotion()
}

// Frame dispatches one display refresh and returns the number of handlers run
func (s *Scene) Frame(now time.Time) int {
	return s.Scheduler.Advance(now)
}

// Teardown stops every frame callback and drops the bus subscriptions. No
// frame runs after Teardown returns.
func (s *Scene) Teardown() {
	if s.tornDown {
		return
	}
	s.tornDown = true
	for _, r := range s.regs {
		r.Cancel()
	}
	s.Sun.Teardown()
	s.Scheduler.Close()
	for _, u := range s.unsubs {
		u()
	}
	s.regs, s.unsubs = nil, nil
	s.log.Info("scene torn down", zap.Uint64("frames", s.Scheduler.Frames()))
}

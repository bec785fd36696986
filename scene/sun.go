package scene

import (
	"math"

	"go.uber.org/zap"
)

// sunProducer is the bus producer name of the emitter
const sunProducer = "sun-emitter"

// SunHaloSpread is how far the sun's outer halo reaches past its disc, in
// logical pixels. The end anchor clears it too.
const SunHaloSpread = 80.0

// SunMeasurer reports the laid-out sun radius in logical pixels. ok is false
// until the sun has been measured.
type SunMeasurer interface {
	SunRadius() (radius float64, ok bool)
}

// SunOptions configures the sun path
type SunOptions struct {
	ScrollSpan          float64 // Scroll distance, in viewport heights, covered by the path
	FallbackRadiusRatio float64 // Radius as a fraction of height when unmeasured
}

// DefaultSunOptions returns a path spanning two screens
func DefaultSunOptions() SunOptions {
	return SunOptions{
		ScrollSpan:          2,
		FallbackRadiusRatio: 0.35,
	}
}

// SunEmitter computes the sun position from scroll and viewport and
// broadcasts it on the bus
type SunEmitter struct {
	opts    SunOptions
	pub     *Producer
	sched   *Scheduler
	measure SunMeasurer
	log     *zap.Logger

	vp      Viewport
	scrollY float64
	reduced bool
	last    SunPosition
	pending *Registration
}

// NewSunEmitter creates an emitter and claims the bus producer slot
func NewSunEmitter(opts SunOptions, bus *SunBus, sched *Scheduler, log *zap.Logger) (*SunEmitter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pub, err := bus.ClaimProducer(sunProducer)
	if err != nil {
		return nil, err
	}
	return &SunEmitter{
		opts:  opts,
		pub:   pub,
		sched: sched,
		log:   log.Named("sun"),
	}, nil
}

// SetMeasurer installs the source of measured sun dimensions
func (e *SunEmitter) SetMeasurer(m SunMeasurer) {
	e.measure = m
}

// Radius returns the measured radius or the viewport-relative fallback
func (e *SunEmitter) Radius() float64 {
	if e.measure != nil {
		if r, ok := e.measure.SunRadius(); ok && r > 0 {
			return r
		}
	}
	return e.vp.Height * e.opts.FallbackRadiusRatio
}

// Progress maps a scroll offset to t in [0,1]
func (e *SunEmitter) Progress(scrollY float64) float64 {
	total := e.vp.Height * e.opts.ScrollSpan
	if total <= 0 {
		return 0
	}
	y := math.Max(0, math.Min(total, scrollY))
	return y / total
}

// Compute returns the sun position for scrollY. At t=0 the centre sits on the
// bottom-right corner so exactly one quadrant is visible; at t=1 the disc and
// its halo are entirely above the top edge.
func (e *SunEmitter) Compute(scrollY float64) SunPosition {
	t := e.Progress(scrollY)
	radius := e.Radius()

	startX, startY := e.vp.Width, e.vp.Height
	endX, endY := e.vp.Width, -(radius + SunHaloSpread)

	return SunPosition{
		X:      startX + (endX-startX)*t,
		Y:      startY + (endY-startY)*t,
		T:      t,
		Radius: radius,
	}
}

// Mount broadcasts the initial position and schedules a re-broadcast on the
// next frame for subscribers that arrive late
func (e *SunEmitter) Mount(vp Viewport, scrollY float64, reduced bool) {
	e.vp = vp
	e.scrollY = scrollY
	e.reduced = reduced
	e.broadcast("mount")

	e.pending.Cancel()
	e.pending = e.sched.Once("sun-rebroadcast", func(Frame) {
		e.broadcast("rebroadcast")
	})
}

// SetScroll records the offset without broadcasting. The next resize or
// scroll uses it.
func (e *SunEmitter) SetScroll(scrollY float64) {
	e.scrollY = scrollY
}

// Scroll handles a scroll offset change. Under reduced motion the offset is
// remembered but nothing is broadcast.
func (e *SunEmitter) Scroll(scrollY float64) {
	e.SetScroll(scrollY)
	if e.reduced {
		return
	}
	e.broadcast("scroll")
}

// Resize always recomputes and broadcasts, from the latest recorded offset
// even under reduced motion
func (e *SunEmitter) Resize(vp Viewport) {
	e.vp = vp
	e.broadcast("resize")
}

// SetReducedMotion toggles scroll-driven updates
func (e *SunEmitter) SetReducedMotion(reduced bool) {
	e.reduced = reduced
}

// Last returns the most recent broadcast
func (e *SunEmitter) Last() SunPosition {
	return e.last
}

// Teardown cancels any pending re-broadcast
func (e *SunEmitter) Teardown() {
	e.pending.Cancel()
	e.pending = nil
}

func (e *SunEmitter) broadcast(reason string) {
	if e.vp.Empty() {
		return
	}
	e.last = e.Compute(e.scrollY)
	e.log.Debug("broadcast",
		zap.String("reason", reason),
		zap.Float64("x", e.last.X),
		zap.Float64("y", e.last.Y),
		zap.Float64("t", e.last.T))
	e.pub.Publish(e.last)
}

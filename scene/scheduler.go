package scene

import (
	"time"

	"go.uber.org/zap"
)

// maxFrameDelta caps the delta handed to handlers after a stall
const maxFrameDelta = 100 * time.Millisecond

// SchedulerState is the run state of the frame scheduler
type SchedulerState int

const (
	SchedulerStopped SchedulerState = iota
	SchedulerRunning
)

func (s SchedulerState) String() string {
	if s == SchedulerRunning {
		return "running"
	}
	return "stopped"
}

// Frame describes a single display refresh
type Frame struct {
	Index uint64        // Monotonic frame counter, starting at 1
	Time  time.Time     // Host timestamp of the refresh
	Delta time.Duration // Time since the previous frame, clamped
}

// FrameHandler is implemented by every animated component
type FrameHandler interface {
	Tick(f Frame) error
}

// FrameFunc adapts a plain function to FrameHandler
type FrameFunc func(f Frame) error

// Tick calls fn(f)
func (fn FrameFunc) Tick(f Frame) error {
	return fn(f)
}

// Registration is a handle returned by Scheduler.Register
type Registration struct {
	name      string
	handler   FrameHandler
	once      bool
	cancelled bool
}

// Cancel removes the handler; it will not be called again. Safe to call
// more than once.
func (r *Registration) Cancel() {
	if r != nil {
		r.cancelled = true
	}
}

// Active reports whether the registration still receives frames
func (r *Registration) Active() bool {
	return r != nil && !r.cancelled
}

// Scheduler is the shared per-frame driver. The host loop calls Advance once
// per display refresh; registered handlers are run in registration order while
// the scheduler is running.
//
// State machine:
//   - Stopped -> Running on Mount (or preference change) when motion is allowed
//   - Running -> Stopped on reduced-motion activation or Close
//   - Closed is terminal
//
// Not safe for concurrent use; every call happens on the host update goroutine.
type Scheduler struct {
	log      *zap.Logger
	handlers []*Registration
	mounted  bool
	reduced  bool
	closed   bool
	frame    uint64
	last     time.Time
}

// NewScheduler creates a stopped scheduler
func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{log: log.Named("scheduler")}
}

// Register adds a handler that runs once per frame until cancelled
func (s *Scheduler) Register(name string, h FrameHandler) *Registration {
	r := &Registration{name: name, handler: h}
	if s.closed {
		// Nothing may run after teardown
		r.cancelled = true
		return r
	}
	s.handlers = append(s.handlers, r)
	s.log.Debug("handler registered", zap.String("handler", name))
	return r
}

// Once schedules fn for the next frame only
func (s *Scheduler) Once(name string, fn func(f Frame)) *Registration {
	r := s.Register(name, FrameFunc(func(f Frame) error {
		fn(f)
		return nil
	}))
	r.once = true
	return r
}

// Mount marks the owner as mounted and starts the loop if motion is allowed
func (s *Scheduler) Mount() {
	if s.closed {
		return
	}
	s.mounted = true
	s.last = time.Time{}
	s.log.Debug("mounted", zap.Stringer("state", s.State()))
}

// SetReducedMotion re-evaluates the motion preference
func (s *Scheduler) SetReducedMotion(reduced bool) {
	if s.reduced == reduced {
		return
	}
	s.reduced = reduced
	// Restart the delta clock so the first frame after resuming is not a jump
	s.last = time.Time{}
	s.log.Info("motion preference changed",
		zap.Bool("reduced", reduced),
		zap.Stringer("state", s.State()))
}

// ReducedMotion returns the current preference
func (s *Scheduler) ReducedMotion() bool {
	return s.reduced
}

// Close stops the scheduler permanently and drops every handler
func (s *Scheduler) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, r := range s.handlers {
		r.cancelled = true
	}
	s.handlers = nil
	s.log.Debug("closed", zap.Uint64("frames", s.frame))
}

// State returns the current run state
func (s *Scheduler) State() SchedulerState {
	if s.mounted && !s.reduced && !s.closed {
		return SchedulerRunning
	}
	return SchedulerStopped
}

// Frames returns the number of frames dispatched so far
func (s *Scheduler) Frames() uint64 {
	return s.frame
}

// Len returns the number of live registrations
func (s *Scheduler) Len() int {
	n := 0
	for _, r := range s.handlers {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// Advance dispatches one frame and returns how many handlers ran. It is a
// no-op returning 0 while the scheduler is stopped.
func (s *Scheduler) Advance(now time.Time) int {
	if s.State() != SchedulerRunning {
		return 0
	}

	s.frame++
	delta := time.Duration(0)
	if !s.last.IsZero() {
		delta = now.Sub(s.last)
		if delta > maxFrameDelta {
			delta = maxFrameDelta
		}
		if delta < 0 {
			delta = 0
		}
	}
	s.last = now
	f := Frame{Index: s.frame, Time: now, Delta: delta}

	// Handlers registered during dispatch start on the next frame
	batch := s.handlers
	ran := 0
	for _, r := range batch {
		if r.cancelled || s.closed {
			continue
		}
		ran++
		if r.once {
			r.cancelled = true
		}
		if err := r.handler.Tick(f); err != nil {
			r.cancelled = true
			s.log.Warn("frame handler failed, cancelled",
				zap.String("handler", r.name),
				zap.Uint64("frame", f.Index),
				zap.Error(err))
		}
	}
	s.compact()
	return ran
}

// compact drops cancelled registrations
func (s *Scheduler) compact() {
	live := s.handlers[:0]
	for _, r := range s.handlers {
		if !r.cancelled {
			live = append(live, r)
		}
	}
	for i := len(live); i < len(s.handlers); i++ {
		s.handlers[i] = nil
	}
	s.handlers = live
}

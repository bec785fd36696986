package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// frameAt returns the host timestamp of the n-th 60Hz refresh
func frameAt(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Second / 60)
}

type countingHandler struct {
	frames []Frame
	err    error
}

func (h *countingHandler) Tick(f Frame) error {
	h.frames = append(h.frames, f)
	return h.err
}

func TestScheduler_StoppedUntilMounted(t *testing.T) {
	s := NewScheduler(nil)
	h := &countingHandler{}
	s.Register("h", h)

	assert.Equal(t, SchedulerStopped, s.State())
	assert.Equal(t, 0, s.Advance(frameAt(1)))
	assert.Empty(t, h.frames)

	s.Mount()
	assert.Equal(t, SchedulerRunning, s.State())
	assert.Equal(t, 1, s.Advance(frameAt(2)))
	require.Len(t, h.frames, 1)
	assert.Equal(t, uint64(1), h.frames[0].Index)
}

func TestScheduler_ReducedMotionStateMachine(t *testing.T) {
	s := NewScheduler(nil)
	h := &countingHandler{}
	s.Register("h", h)

	s.SetReducedMotion(true)
	s.Mount()
	assert.Equal(t, SchedulerStopped, s.State())
	for i := 0; i < 5; i++ {
		s.Advance(frameAt(i))
	}
	assert.Empty(t, h.frames, "no frame may run while motion is reduced")

	s.SetReducedMotion(false)
	assert.Equal(t, SchedulerRunning, s.State())
	s.Advance(frameAt(10))
	assert.Len(t, h.frames, 1)

	s.SetReducedMotion(true)
	s.Advance(frameAt(11))
	assert.Len(t, h.frames, 1)
}

func TestScheduler_RegistrationOrderAndCancel(t *testing.T) {
	s := NewScheduler(nil)
	var order []string
	a := s.Register("a", FrameFunc(func(Frame) error { order = append(order, "a"); return nil }))
	s.Register("b", FrameFunc(func(Frame) error { order = append(order, "b"); return nil }))
	s.Mount()

	s.Advance(frameAt(1))
	assert.Equal(t, []string{"a", "b"}, order)

	a.Cancel()
	a.Cancel()
	assert.False(t, a.Active())
	s.Advance(frameAt(2))
	assert.Equal(t, []string{"a", "b", "b"}, order)
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_OnceRunsOnNextFrameOnly(t *testing.T) {
	s := NewScheduler(nil)
	s.Mount()
	calls := 0
	r := s.Once("once", func(Frame) { calls++ })
	assert.True(t, r.Active())

	s.Advance(frameAt(1))
	s.Advance(frameAt(2))
	assert.Equal(t, 1, calls)
	assert.False(t, r.Active())
}

func TestScheduler_HandlerErrorCancels(t *testing.T) {
	s := NewScheduler(nil)
	bad := &countingHandler{err: errors.New("surface lost")}
	good := &countingHandler{}
	reg := s.Register("bad", bad)
	s.Register("good", good)
	s.Mount()

	s.Advance(frameAt(1))
	s.Advance(frameAt(2))

	assert.Len(t, bad.frames, 1, "a failing handler gets no further frames")
	assert.Len(t, good.frames, 2)
	assert.False(t, reg.Active())
}

func TestScheduler_NoFrameAfterClose(t *testing.T) {
	s := NewScheduler(nil)
	h := &countingHandler{}
	reg := s.Register("h", h)
	s.Mount()
	s.Advance(frameAt(1))

	s.Close()
	s.Close()
	assert.Equal(t, SchedulerStopped, s.State())
	assert.False(t, reg.Active())
	assert.Equal(t, 0, s.Advance(frameAt(2)))

	late := s.Register("late", h)
	assert.False(t, late.Active())
	s.Mount()
	assert.Equal(t, 0, s.Advance(frameAt(3)))
	assert.Len(t, h.frames, 1)
}

func TestScheduler_CloseFromHandler(t *testing.T) {
	s := NewScheduler(nil)
	after := &countingHandler{}
	s.Register("closer", FrameFunc(func(Frame) error { s.Close(); return nil }))
	s.Register("after", after)
	s.Mount()

	assert.Equal(t, 1, s.Advance(frameAt(1)))
	assert.Empty(t, after.frames)
}

func TestScheduler_RegisterDuringDispatchStartsNextFrame(t *testing.T) {
	s := NewScheduler(nil)
	late := &countingHandler{}
	registered := false
	s.Register("spawner", FrameFunc(func(Frame) error {
		if !registered {
			registered = true
			s.Register("late", late)
		}
		return nil
	}))
	s.Mount()

	s.Advance(frameAt(1))
	assert.Empty(t, late.frames)
	s.Advance(frameAt(2))
	assert.Len(t, late.frames, 1)
}

func TestScheduler_DeltaClamped(t *testing.T) {
	s := NewScheduler(nil)
	h := &countingHandler{}
	s.Register("h", h)
	s.Mount()

	s.Advance(epoch)
	s.Advance(epoch.Add(16 * time.Millisecond))
	s.Advance(epoch.Add(5 * time.Second))

	require.Len(t, h.frames, 3)
	assert.Equal(t, time.Duration(0), h.frames[0].Delta)
	assert.Equal(t, 16*time.Millisecond, h.frames[1].Delta)
	assert.Equal(t, maxFrameDelta, h.frames[2].Delta)
	assert.Equal(t, uint64(3), s.Frames())
}

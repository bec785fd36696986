package scene

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

type fixedMeasurer struct {
	radius float64
	ok     bool
}

func (m fixedMeasurer) SunRadius() (float64, bool) {
	return m.radius, m.ok
}

func newTestEmitter(t *testing.T) (*SunEmitter, *SunBus, *Scheduler) {
	t.Helper()
	bus := NewSunBus(nil)
	sched := NewScheduler(nil)
	e, err := NewSunEmitter(DefaultSunOptions(), bus, sched, nil)
	require.NoError(t, err)
	return e, bus, sched
}

func TestSunEmitter_EndToEnd1280x800(t *testing.T) {
	e, bus, _ := newTestEmitter(t)
	var got []SunPosition
	bus.Subscribe("listener", func(p SunPosition) { got = append(got, p) })

	vp := Viewport{Width: 1280, Height: 800, DPR: 1}
	e.Mount(vp, 0, false)
	require.Len(t, got, 1)

	radius := 800 * 0.35
	want := SunPosition{X: 1280, Y: 800, T: 0, Radius: radius}
	if diff := cmp.Diff(want, got[0], approx); diff != "" {
		t.Errorf("rest position mismatch (-want +got):\n%s", diff)
	}

	e.Scroll(1600)
	require.Len(t, got, 2)
	end := got[1]
	assert.Equal(t, 1.0, end.T)
	assert.LessOrEqual(t, end.Y+end.Radius+SunHaloSpread, 0.0, "disc and halo must be fully above the top edge")
}

func TestSunEmitter_ProgressMonotonicAndClamped(t *testing.T) {
	e, _, _ := newTestEmitter(t)
	e.vp = Viewport{Width: 1280, Height: 800}

	prev := -1.0
	for y := -400.0; y <= 2400; y += 25 {
		p := e.Progress(y)
		assert.GreaterOrEqual(t, p, prev, "progress at %v", y)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}
	assert.Equal(t, 0.0, e.Progress(-1))
	assert.Equal(t, 0.5, e.Progress(800))
	assert.Equal(t, 1.0, e.Progress(1e9))
}

func TestSunEmitter_MeasuredRadiusWins(t *testing.T) {
	e, _, _ := newTestEmitter(t)
	e.vp = Viewport{Width: 1000, Height: 1000}

	assert.Equal(t, 350.0, e.Radius(), "fallback before measurement")

	e.SetMeasurer(fixedMeasurer{radius: 0, ok: false})
	assert.Equal(t, 350.0, e.Radius())

	e.SetMeasurer(fixedMeasurer{radius: 425, ok: true})
	assert.Equal(t, 425.0, e.Radius())
	assert.InDelta(t, -425.0-SunHaloSpread, e.Compute(5000).Y, 1e-9)
}

func TestSunEmitter_LateSubscriberGetsRebroadcast(t *testing.T) {
	e, bus, sched := newTestEmitter(t)
	sched.Mount()
	e.Mount(Viewport{Width: 800, Height: 600}, 0, false)

	var late []SunPosition
	bus.Subscribe("late", func(p SunPosition) { late = append(late, p) })

	sched.Advance(frameAt(1))
	require.Len(t, late, 1)
	assert.Equal(t, e.Last(), late[0])

	sched.Advance(frameAt(2))
	assert.Len(t, late, 1, "re-broadcast happens once")
}

func TestSunEmitter_ReducedMotionSuppressesScrollOnly(t *testing.T) {
	e, bus, _ := newTestEmitter(t)
	count := 0
	bus.Subscribe("listener", func(SunPosition) { count++ })

	e.Mount(Viewport{Width: 800, Height: 600}, 0, true)
	assert.Equal(t, 1, count, "mount broadcast always happens")

	e.Scroll(300)
	assert.Equal(t, 1, count)

	e.Resize(Viewport{Width: 1024, Height: 768})
	assert.Equal(t, 2, count, "resize broadcasts under reduced motion")
	assert.InDelta(t, 300.0/(2*768), e.Last().T, 1e-9, "remembered offset is used")
}

func TestSunEmitter_TeardownCancelsRebroadcast(t *testing.T) {
	e, bus, sched := newTestEmitter(t)
	sched.Mount()
	e.Mount(Viewport{Width: 800, Height: 600}, 0, false)
	count := 0
	bus.Subscribe("listener", func(SunPosition) { count++ })

	e.Teardown()
	sched.Advance(frameAt(1))
	assert.Equal(t, 0, count)
}

func TestSunEmitter_EmptyViewportIsSilent(t *testing.T) {
	e, bus, _ := newTestEmitter(t)
	e.Mount(Viewport{}, 0, false)
	assert.Equal(t, uint64(0), bus.Sent())
}

func TestNewSunEmitter_SecondProducerFails(t *testing.T) {
	bus := NewSunBus(nil)
	_, err := bus.ClaimProducer("other")
	require.NoError(t, err)
	_, err = NewSunEmitter(DefaultSunOptions(), bus, NewScheduler(nil), nil)
	assert.ErrorIs(t, err, ErrProducerClaimed)
}

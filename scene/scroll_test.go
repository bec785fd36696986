package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScroller_ClampsToDocument(t *testing.T) {
	s := NewScroller(4, nil)
	s.Resize(Viewport{Width: 1280, Height: 800})
	assert.Equal(t, 2400.0, s.Max())

	s.ScrollTo(-50)
	assert.Equal(t, 0.0, s.Target())
	s.ScrollTo(9000)
	assert.Equal(t, 2400.0, s.Target())

	s.Home()
	assert.Equal(t, 0.0, s.Target())
	s.End()
	assert.Equal(t, 2400.0, s.Target())
	s.Page(-1)
	assert.Equal(t, 1600.0, s.Target())
}

func TestScroller_EasesTowardTarget(t *testing.T) {
	var seen []float64
	s := NewScroller(4, func(y float64) { seen = append(seen, y) })
	s.Resize(Viewport{Width: 1280, Height: 800})
	s.ScrollTo(800)

	prev := 0.0
	for i := 0; i < 100 && s.Offset() != s.Target(); i++ {
		require.NoError(t, s.Tick(Frame{}))
		assert.Greater(t, s.Offset(), prev)
		prev = s.Offset()
	}
	assert.Equal(t, 800.0, s.Offset())
	assert.Equal(t, 800.0, seen[len(seen)-1])

	n := len(seen)
	_ = s.Tick(Frame{})
	assert.Len(t, seen, n, "settled scroller reports nothing")
}

func TestScroller_JumpAndResize(t *testing.T) {
	var last float64
	s := NewScroller(2, func(y float64) { last = y })
	s.Resize(Viewport{Height: 1000})
	s.ScrollTo(900)
	s.Jump()
	assert.Equal(t, 900.0, s.Offset())
	assert.Equal(t, 900.0, last)

	s.Resize(Viewport{Height: 500})
	assert.Equal(t, 500.0, s.Offset(), "shrinking the document re-clamps")
}

func TestScroller_MinimumOnePage(t *testing.T) {
	s := NewScroller(0, nil)
	s.Resize(Viewport{Height: 600})
	assert.Equal(t, 0.0, s.Max())
}

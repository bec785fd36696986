package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSunBus_SingleProducer(t *testing.T) {
	b := NewSunBus(nil)
	p, err := b.ClaimProducer("sun")
	require.NoError(t, err)
	again, err := b.ClaimProducer("sun")
	require.NoError(t, err, "re-claiming by the same producer is fine")
	assert.Same(t, p, again)
	assert.Equal(t, "sun", p.Name())

	impostor, err := b.ClaimProducer("impostor")
	require.Error(t, err)
	assert.Nil(t, impostor, "no handle, so no way to publish")
	assert.True(t, errors.Is(err, ErrProducerClaimed))
}

func newTestProducer(t *testing.T) (*SunBus, *Producer) {
	t.Helper()
	b := NewSunBus(nil)
	p, err := b.ClaimProducer("test")
	require.NoError(t, err)
	return b, p
}

func TestSunBus_DeliversCopies(t *testing.T) {
	b, pub := newTestProducer(t)
	var got []SunPosition
	b.Subscribe("a", func(p SunPosition) {
		p.X = -1 // a subscriber scribbling on its copy
		got = append(got, p)
	})
	var seen SunPosition
	b.Subscribe("b", func(p SunPosition) { seen = p })

	pub.Publish(SunPosition{X: 10, Y: 20, T: 0.5, Radius: 30})

	require.Len(t, got, 1)
	assert.Equal(t, SunPosition{X: 10, Y: 20, T: 0.5, Radius: 30}, seen)
	last, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, 10.0, last.X)
	assert.Equal(t, uint64(1), b.Sent())
}

func TestSunBus_Unsubscribe(t *testing.T) {
	b, pub := newTestProducer(t)
	calls := 0
	unsub := b.Subscribe("a", func(SunPosition) { calls++ })
	pub.Publish(SunPosition{})
	unsub()
	unsub()
	pub.Publish(SunPosition{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Subscribers())
}

func TestSunBus_UnsubscribeDuringDelivery(t *testing.T) {
	b, pub := newTestProducer(t)
	var unsubA func()
	bCalls := 0
	unsubA = b.Subscribe("a", func(SunPosition) { unsubA() })
	b.Subscribe("b", func(SunPosition) { bCalls++ })

	pub.Publish(SunPosition{})
	assert.Equal(t, 1, bCalls, "peer is still delivered to")
	assert.Equal(t, 1, b.Subscribers())
}

func TestSunBus_LatestBeforePublish(t *testing.T) {
	_, ok := NewSunBus(nil).Latest()
	assert.False(t, ok)
}

func TestSunPosition_HasRadius(t *testing.T) {
	assert.False(t, SunPosition{}.HasRadius())
	assert.True(t, SunPosition{Radius: 1}.HasRadius())
}

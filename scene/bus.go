package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrProducerClaimed is returned when a second producer tries to publish on a
// SunBus
var ErrProducerClaimed = errors.New("sun bus already has a producer")

// SunPosition is the broadcast payload. It is passed by value; subscribers
// keep their own copy and can never write back to the producer.
type SunPosition struct {
	X      float64 // Screen x of the sun centre in logical pixels
	Y      float64 // Screen y of the sun centre in logical pixels
	T      float64 // Scroll progress in [0,1]
	Radius float64 // Sun radius in logical pixels, 0 when unknown
}

// HasRadius reports whether the broadcast carries a usable radius
func (p SunPosition) HasRadius() bool {
	return p.Radius > 0
}

type subscriber struct {
	id   uuid.UUID
	name string
	fn   func(SunPosition)
}

// SunBus is a one-producer, many-consumer broadcast of the sun position.
// It is owned by the composition root and injected into consumers.
type SunBus struct {
	log      *zap.Logger
	producer *Producer
	subs     []subscriber
	last     SunPosition
	has      bool
	sent     uint64
}

// NewSunBus creates an empty bus
func NewSunBus(log *zap.Logger) *SunBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &SunBus{log: log.Named("sunbus")}
}

// Producer is the publishing handle returned by ClaimProducer. Only its
// holder can broadcast on the bus.
type Producer struct {
	bus  *SunBus
	name string
}

// ClaimProducer registers the single producer allowed to publish. Claiming
// again under the same name returns the same handle.
func (b *SunBus) ClaimProducer(name string) (*Producer, error) {
	if b.producer != nil {
		if b.producer.name != name {
			return nil, fmt.Errorf("claim %q: %w (held by %q)", name, ErrProducerClaimed, b.producer.name)
		}
		return b.producer, nil
	}
	b.producer = &Producer{bus: b, name: name}
	return b.producer, nil
}

// Subscribe registers fn for every future broadcast and returns a function
// that removes it
func (b *SunBus) Subscribe(name string, fn func(SunPosition)) (unsubscribe func()) {
	id := uuid.New()
	b.subs = append(b.subs, subscriber{id: id, name: name, fn: fn})
	b.log.Debug("subscribed", zap.String("subscriber", name), zap.Stringer("id", id))

	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				b.log.Debug("unsubscribed", zap.String("subscriber", name), zap.Stringer("id", id))
				return
			}
		}
	}
}

// Name returns the name the producer claimed the bus under
func (p *Producer) Name() string {
	return p.name
}

// Publish delivers pos to every subscriber in subscription order
func (p *Producer) Publish(pos SunPosition) {
	p.bus.publish(pos)
}

func (b *SunBus) publish(p SunPosition) {
	b.last = p
	b.has = true
	b.sent++

	// Copy so a subscriber unsubscribing during delivery doesn't skip a peer
	subs := append([]subscriber(nil), b.subs...)
	for _, s := range subs {
		s.fn(p)
	}
}

// Latest returns the most recent broadcast, if any
func (b *SunBus) Latest() (SunPosition, bool) {
	return b.last, b.has
}

// Subscribers returns the number of live subscriptions
func (b *SunBus) Subscribers() int {
	return len(b.subs)
}

// Sent returns the number of broadcasts made
func (b *SunBus) Sent() uint64 {
	return b.sent
}

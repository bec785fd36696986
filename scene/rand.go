package scene

import (
	"math/rand"
	"time"
)

// Random streams, one per component, so regenerating one layer never shifts
// the layout of another
const (
	streamStarfield int64 = iota + 1
	streamTorus
	streamGlow
)

// ResolveSeed returns seed, or a time-based seed when seed is 0
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// newStream derives an independent generator for a component
func newStream(seed, stream int64) *rand.Rand {
	return rand.New(rand.NewSource(seed*1_000_003 + stream*7_919))
}

// The package counter defines a minimalistic Float gauge that can be written
// by the solver and read concurrently by a stats goroutine.
package counter

import (
	"math"
	"sync/atomic"
)

// Float is a float64 value with atomic loads and stores. The zero value holds 0.
type Float struct {
	bits atomic.Uint64
}

// NewFloat() returns a new Float holding val.
func NewFloat(val float64) *Float {
	f := &Float{}
	f.Store(val)
	return f
}

// Add() increases the value by delta and returns the new value.
func (c *Float) Add(delta float64) float64 {
	if c == nil {
		return 0
	}

	for {
		old := c.bits.Load()
		updated := math.Float64frombits(old) + delta
		if c.bits.CompareAndSwap(old, math.Float64bits(updated)) {
			return updated
		}
	}
}

// Load() returns the current value.
func (c *Float) Load() float64 {
	if c == nil {
		return 0
	}
	return math.Float64frombits(c.bits.Load())
}

// Store() overwrites the current value to val.
func (c *Float) Store(val float64) {
	if c == nil {
		return
	}
	c.bits.Store(math.Float64bits(val))
}

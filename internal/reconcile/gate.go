package reconcile

import (
	"github.com/im7mortal/kmutex"
)

// Gate is a set of named mutual-exclusion locks. Callers using different
// keys never block each other.
type Gate struct {
	km *kmutex.Kmutex
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{km: kmutex.New()}
}

// Do runs fn while holding key.
func (g *Gate) Do(key string, fn func() error) error {
	g.km.Lock(key)
	defer g.km.Unlock(key)
	return fn()
}

// Locked runs fn while holding key and returns its value.
func Locked[T any](g *Gate, key string, fn func() (T, error)) (T, error) {
	g.km.Lock(key)
	defer g.km.Unlock(key)
	return fn()
}

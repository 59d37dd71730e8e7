// Package random builds *rand.Rand values that are safe to share between
// goroutines.
package random

import (
	"math/rand/v2"
	"sync"
)

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// Locked wraps src so it can back a *rand.Rand used concurrently.
func Locked(src rand.Source) rand.Source {
	return &lockedSource{src: src}
}

// New returns a concurrency-safe generator with a random seed.
func New() *rand.Rand {
	return rand.New(Locked(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// Seeded returns a concurrency-safe deterministic generator.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(Locked(rand.NewPCG(seed, seed)))
}

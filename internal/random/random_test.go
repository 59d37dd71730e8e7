package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededIsDeterministic(t *testing.T) {
	a, b := Seeded(7), Seeded(7)
	for range 20 {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestConcurrentUse(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				n := r.IntN(10)
				assert.True(t, n >= 0 && n < 10)
			}
		}()
	}
	wg.Wait()
}

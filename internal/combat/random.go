package combat

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Roller is the randomness combat draws from. *math/rand.Rand satisfies it.
type Roller interface {
	Intn(n int) int
	Float64() float64
}

// NewSeed generates a seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// SharedRand is a Roller safe for use from several goroutines.
type SharedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSharedRand returns a SharedRand seeded with seed.
func NewSharedRand(seed int64) *SharedRand {
	return &SharedRand{rng: rand.New(rand.NewSource(seed))}
}

func (s *SharedRand) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *SharedRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Between returns a uniform integer in [lo, hi].
func Between(r Roller, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

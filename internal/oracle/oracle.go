// Package oracle generates the decorative attributes attached to every
// fortune: zodiac, lunar, lucky elements, cultural readings and the
// strength score. All randomness and time come from injected sources.
package oracle

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the random generator behind every draw. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// stdSource delegates to the auto-seeded math/rand/v2 top-level functions
type stdSource struct{}

func (stdSource) IntN(n int) int   { return rand.IntN(n) }
func (stdSource) Float64() float64 { return rand.Float64() }

// lockedSource serializes access to a Source that is not safe for concurrent use
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

// NewSeededSource returns a deterministic, goroutine safe Source
func NewSeededSource(seed1, seed2 uint64) Source {
	return &lockedSource{src: rand.New(rand.NewPCG(seed1, seed2))}
}

// Oracle produces fortune decorations from its random source and clock
type Oracle struct {
	rng  Source
	now  func() time.Time
	pool *Pool
}

// New creates an Oracle. A nil rng uses math/rand/v2 and a nil now uses time.Now.
func New(rng Source, now func() time.Time) *Oracle {
	if rng == nil {
		rng = stdSource{}
	}
	if now == nil {
		now = time.Now
	}
	return &Oracle{
		rng:  rng,
		now:  now,
		pool: DefaultPool(),
	}
}

// Pool returns the local fortune pool used for fallbacks
func (o *Oracle) Pool() *Pool {
	return o.pool
}

func (o *Oracle) pick(values []string) string {
	return values[o.rng.IntN(len(values))]
}

// pickN returns count distinct values in random order
func (o *Oracle) pickN(values []string, count int) []string {
	shuffled := make([]string, len(values))
	copy(shuffled, values)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := o.rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

func (o *Oracle) nowMillis() int64 {
	return o.now().UnixMilli()
}

// IntN draws from the oracle's random source
func (o *Oracle) IntN(n int) int {
	return o.rng.IntN(n)
}

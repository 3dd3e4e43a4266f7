package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimitExceeded is returned when a key has used up its window
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// WindowCounter caps calls per key inside a fixed time window. The window
// starts on the first call after the previous one expired.
type WindowCounter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	counters map[string]*windowState
}

type windowState struct {
	count int
	start time.Time
}

// NewWindowCounter creates a counter allowing max calls per window per key.
// A nil now uses time.Now.
func NewWindowCounter(max int, window time.Duration, now func() time.Time) *WindowCounter {
	if now == nil {
		now = time.Now
	}
	return &WindowCounter{
		max:      max,
		window:   window,
		now:      now,
		counters: make(map[string]*windowState),
	}
}

// Allow records a call for key and reports whether it fits in the window
func (w *WindowCounter) Allow(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	currentTime := w.now()
	state, exists := w.counters[key]
	if !exists {
		state = &windowState{start: currentTime}
		w.counters[key] = state
	}

	switch {
	case currentTime.Sub(state.start) > w.window:
		state.count = 1
		state.start = currentTime
	case state.count >= w.max:
		return false
	default:
		state.count++
	}
	return true
}

// Remaining returns how many calls key may still make in its current window
func (w *WindowCounter) Remaining(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, exists := w.counters[key]
	if !exists || w.now().Sub(state.start) > w.window {
		return w.max
	}
	if state.count >= w.max {
		return 0
	}
	return w.max - state.count
}

// reset forgets every key
func (w *WindowCounter) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.counters = make(map[string]*windowState)
}

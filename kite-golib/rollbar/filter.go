package rollbar

import (
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// accept every report while the service is healthy, but never more than one every 500ms
	defaultSampleRate = 1
	defaultDelay      = 500 * time.Millisecond
)

// newLimiter returns a filter that first keeps one report in sampleRate on average, then
// lets at most one report through per delay. It is safe for concurrent use.
func newLimiter(sampleRate int, delay time.Duration) func() bool {
	var mu sync.Mutex
	random := rand.New(rand.NewSource(time.Now().UnixNano()))
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	return func() bool {
		mu.Lock()
		defer mu.Unlock()
		if sampleRate > 1 && random.Intn(sampleRate) != 0 {
			return false
		}
		return limiter.Allow()
	}
}

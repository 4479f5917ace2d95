package rollbar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_RateLimits(t *testing.T) {
	allow := newLimiter(1, time.Hour)
	assert.True(t, allow())
	assert.False(t, allow())
}

func TestLimiter_Samples(t *testing.T) {
	allow := newLimiter(1000000, time.Nanosecond)

	var accepted int
	for i := 0; i < 100; i++ {
		if allow() {
			accepted++
		}
	}
	assert.True(t, accepted < 100)
}

func TestSend_WithoutTokenDoesNotReport(t *testing.T) {
	Disable()
	before := Sent()
	Error(errors.New("boom"))
	assert.Equal(t, before, Sent())
}

package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBackoffGrowsExponentially(t *testing.T) {
	first := calculateBackoff(0)
	second := calculateBackoff(1)
	third := calculateBackoff(2)

	// Jitter adds up to 30% on top of the base
	assert.GreaterOrEqual(t, first, 5*time.Second)
	assert.Less(t, first, 7*time.Second)

	assert.GreaterOrEqual(t, second, 10*time.Second)
	assert.Less(t, second, 13*time.Second)

	assert.GreaterOrEqual(t, third, 20*time.Second)
	assert.Less(t, third, 26*time.Second)
}

func TestCalculateBackoffIsCapped(t *testing.T) {
	backoff := calculateBackoff(20)

	assert.GreaterOrEqual(t, backoff, time.Hour)
	assert.LessOrEqual(t, backoff, time.Hour+time.Hour*3/10)
}

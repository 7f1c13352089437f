package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Berlin to Hamburg, roughly 255 km
	distance := haversineKm(52.5200, 13.4050, 53.5511, 9.9937)
	assert.InDelta(t, 255, distance, 5)
}

func TestHaversineKmZeroForSamePoint(t *testing.T) {
	assert.InDelta(t, 0, haversineKm(48.1351, 11.5820, 48.1351, 11.5820), 0.0001)
}

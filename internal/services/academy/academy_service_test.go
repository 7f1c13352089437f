package academy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{450, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{5000, 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, levelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

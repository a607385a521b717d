package audio

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainProduct multiplies the ratios back out of a filter expression.
func chainProduct(t *testing.T, chain string) float64 {
	t.Helper()
	product := 1.0
	for _, stage := range strings.Split(chain, ",") {
		val, ok := strings.CutPrefix(stage, "atempo=")
		require.True(t, ok, "stage %q", stage)
		f, err := strconv.ParseFloat(val, 64)
		require.NoError(t, err)
		product *= f
	}
	return product
}

func TestAtempoChainSingleStage(t *testing.T) {
	for _, speed := range []float64{0.5, 0.75, 1, 1.5, 2} {
		chain := AtempoChain(speed)
		assert.NotContains(t, chain, ",", "speed %v should need one stage", speed)
		assert.InDelta(t, speed, chainProduct(t, chain), 1e-4)
	}
}

func TestAtempoChainCascades(t *testing.T) {
	tests := []struct {
		speed  float64
		stages int
	}{
		{4, 2},
		{8, 3},
		{5, 3},
		{0.25, 2},
		{0.1, 4},
	}
	for _, tt := range tests {
		chain := AtempoChain(tt.speed)
		parts := strings.Split(chain, ",")
		assert.Len(t, parts, tt.stages, "speed %v", tt.speed)
		assert.InDelta(t, tt.speed, chainProduct(t, chain), 1e-3, "speed %v", tt.speed)
	}
}

func TestAtempoChainStagesWithinBounds(t *testing.T) {
	for _, speed := range []float64{0.05, 0.3, 0.5, 1.3, 2, 6, 13, 40} {
		for _, stage := range strings.Split(AtempoChain(speed), ",") {
			val, _ := strings.CutPrefix(stage, "atempo=")
			f, err := strconv.ParseFloat(val, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, f, 0.5-1e-9, "speed %v stage %v", speed, stage)
			assert.LessOrEqual(t, f, 2.0+1e-9, "speed %v stage %v", speed, stage)
		}
	}
}

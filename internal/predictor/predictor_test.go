package predictor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexus/nexus-trader/internal/strategy"
	"github.com/quantnexus/nexus-trader/pkg/types"
)

func TestSimulatedConfidenceRange(t *testing.T) {
	p := NewSimulatedWithSeed(1)
	candles := []types.OHLCV{{Close: 100}, {Close: 101}}

	for i := 0; i < 100; i++ {
		direction, confidence, err := p.Predict(context.Background(), candles)
		require.NoError(t, err)
		assert.Contains(t, []strategy.Direction{strategy.Long, strategy.Short}, direction)
		assert.GreaterOrEqual(t, confidence, 0.60)
		assert.Less(t, confidence, 0.99)
	}
}

func TestSimulatedNoDataNoCall(t *testing.T) {
	p := NewSimulatedWithSeed(1)

	direction, confidence, err := p.Predict(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, strategy.None, direction)
	assert.Zero(t, confidence)
}

func TestSimulatedDeterministicWithSeed(t *testing.T) {
	candles := []types.OHLCV{{Close: 100}}

	a := NewSimulatedWithSeed(42)
	b := NewSimulatedWithSeed(42)

	for i := 0; i < 10; i++ {
		dirA, confA, _ := a.Predict(context.Background(), candles)
		dirB, confB, _ := b.Predict(context.Background(), candles)
		assert.Equal(t, dirA, dirB)
		assert.Equal(t, confA, confB)
	}
}

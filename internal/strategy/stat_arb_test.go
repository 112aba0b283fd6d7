package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/state"
)

func TestSpreadSeries(t *testing.T) {
	a := []float64{100, 102, 104}
	b := []float64{50, 51, 52}

	assert.Equal(t, []float64{2, 2, 2}, SpreadSeries(a, b))
}

func TestSpreadSeriesAlignsFromEnd(t *testing.T) {
	a := []float64{1, 2, 3, 4, 100, 200}
	b := []float64{50, 100}

	assert.Equal(t, []float64{2, 2}, SpreadSeries(a, b))
}

func TestSpreadSeriesSkipsZeroDenominator(t *testing.T) {
	a := []float64{100, 102, 104}
	b := []float64{50, 0, 52}

	assert.Equal(t, []float64{2, 2}, SpreadSeries(a, b))
}

func statArbTestBlock() config.StrategyBlock {
	return config.StrategyBlock{
		Variant: VariantStatArbitrage,
		Symbols: []string{"ETHUSDT", "BTCUSDT"},
		Params:  map[string]float64{"lookback_period": 10},
	}
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestStatArbitrageEntersShortSpreadOnRichZScore(t *testing.T) {
	session := newMockSession()
	// Nine flat ratios plus one outlier: z lands at exactly 3.
	session.candles["ETHUSDT"] = candlesFromCloses([]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1.05})
	session.candles["BTCUSDT"] = candlesFromCloses(ones(10))

	s, err := NewStatArbitrage(statArbTestBlock(), testDeps(session))
	require.NoError(t, err)

	require.NoError(t, s.ProcessTick(context.Background()))

	assert.Equal(t, state.ShortSpread, s.tracker.Current())
	// Leg execution is not implemented; no orders may be placed.
	assert.Equal(t, 0, session.orderCount())
}

func TestStatArbitrageEntersLongSpreadOnCheapZScore(t *testing.T) {
	session := newMockSession()
	session.candles["ETHUSDT"] = candlesFromCloses([]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 0.95})
	session.candles["BTCUSDT"] = candlesFromCloses(ones(10))

	s, err := NewStatArbitrage(statArbTestBlock(), testDeps(session))
	require.NoError(t, err)

	require.NoError(t, s.ProcessTick(context.Background()))

	assert.Equal(t, state.LongSpread, s.tracker.Current())
}

func TestStatArbitrageZeroVarianceSkipsCycle(t *testing.T) {
	session := newMockSession()
	session.candles["ETHUSDT"] = candlesFromCloses(ones(10))
	session.candles["BTCUSDT"] = candlesFromCloses(ones(10))

	s, err := NewStatArbitrage(statArbTestBlock(), testDeps(session))
	require.NoError(t, err)

	// A perfectly flat spread must not raise and must not transition.
	require.NoError(t, s.ProcessTick(context.Background()))
	assert.Equal(t, state.Idle, s.tracker.Current())
}

func TestStatArbitrageExitsOnReversion(t *testing.T) {
	session := newMockSession()
	session.candles["ETHUSDT"] = candlesFromCloses([]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1.05})
	session.candles["BTCUSDT"] = candlesFromCloses(ones(10))

	s, err := NewStatArbitrage(statArbTestBlock(), testDeps(session))
	require.NoError(t, err)

	require.NoError(t, s.ProcessTick(context.Background()))
	require.Equal(t, state.ShortSpread, s.tracker.Current())

	// Current ratio back at the window mean: z is 0, below the exit
	// threshold.
	session.mu.Lock()
	session.candles["ETHUSDT"] = candlesFromCloses([]float64{0.99, 0.99, 0.99, 0.99, 1.01, 1.01, 1.01, 1.01, 1, 1})
	session.mu.Unlock()

	require.NoError(t, s.ProcessTick(context.Background()))
	assert.Equal(t, state.Idle, s.tracker.Current())
}

func TestStatArbitrageInsufficientHistorySkips(t *testing.T) {
	session := newMockSession()
	session.candles["ETHUSDT"] = candlesFromCloses(ones(4))
	session.candles["BTCUSDT"] = candlesFromCloses(ones(4))

	s, err := NewStatArbitrage(statArbTestBlock(), testDeps(session))
	require.NoError(t, err)

	require.NoError(t, s.ProcessTick(context.Background()))
	assert.Equal(t, state.Idle, s.tracker.Current())
}

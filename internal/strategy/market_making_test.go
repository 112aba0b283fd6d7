package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/gateway"
)

func TestQuotePair(t *testing.T) {
	bid, ask := QuotePair(100, 0.002)
	assert.InDelta(t, 99.9, bid, 1e-9)
	assert.InDelta(t, 100.1, ask, 1e-9)
}

func TestMarketMakingQuotesBothSides(t *testing.T) {
	session := newMockSession()
	session.setMid("BTCUSDT", 100)

	block := config.StrategyBlock{
		Variant: VariantMarketMaking,
		Symbols: []string{"BTCUSDT"},
		Params: map[string]float64{
			"spread_percentage": 0.002,
			"order_amount_usd":  50,
		},
	}

	s, err := NewMarketMaking("BTCUSDT", block, testDeps(session))
	require.NoError(t, err)

	require.NoError(t, s.ProcessTick(context.Background()))

	require.Equal(t, 2, session.orderCount())

	buy, sell := session.orders[0], session.orders[1]
	assert.Equal(t, gateway.SideBuy, buy.Side)
	assert.Equal(t, gateway.TypeLimit, buy.Type)
	assert.InDelta(t, 99.9, buy.Price, 1e-9)
	assert.InDelta(t, 0.5, buy.Quantity, 1e-9)

	assert.Equal(t, gateway.SideSell, sell.Side)
	assert.Equal(t, gateway.TypeLimit, sell.Type)
	assert.InDelta(t, 100.1, sell.Price, 1e-9)
	assert.InDelta(t, 0.5, sell.Quantity, 1e-9)
}

func TestMarketMakingRequotesEveryCycle(t *testing.T) {
	session := newMockSession()
	session.setMid("BTCUSDT", 100)

	block := config.StrategyBlock{Variant: VariantMarketMaking, Symbols: []string{"BTCUSDT"}}
	s, err := NewMarketMaking("BTCUSDT", block, testDeps(session))
	require.NoError(t, err)

	require.NoError(t, s.ProcessTick(context.Background()))
	require.NoError(t, s.ProcessTick(context.Background()))

	assert.Equal(t, 4, session.orderCount())
}

func TestMarketMakingOneSideRejectedStillQuotesOther(t *testing.T) {
	session := newMockSession()
	session.setMid("BTCUSDT", 100)
	session.submitErrOn = func(req gateway.OrderRequest) bool {
		return req.Side == gateway.SideSell
	}

	block := config.StrategyBlock{Variant: VariantMarketMaking, Symbols: []string{"BTCUSDT"}}
	s, err := NewMarketMaking("BTCUSDT", block, testDeps(session))
	require.NoError(t, err)

	require.NoError(t, s.ProcessTick(context.Background()))

	require.Equal(t, 1, session.orderCount())
	assert.Equal(t, gateway.SideBuy, session.orders[0].Side)
}

package strategy

import (
	"context"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/gateway"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
)

// MarketMaking quotes a symmetric bid/ask pair around the order-book
// mid each cycle. Prior quotes are not cancelled; quote lifecycle
// management is an extension point.
type MarketMaking struct {
	core
	symbol string

	spreadFraction   float64
	orderNotionalUSD float64
}

// NewMarketMaking creates a market-making instance for one symbol.
func NewMarketMaking(symbol string, block config.StrategyBlock, deps Deps) (*MarketMaking, error) {
	s := &MarketMaking{
		core:             newCore(VariantMarketMaking, symbol, deps),
		symbol:           symbol,
		spreadFraction:   block.Param("spread_percentage", 0.002),
		orderNotionalUSD: block.Param("order_amount_usd", 50),
	}
	return s, nil
}

func (s *MarketMaking) Name() string   { return VariantMarketMaking }
func (s *MarketMaking) Symbol() string { return s.symbol }

// ProcessTick runs one evaluation cycle.
func (s *MarketMaking) ProcessTick(ctx context.Context) error {
	monitoring.RecordTick(s.name, s.symbol)

	mid, err := s.session.GetMidPrice(ctx, s.symbol)
	if err != nil {
		s.log.Warning("mid price fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	monitoring.UpdatePrice(s.symbol, mid)

	bid, ask := QuotePair(mid, s.spreadFraction)
	quantity := s.orderNotionalUSD / mid

	s.setupLeverage(ctx, s.symbol)
	s.log.Info("quoting bid=%.4f ask=%.4f qty=%.6f around mid=%.4f", bid, ask, quantity, mid)

	for _, quote := range []gateway.OrderRequest{
		{Symbol: s.symbol, Side: gateway.SideBuy, Type: gateway.TypeLimit, Quantity: quantity, Price: bid},
		{Symbol: s.symbol, Side: gateway.SideSell, Type: gateway.TypeLimit, Quantity: quantity, Price: ask},
	} {
		order, err := s.session.SubmitOrder(ctx, quote)
		if err != nil {
			s.log.Error("quote submission failed (%s): %v", quote.Side, err)
			monitoring.RecordCycleError(s.name, "ORDER")
			continue
		}
		s.journal.Record(s.name, quote, order)
		monitoring.RecordOrder(s.name, string(quote.Side))
	}

	return nil
}

// QuotePair returns bid and ask prices offset by half the spread
// fraction on each side of mid.
func QuotePair(mid, spreadFraction float64) (bid, ask float64) {
	half := spreadFraction * mid / 2
	return mid - half, mid + half
}

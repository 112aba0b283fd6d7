package strategy

import (
	"context"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/gateway"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
)

// Grid lays a one-shot ladder of resting limit orders around the
// current mid price: levelsPerSide buys below, levelsPerSide sells
// above, spaced by stepFraction. Once the ladder is placed the
// instance idles; refreshing filled levels is an extension point.
type Grid struct {
	core
	symbol string

	levelsPerSide int
	stepFraction  float64
	levelNotional float64

	gridPlaced bool
}

// NewGrid creates a grid instance for one symbol.
func NewGrid(symbol string, block config.StrategyBlock, deps Deps) (*Grid, error) {
	s := &Grid{
		core:          newCore(VariantGrid, symbol, deps),
		symbol:        symbol,
		levelsPerSide: int(block.Param("grid_levels", 5)),
		stepFraction:  block.Param("grid_step_percentage", 0.005),
		levelNotional: block.Param("amount_per_level_usd", 25),
	}
	return s, nil
}

func (s *Grid) Name() string   { return VariantGrid }
func (s *Grid) Symbol() string { return s.symbol }

// ProcessTick places the ladder on the first successful cycle and is a
// no-op afterwards.
func (s *Grid) ProcessTick(ctx context.Context) error {
	monitoring.RecordTick(s.name, s.symbol)

	if s.gridPlaced {
		return nil
	}

	mid, err := s.session.GetMidPrice(ctx, s.symbol)
	if err != nil {
		s.log.Warning("mid price fetch failed, ladder deferred: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	monitoring.UpdatePrice(s.symbol, mid)

	s.setupLeverage(ctx, s.symbol)
	s.log.Info("placing %d-level ladder around mid=%.4f step=%.4f%%",
		s.levelsPerSide*2, mid, s.stepFraction*100)

	placed := 0
	for _, level := range GridLevels(mid, s.stepFraction, s.levelsPerSide) {
		req := gateway.OrderRequest{
			Symbol:   s.symbol,
			Side:     level.Side,
			Type:     gateway.TypeLimit,
			Quantity: s.levelNotional / level.Price,
			Price:    level.Price,
		}
		order, err := s.session.SubmitOrder(ctx, req)
		if err != nil {
			s.log.Error("ladder level %s @%.4f failed: %v", level.Side, level.Price, err)
			monitoring.RecordCycleError(s.name, "ORDER")
			continue
		}
		s.journal.Record(s.name, req, order)
		monitoring.RecordOrder(s.name, string(level.Side))
		placed++
	}

	// A partially placed ladder still counts as placed; retrying the
	// whole ladder would double-stack the levels that went through.
	if placed > 0 {
		s.gridPlaced = true
		s.log.Trade("grid active on %s: %d/%d levels resting", s.symbol, placed, s.levelsPerSide*2)
	}
	return nil
}

// GridLevel is one resting order slot in the ladder.
type GridLevel struct {
	Side  gateway.OrderSide
	Price float64
}

// GridLevels computes the ladder prices: buys stepping down from mid,
// sells stepping up, nearest levels first.
func GridLevels(mid, stepFraction float64, levelsPerSide int) []GridLevel {
	levels := make([]GridLevel, 0, levelsPerSide*2)
	step := stepFraction * mid
	for i := 1; i <= levelsPerSide; i++ {
		offset := step * float64(i)
		levels = append(levels,
			GridLevel{Side: gateway.SideBuy, Price: mid - offset},
			GridLevel{Side: gateway.SideSell, Price: mid + offset},
		)
	}
	return levels
}

package strategy

import (
	"context"
	"fmt"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/errors"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
)

// TriangularArbitrage watches three markets forming a triangle
// (A/C, B/C, A/B) and compares the quoted cross rate against the one
// implied by the two legs. Signals are informational: detection is
// implemented, multi-leg execution is an extension point.
type TriangularArbitrage struct {
	core
	pairAC string
	pairBC string
	pairAB string

	minProfitMargin float64
}

// NewTriangularArbitrage creates a triangle watcher. The block must
// configure exactly three symbols in [A/C, B/C, A/B] order.
func NewTriangularArbitrage(block config.StrategyBlock, deps Deps) (*TriangularArbitrage, error) {
	if len(block.Symbols) != 3 {
		return nil, errors.NewConfig("strategy", "build",
			"triangular arbitrage requires exactly 3 symbols in [A/C, B/C, A/B] order, got %d",
			len(block.Symbols))
	}

	s := &TriangularArbitrage{
		core:            newCore(VariantTriangularArb, block.Symbols[2], deps),
		pairAC:          block.Symbols[0],
		pairBC:          block.Symbols[1],
		pairAB:          block.Symbols[2],
		minProfitMargin: block.Param("min_profit_margin", 0.2),
	}
	return s, nil
}

func (s *TriangularArbitrage) Name() string { return VariantTriangularArb }

func (s *TriangularArbitrage) Symbol() string {
	return fmt.Sprintf("%s:%s:%s", s.pairAC, s.pairBC, s.pairAB)
}

// ProcessTick runs one evaluation cycle.
func (s *TriangularArbitrage) ProcessTick(ctx context.Context) error {
	monitoring.RecordTick(s.name, s.Symbol())

	prices := make(map[string]float64, 3)
	for _, pair := range []string{s.pairAC, s.pairBC, s.pairAB} {
		price, err := s.session.GetMidPrice(ctx, pair)
		if err != nil {
			s.log.Warning("price fetch for %s failed, skipping cycle: %v", pair, err)
			monitoring.RecordCycleError(s.name, "MARKET_DATA")
			return nil
		}
		prices[pair] = price
	}

	margin, ok := ProfitMargin(prices[s.pairAC], prices[s.pairBC], prices[s.pairAB])
	if !ok {
		s.log.Warning("base pair %s quotes zero, implied rate undefined, skipping cycle", s.pairBC)
		return nil
	}

	implied := prices[s.pairAC] / prices[s.pairBC]
	s.log.Info("quoted=%.6f implied=%.6f margin=%.4f%%", prices[s.pairAB], implied, margin)

	if margin > s.minProfitMargin || margin < -s.minProfitMargin {
		direction := "buy implied / sell quoted"
		if margin < 0 {
			direction = "buy quoted / sell implied"
		}
		monitoring.RecordSignal(s.name, Long.String())
		s.log.Info("arbitrage opportunity: margin=%.4f%%, %s", margin, direction)
	}

	return nil
}

// ProfitMargin computes the percentage gap between the quoted A/B rate
// and the rate implied by the A/C and B/C legs. ok is false when the
// B/C quote is zero and the implied rate is undefined.
func ProfitMargin(priceAC, priceBC, quotedAB float64) (margin float64, ok bool) {
	if priceBC == 0 {
		return 0, false
	}
	implied := priceAC / priceBC
	if implied == 0 {
		return 0, false
	}
	return (quotedAB/implied - 1) * 100, true
}

package strategy

import (
	"context"
	"fmt"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/errors"
	"github.com/quantnexus/nexus-trader/internal/indicators"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/state"
	"github.com/quantnexus/nexus-trader/pkg/types"
)

// StatArbitrage trades the z-score of the price ratio between two
// co-integrated instruments: short the spread when it is rich, long
// when it is cheap, flat again on reversion toward the mean.
//
// Leg execution is an extension point; the instance tracks the spread
// position and logs the intended legs.
type StatArbitrage struct {
	core
	symbolA  string
	symbolB  string
	interval string

	lookback       int
	entryThreshold float64
	exitThreshold  float64
}

// NewStatArbitrage creates a pair-trading instance. The block must
// configure exactly two symbols.
func NewStatArbitrage(block config.StrategyBlock, deps Deps) (*StatArbitrage, error) {
	if len(block.Symbols) != 2 {
		return nil, errors.NewConfig("strategy", "build",
			"statistical arbitrage requires exactly 2 symbols, got %d", len(block.Symbols))
	}

	s := &StatArbitrage{
		core:           newCore(VariantStatArbitrage, block.Symbols[0]+"/"+block.Symbols[1], deps),
		symbolA:        block.Symbols[0],
		symbolB:        block.Symbols[1],
		interval:       "1",
		lookback:       int(block.Param("lookback_period", 120)),
		entryThreshold: block.Param("z_score_threshold", 2.0),
		exitThreshold:  block.Param("exit_z_score", 0.5),
	}
	return s, nil
}

func (s *StatArbitrage) Name() string { return VariantStatArbitrage }

func (s *StatArbitrage) Symbol() string {
	return fmt.Sprintf("%s/%s", s.symbolA, s.symbolB)
}

// ProcessTick runs one evaluation cycle.
func (s *StatArbitrage) ProcessTick(ctx context.Context) error {
	monitoring.RecordTick(s.name, s.Symbol())

	candlesA, err := s.session.GetCandles(ctx, s.symbolA, s.interval, s.lookback)
	if err != nil {
		s.log.Warning("candle fetch for %s failed, skipping cycle: %v", s.symbolA, err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	candlesB, err := s.session.GetCandles(ctx, s.symbolB, s.interval, s.lookback)
	if err != nil {
		s.log.Warning("candle fetch for %s failed, skipping cycle: %v", s.symbolB, err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	spread := SpreadSeries(types.Closes(candlesA), types.Closes(candlesB))
	if len(spread) < s.lookback {
		s.log.Warning("insufficient spread history (%d of %d), skipping cycle",
			len(spread), s.lookback)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	current := spread[len(spread)-1]
	z, ok, err := indicators.ZScore(current, spread, s.lookback)
	if err != nil {
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	if !ok {
		// Zero spread variance makes the z-score undefined.
		s.log.Warning("spread stddev is zero, z-score undefined, skipping cycle")
		return nil
	}

	s.log.Info("spread=%.6f z=%.4f state=%s", current, z, s.tracker.Current())

	switch s.tracker.Current() {
	case state.Idle:
		switch {
		case z > s.entryThreshold:
			s.log.Info("SHORT SPREAD entry: z=%.4f > %.2f (sell %s, buy %s)",
				z, s.entryThreshold, s.symbolA, s.symbolB)
			monitoring.RecordSignal(s.name, Short.String())
			if s.tracker.Enter(state.ShortSpread) {
				s.log.Info("state -> %s", state.ShortSpread)
			}
		case z < -s.entryThreshold:
			s.log.Info("LONG SPREAD entry: z=%.4f < -%.2f (buy %s, sell %s)",
				z, s.entryThreshold, s.symbolA, s.symbolB)
			monitoring.RecordSignal(s.name, Long.String())
			if s.tracker.Enter(state.LongSpread) {
				s.log.Info("state -> %s", state.LongSpread)
			}
		}

	case state.ShortSpread:
		if z < s.exitThreshold {
			s.exit(fmt.Sprintf("z=%.4f reverted below %.2f", z, s.exitThreshold))
		}

	case state.LongSpread:
		if z > -s.exitThreshold {
			s.exit(fmt.Sprintf("z=%.4f reverted above -%.2f", z, s.exitThreshold))
		}
	}

	return nil
}

// SpreadSeries computes the elementwise price ratio of two close
// series, aligned from the most recent bar backwards.
func SpreadSeries(closesA, closesB []float64) []float64 {
	n := len(closesA)
	if len(closesB) < n {
		n = len(closesB)
	}

	spread := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		a := closesA[len(closesA)-n+i]
		b := closesB[len(closesB)-n+i]
		if b == 0 {
			continue
		}
		spread = append(spread, a/b)
	}
	return spread
}

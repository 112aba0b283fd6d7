package strategy

import (
	"context"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/indicators"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/state"
)

// TrendFollowing trades EMA crossovers on a single instrument, with
// stop and target placed at ATR multiples of the entry price.
type TrendFollowing struct {
	core
	symbol   string
	interval string

	fast *indicators.EMA
	slow *indicators.EMA
	atr  *indicators.ATR

	riskFraction float64
	stopATR      float64
	targetATR    float64
	lookback     int

	entrySide Direction
}

// NewTrendFollowing creates a trend-following instance for one symbol.
func NewTrendFollowing(symbol string, block config.StrategyBlock, deps Deps) (*TrendFollowing, error) {
	fastPeriod := int(block.Param("ema_fast", 10))
	slowPeriod := int(block.Param("ema_slow", 30))

	s := &TrendFollowing{
		core:         newCore(VariantTrendFollowing, symbol, deps),
		symbol:       symbol,
		interval:     "5",
		fast:         indicators.NewEMA(fastPeriod),
		slow:         indicators.NewEMA(slowPeriod),
		atr:          indicators.NewATR(int(block.Param("atr_period", 14))),
		riskFraction: block.Param("risk_per_trade", 0.01),
		stopATR:      block.Param("stop_loss_atr_multiplier", 2.0),
		targetATR:    block.Param("take_profit_atr_multiplier", 4.0),
		lookback:     150,
	}
	return s, nil
}

func (s *TrendFollowing) Name() string   { return VariantTrendFollowing }
func (s *TrendFollowing) Symbol() string { return s.symbol }

// ProcessTick runs one evaluation cycle.
func (s *TrendFollowing) ProcessTick(ctx context.Context) error {
	monitoring.RecordTick(s.name, s.symbol)

	candles, err := s.session.GetCandles(ctx, s.symbol, s.interval, s.lookback)
	if err != nil {
		s.log.Warning("candle fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	// The slow EMA series only carries defined values from its seed bar
	// onwards; crossover detection needs two defined bars on both series.
	if len(candles) <= s.slow.Period() {
		s.log.Warning("insufficient candle history (%d bars), skipping cycle", len(candles))
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	fastSeries, err := s.fast.Series(candles)
	if err != nil {
		s.log.Warning("insufficient candle history (%d bars), skipping cycle", len(candles))
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	slowSeries, err := s.slow.Series(candles)
	if err != nil {
		s.log.Warning("insufficient candle history (%d bars), skipping cycle", len(candles))
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	crossover := DetectCrossover(fastSeries, slowSeries)

	if s.tracker.InMarket() {
		s.warnOnDrift(ctx, s.symbol)
		// The entry order carries exchange-side stop and target; only a
		// crossover against the held side is the reversal exit.
		if crossover != None && crossover != s.entrySide {
			s.exit("opposite crossover")
			s.entrySide = None
		}
		return nil
	}

	if crossover == None {
		return nil
	}
	s.log.Info("EMA crossover detected: %s", crossover)

	price, err := s.session.GetMidPrice(ctx, s.symbol)
	if err != nil {
		s.log.Warning("price fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	monitoring.UpdatePrice(s.symbol, price)

	atr, err := s.atr.Calculate(candles)
	if err != nil {
		s.log.Warning("ATR unavailable, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	sig := Signal{Direction: crossover, Entry: price}
	if crossover == Long {
		sig.Stop = price - atr*s.stopATR
		sig.Target = price + atr*s.targetATR
	} else {
		sig.Stop = price + atr*s.stopATR
		sig.Target = price - atr*s.targetATR
	}

	if s.enter(ctx, s.symbol, sig, s.riskFraction, state.InPosition) {
		s.entrySide = crossover
	}
	return nil
}

// DetectCrossover reports whether the fast series crossed the slow
// series between the previous and the current bar: Long on an upward
// cross, Short on a downward cross, None otherwise. The detection is
// symmetric: swapping fast and slow series mirrors the signal.
func DetectCrossover(fast, slow []float64) Direction {
	if len(fast) < 2 || len(slow) < 2 {
		return None
	}

	prevFast, lastFast := fast[len(fast)-2], fast[len(fast)-1]
	prevSlow, lastSlow := slow[len(slow)-2], slow[len(slow)-1]

	switch {
	case prevFast < prevSlow && lastFast > lastSlow:
		return Long
	case prevFast > prevSlow && lastFast < lastSlow:
		return Short
	default:
		return None
	}
}

package strategy

import (
	"context"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/state"
	"github.com/quantnexus/nexus-trader/pkg/types"
)

// Predictor scores recent market data with a directional call and a
// confidence in [0,1]. Implementations may be remote models or local
// heuristics; the strategy only gates on the confidence.
type Predictor interface {
	Predict(ctx context.Context, candles []types.OHLCV) (Direction, float64, error)
}

// SignalFiltered trades directional calls from a Predictor, entering
// only when the reported confidence clears the configured threshold.
// Stops and targets are fixed percentage offsets from the entry.
type SignalFiltered struct {
	core
	symbol    string
	predictor Predictor

	minConfidence  float64
	stopFraction   float64
	targetFraction float64
	riskFraction   float64
	lookback       int
}

// NewSignalFiltered creates a predictor-gated instance for one symbol.
func NewSignalFiltered(symbol string, block config.StrategyBlock, deps Deps) (*SignalFiltered, error) {
	s := &SignalFiltered{
		core:           newCore(VariantSignalFiltered, symbol, deps),
		symbol:         symbol,
		predictor:      deps.Predictor,
		minConfidence:  block.Param("min_confidence_threshold", 0.75),
		stopFraction:   block.Param("stop_loss_percentage", 0.01),
		targetFraction: block.Param("take_profit_percentage", 0.02),
		riskFraction:   block.Param("risk_fraction", 0.01),
		lookback:       int(block.Param("lookback", 100)),
	}
	return s, nil
}

func (s *SignalFiltered) Name() string   { return VariantSignalFiltered }
func (s *SignalFiltered) Symbol() string { return s.symbol }

// ProcessTick runs one evaluation cycle.
func (s *SignalFiltered) ProcessTick(ctx context.Context) error {
	monitoring.RecordTick(s.name, s.symbol)

	if s.tracker.Current() != state.Idle {
		// Exits ride the stop and target attached at entry; once the
		// exchange reports the position gone, return to idle.
		positions, err := s.session.GetOpenPositions(ctx, s.symbol)
		if err != nil {
			s.log.Warning("position check failed: %v", err)
			monitoring.RecordCycleError(s.name, "MARKET_DATA")
			return nil
		}
		if len(positions) == 0 {
			s.exit("position closed on exchange")
		}
		return nil
	}

	candles, err := s.session.GetCandles(ctx, s.symbol, "5", s.lookback)
	if err != nil {
		s.log.Warning("candle fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	direction, confidence, err := s.predictor.Predict(ctx, candles)
	if err != nil {
		s.log.Warning("prediction failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	if direction == None || confidence < s.minConfidence {
		s.log.Info("no trade: direction=%s confidence=%.2f (need %.2f)",
			direction, confidence, s.minConfidence)
		return nil
	}

	price, err := s.session.GetMidPrice(ctx, s.symbol)
	if err != nil {
		s.log.Warning("mid price fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	monitoring.UpdatePrice(s.symbol, price)

	sig := Signal{Direction: direction, Entry: price}
	if direction == Long {
		sig.Stop = price * (1 - s.stopFraction)
		sig.Target = price * (1 + s.targetFraction)
	} else {
		sig.Stop = price * (1 + s.stopFraction)
		sig.Target = price * (1 - s.targetFraction)
	}

	s.log.Info("predictor call: %s confidence=%.2f entry=%.4f", direction, confidence, price)
	s.enter(ctx, s.symbol, sig, s.riskFraction, state.InPosition)
	return nil
}

package strategy

import (
	"context"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/indicators"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/state"
	"github.com/quantnexus/nexus-trader/pkg/types"
)

// MeanReversion fades moves beyond the Bollinger bands when the RSI
// confirms an overextended market. The target sits at the band
// midline, the stop at an ATR multiple.
type MeanReversion struct {
	core
	symbol   string
	interval string

	bands *indicators.BollingerBands
	rsi   *indicators.RSI
	atr   *indicators.ATR

	riskFraction float64
	stopATR      float64
	oversold     float64
	overbought   float64
	lookback     int

	entrySide Direction
}

// NewMeanReversion creates a mean-reversion instance for one symbol.
func NewMeanReversion(symbol string, block config.StrategyBlock, deps Deps) (*MeanReversion, error) {
	s := &MeanReversion{
		core:     newCore(VariantMeanReversion, symbol, deps),
		symbol:   symbol,
		interval: "5",
		bands: indicators.NewBollingerBands(
			int(block.Param("bollinger_length", 20)),
			block.Param("bollinger_std", 2.0),
		),
		rsi:          indicators.NewRSI(int(block.Param("rsi_length", 14))),
		atr:          indicators.NewATR(int(block.Param("atr_period", 14))),
		riskFraction: block.Param("risk_per_trade", 0.01),
		stopATR:      block.Param("stop_loss_atr_multiplier", 2.0),
		oversold:     block.Param("rsi_oversold", 30),
		overbought:   block.Param("rsi_overbought", 70),
		lookback:     100,
	}
	return s, nil
}

func (s *MeanReversion) Name() string   { return VariantMeanReversion }
func (s *MeanReversion) Symbol() string { return s.symbol }

// ProcessTick runs one evaluation cycle.
func (s *MeanReversion) ProcessTick(ctx context.Context) error {
	monitoring.RecordTick(s.name, s.symbol)

	candles, err := s.session.GetCandles(ctx, s.symbol, s.interval, s.lookback)
	if err != nil {
		s.log.Warning("candle fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	closes := types.Closes(candles)

	bands, err := s.bands.Calculate(closes)
	if err != nil {
		s.log.Warning("insufficient candle history (%d bars), skipping cycle", len(candles))
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	price, err := s.session.GetMidPrice(ctx, s.symbol)
	if err != nil {
		s.log.Warning("price fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}
	monitoring.UpdatePrice(s.symbol, price)

	if s.tracker.InMarket() {
		s.warnOnDrift(ctx, s.symbol)
		// Reversion to the midline is the exit condition; the resting
		// stop and target orders handle the rest exchange-side.
		reverted := (s.entrySide == Long && price >= bands.Middle) ||
			(s.entrySide == Short && price <= bands.Middle)
		if reverted {
			s.exit("reverted to band midline")
			s.entrySide = None
		}
		return nil
	}

	rsiValue, err := s.rsi.Calculate(closes)
	if err != nil {
		s.log.Warning("insufficient candle history for RSI, skipping cycle")
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	s.log.Info("price=%.4f lower=%.4f upper=%.4f rsi=%.2f",
		price, bands.Lower, bands.Upper, rsiValue)

	direction := None
	switch {
	case price < bands.Lower && rsiValue < s.oversold:
		direction = Long
	case price > bands.Upper && rsiValue > s.overbought:
		direction = Short
	}
	if direction == None {
		return nil
	}
	s.log.Info("reversion signal: %s", direction)

	atr, err := s.atr.Calculate(candles)
	if err != nil {
		s.log.Warning("ATR unavailable, skipping cycle: %v", err)
		monitoring.RecordCycleError(s.name, "MARKET_DATA")
		return nil
	}

	sig := Signal{Direction: direction, Entry: price, Target: bands.Middle}
	if direction == Long {
		sig.Stop = price - atr*s.stopATR
	} else {
		sig.Stop = price + atr*s.stopATR
	}

	if s.enter(ctx, s.symbol, sig, s.riskFraction, state.InPosition) {
		s.entrySide = direction
	}
	return nil
}

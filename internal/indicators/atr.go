package indicators

import (
	"math"

	"github.com/quantnexus/nexus-trader/pkg/types"
)

// ATR computes the Average True Range, a volatility measure used to
// place stops and targets at a multiple of recent bar range.
type ATR struct {
	period int
}

// NewATR creates an ATR indicator with the given period.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

// Calculate computes the ATR of the last bar as a simple moving average
// of the true range over the period.
func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < a.period+1 {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for i := len(data) - a.period; i < len(data); i++ {
		sum += trueRange(data[i], data[i-1].Close)
	}
	return sum / float64(a.period), nil
}

// trueRange = max(High-Low, |High-PrevClose|, |Low-PrevClose|)
func trueRange(current types.OHLCV, prevClose float64) float64 {
	hl := current.High - current.Low
	hc := math.Abs(current.High - prevClose)
	lc := math.Abs(current.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

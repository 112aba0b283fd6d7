package indicators

import (
	"errors"

	"github.com/quantnexus/nexus-trader/pkg/types"
)

// ErrInsufficientData is returned when a series is shorter than the
// indicator's required lookback.
var ErrInsufficientData = errors.New("insufficient data for indicator calculation")

// EMA computes an exponential moving average over a close-price series.
// The first value is seeded with the SMA of the initial period, the
// standard convention.
type EMA struct {
	period int
	alpha  float64
}

// NewEMA creates an EMA indicator for the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

// Period returns the configured smoothing period.
func (e *EMA) Period() int {
	return e.period
}

// Series computes the EMA for every bar of data, aligned with the input.
// The first period-1 entries are zero since the EMA is undefined there.
func (e *EMA) Series(data []types.OHLCV) ([]float64, error) {
	if len(data) < e.period {
		return nil, ErrInsufficientData
	}

	out := make([]float64, len(data))

	// Seed with SMA of the first period.
	sum := 0.0
	for i := 0; i < e.period; i++ {
		sum += data[i].Close
	}
	out[e.period-1] = sum / float64(e.period)

	for i := e.period; i < len(data); i++ {
		out[i] = data[i].Close*e.alpha + out[i-1]*(1-e.alpha)
	}

	return out, nil
}

// Last computes the EMA of the final bar.
func (e *EMA) Last(data []types.OHLCV) (float64, error) {
	series, err := e.Series(data)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

package indicators

import "math"

// Bands holds one evaluation of the Bollinger bands.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// BollingerBands computes SMA ± k·stddev bands over a price window.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a Bollinger band indicator with the given
// period and standard deviation multiplier.
func NewBollingerBands(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{period: period, stdDev: stdDev}
}

// Calculate computes the bands for the most recent window of prices.
func (bb *BollingerBands) Calculate(prices []float64) (Bands, error) {
	if len(prices) < bb.period {
		return Bands{}, ErrInsufficientData
	}

	recent := prices[len(prices)-bb.period:]
	middle := mean(recent)
	sd := stddev(recent, middle)

	return Bands{
		Upper:  middle + bb.stdDev*sd,
		Middle: middle,
		Lower:  middle - bb.stdDev*sd,
	}, nil
}

func stddev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

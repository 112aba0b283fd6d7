package indicators

import "math"

// RSI calculates the Relative Strength Index over a price series.
type RSI struct {
	period int
}

// NewRSI creates an RSI indicator with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Calculate computes the RSI of the last bar from a close-price slice.
func (r *RSI) Calculate(prices []float64) (float64, error) {
	if len(prices) < r.period+1 {
		return 0, ErrInsufficientData
	}

	gains := make([]float64, 0, r.period)
	losses := make([]float64, 0, r.period)
	for i := len(prices) - r.period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, math.Abs(change))
		}
	}

	avgGain := mean(gains)
	avgLoss := mean(losses)

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

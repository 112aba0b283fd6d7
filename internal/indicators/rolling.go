package indicators

// RollingStats computes the mean and standard deviation of the most
// recent window of a series. Used for spread z-scores in pair trading.
func RollingStats(values []float64, window int) (m, sd float64, err error) {
	if len(values) < window {
		return 0, 0, ErrInsufficientData
	}

	recent := values[len(values)-window:]
	m = mean(recent)
	sd = stddev(recent, m)
	return m, sd, nil
}

// ZScore standardizes value against the rolling window of values.
// ok is false when the window's standard deviation is zero, in which
// case the z-score is undefined.
func ZScore(value float64, values []float64, window int) (z float64, ok bool, err error) {
	m, sd, err := RollingStats(values, window)
	if err != nil {
		return 0, false, err
	}
	if sd == 0 {
		return 0, false, nil
	}
	return (value - m) / sd, true, nil
}

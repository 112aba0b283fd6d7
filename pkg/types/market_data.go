package types

import "time"

// OHLCV is a single candlestick bar.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// BookTop is the best bid/ask pair of an order book.
type BookTop struct {
	BestBid float64
	BestAsk float64
}

// Mid returns the mid price of the book top.
func (b BookTop) Mid() float64 {
	return (b.BestBid + b.BestAsk) / 2
}

// Closes extracts the close-price series from a candle slice.
func Closes(data []OHLCV) []float64 {
	closes := make([]float64, len(data))
	for i, c := range data {
		closes[i] = c.Close
	}
	return closes
}

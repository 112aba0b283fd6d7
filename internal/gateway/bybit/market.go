package bybit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/quantnexus/nexus-trader/pkg/types"
)

// GetCandles fetches kline data for symbol, returned oldest first.
// Interval uses Bybit notation: "1", "5", "15", "60", "D", ...
func (s *session) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}

	params := map[string]interface{}{
		"category": s.client.config.Category,
		"symbol":   symbol,
		"interval": interval,
		"limit":    limit,
	}

	var klineResult struct {
		Symbol string     `json:"symbol"`
		List   [][]string `json:"list"`
	}

	err := s.client.call(ctx, func(ctx context.Context) error {
		result, err := s.client.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
		if err != nil {
			return err
		}
		return decodeResult(result, &klineResult)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get candles for %s: %w", symbol, err)
	}

	// Bybit kline rows: [startTime, open, high, low, close, volume, turnover],
	// newest first; the engine wants chronological order.
	candles := make([]types.OHLCV, 0, len(klineResult.List))
	for i := len(klineResult.List) - 1; i >= 0; i-- {
		row := klineResult.List[i]
		if len(row) < 6 {
			continue
		}
		candles = append(candles, types.OHLCV{
			Timestamp: time.UnixMilli(parseInt64(row[0])),
			Open:      parseFloat64(row[1]),
			High:      parseFloat64(row[2]),
			Low:       parseFloat64(row[3]),
			Close:     parseFloat64(row[4]),
			Volume:    parseFloat64(row[5]),
		})
	}

	return candles, nil
}

// GetMidPrice returns the mid of the best bid/ask from the order book.
func (s *session) GetMidPrice(ctx context.Context, symbol string) (float64, error) {
	if s.isClosed() {
		return 0, ErrSessionClosed
	}

	params := map[string]interface{}{
		"category": s.client.config.Category,
		"symbol":   symbol,
		"limit":    1,
	}

	var bookResult struct {
		Symbol string     `json:"s"`
		Bids   [][]string `json:"b"`
		Asks   [][]string `json:"a"`
	}

	err := s.client.call(ctx, func(ctx context.Context) error {
		result, err := s.client.httpClient.NewUtaBybitServiceWithParams(params).GetOrderBookInfo(ctx)
		if err != nil {
			return err
		}
		return decodeResult(result, &bookResult)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get order book for %s: %w", symbol, err)
	}

	if len(bookResult.Bids) == 0 || len(bookResult.Asks) == 0 ||
		len(bookResult.Bids[0]) == 0 || len(bookResult.Asks[0]) == 0 {
		return 0, fmt.Errorf("order book for %s is empty", symbol)
	}

	top := types.BookTop{
		BestBid: parseFloat64(bookResult.Bids[0][0]),
		BestAsk: parseFloat64(bookResult.Asks[0][0]),
	}
	return top.Mid(), nil
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

package strategy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/gateway"
	"github.com/quantnexus/nexus-trader/internal/journal"
	"github.com/quantnexus/nexus-trader/internal/logger"
	"github.com/quantnexus/nexus-trader/pkg/types"
)

// mockSession is an in-memory gateway.Session for strategy tests. Per-
// symbol candles and mid prices are seeded up front; submitted orders
// are captured for assertions.
type mockSession struct {
	mu sync.Mutex

	candles   map[string][]types.OHLCV
	midPrices map[string]float64
	balance   float64
	positions []gateway.OpenPosition

	submitErr   error
	submitErrOn func(req gateway.OrderRequest) bool
	orders      []gateway.OrderRequest
	closed      bool
}

func newMockSession() *mockSession {
	return &mockSession{
		candles:   make(map[string][]types.OHLCV),
		midPrices: make(map[string]float64),
		balance:   10000,
	}
}

func (m *mockSession) GetCandles(_ context.Context, symbol, _ string, _ int) ([]types.OHLCV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	candles, ok := m.candles[symbol]
	if !ok {
		return nil, fmt.Errorf("no candles seeded for %s", symbol)
	}
	return candles, nil
}

func (m *mockSession) GetMidPrice(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mid, ok := m.midPrices[symbol]
	if !ok {
		return 0, fmt.Errorf("no mid price seeded for %s", symbol)
	}
	return mid, nil
}

func (m *mockSession) GetBalanceUSD(_ context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance, nil
}

func (m *mockSession) GetOpenPositions(_ context.Context, _ string) ([]gateway.OpenPosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positions, nil
}

func (m *mockSession) SubmitOrder(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	if m.submitErrOn != nil && m.submitErrOn(req) {
		return nil, errors.New("order rejected")
	}
	m.orders = append(m.orders, req)
	return &gateway.Order{
		OrderID:  fmt.Sprintf("mock-%d", len(m.orders)),
		Symbol:   req.Symbol,
		Side:     req.Side,
		Type:     req.Type,
		Quantity: req.Quantity,
		Price:    req.Price,
	}, nil
}

func (m *mockSession) SetLeverage(_ context.Context, _ string, _ int) error { return nil }

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSession) setMid(symbol string, mid float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.midPrices[symbol] = mid
}

func (m *mockSession) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func candlesFromCloses(closes []float64) []types.OHLCV {
	out := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = types.OHLCV{Open: c, High: c * 1.01, Low: c * 0.99, Close: c, Volume: 1}
	}
	return out
}

func testDeps(session *mockSession) Deps {
	return Deps{
		Platform:   config.Platform{Leverage: 10},
		NewSession: func() gateway.Session { return session },
		Log:        logger.NewDiscard(),
		Journal:    journal.New(),
	}
}

package orchestrator

import (
	"context"

	"github.com/quantnexus/nexus-trader/internal/gateway"
	"github.com/quantnexus/nexus-trader/pkg/types"
)

type nopSession struct{}

func (nopSession) GetCandles(context.Context, string, string, int) ([]types.OHLCV, error) {
	return nil, nil
}
func (nopSession) GetMidPrice(context.Context, string) (float64, error)    { return 0, nil }
func (nopSession) GetBalanceUSD(context.Context) (float64, error)          { return 0, nil }
func (nopSession) GetOpenPositions(context.Context, string) ([]gateway.OpenPosition, error) {
	return nil, nil
}
func (nopSession) SubmitOrder(context.Context, gateway.OrderRequest) (*gateway.Order, error) {
	return &gateway.Order{}, nil
}
func (nopSession) SetLeverage(context.Context, string, int) error { return nil }
func (nopSession) Close() error                                   { return nil }

func nopSessionFactory() func() gateway.Session {
	return func() gateway.Session { return nopSession{} }
}

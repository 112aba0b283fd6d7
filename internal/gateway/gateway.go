package gateway

import (
	"context"
	"time"

	"github.com/quantnexus/nexus-trader/pkg/types"
)

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "Buy"
	SideSell OrderSide = "Sell"
)

// OrderType distinguishes market from resting limit orders.
type OrderType string

const (
	TypeMarket OrderType = "Market"
	TypeLimit  OrderType = "Limit"
)

// OrderRequest describes one order submission. StopLoss and TakeProfit
// are optional trigger prices attached to the entry.
type OrderRequest struct {
	Symbol     string
	Side       OrderSide
	Type       OrderType
	Quantity   float64
	Price      float64 // limit orders only
	StopLoss   float64
	TakeProfit float64
}

// Order is the exchange's acknowledgement of a submitted order.
type Order struct {
	OrderID     string
	Symbol      string
	Side        OrderSide
	Type        OrderType
	Quantity    float64
	Price       float64
	SubmittedAt time.Time
}

// OpenPosition is an exchange-reported open position, exposed for
// drift diagnostics only; the engine never transitions local state
// from it.
type OpenPosition struct {
	Symbol     string
	Side       string
	Size       float64
	EntryPrice float64
}

// Instrument describes one tradable market.
type Instrument struct {
	Symbol      string
	BaseCoin    string
	QuoteCoin   string
	Status      string
	MaxLeverage float64
}

// Session is the per-strategy-instance connection to the exchange. All
// calls are blocking and honor ctx cancellation; the implementation
// throttles requests internally since every session draws on the same
// account rate-limit budget. Close must be called exactly once.
type Session interface {
	// GetCandles returns up to limit bars for symbol, oldest first.
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error)

	// GetMidPrice returns the order-book mid price for symbol. Fails
	// when the book is empty on either side.
	GetMidPrice(ctx context.Context, symbol string) (float64, error)

	// GetBalanceUSD returns the account's tradable USD-equivalent
	// balance, 0 on failure.
	GetBalanceUSD(ctx context.Context) (float64, error)

	// GetOpenPositions returns exchange-reported open positions.
	GetOpenPositions(ctx context.Context, symbol string) ([]OpenPosition, error)

	// SubmitOrder places an order and returns the exchange's ack.
	SubmitOrder(ctx context.Context, req OrderRequest) (*Order, error)

	// SetLeverage configures leverage for symbol. Failures are non-fatal
	// and reported as an error the caller may log as a warning.
	SetLeverage(ctx context.Context, symbol string, leverage int) error

	// Close releases the session.
	Close() error
}

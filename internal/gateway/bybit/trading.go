package bybit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/quantnexus/nexus-trader/internal/gateway"
)

// SubmitOrder places a market or limit order, attaching optional
// stop-loss and take-profit trigger prices.
func (s *session) SubmitOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if req.Type == gateway.TypeLimit && req.Price <= 0 {
		return nil, fmt.Errorf("price is required for limit orders")
	}

	params := map[string]interface{}{
		"category":  s.client.config.Category,
		"symbol":    req.Symbol,
		"side":      string(req.Side),
		"orderType": string(req.Type),
		"qty":       formatQty(req.Quantity),
	}
	if req.Type == gateway.TypeLimit {
		params["price"] = formatPrice(req.Price)
		params["timeInForce"] = "GTC"
	}
	if req.Type == gateway.TypeMarket && s.client.config.SlippageCap > 0 {
		params["slippageToleranceType"] = "Percent"
		params["slippageTolerance"] = formatPrice(s.client.config.SlippageCap * 100)
	}
	if req.StopLoss > 0 {
		params["stopLoss"] = formatPrice(req.StopLoss)
	}
	if req.TakeProfit > 0 {
		params["takeProfit"] = formatPrice(req.TakeProfit)
	}

	var orderResult struct {
		OrderID     string `json:"orderId"`
		OrderLinkID string `json:"orderLinkId"`
	}

	err := s.client.call(ctx, func(ctx context.Context) error {
		result, err := s.client.httpClient.NewUtaBybitServiceWithParams(params).PlaceOrder(ctx)
		if err != nil {
			return err
		}
		return decodeResult(result, &orderResult)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place %s %s order for %s: %w",
			req.Side, req.Type, req.Symbol, err)
	}

	return &gateway.Order{
		OrderID:     orderResult.OrderID,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Price:       req.Price,
		SubmittedAt: time.Now(),
	}, nil
}

// SetLeverage configures symmetric buy/sell leverage for symbol.
// Bybit rejects a no-op change with a dedicated code; that is not a
// failure.
func (s *session) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	if s.isClosed() {
		return ErrSessionClosed
	}

	lev := strconv.Itoa(leverage)
	params := map[string]interface{}{
		"category":     s.client.config.Category,
		"symbol":       symbol,
		"buyLeverage":  lev,
		"sellLeverage": lev,
	}

	err := s.client.call(ctx, func(ctx context.Context) error {
		_, err := s.client.httpClient.NewUtaBybitServiceWithParams(params).SetPositionLeverage(ctx)
		return err
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == ErrCodeLeverageNotModified {
			return nil
		}
		return fmt.Errorf("failed to set leverage for %s: %w", symbol, err)
	}
	return nil
}

// ListInstruments returns the tradable instruments for the client's
// category. Used by the list-markets utility, not the tick loop.
func (c *Client) ListInstruments(ctx context.Context) ([]gateway.Instrument, error) {
	params := map[string]interface{}{
		"category": c.config.Category,
		"limit":    1000,
	}

	var infoResult struct {
		List []struct {
			Symbol         string `json:"symbol"`
			BaseCoin       string `json:"baseCoin"`
			QuoteCoin      string `json:"quoteCoin"`
			Status         string `json:"status"`
			LeverageFilter struct {
				MaxLeverage string `json:"maxLeverage"`
			} `json:"leverageFilter"`
		} `json:"list"`
	}

	err := c.call(ctx, func(ctx context.Context) error {
		result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
		if err != nil {
			return err
		}
		return decodeResult(result, &infoResult)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	instruments := make([]gateway.Instrument, 0, len(infoResult.List))
	for _, item := range infoResult.List {
		instruments = append(instruments, gateway.Instrument{
			Symbol:      item.Symbol,
			BaseCoin:    item.BaseCoin,
			QuoteCoin:   item.QuoteCoin,
			Status:      item.Status,
			MaxLeverage: parseFloat64(item.LeverageFilter.MaxLeverage),
		})
	}
	return instruments, nil
}

func formatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

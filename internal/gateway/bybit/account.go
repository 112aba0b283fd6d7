package bybit

import (
	"context"
	"fmt"

	"github.com/quantnexus/nexus-trader/internal/gateway"
)

// GetBalanceUSD returns the unified account's total available balance
// in USD terms. Per the gateway contract it returns 0 on failure so a
// strategy cycle degrades into a sizing rejection instead of an error.
func (s *session) GetBalanceUSD(ctx context.Context) (float64, error) {
	if s.isClosed() {
		return 0, ErrSessionClosed
	}

	params := map[string]interface{}{
		"accountType": "UNIFIED",
	}

	var walletResult struct {
		List []struct {
			TotalAvailableBalance string `json:"totalAvailableBalance"`
			TotalEquity           string `json:"totalEquity"`
		} `json:"list"`
	}

	err := s.client.call(ctx, func(ctx context.Context) error {
		result, err := s.client.httpClient.NewUtaBybitServiceWithParams(params).GetAccountWallet(ctx)
		if err != nil {
			return err
		}
		return decodeResult(result, &walletResult)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get account balance: %w", err)
	}

	if len(walletResult.List) == 0 {
		return 0, nil
	}
	return parseFloat64(walletResult.List[0].TotalAvailableBalance), nil
}

// GetOpenPositions returns the exchange's view of open positions,
// filtered to non-zero size. Symbol may be empty to list the account.
func (s *session) GetOpenPositions(ctx context.Context, symbol string) ([]gateway.OpenPosition, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	params := map[string]interface{}{
		"category": s.client.config.Category,
	}
	if symbol != "" {
		params["symbol"] = symbol
	} else {
		params["settleCoin"] = "USDT"
	}

	var positionResult struct {
		List []struct {
			Symbol     string `json:"symbol"`
			Side       string `json:"side"`
			Size       string `json:"size"`
			EntryPrice string `json:"avgPrice"`
		} `json:"list"`
	}

	err := s.client.call(ctx, func(ctx context.Context) error {
		result, err := s.client.httpClient.NewUtaBybitServiceWithParams(params).GetPositionList(ctx)
		if err != nil {
			return err
		}
		return decodeResult(result, &positionResult)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	positions := make([]gateway.OpenPosition, 0, len(positionResult.List))
	for _, p := range positionResult.List {
		size := parseFloat64(p.Size)
		if size == 0 {
			continue
		}
		positions = append(positions, gateway.OpenPosition{
			Symbol:     p.Symbol,
			Side:       p.Side,
			Size:       size,
			EntryPrice: parseFloat64(p.EntryPrice),
		})
	}
	return positions, nil
}

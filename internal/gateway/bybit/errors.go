package bybit

import (
	"encoding/json"
	"errors"
	"fmt"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// ErrSessionClosed is returned by calls on a released session.
var ErrSessionClosed = errors.New("gateway session is closed")

// APIError is a Bybit API-level failure (non-zero retCode).
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bybit API error %d: %s", e.Code, e.Message)
}

// Common Bybit error codes the engine reacts to.
const (
	ErrCodeRateLimitExceeded   = 10006
	ErrCodeInsufficientBalance = 110007
	ErrCodeLeverageNotModified = 110043
)

// IsRateLimited reports whether err is the exchange's rate-limit
// rejection, which the caller should treat as transient.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == ErrCodeRateLimitExceeded
}

// decodeResult validates a ServerResponse and unmarshals its Result
// payload into out.
func decodeResult(response interface{}, out interface{}) error {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}

	if serverResp.RetCode != 0 {
		return &APIError{Code: serverResp.RetCode, Message: serverResp.RetMsg}
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := json.Unmarshal(resultBytes, out); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return nil
}

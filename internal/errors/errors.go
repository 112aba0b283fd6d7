package errors

import "fmt"

// Category classifies engine errors by how the caller should react.
type Category string

const (
	// CategoryMarketData covers missing candles, prices or balances.
	// The cycle is skipped and retried on the next tick.
	CategoryMarketData Category = "MARKET_DATA"

	// CategoryOrder covers order submission failures. The cycle aborts
	// without a position-state transition.
	CategoryOrder Category = "ORDER"

	// CategoryConfig covers construction-time configuration problems.
	// Fatal: the instance is never scheduled.
	CategoryConfig Category = "CONFIG"

	// CategoryFatal covers unexpected failures inside a cycle that
	// terminate the owning task.
	CategoryFatal Category = "FATAL"
)

// EngineError is a categorized error with the component and operation
// that produced it, so task-level diagnostics carry enough context
// without crashing the process.
type EngineError struct {
	Category   Category
	Component  string
	Operation  string
	Underlying error
}

func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Component, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Component, e.Operation)
}

func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Recoverable reports whether the error should be absorbed by the
// strategy (skip the cycle) rather than terminate its task.
func (e *EngineError) Recoverable() bool {
	return e.Category == CategoryMarketData || e.Category == CategoryOrder
}

// Wrap annotates err with a category, component and operation.
func Wrap(err error, category Category, component, operation string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Underlying: err,
	}
}

// NewConfig creates a construction-time configuration error.
func NewConfig(component, operation string, format string, args ...interface{}) *EngineError {
	return &EngineError{
		Category:   CategoryConfig,
		Component:  component,
		Operation:  operation,
		Underlying: fmt.Errorf(format, args...),
	}
}

package risk

import "math"

// RejectReason explains why the sizer declined to produce a quantity.
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectNoBalance     RejectReason = "balance is zero or negative"
	RejectZeroStopRisk  RejectReason = "entry and stop price are equal, per-unit risk undefined"
	RejectBelowNotional RejectReason = "position value below platform minimum notional"
)

// Sizing is the result of a position-size calculation.
type Sizing struct {
	Quantity    float64
	NotionalUSD float64
	RiskUSD     float64
	Reason      RejectReason
}

// Accepted reports whether the sizer produced a tradable quantity.
func (s Sizing) Accepted() bool {
	return s.Reason == RejectNone
}

// Sizer converts account balance and stop distance into a position size
// using fixed fractional dollar risk per trade. It is a pure function of
// its inputs; rejections are ordinary results, not errors.
type Sizer struct {
	MinNotionalUSD float64
}

// NewSizer creates a sizer with the platform's minimum order value.
func NewSizer(minNotionalUSD float64) *Sizer {
	return &Sizer{MinNotionalUSD: minNotionalUSD}
}

// Size computes the quantity that risks balance*riskFraction dollars
// between entry and stop. The loss if the stop is hit is the same for
// every instrument regardless of its price or volatility.
func (s *Sizer) Size(balanceUSD, riskFraction, entryPrice, stopPrice float64) Sizing {
	if balanceUSD <= 0 {
		return Sizing{Reason: RejectNoBalance}
	}

	perUnitRisk := math.Abs(entryPrice - stopPrice)
	if perUnitRisk == 0 {
		return Sizing{Reason: RejectZeroStopRisk}
	}

	riskUSD := balanceUSD * riskFraction
	quantity := riskUSD / perUnitRisk
	notional := quantity * entryPrice

	if notional < s.MinNotionalUSD {
		return Sizing{
			Quantity:    quantity,
			NotionalUSD: notional,
			RiskUSD:     riskUSD,
			Reason:      RejectBelowNotional,
		}
	}

	return Sizing{
		Quantity:    quantity,
		NotionalUSD: notional,
		RiskUSD:     riskUSD,
	}
}

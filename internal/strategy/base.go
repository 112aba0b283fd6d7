package strategy

import (
	"context"
	"fmt"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/gateway"
	"github.com/quantnexus/nexus-trader/internal/journal"
	"github.com/quantnexus/nexus-trader/internal/logger"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/risk"
	"github.com/quantnexus/nexus-trader/internal/state"
)

// core is the shared skeleton every variant embeds: the gateway
// session, risk sizer, position tracker, journal and logging, plus the
// read-only platform parameters.
type core struct {
	name     string
	platform config.Platform
	session  gateway.Session
	sizer    *risk.Sizer
	tracker  *state.Tracker
	journal  *journal.Journal
	health   *monitoring.HealthChecker
	log      *logger.ComponentLogger

	leverageSet bool
}

func newCore(name, label string, deps Deps) core {
	return core{
		name:     name,
		platform: deps.Platform,
		session:  deps.NewSession(),
		sizer:    risk.NewSizer(deps.Platform.MinNotionalUSD),
		tracker:  state.NewTracker(),
		journal:  deps.Journal,
		health:   deps.Health,
		log:      deps.Log.Component(fmt.Sprintf("%s[%s]", name, label)),
	}
}

// Close releases the instance's gateway session.
func (c *core) Close() error {
	return c.session.Close()
}

// setupLeverage configures the platform's default leverage once per
// instance. Failures are warnings, not cycle aborts.
func (c *core) setupLeverage(ctx context.Context, symbol string) {
	if c.leverageSet {
		return
	}
	if err := c.session.SetLeverage(ctx, symbol, c.platform.Leverage); err != nil {
		c.log.Warning("leverage setup for %s: %v", symbol, err)
		return
	}
	c.leverageSet = true
	c.log.Info("leverage set to %dx for %s", c.platform.Leverage, symbol)
}

// enter sizes the signal by dollar risk and submits a market order
// with the stop and target attached. On success the tracker moves to
// next; on any failure the tracker is untouched so the instance
// retries on a later tick.
func (c *core) enter(ctx context.Context, symbol string, sig Signal, riskFraction float64, next state.Position) bool {
	monitoring.RecordSignal(c.name, sig.Direction.String())

	balance, err := c.session.GetBalanceUSD(ctx)
	if err != nil {
		c.log.Warning("balance fetch failed, skipping cycle: %v", err)
		monitoring.RecordCycleError(c.name, "MARKET_DATA")
		return false
	}
	monitoring.UpdateBalance(balance)
	if c.health != nil {
		c.health.SetBalance(balance)
	}

	sizing := c.sizer.Size(balance, riskFraction, sig.Entry, sig.Stop)
	if !sizing.Accepted() {
		c.log.Warning("no trade this cycle: %s", sizing.Reason)
		monitoring.RecordSizingRejection(string(sizing.Reason))
		return false
	}

	c.setupLeverage(ctx, symbol)

	side := gateway.SideBuy
	if sig.Direction == Short {
		side = gateway.SideSell
	}

	req := gateway.OrderRequest{
		Symbol:     symbol,
		Side:       side,
		Type:       gateway.TypeMarket,
		Quantity:   sizing.Quantity,
		StopLoss:   sig.Stop,
		TakeProfit: sig.Target,
	}

	order, err := c.session.SubmitOrder(ctx, req)
	if err != nil {
		// No state transition on a failed submission; the tracker
		// stays accurate and the next tick retries.
		c.log.Error("order submission failed: %v", err)
		monitoring.RecordCycleError(c.name, "ORDER")
		return false
	}

	c.journal.Record(c.name, req, order)
	monitoring.RecordOrder(c.name, string(side))
	c.log.Trade("%s %s qty=%.6f entry=%.4f stop=%.4f target=%.4f order=%s",
		side, symbol, sizing.Quantity, sig.Entry, sig.Stop, sig.Target, order.OrderID)

	if c.tracker.Enter(next) {
		c.log.Info("state -> %s", next)
	}
	return true
}

// warnOnDrift flags disagreement between the local tracker and the
// exchange's reported positions. Diagnostic only: the tracker stays
// authoritative and no transition happens here.
func (c *core) warnOnDrift(ctx context.Context, symbol string) {
	if !c.tracker.InMarket() {
		return
	}
	positions, err := c.session.GetOpenPositions(ctx, symbol)
	if err != nil {
		return
	}
	if len(positions) == 0 {
		c.log.Warning("local state is %s but exchange reports no open position on %s",
			c.tracker.Current(), symbol)
	}
}

// exit returns the tracker to idle, logging the transition once.
func (c *core) exit(reason string) {
	if c.tracker.Exit() {
		c.log.Info("state -> %s (%s)", state.Idle, reason)
	}
}

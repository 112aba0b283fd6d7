package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ticksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_ticks_total",
			Help: "Total number of strategy evaluation cycles",
		},
		[]string{"strategy", "symbol"},
	)

	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_signals_total",
			Help: "Total number of actionable signals produced",
		},
		[]string{"strategy", "direction"},
	)

	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_orders_total",
			Help: "Total number of orders submitted to the exchange",
		},
		[]string{"strategy", "side"},
	)

	sizingRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_sizing_rejections_total",
			Help: "Total number of trades declined by the risk sizer",
		},
		[]string{"reason"},
	)

	taskFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_task_failures_total",
			Help: "Total number of strategy tasks terminated by error",
		},
		[]string{"strategy"},
	)

	cycleErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_cycle_errors_total",
			Help: "Total number of recoverable cycle errors",
		},
		[]string{"strategy", "category"},
	)

	accountBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_account_balance_usd",
			Help: "Last observed account balance in USD",
		},
	)

	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "engine_current_price",
			Help: "Last observed mid price per symbol",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(ticksTotal)
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(ordersTotal)
	prometheus.MustRegister(sizingRejectionsTotal)
	prometheus.MustRegister(taskFailuresTotal)
	prometheus.MustRegister(cycleErrorsTotal)
	prometheus.MustRegister(accountBalance)
	prometheus.MustRegister(currentPrice)
}

// RecordTick counts one evaluation cycle.
func RecordTick(strategy, symbol string) {
	ticksTotal.WithLabelValues(strategy, symbol).Inc()
}

// RecordSignal counts one actionable signal.
func RecordSignal(strategy, direction string) {
	signalsTotal.WithLabelValues(strategy, direction).Inc()
}

// RecordOrder counts one submitted order.
func RecordOrder(strategy, side string) {
	ordersTotal.WithLabelValues(strategy, side).Inc()
}

// RecordSizingRejection counts one declined sizing.
func RecordSizingRejection(reason string) {
	sizingRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordTaskFailure counts one terminated strategy task.
func RecordTaskFailure(strategy string) {
	taskFailuresTotal.WithLabelValues(strategy).Inc()
}

// RecordCycleError counts one recoverable cycle error.
func RecordCycleError(strategy, category string) {
	cycleErrorsTotal.WithLabelValues(strategy, category).Inc()
}

// UpdateBalance sets the balance gauge.
func UpdateBalance(balanceUSD float64) {
	accountBalance.Set(balanceUSD)
}

// UpdatePrice sets the per-symbol price gauge.
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// Serve exposes the Prometheus endpoint on the given port. It blocks,
// so callers run it in its own goroutine.
func Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

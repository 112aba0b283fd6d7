package journal

import (
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/quantnexus/nexus-trader/internal/gateway"
)

// Entry is one recorded order submission.
type Entry struct {
	Time       time.Time
	Strategy   string
	Symbol     string
	Side       string
	Type       string
	Quantity   float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	OrderID    string
}

// Journal is a thread-safe record of every order the engine submitted
// across all strategy instances during one session.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{}
}

// Record appends one submitted order.
func (j *Journal) Record(strategy string, req gateway.OrderRequest, order *gateway.Order) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, Entry{
		Time:       order.SubmittedAt,
		Strategy:   strategy,
		Symbol:     req.Symbol,
		Side:       string(req.Side),
		Type:       string(req.Type),
		Quantity:   req.Quantity,
		Price:      req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		OrderID:    order.OrderID,
	})
}

// Entries returns a copy of the recorded entries.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded orders.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// WriteSummary renders the session's orders as a console table.
func (j *Journal) WriteSummary(w io.Writer) {
	entries := j.Entries()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Time", "Strategy", "Symbol", "Side", "Type", "Qty", "Price", "Order ID"})
	for _, e := range entries {
		price := "market"
		if e.Price > 0 {
			price = formatFloat(e.Price)
		}
		t.AppendRow(table.Row{
			e.Time.Format("15:04:05"),
			e.Strategy,
			e.Symbol,
			e.Side,
			e.Type,
			formatFloat(e.Quantity),
			price,
			e.OrderID,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "orders", len(entries)})
	t.Render()
}

package journal

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexus/nexus-trader/internal/gateway"
)

func sampleOrder() (gateway.OrderRequest, *gateway.Order) {
	req := gateway.OrderRequest{
		Symbol:     "BTCUSDT",
		Side:       gateway.SideBuy,
		Type:       gateway.TypeMarket,
		Quantity:   0.5,
		StopLoss:   95,
		TakeProfit: 110,
	}
	order := &gateway.Order{
		OrderID:     "abc-123",
		Symbol:      "BTCUSDT",
		Side:        gateway.SideBuy,
		Type:        gateway.TypeMarket,
		Quantity:    0.5,
		SubmittedAt: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	return req, order
}

func TestRecordAndEntries(t *testing.T) {
	j := New()
	req, order := sampleOrder()

	j.Record("trend_following", req, order)

	require.Equal(t, 1, j.Len())
	entry := j.Entries()[0]
	assert.Equal(t, "trend_following", entry.Strategy)
	assert.Equal(t, "BTCUSDT", entry.Symbol)
	assert.Equal(t, "Buy", entry.Side)
	assert.Equal(t, 0.5, entry.Quantity)
	assert.Equal(t, "abc-123", entry.OrderID)
}

func TestEntriesReturnsCopy(t *testing.T) {
	j := New()
	req, order := sampleOrder()
	j.Record("trend_following", req, order)

	entries := j.Entries()
	entries[0].Strategy = "mutated"

	assert.Equal(t, "trend_following", j.Entries()[0].Strategy)
}

func TestWriteSummary(t *testing.T) {
	j := New()
	req, order := sampleOrder()
	j.Record("trend_following", req, order)

	var buf bytes.Buffer
	j.WriteSummary(&buf)

	out := buf.String()
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "trend_following")
	assert.Contains(t, out, "abc-123")
	assert.Contains(t, out, "market") // market orders have no limit price
}

func TestExportXLSX(t *testing.T) {
	j := New()
	req, order := sampleOrder()
	j.Record("trend_following", req, order)

	path := filepath.Join(t.TempDir(), "journal.xlsx")
	require.NoError(t, j.ExportXLSX(path))
	assert.FileExists(t, path)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/quantnexus/nexus-trader/internal/gateway/bybit"
)

// list-markets prints the tradable instruments for a Bybit category,
// useful when filling in the symbols lists of a config file.
func main() {
	category := flag.String("category", "linear", "Instrument category (linear, inverse, spot)")
	envFile := flag.String("env", ".env", "Environment file with API credentials")
	testnet := flag.Bool("testnet", false, "Use the testnet environment")
	demo := flag.Bool("demo", false, "Use the demo trading environment")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  No %s file found, using system environment", *envFile)
	}

	client := bybit.NewClient(bybit.Config{
		APIKey:    os.Getenv("BYBIT_API_KEY"),
		APISecret: os.Getenv("BYBIT_API_SECRET"),
		Category:  *category,
		Testnet:   *testnet,
		Demo:      *demo,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	instruments, err := client.ListInstruments(ctx)
	if err != nil {
		log.Fatalf("❌ Instrument fetch failed: %v", err)
	}

	fmt.Printf("📈 %d %s instruments on %s\n\n", len(instruments), *category, client.Environment())

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Symbol", "Base", "Quote", "Status", "Max Leverage"})
	for _, inst := range instruments {
		t.AppendRow(table.Row{
			inst.Symbol, inst.BaseCoin, inst.QuoteCoin, inst.Status,
			fmt.Sprintf("%.0fx", inst.MaxLeverage),
		})
	}
	t.Render()
}

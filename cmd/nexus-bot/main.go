package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/quantnexus/nexus-trader/internal/config"
	"github.com/quantnexus/nexus-trader/internal/gateway"
	"github.com/quantnexus/nexus-trader/internal/gateway/bybit"
	"github.com/quantnexus/nexus-trader/internal/journal"
	"github.com/quantnexus/nexus-trader/internal/logger"
	"github.com/quantnexus/nexus-trader/internal/monitoring"
	"github.com/quantnexus/nexus-trader/internal/orchestrator"
	"github.com/quantnexus/nexus-trader/internal/predictor"
	"github.com/quantnexus/nexus-trader/internal/strategy"
)

const (
	AppName    = "Nexus Trader"
	AppVersion = "1.0.0"
)

func main() {
	configFile := flag.String("config", "config.json", "Engine configuration file")
	envFile := flag.String("env", ".env", "Environment file with API credentials")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  No %s file found, using system environment", *envFile)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	lg, err := logger.New(cfg.LogDir)
	if err != nil {
		log.Fatalf("❌ Logger setup failed: %v", err)
	}
	defer lg.Close()

	client := bybit.NewClient(bybit.Config{
		APIKey:    cfg.Platform.APIKey,
		APISecret: cfg.Platform.APISecret,
		Category:  cfg.Platform.Category,
		Testnet:   cfg.Platform.Testnet,
		Demo:      cfg.Platform.Demo,

		SlippageCap: cfg.Platform.SlippageCap,
	})

	jrnl := journal.New()
	health := monitoring.NewHealthChecker()
	deps := strategy.Deps{
		Platform:   cfg.Platform,
		NewSession: func() gateway.Session { return client.NewSession() },
		Log:        lg,
		Journal:    jrnl,
		Health:     health,
		Predictor:  predictor.NewSimulated(),
	}

	tasks, err := orchestrator.BuildTasks(cfg, deps)
	if err != nil {
		log.Fatalf("❌ Strategy setup failed: %v", err)
	}
	if len(tasks) == 0 {
		log.Fatalf("❌ No enabled strategies in %s", *configFile)
	}

	printBanner(cfg, client.Environment(), tasks)
	startMonitoring(cfg, health, lg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		lg.Component("main").Info("received %s, shutting down", sig)
		cancel()
	}()

	orchestrator.New(tasks, health, lg).Run(ctx)

	finishJournal(cfg, jrnl, lg)
	fmt.Println("👋 Shutdown complete")
}

func startMonitoring(cfg *config.Config, health *monitoring.HealthChecker, lg *logger.Logger) {
	mlog := lg.Component("monitoring")

	go func() {
		if err := monitoring.Serve(cfg.Monitoring.MetricsPort); err != nil {
			mlog.Warning("metrics server stopped: %v", err)
		}
	}()
	go func() {
		if err := monitoring.ServeHealth(cfg.Monitoring.HealthPort, health); err != nil {
			mlog.Warning("health server stopped: %v", err)
		}
	}()
}

func printBanner(cfg *config.Config, environment string, tasks []orchestrator.Task) {
	fmt.Printf("🚀 %s v%s\n", AppName, AppVersion)
	fmt.Printf("   Environment: %s | Category: %s\n\n", environment, cfg.Platform.Category)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Task", "Strategy", "Symbol", "Tick"})
	for i, task := range tasks {
		t.AppendRow(table.Row{
			i + 1, task.Key, task.Strategy.Name(), task.Strategy.Symbol(), task.Interval,
		})
	}
	t.Render()
	fmt.Println()
}

func finishJournal(cfg *config.Config, jrnl *journal.Journal, lg *logger.Logger) {
	if jrnl.Len() == 0 {
		fmt.Println("📭 No orders were placed this session")
		return
	}

	fmt.Printf("\n📒 Trade journal (%d orders)\n", jrnl.Len())
	jrnl.WriteSummary(os.Stdout)

	if cfg.JournalXLSX == "" {
		return
	}
	if err := jrnl.ExportXLSX(cfg.JournalXLSX); err != nil {
		lg.Component("journal").Error("XLSX export failed: %v", err)
		return
	}
	fmt.Printf("💾 Journal exported to %s\n", cfg.JournalXLSX)
}

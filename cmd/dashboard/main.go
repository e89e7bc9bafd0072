package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"

	"openfx/internal/alert"
	"openfx/internal/collector"
	"openfx/internal/config"
	"openfx/internal/dashboard"
	"openfx/internal/history"
	"openfx/internal/logging"
	"openfx/internal/monitor"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Environment)
	defer log.Sync()

	var fetcher collector.Fetcher
	if cfg.DataSource.Provider == "mock" {
		fetcher = &collector.MockFetcher{}
	} else {
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Infow("data source selected", "provider", fetcher.Name())

	pairs, err := cfg.ParsedPairs()
	if err != nil {
		log.Fatalw("parse pairs", "error", err)
	}

	store := history.NewStore(cfg.History.MaxPoints)
	ring := alert.NewRing(cfg.History.MaxAlerts)
	col := collector.NewCollector(fetcher, store, cfg.Lookback, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := monitor.NewEngine(ctx, col, store, ring, pairs, time.Duration(cfg.Interval)*time.Second, log)

	// Fill the panes before the first frame.
	eng.RunCycleNow()
	if err := eng.Start(); err != nil {
		log.Fatalw("start engine", "error", err)
	}

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("OpenFX Dashboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(dashboard.NewGame(eng, store, ring)); err != nil {
		log.Fatalw("run dashboard", "error", err)
	}

	cancel()
	eng.Stop()
}

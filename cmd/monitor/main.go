package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"openfx/internal/alert"
	"openfx/internal/collector"
	"openfx/internal/config"
	"openfx/internal/history"
	"openfx/internal/logging"
	"openfx/internal/monitor"
	"openfx/internal/notifier"
)

func main() {
	_ = godotenv.Load()

	// Load config
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

	// Init fetcher
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
	eng.AddHook(notifier.NewCyclePrinter(os.Stdout, eng.Interval()))

	// Telegram is optional; the terminal printer already carries the
	// alert banners, so only the chat channel is added here.
	if cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		eng.AddNotifier(tn)
		go tn.StartPolling(ctx, eng.HandleCommand)
		log.Infow("telegram notifier enabled")
	}

	// Catch interrupts before the first cycle starts fetching.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Print(notifier.FormatStartBanner(len(pairs), cfg.Interval))

	// First cycle fires immediately, the cron schedule takes over after.
	eng.RunCycleNow()
	if err := eng.Start(); err != nil {
		log.Fatalw("start engine", "error", err)
	}

	<-sigCh

	cancel()
	eng.Stop()
	fmt.Print(notifier.FormatStopBanner(eng.Cycles()))
}

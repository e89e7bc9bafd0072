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
	"openfx/internal/web"
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

	srv := web.NewServer(eng, store, ring, cfg.Environment, log)
	eng.AddHook(srv)
	eng.AddNotifier(srv)
	eng.AddNotifier(notifier.NewTerminal(os.Stdout))

	if cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		eng.AddNotifier(tn)
		go tn.StartPolling(ctx, eng.HandleCommand)
		log.Infow("telegram notifier enabled")
	}

	// Catch interrupts before the first cycle starts fetching.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Seed the dashboard with one cycle before the schedule takes over.
	eng.RunCycleNow()
	if err := eng.Start(); err != nil {
		log.Fatalw("start engine", "error", err)
	}

	addr := ":" + cfg.Web.Port
	go func() {
		if err := srv.Run(addr); err != nil {
			log.Fatalw("web server", "error", err)
		}
	}()
	log.Infow("dashboard listening", "addr", addr)

	<-sigCh

	log.Infow("shutdown signal received")
	cancel()
	eng.Stop()

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Errorw("shutdown web server", "error", err)
	}
}

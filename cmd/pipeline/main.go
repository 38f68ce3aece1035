package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PricePulse/internal/collector"
	"PricePulse/internal/config"
	"PricePulse/internal/notifier"
	"PricePulse/internal/pipeline"
	"PricePulse/internal/recorder"
	"PricePulse/internal/scheduler"
	"PricePulse/internal/sink"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PricePulse starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "coingecko":
		fetcher = collector.NewCoinGeckoFetcher(cfg.Proxy)
	case "cryptocompare":
		fetcher = collector.NewCryptoCompareFetcher(cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init pipeline
	p := pipeline.New(ctx, fetcher, sink.NewFileSink(cfg.Output.Dir), rec, pipeline.Options{
		Tickers:     cfg.Pipeline.Tickers,
		Period:      cfg.Pipeline.Period,
		Interval:    cfg.Pipeline.Interval,
		MaxAttempts: cfg.Pipeline.MaxAttempts,
		BaseDelay:   cfg.RetryDelay(),
		TickerPause: cfg.TickerPause(),
	})
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		p.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] Telegram notification enabled")
	}

	// Run once and exit unless a cron schedule is configured
	if cfg.Schedule.Cron == "" {
		if err := p.Run(); err != nil {
			log.Fatalf("[FATAL] run failed: %v", err)
		}
		return
	}

	// Daemon mode
	sched := scheduler.NewScheduler(p)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing run now")
		go sched.RunNow()
	}

	log.Println("[INFO] PricePulse is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] PricePulse stopped")
}

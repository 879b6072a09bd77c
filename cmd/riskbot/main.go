package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/riskbot/config"
	"github.com/alejandrodnm/riskbot/internal/adapters/markets"
	"github.com/alejandrodnm/riskbot/internal/adapters/notify"
	"github.com/alejandrodnm/riskbot/internal/adapters/shadow"
	"github.com/alejandrodnm/riskbot/internal/adapters/storage"
	"github.com/alejandrodnm/riskbot/internal/engine"
	"github.com/alejandrodnm/riskbot/internal/ports"
	"github.com/alejandrodnm/riskbot/internal/scanner"
	"github.com/alejandrodnm/riskbot/internal/sizing"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one evaluation cycle and exit")
	dryRun := flag.Bool("dry-run", false, "use local fixtures instead of the live feed")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full evaluation table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("riskbot starting",
		"config", *configPath,
		"interval", cfg.CycleInterval(),
		"bankroll", cfg.Engine.BankrollUSD,
		"dry_run", *dryRun,
		"once", *once,
	)

	catalog, err := cfg.Catalog()
	if err != nil {
		slog.Error("failed to build venue catalog", "err", err)
		os.Exit(1)
	}

	var provider ports.MarketProvider
	if *dryRun {
		provider = markets.NewFixtureProvider()
	} else {
		provider = markets.NewClient(cfg.API.FeedBase, cfg.API.MarketLimit)
	}

	var store ports.Storage
	if !*dryRun {
		db, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	}

	notifier := notify.NewConsole(*table)
	sizer := sizing.New(cfg.SizerConfig())
	scan := scanner.New(catalog, 4)

	engineCfg := engine.Config{
		Interval:     cfg.CycleInterval(),
		Bankroll:     cfg.Engine.BankrollUSD,
		MaxDailyLoss: cfg.Engine.MaxDailyLossUSD,
		Limits:       cfg.GateLimits(),
		DryRun:       *dryRun || *once,
	}

	// Toda orden aceptada se simula en modo sombra; no hay conexión a
	// ningún venue real.
	eng := engine.New(engineCfg, catalog, scan, sizer, provider, shadow.NewExecutor(), notifier, store)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := eng.Run(ctx); err != nil {
		slog.Error("engine exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("riskbot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

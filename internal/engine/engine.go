// Package engine orquesta el ciclo de evaluación: fetch de mercados,
// scan multi-venue, sizing, gates de riesgo y entrega al executor.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/riskbot/internal/domain"
	"github.com/alejandrodnm/riskbot/internal/gates"
	"github.com/alejandrodnm/riskbot/internal/ports"
	"github.com/alejandrodnm/riskbot/internal/report"
	"github.com/alejandrodnm/riskbot/internal/scanner"
	"github.com/alejandrodnm/riskbot/internal/sizing"
)

// Config controla el comportamiento del engine.
type Config struct {
	Interval     time.Duration // intervalo entre ciclos
	Bankroll     float64       // capital disponible en USD
	MaxDailyLoss float64       // techo de pérdida diaria para el VaR
	Limits       gates.Limits
	DryRun       bool // ejecuta un solo ciclo y termina
}

// Engine es el orquestador del loop de evaluación.
// La exposición rodante vive aquí (una por sesión) y solo la actualiza
// el camino de aceptación; nunca es estado global del core de cálculo.
type Engine struct {
	cfg      Config
	catalog  *domain.Catalog
	scanner  *scanner.Scanner
	sizer    *sizing.Sizer
	exposure *gates.Exposure

	markets  ports.MarketProvider
	executor ports.Executor
	notifier ports.Notifier
	storage  ports.Storage
}

// New crea un Engine con todas las dependencias inyectadas.
// storage puede ser nil (modo dry-run sin persistencia).
func New(
	cfg Config,
	catalog *domain.Catalog,
	scan *scanner.Scanner,
	sizer *sizing.Sizer,
	markets ports.MarketProvider,
	executor ports.Executor,
	notifier ports.Notifier,
	storage ports.Storage,
) *Engine {
	return &Engine{
		cfg:      cfg,
		catalog:  catalog,
		scanner:  scan,
		sizer:    sizer,
		exposure: gates.NewExposure(),
		markets:  markets,
		executor: executor,
		notifier: notifier,
		storage:  storage,
	}
}

// Run ejecuta el loop de evaluación hasta que el contexto se cancele.
// Si cfg.DryRun está activo, solo ejecuta un ciclo.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"interval", e.cfg.Interval,
		"bankroll", e.cfg.Bankroll,
		"max_daily_loss", e.cfg.MaxDailyLoss,
		"dry_run", e.cfg.DryRun,
	)

	if err := e.runCycle(ctx); err != nil {
		slog.Error("evaluation cycle failed", "err", err)
		if e.cfg.DryRun {
			return err
		}
	}

	if e.cfg.DryRun {
		return nil
	}

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped")
			return nil
		case <-ticker.C:
			if err := e.runCycle(ctx); err != nil {
				slog.Error("evaluation cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve su resumen.
func (e *Engine) RunOnce(ctx context.Context) (report.Cycle, error) {
	return e.cycle(ctx)
}

// ResetSession descarta la exposición rodante al cerrar la sesión.
func (e *Engine) ResetSession() {
	e.exposure.Reset()
}

// runCycle ejecuta un ciclo completo y notifica/persiste los resultados.
func (e *Engine) runCycle(ctx context.Context) error {
	cycle, err := e.cycle(ctx)
	if err != nil {
		return err
	}

	if err := e.notifier.Notify(ctx, cycle); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if e.storage != nil {
		if err := e.storage.SaveCycle(ctx, cycle); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("evaluation cycle complete",
		"markets", cycle.Markets,
		"candidates", cycle.Scanned,
		"accepted", cycle.Accepted,
		"rejected", cycle.Rejected,
		"duration", cycle.Duration.Round(time.Millisecond),
	)
	return nil
}

// cycle hace fetch → scan → sizing → gates → execute para cada mercado.
func (e *Engine) cycle(ctx context.Context) (report.Cycle, error) {
	start := time.Now()

	markets, err := e.markets.FetchMarkets(ctx)
	if err != nil {
		return report.Cycle{}, fmt.Errorf("engine.cycle: fetch markets: %w", err)
	}

	scans, err := e.scanner.ScanVenues(ctx, markets)
	if err != nil {
		return report.Cycle{}, fmt.Errorf("engine.cycle: %w", err)
	}

	cycle := report.Cycle{
		StartedAt: start,
		Markets:   len(markets),
	}

	for i, scan := range scans {
		if !scan.HasBestVenue() {
			slog.Debug("no tradeable venue with positive edge", "market", scan.MarketID)
			continue
		}
		cycle.Scanned++

		eval, err := e.evaluate(ctx, markets[i], scan)
		if err != nil {
			// InvalidInput en un mercado no tumba el ciclo: se salta.
			if errors.Is(err, domain.ErrInvalidInput) {
				slog.Warn("skipping market", "market", scan.MarketID, "err", err)
				continue
			}
			return report.Cycle{}, err
		}

		if eval.Accepted() {
			cycle.Accepted++
		} else {
			cycle.Rejected++
		}
		cycle.Evaluations = append(cycle.Evaluations, eval)
	}

	cycle.Duration = time.Since(start)
	return cycle, nil
}

// evaluate dimensiona y valida un candidato; si pasa todos los gates lo
// entrega al executor.
func (e *Engine) evaluate(ctx context.Context, market domain.Market, scan domain.ScanResult) (report.Evaluation, error) {
	venue, err := e.catalog.Lookup(scan.BestVenue)
	if err != nil {
		// El best venue sale del propio catálogo; un lookup fallido aquí
		// es un bug de configuración y sí es fatal.
		return report.Evaluation{}, fmt.Errorf("engine.evaluate: %w", err)
	}

	edgePct := scan.BestEdge()
	res, err := e.sizer.OptimalPositionSize(e.cfg.Bankroll, edgePct, market.ImpliedOdds(), e.cfg.MaxDailyLoss, venue)
	if err != nil {
		return report.Evaluation{}, fmt.Errorf("engine.evaluate: size %s: %w", market.ID, err)
	}

	candidate := gates.Candidate{
		Market:  market,
		Venue:   venue,
		SizeUSD: res.FinalSize,
		EdgePct: edgePct,
	}
	gateReport := gates.Evaluate(candidate, e.cfg.Limits, e.exposure, time.Now())

	eval := report.Evaluation{
		Market: market,
		Scan:   scan,
		Sizing: res,
		Gates:  gateReport,
	}

	if !gateReport.Accepted {
		slog.Debug("candidate rejected",
			"market", market.ID,
			"venue", venue.Name,
			"failed_gates", gateReport.Failed(),
		)
		return eval, nil
	}

	trade := domain.TradeDescriptor{
		ID:       uuid.NewString(),
		MarketID: market.ID,
		Venue:    venue.Name,
		Side:     "yes",
		SizeUSD:  res.FinalSize,
		EdgePct:  edgePct,
		Method:   res.Method,
		Created:  time.Now(),
	}
	eval.Trade = &trade

	// El camino de aceptación es el único que toca la exposición.
	e.exposure.RecordOrder(market.ID, res.FinalSize, trade.Created)

	fill, err := e.executor.Execute(ctx, trade)
	if err != nil {
		slog.Warn("executor error", "trade", trade.ID, "market", market.ID, "err", err)
		return eval, nil
	}
	eval.Fill = &fill

	slog.Info("trade submitted",
		"trade", trade.ID,
		"market", market.ID,
		"venue", venue.Name,
		"size_usd", res.FinalSize,
		"method", res.Method.String(),
		"accepted", fill.Accepted,
	)
	return eval, nil
}

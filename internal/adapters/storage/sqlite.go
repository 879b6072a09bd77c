package storage

// sqlite.go — histórico ligero de ciclos y trades.
//
// Estrategia:
//   - `cycles`: resumen por ciclo de evaluación. Siempre 1 fila por ciclo.
//   - `trades`: una fila por trade aceptado. Los candidatos rechazados no
//     se persisten — el rechazo es el estado normal y no aporta señal
//     como histórico.
//   - Prune automático al arrancar: cycles > 30d, trades > 90d.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/riskbot/internal/ports"
	"github.com/alejandrodnm/riskbot/internal/report"
	_ "modernc.org/sqlite"
)

const schema = `
-- Resumen por ciclo de evaluación
CREATE TABLE IF NOT EXISTS cycles (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at DATETIME NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    markets    INTEGER  NOT NULL DEFAULT 0,
    candidates INTEGER  NOT NULL DEFAULT 0,
    accepted   INTEGER  NOT NULL DEFAULT 0,
    rejected   INTEGER  NOT NULL DEFAULT 0,
    best_edge  REAL     NOT NULL DEFAULT 0
);

-- Una fila por trade aceptado
CREATE TABLE IF NOT EXISTS trades (
    id        TEXT PRIMARY KEY,
    market_id TEXT NOT NULL,
    venue     TEXT NOT NULL,
    side      TEXT NOT NULL,
    size_usd  REAL NOT NULL,
    edge_pct  REAL NOT NULL,
    method    TEXT NOT NULL,
    placed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_at    ON cycles(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_trades_at    ON trades(placed_at DESC);
CREATE INDEX IF NOT EXISTS idx_trades_mkt   ON trades(market_id);
`

const (
	retentionCycles = 30 * 24 * time.Hour
	retentionTrades = 90 * 24 * time.Hour
)

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCycle persiste el resumen del ciclo y los trades aceptados.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, cycle report.Cycle) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (started_at, duration_ms, markets, candidates, accepted, rejected, best_edge)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cycle.StartedAt.UTC(),
		cycle.Duration.Milliseconds(),
		cycle.Markets,
		cycle.Scanned,
		cycle.Accepted,
		cycle.Rejected,
		cycle.BestEdge(),
	); err != nil {
		return fmt.Errorf("storage.SaveCycle: insert cycle: %w", err)
	}

	trades := acceptedTrades(cycle)
	if len(trades) == 0 {
		return nil // ciclo sin aceptados — el caso más común
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (id, market_id, venue, side, size_usd, edge_pct, method, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: prepare: %w", err)
	}
	defer stmt.Close()

	for _, eval := range trades {
		t := eval.Trade
		if _, err := stmt.ExecContext(ctx,
			t.ID,
			t.MarketID,
			t.Venue,
			t.Side,
			t.SizeUSD,
			t.EdgePct,
			t.Method.String(),
			t.Created.UTC(),
		); err != nil {
			return fmt.Errorf("storage.SaveCycle: insert trade %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveCycle: commit: %w", err)
	}
	return nil
}

// GetTrades devuelve los trades aceptados con placed_at en el rango dado,
// los más recientes primero.
func (s *SQLiteStorage) GetTrades(ctx context.Context, from, to time.Time) ([]ports.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, market_id, venue, size_usd, edge_pct, method, placed_at
		FROM trades
		WHERE placed_at BETWEEN ? AND ?
		ORDER BY placed_at DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetTrades: query: %w", err)
	}
	defer rows.Close()

	var records []ports.TradeRecord
	for rows.Next() {
		var r ports.TradeRecord
		var placedAt string
		if err := rows.Scan(
			&r.ID,
			&r.MarketID,
			&r.Venue,
			&r.SizeUSD,
			&r.EdgePct,
			&r.Method,
			&placedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.GetTrades: scan row: %w", err)
		}
		r.PlacedAt, _ = time.Parse(time.RFC3339, placedAt)
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// acceptedTrades filtra las evaluaciones con trade enviado.
func acceptedTrades(cycle report.Cycle) []report.Evaluation {
	var out []report.Evaluation
	for _, eval := range cycle.Evaluations {
		if eval.Trade != nil {
			out = append(out, eval)
		}
	}
	return out
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoffCycles := time.Now().UTC().Add(-retentionCycles)
	cutoffTrades := time.Now().UTC().Add(-retentionTrades)
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE started_at < ?`, cutoffCycles)
	s.db.ExecContext(ctx, `DELETE FROM trades WHERE placed_at < ?`, cutoffTrades)
}

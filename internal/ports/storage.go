package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/riskbot/internal/report"
)

// Storage persiste los resultados de cada ciclo de evaluación como
// artefacto de auditoría.
type Storage interface {
	// SaveCycle persiste el resumen del ciclo y los trades aceptados.
	SaveCycle(ctx context.Context, cycle report.Cycle) error

	// GetTrades devuelve los trades aceptados en el rango de tiempo dado.
	GetTrades(ctx context.Context, from, to time.Time) ([]TradeRecord, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}

// TradeRecord es la fila persistida de un trade aceptado.
type TradeRecord struct {
	ID       string
	MarketID string
	Venue    string
	SizeUSD  float64
	EdgePct  float64
	Method   string
	PlacedAt time.Time
}

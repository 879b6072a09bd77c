// Package report define los registros estructurados que produce cada
// ciclo de evaluación, consumidos por los adapters de notificación y
// persistencia.
package report

import (
	"time"

	"github.com/alejandrodnm/riskbot/internal/domain"
	"github.com/alejandrodnm/riskbot/internal/gates"
)

// Evaluation es el registro completo de un mercado evaluado en un ciclo:
// scan → sizing → gates → (si acepta) trade enviado al executor.
type Evaluation struct {
	Market domain.Market
	Scan   domain.ScanResult
	Sizing domain.SizingResult
	Gates  gates.Report
	Trade  *domain.TradeDescriptor // nil si el candidato fue rechazado
	Fill   *domain.Fill            // nil si no se envió o el executor falló
}

// Accepted devuelve true si el candidato pasó todos los gates.
func (e Evaluation) Accepted() bool {
	return e.Gates.Accepted
}

// Cycle es el resumen de un ciclo de evaluación completo.
type Cycle struct {
	StartedAt   time.Time
	Duration    time.Duration
	Markets     int // mercados recibidos del provider
	Scanned     int // mercados con best venue, candidatos a sizing
	Accepted    int
	Rejected    int
	Evaluations []Evaluation
}

// BestEdge devuelve el mayor edge entre los candidatos del ciclo.
func (c Cycle) BestEdge() float64 {
	best := 0.0
	for _, e := range c.Evaluations {
		if edge := e.Scan.BestEdge(); edge > best {
			best = edge
		}
	}
	return best
}

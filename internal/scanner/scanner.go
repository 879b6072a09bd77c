// Package scanner calcula el edge ajustado por fees de cada mercado en
// todos los venues configurados y selecciona el mejor venue operable.
package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// Scanner evalúa mercados contra el catálogo de venues.
// Es puro dado el catálogo (read-only tras el arranque): escanear dos
// veces la misma lista de mercados produce resultados idénticos.
type Scanner struct {
	catalog *domain.Catalog
	workers int
}

// New crea un Scanner sobre el catálogo dado.
// workers controla el paralelismo por mercado; <=0 lo desactiva.
func New(catalog *domain.Catalog, workers int) *Scanner {
	return &Scanner{catalog: catalog, workers: workers}
}

// ScanVenues produce un ScanResult por mercado de entrada, preservando
// el orden. Los mercados con snapshot inválido hacen fallar el scan
// completo con ErrInvalidInput: nunca se corrigen en silencio.
func (s *Scanner) ScanVenues(ctx context.Context, markets []domain.Market) ([]domain.ScanResult, error) {
	for _, m := range markets {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("scanner.ScanVenues: %w", err)
		}
	}

	results := make([]domain.ScanResult, len(markets))
	if s.workers > 1 && len(markets) > 1 {
		s.scanConcurrent(ctx, markets, results)
	} else {
		for i, m := range markets {
			results[i] = s.scanOne(m)
		}
	}

	slog.Debug("scan complete", "markets", len(markets), "venues", s.catalog.Len())
	return results, nil
}

// scanOne evalúa un mercado en todos los venues del catálogo.
func (s *Scanner) scanOne(m domain.Market) domain.ScanResult {
	venues := s.catalog.All()

	res := domain.ScanResult{
		MarketID:   m.ID,
		VenueEdges: make(map[string]domain.VenueEdge, len(venues)),
	}

	// Pesos del agregado: los configurados, normalizados a suma 1.
	// Si ningún venue declara peso, reparto uniforme.
	totalWeight := 0.0
	for _, v := range venues {
		totalWeight += v.Weight
	}

	var (
		bestName string
		best     domain.VenueConfig
		bestEdge float64
	)

	for _, v := range venues {
		// Edge ajustado por el fee del venue, no por el baseline del mercado.
		edgePct := (m.ImpliedProbYes - v.FeePct) * 100
		res.VenueEdges[v.Name] = domain.VenueEdge{
			EdgePct:   edgePct,
			Tradeable: v.Tradeable(),
		}

		w := v.Weight
		if totalWeight <= 0 {
			w = 1.0 / float64(len(venues))
		} else {
			w /= totalWeight
		}
		res.WeightedEdge += edgePct * w

		// Solo los venues tradeable compiten por best venue, y solo con
		// edge positivo. Desempates: mayor edge → menor fee → nombre.
		if !v.Tradeable() || edgePct <= 0 {
			continue
		}
		if bestName == "" || betterVenue(edgePct, v, bestEdge, best) {
			bestName, best, bestEdge = v.Name, v, edgePct
		}
	}

	res.BestVenue = bestName
	return res
}

// betterVenue decide si el candidato (edge, v) desplaza al actual.
func betterVenue(edge float64, v domain.VenueConfig, curEdge float64, cur domain.VenueConfig) bool {
	if edge != curEdge {
		return edge > curEdge
	}
	if v.FeePct != cur.FeePct {
		return v.FeePct < cur.FeePct
	}
	return v.Name < cur.Name
}

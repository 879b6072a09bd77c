package ports

import (
	"context"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// MarketProvider obtiene los snapshots de mercado para un ciclo de
// evaluación. Es el colaborador externo de datos: el core nunca hace
// I/O por su cuenta.
type MarketProvider interface {
	// FetchMarkets devuelve los mercados activos listados por la API.
	FetchMarkets(ctx context.Context) ([]domain.Market, error)
}

package markets

import (
	"context"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// FixtureProvider sirve un snapshot estático de mercados. Se usa en
// modo dry-run para ejercitar el pipeline completo sin red.
type FixtureProvider struct {
	markets []domain.Market
}

// NewFixtureProvider crea un provider con los mercados dados.
// Sin argumentos usa un set de ejemplo con edges variados.
func NewFixtureProvider(markets ...domain.Market) *FixtureProvider {
	if len(markets) == 0 {
		markets = defaultFixtures()
	}
	return &FixtureProvider{markets: markets}
}

// FetchMarkets devuelve una copia del snapshot.
func (p *FixtureProvider) FetchMarkets(_ context.Context) ([]domain.Market, error) {
	out := make([]domain.Market, len(p.markets))
	copy(out, p.markets)
	return out, nil
}

// defaultFixtures cubre los tres resultados típicos de un ciclo:
// un candidato aceptable, uno que caerá en gates y uno sin edge.
func defaultFixtures() []domain.Market {
	return []domain.Market{
		{
			ID:             "fixture-favorable",
			ImpliedProbYes: 0.65,
			ImpliedProbNo:  0.35,
			LiquidityUSD:   8000,
			HoursToEnd:     72,
		},
		{
			ID:             "fixture-illiquid",
			ImpliedProbYes: 0.70,
			ImpliedProbNo:  0.30,
			LiquidityUSD:   400,
			HoursToEnd:     48,
		},
		{
			ID:             "fixture-no-edge",
			ImpliedProbYes: 0.005,
			ImpliedProbNo:  0.995,
			LiquidityUSD:   12000,
			HoursToEnd:     120,
		},
	}
}

package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

func threeVenueCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog(
		domain.VenueConfig{Name: "kalshi", MinTradeUSD: 0.01, MaxTradeUSD: 100, FeePct: 0.07, Mode: domain.ModeTradeable},
		domain.VenueConfig{Name: "polymarket", MinTradeUSD: 1, MaxTradeUSD: 500, FeePct: 0.01, Mode: domain.ModeTradeable},
		domain.VenueConfig{Name: "predictit", MinTradeUSD: 1, MaxTradeUSD: 850, FeePct: 0.10, Mode: domain.ModeSentimentOnly},
	)
	require.NoError(t, err)
	return c
}

func makeMarket(id string, probYes float64) domain.Market {
	return domain.Market{
		ID:             id,
		ImpliedProbYes: probYes,
		ImpliedProbNo:  1 - probYes,
		LiquidityUSD:   5000,
		HoursToEnd:     72,
		FeesPct:        0.02,
	}
}

func TestScanVenues_OneResultPerMarketInOrder(t *testing.T) {
	s := New(threeVenueCatalog(t), 0)

	markets := []domain.Market{
		makeMarket("m1", 0.65),
		makeMarket("m2", 0.40),
		makeMarket("m3", 0.90),
	}
	results, err := s.ScanVenues(context.Background(), markets)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "m1", results[0].MarketID)
	assert.Equal(t, "m2", results[1].MarketID)
	assert.Equal(t, "m3", results[2].MarketID)
	for _, r := range results {
		assert.Len(t, r.VenueEdges, 3)
	}
}

func TestScanVenues_FeeAdjustedEdgePerVenue(t *testing.T) {
	s := New(threeVenueCatalog(t), 0)

	results, err := s.ScanVenues(context.Background(), []domain.Market{makeMarket("m1", 0.65)})
	require.NoError(t, err)
	r := results[0]

	// edge = (prob_yes - fee_del_venue) × 100
	assert.InDelta(t, 58.0, r.VenueEdges["kalshi"].EdgePct, 1e-9)
	assert.InDelta(t, 64.0, r.VenueEdges["polymarket"].EdgePct, 1e-9)
	assert.InDelta(t, 55.0, r.VenueEdges["predictit"].EdgePct, 1e-9)

	assert.True(t, r.VenueEdges["kalshi"].Tradeable)
	assert.True(t, r.VenueEdges["polymarket"].Tradeable)
	assert.False(t, r.VenueEdges["predictit"].Tradeable)
}

func TestScanVenues_SentimentOnlyNeverBestVenue(t *testing.T) {
	// Catálogo donde el venue de sentimiento tiene el fee más bajo y por
	// tanto el edge numéricamente más alto: aun así nunca es best venue.
	c, err := domain.NewCatalog(
		domain.VenueConfig{Name: "kalshi", MaxTradeUSD: 100, FeePct: 0.07, Mode: domain.ModeTradeable},
		domain.VenueConfig{Name: "polymarket", MaxTradeUSD: 500, FeePct: 0.01, Mode: domain.ModeTradeable},
		domain.VenueConfig{Name: "signalfeed", MaxTradeUSD: 850, FeePct: 0.001, Mode: domain.ModeSentimentOnly},
	)
	require.NoError(t, err)
	s := New(c, 0)

	results, err := s.ScanVenues(context.Background(), []domain.Market{makeMarket("m1", 0.65)})
	require.NoError(t, err)
	r := results[0]

	assert.Greater(t, r.VenueEdges["signalfeed"].EdgePct, r.VenueEdges["polymarket"].EdgePct)
	assert.Equal(t, "polymarket", r.BestVenue)
}

func TestScanVenues_WeightedEdgeIncludesSentimentVenues(t *testing.T) {
	s := New(threeVenueCatalog(t), 0)

	results, err := s.ScanVenues(context.Background(), []domain.Market{makeMarket("m1", 0.65)})
	require.NoError(t, err)

	// Pesos uniformes: (58 + 64 + 55) / 3
	assert.InDelta(t, 59.0, results[0].WeightedEdge, 1e-9)
}

func TestScanVenues_ConfiguredWeightsNormalized(t *testing.T) {
	c, err := domain.NewCatalog(
		domain.VenueConfig{Name: "a", MaxTradeUSD: 100, FeePct: 0.05, Mode: domain.ModeTradeable, Weight: 3},
		domain.VenueConfig{Name: "b", MaxTradeUSD: 100, FeePct: 0.15, Mode: domain.ModeTradeable, Weight: 1},
	)
	require.NoError(t, err)
	s := New(c, 0)

	results, err := s.ScanVenues(context.Background(), []domain.Market{makeMarket("m1", 0.65)})
	require.NoError(t, err)

	// a: edge 60, peso 0.75; b: edge 50, peso 0.25 → 57.5
	assert.InDelta(t, 57.5, results[0].WeightedEdge, 1e-9)
}

func TestScanVenues_NoBestVenueWhenNoPositiveEdge(t *testing.T) {
	s := New(threeVenueCatalog(t), 0)

	// prob_yes 0.05: todos los edges tradeable quedan <= 0.
	results, err := s.ScanVenues(context.Background(), []domain.Market{makeMarket("m1", 0.05)})
	require.NoError(t, err)
	assert.False(t, results[0].HasBestVenue())
	assert.Equal(t, "", results[0].BestVenue)
}

func TestScanVenues_NoBestVenueWithoutTradeableVenues(t *testing.T) {
	c, err := domain.NewCatalog(
		domain.VenueConfig{Name: "signal1", MaxTradeUSD: 100, FeePct: 0.01, Mode: domain.ModeSentimentOnly},
		domain.VenueConfig{Name: "signal2", MaxTradeUSD: 100, FeePct: 0.02, Mode: domain.ModeSentimentOnly},
	)
	require.NoError(t, err)
	s := New(c, 0)

	results, err := s.ScanVenues(context.Background(), []domain.Market{makeMarket("m1", 0.90)})
	require.NoError(t, err)
	assert.Equal(t, "", results[0].BestVenue)
}

func TestScanVenues_TieBrokenByLowestFeeThenName(t *testing.T) {
	// Mismo edge en dos venues: gana el de menor fee.
	c, err := domain.NewCatalog(
		domain.VenueConfig{Name: "zeta", MaxTradeUSD: 100, FeePct: 0.02, Mode: domain.ModeTradeable},
		domain.VenueConfig{Name: "alpha", MaxTradeUSD: 100, FeePct: 0.02, Mode: domain.ModeTradeable},
	)
	require.NoError(t, err)
	s := New(c, 0)

	results, err := s.ScanVenues(context.Background(), []domain.Market{makeMarket("m1", 0.65)})
	require.NoError(t, err)
	// Fees idénticos → desempate lexicográfico.
	assert.Equal(t, "alpha", results[0].BestVenue)
}

func TestScanVenues_Idempotent(t *testing.T) {
	s := New(threeVenueCatalog(t), 0)
	markets := []domain.Market{makeMarket("m1", 0.65), makeMarket("m2", 0.33)}

	first, err := s.ScanVenues(context.Background(), markets)
	require.NoError(t, err)
	second, err := s.ScanVenues(context.Background(), markets)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanVenues_ConcurrentMatchesSerial(t *testing.T) {
	markets := make([]domain.Market, 50)
	for i := range markets {
		markets[i] = makeMarket(string(rune('a'+i%26))+"-mkt", 0.30+float64(i)*0.01)
	}

	serial := New(threeVenueCatalog(t), 0)
	parallel := New(threeVenueCatalog(t), 8)

	a, err := serial.ScanVenues(context.Background(), markets)
	require.NoError(t, err)
	b, err := parallel.ScanVenues(context.Background(), markets)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestScanVenues_InvalidMarketRejected(t *testing.T) {
	s := New(threeVenueCatalog(t), 0)

	bad := makeMarket("m1", 1.30)
	_, err := s.ScanVenues(context.Background(), []domain.Market{bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

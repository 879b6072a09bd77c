package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_LookupKnown(t *testing.T) {
	c := NewDefaultCatalog()

	v, err := c.Lookup("kalshi")
	require.NoError(t, err)
	assert.Equal(t, 0.01, v.MinTradeUSD)
	assert.InDelta(t, 0.07, v.FeePct, 1e-9)
	assert.True(t, v.Tradeable())
}

func TestCatalog_LookupUnknown(t *testing.T) {
	c := NewDefaultCatalog()

	_, err := c.Lookup("betfair")
	require.Error(t, err)
	assert.True(t, IsUnknownVenue(err))
	assert.Contains(t, err.Error(), "betfair")
}

func TestCatalog_DefaultVenueModes(t *testing.T) {
	c := NewDefaultCatalog()

	pm, err := c.Lookup("polymarket")
	require.NoError(t, err)
	assert.Equal(t, ModeTradeable, pm.Mode)
	assert.InDelta(t, 0.01, pm.FeePct, 1e-9)
	assert.Equal(t, 1.00, pm.MinTradeUSD)

	pi, err := c.Lookup("predictit")
	require.NoError(t, err)
	assert.Equal(t, ModeSentimentOnly, pi.Mode)
	assert.False(t, pi.Tradeable())
	// El venue de señal tiene el cap y el fee más altos del catálogo.
	assert.InDelta(t, 0.10, pi.FeePct, 1e-9)
	assert.Greater(t, pi.MaxTradeUSD, pm.MaxTradeUSD)
}

func TestCatalog_PreservesRegistrationOrder(t *testing.T) {
	c, err := NewCatalog(
		VenueConfig{Name: "zeta", MaxTradeUSD: 10, Mode: ModeTradeable},
		VenueConfig{Name: "alpha", MaxTradeUSD: 10, Mode: ModeTradeable},
	)
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "zeta", all[0].Name)
	assert.Equal(t, "alpha", all[1].Name)
}

func TestCatalog_RejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(
		VenueConfig{Name: "kalshi", MaxTradeUSD: 10, Mode: ModeTradeable},
		VenueConfig{Name: "kalshi", MaxTradeUSD: 20, Mode: ModeTradeable},
	)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalog_RejectsBadBounds(t *testing.T) {
	_, err := NewCatalog(VenueConfig{Name: "bad", MinTradeUSD: 5, MaxTradeUSD: 1, Mode: ModeTradeable})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseVenueMode(t *testing.T) {
	m, err := ParseVenueMode("tradeable")
	require.NoError(t, err)
	assert.Equal(t, ModeTradeable, m)

	m, err = ParseVenueMode("sentiment_only")
	require.NoError(t, err)
	assert.Equal(t, ModeSentimentOnly, m)

	_, err = ParseVenueMode("paper")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarket_Validate(t *testing.T) {
	valid := Market{ID: "m1", ImpliedProbYes: 0.65, ImpliedProbNo: 0.35, LiquidityUSD: 5000, HoursToEnd: 48, FeesPct: 0.02}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.ImpliedProbYes = 1.2
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = valid
	bad.LiquidityUSD = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = valid
	bad.HoursToEnd = -0.5
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = valid
	bad.ID = ""
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)
}

func TestQuote_Spread(t *testing.T) {
	q := Quote{Bid: 0.60, Ask: 0.64}
	assert.InDelta(t, 0.0625, q.Spread(), 1e-9)

	assert.Equal(t, 0.0, Quote{}.Spread())
}

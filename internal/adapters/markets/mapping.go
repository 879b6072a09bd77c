package markets

import (
	"log/slog"
	"time"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// mapMarkets convierte los DTOs del feed a domain.Market, descartando
// los inactivos, los ya cerrados y los que no pasan validación.
func mapMarkets(entries []feedEntry, now time.Time) []domain.Market {
	markets := make([]domain.Market, 0, len(entries))
	for _, e := range entries {
		m, ok := mapMarket(e, now)
		if !ok {
			continue
		}
		if err := m.Validate(); err != nil {
			slog.Debug("discarding invalid market", "market", e.ID, "err", err)
			continue
		}
		markets = append(markets, m)
	}
	return markets
}

// mapMarket convierte un feedEntry a domain.Market.
func mapMarket(e feedEntry, now time.Time) (domain.Market, bool) {
	if !e.Active {
		return domain.Market{}, false
	}

	end, err := parseEndDate(e.EndDate)
	if err != nil {
		slog.Debug("discarding market with bad end date", "market", e.ID, "end_date", e.EndDate)
		return domain.Market{}, false
	}

	hoursToEnd := end.Sub(now).Hours()
	if hoursToEnd <= 0 {
		return domain.Market{}, false
	}

	return domain.Market{
		ID:             e.ID,
		ImpliedProbYes: e.ProbYes,
		ImpliedProbNo:  e.ProbNo,
		LiquidityUSD:   e.LiquidityUSD,
		HoursToEnd:     hoursToEnd,
		FeesPct:        e.FeePct,
	}, true
}

// parseEndDate acepta los formatos de fecha que usa el feed.
func parseEndDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02",
	} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

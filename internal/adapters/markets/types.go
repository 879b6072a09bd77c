package markets

// DTOs raw del feed de mercados. Solo se usan dentro de este paquete;
// la conversión a domain entities se hace en mapping.go.

// marketsResponse es la respuesta de GET /v1/markets.
type marketsResponse struct {
	Count   int         `json:"count"`
	Markets []feedEntry `json:"markets"`
}

// feedEntry es un mercado binario tal como lo publica el feed.
type feedEntry struct {
	ID           string  `json:"id"`
	Question     string  `json:"question"`
	ProbYes      float64 `json:"prob_yes"`
	ProbNo       float64 `json:"prob_no"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	FeePct       float64 `json:"fee_pct"`
	EndDate      string  `json:"end_date"` // RFC3339
	Active       bool    `json:"active"`
}

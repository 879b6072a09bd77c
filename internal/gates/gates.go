// Package gates implementa el pipeline de validación de riesgo pre-trade.
//
// Cada gate es un chequeo booleano independiente. Un solo gate fallido
// veta el trade, pero todos se evalúan siempre (sin short-circuit): el
// caller necesita el resultado de cada uno para diagnóstico. Que la
// mayoría de candidatos sea rechazada es el estado normal del sistema,
// así que un fallo de gate es dato, nunca error.
package gates

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// Nombres de los gates, en el orden fijo de evaluación.
const (
	GateLiquidity      = "liquidity"
	GateEdge           = "edge"
	GateHorizon        = "horizon"
	GateTradeSize      = "trade_size"
	GateSpread         = "spread"
	GateMarketExposure = "market_exposure"
	GateTotalExposure  = "total_exposure"
	GateOrderRate      = "order_rate"
)

// Limits son los umbrales configurados del pipeline.
// Un cap de exposición, spread o rate en 0 desactiva ese gate.
type Limits struct {
	LiquidityMinUSD         float64
	EdgeAfterFeesMinPct     float64
	MarketEndHrsMin         float64
	SpreadMax               float64 // spread relativo máximo (ask-bid)/ask
	MaxPerMarketExposureUSD float64
	MaxTotalExposureUSD     float64
	MaxOrdersPerMin         int
}

// DefaultLimits devuelve los caps conservadores de producción.
func DefaultLimits() Limits {
	return Limits{
		LiquidityMinUSD:         1000,
		EdgeAfterFeesMinPct:     2.0,
		MarketEndHrsMin:         24,
		SpreadMax:               0.10,
		MaxPerMarketExposureUSD: 10,
		MaxTotalExposureUSD:     50,
		MaxOrdersPerMin:         10,
	}
}

// Candidate es el trade propuesto que entra al pipeline.
type Candidate struct {
	Market  domain.Market
	Venue   domain.VenueConfig
	SizeUSD float64
	EdgePct float64       // edge ajustado por fees del venue seleccionado
	Quote   *domain.Quote // nil si no hay orderbook disponible
}

// GateResult es el veredicto individual de un gate.
type GateResult struct {
	Name   string
	Passed bool
	Detail string // motivo del fallo; vacío cuando pasa
}

// Report es el registro estructurado de la evaluación completa,
// apto para audit logging.
type Report struct {
	Results  []GateResult
	Accepted bool
}

// Failed devuelve los nombres de los gates que fallaron.
func (r Report) Failed() []string {
	var names []string
	for _, g := range r.Results {
		if !g.Passed {
			names = append(names, g.Name)
		}
	}
	return names
}

// Result devuelve el veredicto del gate con el nombre dado.
func (r Report) Result(name string) (GateResult, bool) {
	for _, g := range r.Results {
		if g.Name == name {
			return g, true
		}
	}
	return GateResult{}, false
}

// Evaluate corre los ocho gates contra el candidato y el estado rodante
// de la sesión. exposure puede ser nil (sesión sin estado previo).
// now es el instante de evaluación para la ventana de rate limiting.
func Evaluate(c Candidate, limits Limits, exposure *Exposure, now time.Time) Report {
	if exposure == nil {
		exposure = NewExposure()
	}

	results := []GateResult{
		liquidityGate(c, limits),
		edgeGate(c, limits),
		horizonGate(c, limits),
		tradeSizeGate(c),
		spreadGate(c, limits),
		marketExposureGate(c, limits, exposure),
		totalExposureGate(c, limits, exposure),
		orderRateGate(limits, exposure, now),
	}

	accepted := true
	for _, g := range results {
		if !g.Passed {
			accepted = false
		}
	}
	return Report{Results: results, Accepted: accepted}
}

func liquidityGate(c Candidate, limits Limits) GateResult {
	g := GateResult{Name: GateLiquidity, Passed: true}
	if c.Market.LiquidityUSD < limits.LiquidityMinUSD {
		g.Passed = false
		g.Detail = fmt.Sprintf("liquidity $%.2f below minimum $%.2f", c.Market.LiquidityUSD, limits.LiquidityMinUSD)
	}
	return g
}

func edgeGate(c Candidate, limits Limits) GateResult {
	g := GateResult{Name: GateEdge, Passed: true}
	if c.EdgePct < limits.EdgeAfterFeesMinPct {
		g.Passed = false
		g.Detail = fmt.Sprintf("edge %.2f%% below minimum %.2f%%", c.EdgePct, limits.EdgeAfterFeesMinPct)
	}
	return g
}

func horizonGate(c Candidate, limits Limits) GateResult {
	g := GateResult{Name: GateHorizon, Passed: true}
	if c.Market.HoursToEnd < limits.MarketEndHrsMin {
		g.Passed = false
		g.Detail = fmt.Sprintf("market ends in %.1fh, requires >=%.1fh", c.Market.HoursToEnd, limits.MarketEndHrsMin)
	}
	return g
}

func tradeSizeGate(c Candidate) GateResult {
	g := GateResult{Name: GateTradeSize, Passed: true}
	if c.SizeUSD < c.Venue.MinTradeUSD || c.SizeUSD > c.Venue.MaxTradeUSD {
		g.Passed = false
		g.Detail = fmt.Sprintf("size $%.2f outside venue bounds [$%.2f, $%.2f]",
			c.SizeUSD, c.Venue.MinTradeUSD, c.Venue.MaxTradeUSD)
	}
	return g
}

func spreadGate(c Candidate, limits Limits) GateResult {
	g := GateResult{Name: GateSpread, Passed: true}
	if c.Quote == nil || limits.SpreadMax <= 0 {
		// Sin orderbook no hay spread que chequear.
		return g
	}
	if spread := c.Quote.Spread(); spread > limits.SpreadMax {
		g.Passed = false
		g.Detail = fmt.Sprintf("spread %.4f above maximum %.4f", spread, limits.SpreadMax)
	}
	return g
}

func marketExposureGate(c Candidate, limits Limits, exposure *Exposure) GateResult {
	g := GateResult{Name: GateMarketExposure, Passed: true}
	if limits.MaxPerMarketExposureUSD <= 0 {
		return g
	}
	if after := exposure.PerMarket(c.Market.ID) + c.SizeUSD; after > limits.MaxPerMarketExposureUSD {
		g.Passed = false
		g.Detail = fmt.Sprintf("market exposure $%.2f would exceed cap $%.2f", after, limits.MaxPerMarketExposureUSD)
	}
	return g
}

func totalExposureGate(c Candidate, limits Limits, exposure *Exposure) GateResult {
	g := GateResult{Name: GateTotalExposure, Passed: true}
	if limits.MaxTotalExposureUSD <= 0 {
		return g
	}
	if after := exposure.Total() + c.SizeUSD; after > limits.MaxTotalExposureUSD {
		g.Passed = false
		g.Detail = fmt.Sprintf("total exposure $%.2f would exceed cap $%.2f", after, limits.MaxTotalExposureUSD)
	}
	return g
}

func orderRateGate(limits Limits, exposure *Exposure, now time.Time) GateResult {
	g := GateResult{Name: GateOrderRate, Passed: true}
	if limits.MaxOrdersPerMin <= 0 {
		return g
	}
	if n := exposure.OrdersInWindow(now); n >= limits.MaxOrdersPerMin {
		g.Passed = false
		g.Detail = fmt.Sprintf("%d orders in trailing window, max %d/min", n, limits.MaxOrdersPerMin)
	}
	return g
}

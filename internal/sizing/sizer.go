// Package sizing combina la fracción de Kelly, el VaR Monte Carlo y los
// límites del venue en un único tamaño final de trade.
package sizing

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/riskbot/internal/domain"
	"github.com/alejandrodnm/riskbot/internal/montecarlo"
)

// Config define el horizonte de planificación del chequeo de VaR.
type Config struct {
	TradesPerDay int     // trades esperados en el horizonte diario
	NSims        int     // paths Monte Carlo por estimación
	Confidence   float64 // nivel de confianza del VaR
	Seed         uint64  // semilla fija: el sizing debe ser reproducible
	Workers      int     // paralelismo de la simulación; <=0 auto
}

// DefaultConfig devuelve un horizonte de planificación sensato.
func DefaultConfig() Config {
	return Config{
		TradesPerDay: 20,
		NSims:        5000,
		Confidence:   0.95,
		Seed:         42,
	}
}

// Sizer calcula tamaños de posición bajo las tres restricciones:
// Kelly, techo de VaR diario y límites del venue.
type Sizer struct {
	cfg Config
}

// New crea un Sizer con la configuración dada, aplicando defaults a los
// campos sin valor.
func New(cfg Config) *Sizer {
	def := DefaultConfig()
	if cfg.TradesPerDay <= 0 {
		cfg.TradesPerDay = def.TradesPerDay
	}
	if cfg.NSims <= 0 {
		cfg.NSims = def.NSims
	}
	if cfg.Confidence <= 0 || cfg.Confidence >= 1 {
		cfg.Confidence = def.Confidence
	}
	return &Sizer{cfg: cfg}
}

// OptimalPositionSize devuelve el stake final para un candidato.
//
// kellySize = KellyFraction(edge, odds) × bankroll. varLimit es el mayor
// stake cuyo VaR diario no supera maxDailyLoss: como el VaR a semilla
// fija es lineal en el stake, basta estimar el VaR a stake unitario y
// escalar. El final es min(kelly, var) recortado a los límites del
// venue, con Method registrando qué restricción mandó.
//
// Un kellySize de 0 (sin edge) se eleva al mínimo del venue solo si el
// venue permite el trade de sondeo (AllowMinProbe); si no, FinalSize es
// 0. El orquestador nunca se niega a dimensionar: rechazar el trade es
// trabajo del pipeline de gates aguas abajo.
func (s *Sizer) OptimalPositionSize(bankroll, edgePct, odds, maxDailyLoss float64, venue domain.VenueConfig) (domain.SizingResult, error) {
	if bankroll < 0 {
		return domain.SizingResult{}, fmt.Errorf("sizing: negative bankroll %.2f: %w", bankroll, domain.ErrInvalidInput)
	}
	if maxDailyLoss < 0 {
		return domain.SizingResult{}, fmt.Errorf("sizing: negative max_daily_loss %.2f: %w", maxDailyLoss, domain.ErrInvalidInput)
	}
	if err := venue.Validate(); err != nil {
		return domain.SizingResult{}, fmt.Errorf("sizing: %w", err)
	}

	frac, err := domain.KellyFraction(edgePct, odds)
	if err != nil {
		return domain.SizingResult{}, fmt.Errorf("sizing: %w", err)
	}
	kellySize := frac * bankroll

	varLimit, err := s.varLimit(bankroll, edgePct, maxDailyLoss)
	if err != nil {
		return domain.SizingResult{}, err
	}

	res := domain.SizingResult{
		KellySize: kellySize,
		VaRLimit:  varLimit,
	}

	if kellySize == 0 && !venue.AllowMinProbe {
		res.FinalSize = 0
		res.Method = domain.MethodKelly
		return res, nil
	}

	pre := math.Min(kellySize, varLimit)
	switch {
	case pre < venue.MinTradeUSD:
		res.FinalSize = venue.MinTradeUSD
		res.Method = domain.MethodVenueMinClamp
	case pre > venue.MaxTradeUSD:
		res.FinalSize = venue.MaxTradeUSD
		res.Method = domain.MethodVenueMaxClamp
	default:
		res.FinalSize = pre
		if varLimit < kellySize {
			res.Method = domain.MethodVaRConstrained
		} else {
			res.Method = domain.MethodKelly
		}
	}
	return res, nil
}

// varLimit devuelve el mayor stake por trade cuyo VaR sobre el horizonte
// diario no supera maxDailyLoss.
func (s *Sizer) varLimit(bankroll, edgePct, maxDailyLoss float64) (float64, error) {
	res, err := montecarlo.VaR(montecarlo.Params{
		Bankroll:   bankroll,
		EdgePct:    edgePct,
		TradeSize:  1.0,
		NTrades:    s.cfg.TradesPerDay,
		NSims:      s.cfg.NSims,
		Confidence: s.cfg.Confidence,
		Seed:       s.cfg.Seed,
		Workers:    s.cfg.Workers,
	})
	if err != nil {
		return 0, fmt.Errorf("sizing: var estimate: %w", err)
	}
	if res.VaRUSD <= 0 {
		// VaR cero a cualquier stake: la restricción no acota nada.
		return math.Inf(1), nil
	}
	return maxDailyLoss / res.VaRUSD, nil
}

package domain

import "fmt"

// KellyFraction calcula la fracción óptima de bankroll para una apuesta
// binaria con el edge y payout dados.
//
// Forma reducida del criterio de Kelly f* = (p·b − q) / b con
// p = edgePct/100 y b = odds − 1:
//
//	f = (edgePct/100 × odds − (1 − edgePct/100)) / odds
//
// edgePct es el edge esperado después de fees, en puntos porcentuales
// (58.0 = 58%). odds es el payout decimal (ej: 1/prob implícita).
//
// Si la fracción calculada es <= 0 (incluye edge cero o negativo)
// devuelve exactamente 0.0: este camino nunca recomienda shortear
// oportunidades sin edge. No aplica techo; el clamp superior es
// responsabilidad del orquestador de sizing.
//
// odds <= 1 degenera el denominador de Kelly y se rechaza como
// ErrInvalidInput en vez de producir NaN/Inf.
func KellyFraction(edgePct, odds float64) (float64, error) {
	if odds <= 1 {
		return 0, fmt.Errorf("domain.KellyFraction: odds %.4f <= 1: %w", odds, ErrInvalidInput)
	}
	p := edgePct / 100.0
	f := (p*odds - (1.0 - p)) / odds
	if f <= 0 {
		return 0.0, nil
	}
	return f, nil
}

package domain

import "fmt"

// Market es el snapshot inmutable de un mercado de predicción binario.
// Lo crea el colaborador de fetch una vez por ciclo de evaluación;
// nunca se muta después.
type Market struct {
	ID             string
	ImpliedProbYes float64 // precio implícito del lado YES, en [0,1]
	ImpliedProbNo  float64 // precio implícito del lado NO, en [0,1]
	LiquidityUSD   float64 // liquidez disponible en USD
	HoursToEnd     float64 // horas hasta la resolución
	FeesPct        float64 // fee baseline del mercado (fracción, ej: 0.02)
}

// Quote es la mejor cotización del orderbook para un mercado, cuando existe.
// El gate de spread solo se evalúa si hay Quote disponible.
type Quote struct {
	Bid float64
	Ask float64
}

// Spread devuelve el spread relativo (ask - bid) / ask.
// Devuelve 0 si el ask no es positivo.
func (q Quote) Spread() float64 {
	if q.Ask <= 0 {
		return 0
	}
	return (q.Ask - q.Bid) / q.Ask
}

// Validate verifica los invariantes numéricos del snapshot.
// Devuelve ErrInvalidInput envuelto con el campo ofensor.
func (m Market) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("market.Validate: empty id: %w", ErrInvalidInput)
	}
	if m.ImpliedProbYes < 0 || m.ImpliedProbYes > 1 {
		return fmt.Errorf("market.Validate: implied_prob_yes %.4f outside [0,1]: %w", m.ImpliedProbYes, ErrInvalidInput)
	}
	if m.ImpliedProbNo < 0 || m.ImpliedProbNo > 1 {
		return fmt.Errorf("market.Validate: implied_prob_no %.4f outside [0,1]: %w", m.ImpliedProbNo, ErrInvalidInput)
	}
	if m.LiquidityUSD < 0 {
		return fmt.Errorf("market.Validate: negative liquidity %.2f: %w", m.LiquidityUSD, ErrInvalidInput)
	}
	if m.HoursToEnd < 0 {
		return fmt.Errorf("market.Validate: negative hours_to_end %.2f: %w", m.HoursToEnd, ErrInvalidInput)
	}
	if m.FeesPct < 0 {
		return fmt.Errorf("market.Validate: negative fees_pct %.4f: %w", m.FeesPct, ErrInvalidInput)
	}
	return nil
}

// ImpliedOdds devuelve el payout decimal implícito del lado YES (1/prob).
// Devuelve 0 si la probabilidad no es positiva.
func (m Market) ImpliedOdds() float64 {
	if m.ImpliedProbYes <= 0 {
		return 0
	}
	return 1.0 / m.ImpliedProbYes
}

// Package shadow implementa un executor simulado: acepta toda orden sin
// tocar ningún venue real. Es el modo por defecto del bot.
package shadow

import (
	"context"
	"sync"
	"time"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// Executor simula fills inmediatos y completos.
type Executor struct {
	mu     sync.Mutex
	trades []domain.TradeDescriptor
}

// NewExecutor crea un executor en modo sombra.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute registra el trade y devuelve un fill completo simulado.
func (e *Executor) Execute(_ context.Context, trade domain.TradeDescriptor) (domain.Fill, error) {
	e.mu.Lock()
	e.trades = append(e.trades, trade)
	e.mu.Unlock()

	return domain.Fill{
		TradeID:   trade.ID,
		Accepted:  true,
		FilledUSD: trade.SizeUSD,
		Reason:    "shadow fill",
		At:        time.Now(),
	}, nil
}

// Trades devuelve una copia de los trades simulados hasta el momento.
func (e *Executor) Trades() []domain.TradeDescriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.TradeDescriptor, len(e.trades))
	copy(out, e.trades)
	return out
}

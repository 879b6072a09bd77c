package ports

import (
	"context"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// Executor es el venue de ejecución externo: recibe una orden ya
// validada por los gates y devuelve el fill o el rechazo del venue.
// La conectividad real con exchanges queda fuera de este core.
type Executor interface {
	// Execute envía el trade al venue y devuelve el resultado.
	Execute(ctx context.Context, trade domain.TradeDescriptor) (domain.Fill, error)
}

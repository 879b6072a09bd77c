package ports

import (
	"context"

	"github.com/alejandrodnm/riskbot/internal/report"
)

// Notifier presenta el resultado de un ciclo de evaluación al usuario.
type Notifier interface {
	// Notify muestra las evaluaciones del ciclo.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, cycle report.Cycle) error
}

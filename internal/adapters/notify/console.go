// Package notify implementa ports.Notifier sobre la consola.
package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/riskbot/internal/report"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el resumen del ciclo en el modo configurado.
func (c *Console) Notify(_ context.Context, cycle report.Cycle) error {
	if len(cycle.Evaluations) == 0 {
		fmt.Fprintf(c.out, "[%s] %d markets scanned, no candidates\n",
			cycle.StartedAt.Format("15:04:05"), cycle.Markets)
		return nil
	}

	if c.table {
		c.printFull(cycle)
	} else {
		c.printCompact(cycle)
	}
	return nil
}

// printCompact imprime el ciclo en una sola línea.
func (c *Console) printCompact(cycle report.Cycle) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d mkts → cand:%d acc:%d rej:%d best:%.2f%%",
		cycle.StartedAt.Format("15:04:05"),
		cycle.Markets, cycle.Scanned, cycle.Accepted, cycle.Rejected,
		cycle.BestEdge(),
	)

	shown := 0
	for _, eval := range cycle.Evaluations {
		if !eval.Accepted() || shown >= 4 {
			continue
		}
		fmt.Fprintf(&sb, " | %s@%s $%.2f %s",
			compactName(eval.Market.ID, 20),
			eval.Scan.BestVenue,
			eval.Sizing.FinalSize,
			eval.Sizing.Method,
		)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de evaluaciones del ciclo.
func (c *Console) printFull(cycle report.Cycle) {
	fmt.Fprintf(c.out, "\n[%s] %d markets — candidates:%d accepted:%d rejected:%d (%s)\n",
		cycle.StartedAt.Format("15:04:05"),
		cycle.Markets, cycle.Scanned, cycle.Accepted, cycle.Rejected,
		cycle.Duration.Round(time.Millisecond),
	)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Venue", "Edge%", "Kelly$", "VaR cap$", "Size$", "Method", "Status", "Failed gates")

	for i, eval := range cycle.Evaluations {
		varCap := fmt.Sprintf("$%.2f", eval.Sizing.VaRLimit)
		if math.IsInf(eval.Sizing.VaRLimit, 1) {
			varCap = "INF"
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			compactName(eval.Market.ID, 30),
			eval.Scan.BestVenue,
			fmt.Sprintf("%.2f", eval.Scan.BestEdge()),
			fmt.Sprintf("$%.2f", eval.Sizing.KellySize),
			varCap,
			fmt.Sprintf("$%.2f", eval.Sizing.FinalSize),
			eval.Sizing.Method.String(),
			status(eval),
			strings.Join(eval.Gates.Failed(), ","),
		)
	}

	table.Render()
	fmt.Fprintln(c.out, "  Kelly$ = tamaño sin restricciones | VaR cap$ = techo por pérdida diaria")
	fmt.Fprintln(c.out, "  Method: qué restricción fijó el tamaño final")
}

// status resume el desenlace de una evaluación.
func status(eval report.Evaluation) string {
	switch {
	case !eval.Accepted():
		return "REJECTED"
	case eval.Fill != nil && eval.Fill.Accepted:
		return "FILLED"
	case eval.Fill != nil:
		return "NO FILL"
	default:
		return "ACCEPTED"
	}
}

// compactName trunca un identificador largo para la tabla.
func compactName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	return name[:max-1] + "…"
}

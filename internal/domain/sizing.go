package domain

import "fmt"

// SizingMethod registra qué restricción determinó el tamaño final.
type SizingMethod int

const (
	// MethodKelly: ni el VaR ni los límites del venue acotaron el Kelly.
	MethodKelly SizingMethod = iota
	// MethodVaRConstrained: el límite de VaR fue menor que el Kelly.
	MethodVaRConstrained
	// MethodVenueMinClamp: el mínimo del venue elevó el tamaño.
	MethodVenueMinClamp
	// MethodVenueMaxClamp: el máximo del venue recortó el tamaño.
	MethodVenueMaxClamp
)

// String implementa fmt.Stringer para logging y persistencia.
func (m SizingMethod) String() string {
	switch m {
	case MethodKelly:
		return "kelly"
	case MethodVaRConstrained:
		return "var_constrained"
	case MethodVenueMinClamp:
		return "venue_min_clamp"
	case MethodVenueMaxClamp:
		return "venue_max_clamp"
	default:
		return fmt.Sprintf("SizingMethod(%d)", int(m))
	}
}

// SizingResult es el output del orquestador de sizing.
// Se recalcula en cada llamada; no se persiste como estado.
type SizingResult struct {
	KellySize float64      // stake USD recomendado por Kelly, sin techo
	VaRLimit  float64      // stake USD máximo que respeta el límite de VaR
	FinalSize float64      // stake final, siempre dentro de los límites del venue
	Method    SizingMethod // restricción que determinó FinalSize
}

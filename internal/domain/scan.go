package domain

// VenueEdge es el resultado del scan de un mercado en un venue concreto.
type VenueEdge struct {
	EdgePct   float64 // edge esperado ajustado por el fee del venue, en %
	Tradeable bool    // true si y solo si venue.Mode == ModeTradeable
}

// ScanResult es el resultado agregado del scan de un mercado en todos
// los venues configurados.
//
// Invariante: BestVenue, si existe, siempre tiene Mode == ModeTradeable.
// Los venues sentiment-only aportan su edge a WeightedEdge pero nunca
// son BestVenue, aunque su edge sea el más alto.
type ScanResult struct {
	MarketID     string
	VenueEdges   map[string]VenueEdge // una entrada por venue configurado
	WeightedEdge float64              // edge agregado ponderado, todos los venues
	BestVenue    string               // venue tradeable con mayor edge; "" si no hay
}

// HasBestVenue devuelve true si algún venue tradeable tiene edge positivo.
func (r ScanResult) HasBestVenue() bool {
	return r.BestVenue != ""
}

// BestEdge devuelve el edge del best venue, o 0 si no hay best venue.
func (r ScanResult) BestEdge() float64 {
	if r.BestVenue == "" {
		return 0
	}
	return r.VenueEdges[r.BestVenue].EdgePct
}

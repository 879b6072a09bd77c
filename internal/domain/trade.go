package domain

import "time"

// TradeDescriptor es la orden validada que se entrega al venue de
// ejecución externo. Solo se construye para candidatos que pasaron
// todos los gates.
type TradeDescriptor struct {
	ID       string // uuid asignado por el engine
	MarketID string
	Venue    string
	Side     string  // "yes" | "no"
	SizeUSD  float64 // stake final del orquestador de sizing
	EdgePct  float64 // edge del venue seleccionado en el momento del scan
	Method   SizingMethod
	Created  time.Time
}

// Fill es la respuesta del venue de ejecución a un TradeDescriptor.
type Fill struct {
	TradeID   string
	Accepted  bool
	FilledUSD float64
	AvgPrice  float64
	Reason    string // motivo del rechazo cuando Accepted es false
	At        time.Time
}

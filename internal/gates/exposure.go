package gates

import "time"

// rateWindow es la ventana deslizante del gate de frecuencia de órdenes.
const rateWindow = time.Minute

// Exposure es el estado rodante de exposición y frecuencia de órdenes.
//
// Lo posee el caller, no el pipeline: se crea una vez por sesión de
// trading, lo actualiza únicamente el camino de aceptación (RecordOrder)
// y se descarta o resetea en los límites de sesión. Nunca es un global
// escondido dentro de la lógica de sizing o scanning.
type Exposure struct {
	perMarket  map[string]float64
	total      float64
	orderTimes []time.Time
}

// NewExposure crea un estado de sesión vacío.
func NewExposure() *Exposure {
	return &Exposure{perMarket: make(map[string]float64)}
}

// RecordOrder registra una orden aceptada: suma la exposición y anota el
// timestamp para la ventana de rate limiting.
func (e *Exposure) RecordOrder(marketID string, sizeUSD float64, at time.Time) {
	e.perMarket[marketID] += sizeUSD
	e.total += sizeUSD
	e.orderTimes = append(e.orderTimes, at)
	e.prune(at)
}

// PerMarket devuelve la exposición acumulada en un mercado.
func (e *Exposure) PerMarket(marketID string) float64 {
	return e.perMarket[marketID]
}

// Total devuelve la exposición total de la sesión.
func (e *Exposure) Total() float64 {
	return e.total
}

// OrdersInWindow cuenta las órdenes dentro de la ventana deslizante que
// termina en now.
func (e *Exposure) OrdersInWindow(now time.Time) int {
	n := 0
	for _, ts := range e.orderTimes {
		if now.Sub(ts) < rateWindow {
			n++
		}
	}
	return n
}

// Reset limpia todo el estado al cerrar la sesión.
func (e *Exposure) Reset() {
	e.perMarket = make(map[string]float64)
	e.total = 0
	e.orderTimes = e.orderTimes[:0]
}

// prune descarta timestamps ya fuera de la ventana.
func (e *Exposure) prune(now time.Time) {
	keep := e.orderTimes[:0]
	for _, ts := range e.orderTimes {
		if now.Sub(ts) < rateWindow {
			keep = append(keep, ts)
		}
	}
	e.orderTimes = keep
}

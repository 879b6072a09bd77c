package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marca inputs numéricos fuera de rango (probabilidades
// fuera de [0,1], odds <= 1, liquidez negativa, n_sims <= 0).
// Siempre se rechaza de forma síncrona; nunca se corrige en silencio.
var ErrInvalidInput = errors.New("invalid input")

// UnknownVenueError indica que el venue pedido no existe en el catálogo.
// El engine nunca asume un venue por defecto en silencio.
type UnknownVenueError struct {
	Name string
}

func (e UnknownVenueError) Error() string {
	return fmt.Sprintf("unknown venue %q", e.Name)
}

// IsUnknownVenue devuelve true si err (o su cadena) es un UnknownVenueError.
func IsUnknownVenue(err error) bool {
	var uv UnknownVenueError
	return errors.As(err, &uv)
}

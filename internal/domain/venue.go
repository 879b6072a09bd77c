package domain

import "fmt"

// VenueMode indica si un venue recibe capital real o solo aporta señal.
// Es un enum cerrado: la exclusión de venues sentiment-only la fuerza el
// tipo, no una comparación de strings.
type VenueMode int

const (
	// ModeTradeable: el venue acepta órdenes reales.
	ModeTradeable VenueMode = iota
	// ModeSentimentOnly: el precio se usa como señal, nunca se opera.
	ModeSentimentOnly
)

// String implementa fmt.Stringer para logging.
func (m VenueMode) String() string {
	switch m {
	case ModeTradeable:
		return "tradeable"
	case ModeSentimentOnly:
		return "sentiment_only"
	default:
		return fmt.Sprintf("VenueMode(%d)", int(m))
	}
}

// ParseVenueMode convierte el string de config en el enum.
func ParseVenueMode(s string) (VenueMode, error) {
	switch s {
	case "tradeable":
		return ModeTradeable, nil
	case "sentiment_only":
		return ModeSentimentOnly, nil
	default:
		return 0, fmt.Errorf("domain.ParseVenueMode: unknown mode %q: %w", s, ErrInvalidInput)
	}
}

// VenueConfig es el registro estático de un venue. Se carga una vez al
// arrancar el proceso y es de solo lectura después.
type VenueConfig struct {
	Name          string
	MinTradeUSD   float64
	MaxTradeUSD   float64
	FeePct        float64 // fracción, ej: 0.07 = 7%
	Mode          VenueMode
	Weight        float64 // peso en el edge agregado; 0 = peso uniforme
	AllowMinProbe bool    // permite el trade mínimo de sondeo cuando Kelly da 0
}

// Tradeable devuelve true si el venue puede recibir capital real.
func (v VenueConfig) Tradeable() bool {
	return v.Mode == ModeTradeable
}

// Validate verifica los invariantes del registro.
func (v VenueConfig) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("venue.Validate: empty name: %w", ErrInvalidInput)
	}
	if v.MinTradeUSD < 0 || v.MaxTradeUSD < 0 || v.MinTradeUSD > v.MaxTradeUSD {
		return fmt.Errorf("venue.Validate: %s: bad trade bounds [%.2f, %.2f]: %w",
			v.Name, v.MinTradeUSD, v.MaxTradeUSD, ErrInvalidInput)
	}
	if v.FeePct < 0 {
		return fmt.Errorf("venue.Validate: %s: negative fee %.4f: %w", v.Name, v.FeePct, ErrInvalidInput)
	}
	if v.Weight < 0 {
		return fmt.Errorf("venue.Validate: %s: negative weight %.4f: %w", v.Name, v.Weight, ErrInvalidInput)
	}
	return nil
}

// Catalog es el mapping estático venue → VenueConfig.
// Preserva el orden de registro: los desempates del edge agregado se
// resuelven por el primer venue listado.
type Catalog struct {
	order  []string
	venues map[string]VenueConfig
}

// NewCatalog construye un Catalog validando cada venue y rechazando
// identificadores duplicados.
func NewCatalog(venues ...VenueConfig) (*Catalog, error) {
	c := &Catalog{venues: make(map[string]VenueConfig, len(venues))}
	for _, v := range venues {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("domain.NewCatalog: %w", err)
		}
		if _, dup := c.venues[v.Name]; dup {
			return nil, fmt.Errorf("domain.NewCatalog: duplicate venue %q: %w", v.Name, ErrInvalidInput)
		}
		c.order = append(c.order, v.Name)
		c.venues[v.Name] = v
	}
	return c, nil
}

// Lookup devuelve el venue por identificador.
// Falla con UnknownVenueError si la key no existe.
func (c *Catalog) Lookup(name string) (VenueConfig, error) {
	v, ok := c.venues[name]
	if !ok {
		return VenueConfig{}, UnknownVenueError{Name: name}
	}
	return v, nil
}

// All devuelve los venues en orden de registro.
func (c *Catalog) All() []VenueConfig {
	out := make([]VenueConfig, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.venues[name])
	}
	return out
}

// Len devuelve el número de venues configurados.
func (c *Catalog) Len() int {
	return len(c.order)
}

// NewDefaultCatalog devuelve el catálogo de producción:
//   - kalshi: fee alto (7%) pero mínimo de 1 centavo, ideal para probes
//   - polymarket: fee bajo (1%) con mínimo de $1
//   - predictit: solo señal de sentimiento; su edge entra en el agregado
//     pero nunca recibe capital
func NewDefaultCatalog() *Catalog {
	c, err := NewCatalog(
		VenueConfig{
			Name:          "kalshi",
			MinTradeUSD:   0.01,
			MaxTradeUSD:   100,
			FeePct:        0.07,
			Mode:          ModeTradeable,
			AllowMinProbe: true,
		},
		VenueConfig{
			Name:          "polymarket",
			MinTradeUSD:   1.00,
			MaxTradeUSD:   500,
			FeePct:        0.01,
			Mode:          ModeTradeable,
			AllowMinProbe: true,
		},
		VenueConfig{
			Name:        "predictit",
			MinTradeUSD: 1.00,
			MaxTradeUSD: 850,
			FeePct:      0.10,
			Mode:        ModeSentimentOnly,
		},
	)
	if err != nil {
		// Los venues de arriba son constantes validadas; esto no puede pasar.
		panic(err)
	}
	return c
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/riskbot/internal/domain"
	"github.com/alejandrodnm/riskbot/internal/gates"
	"github.com/alejandrodnm/riskbot/internal/sizing"
)

// Config es la configuración completa del bot.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Sizing  SizingConfig  `yaml:"sizing"`
	Gates   GatesConfig   `yaml:"gates"`
	Venues  []VenueEntry  `yaml:"venues"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// EngineConfig controla el loop de evaluación.
type EngineConfig struct {
	IntervalSeconds int     `yaml:"interval_seconds"`
	BankrollUSD     float64 `yaml:"bankroll_usd"`
	MaxDailyLossUSD float64 `yaml:"max_daily_loss_usd"`
}

// SizingConfig controla el cálculo de VaR del sizer.
type SizingConfig struct {
	TradesPerDay int     `yaml:"trades_per_day"`
	NSims        int     `yaml:"n_sims"`
	Confidence   float64 `yaml:"confidence"`
	Seed         uint64  `yaml:"seed"`
	Workers      int     `yaml:"workers"`
}

// GatesConfig son los umbrales del pipeline de riesgo.
// Un cap de spread, exposición o rate en 0 desactiva ese gate.
type GatesConfig struct {
	LiquidityMinUSD         float64 `yaml:"liquidity_min_usd"`
	EdgeAfterFeesMinPct     float64 `yaml:"edge_after_fees_min_pct"`
	MarketEndHrsMin         float64 `yaml:"market_end_hrs_min"`
	SpreadMax               float64 `yaml:"spread_max"`
	MaxPerMarketExposureUSD float64 `yaml:"max_per_market_exposure_usd"`
	MaxTotalExposureUSD     float64 `yaml:"max_total_exposure_usd"`
	MaxOrdersPerMin         int     `yaml:"max_orders_per_min"`
}

// VenueEntry es un venue del catálogo en el YAML.
type VenueEntry struct {
	Name          string  `yaml:"name"`
	MinTradeUSD   float64 `yaml:"min_trade_usd"`
	MaxTradeUSD   float64 `yaml:"max_trade_usd"`
	FeePct        float64 `yaml:"fee_pct"`
	Mode          string  `yaml:"mode"` // tradeable | sentiment_only
	Weight        float64 `yaml:"weight"`
	AllowMinProbe bool    `yaml:"allow_min_probe"`
}

// APIConfig contiene el base URL del feed de mercados.
type APIConfig struct {
	FeedBase    string `yaml:"feed_base"`
	MarketLimit int    `yaml:"market_limit"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// CycleInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.Engine.IntervalSeconds) * time.Second
}

// GateLimits convierte la sección gates a los límites del pipeline.
func (c *Config) GateLimits() gates.Limits {
	return gates.Limits{
		LiquidityMinUSD:         c.Gates.LiquidityMinUSD,
		EdgeAfterFeesMinPct:     c.Gates.EdgeAfterFeesMinPct,
		MarketEndHrsMin:         c.Gates.MarketEndHrsMin,
		SpreadMax:               c.Gates.SpreadMax,
		MaxPerMarketExposureUSD: c.Gates.MaxPerMarketExposureUSD,
		MaxTotalExposureUSD:     c.Gates.MaxTotalExposureUSD,
		MaxOrdersPerMin:         c.Gates.MaxOrdersPerMin,
	}
}

// SizerConfig convierte la sección sizing a la configuración del sizer.
func (c *Config) SizerConfig() sizing.Config {
	return sizing.Config{
		TradesPerDay: c.Sizing.TradesPerDay,
		NSims:        c.Sizing.NSims,
		Confidence:   c.Sizing.Confidence,
		Seed:         c.Sizing.Seed,
		Workers:      c.Sizing.Workers,
	}
}

// Catalog construye el catálogo de venues desde el YAML.
// Sin sección venues usa el catálogo por defecto.
func (c *Config) Catalog() (*domain.Catalog, error) {
	if len(c.Venues) == 0 {
		return domain.NewDefaultCatalog(), nil
	}

	venues := make([]domain.VenueConfig, 0, len(c.Venues))
	for _, v := range c.Venues {
		mode, err := domain.ParseVenueMode(v.Mode)
		if err != nil {
			return nil, fmt.Errorf("config.Catalog: venue %q: %w", v.Name, err)
		}
		venues = append(venues, domain.VenueConfig{
			Name:          v.Name,
			MinTradeUSD:   v.MinTradeUSD,
			MaxTradeUSD:   v.MaxTradeUSD,
			FeePct:        v.FeePct,
			Mode:          mode,
			Weight:        v.Weight,
			AllowMinProbe: v.AllowMinProbe,
		})
	}
	return domain.NewCatalog(venues...)
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FEED_BASE"); v != "" {
		cfg.API.FeedBase = v
	}
	if v := os.Getenv("BANKROLL_USD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.BankrollUSD = f
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Engine.IntervalSeconds <= 0 {
		cfg.Engine.IntervalSeconds = 60
	}
	if cfg.Engine.BankrollUSD <= 0 {
		cfg.Engine.BankrollUSD = 1000
	}
	if cfg.Engine.MaxDailyLossUSD <= 0 {
		cfg.Engine.MaxDailyLossUSD = 20
	}
	if cfg.Gates.LiquidityMinUSD <= 0 {
		cfg.Gates.LiquidityMinUSD = 1000
	}
	if cfg.Gates.EdgeAfterFeesMinPct <= 0 {
		cfg.Gates.EdgeAfterFeesMinPct = 2.0
	}
	if cfg.Gates.MarketEndHrsMin <= 0 {
		cfg.Gates.MarketEndHrsMin = 24
	}
	if cfg.API.FeedBase == "" {
		cfg.API.FeedBase = "https://api.predictfeed.io"
	}
	if cfg.API.MarketLimit <= 0 {
		cfg.API.MarketLimit = 100
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "riskbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

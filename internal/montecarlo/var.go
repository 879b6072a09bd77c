// Package montecarlo estima el Value-at-Risk de una secuencia de trades
// por simulación Monte Carlo.
//
// Cada path es una secuencia de trials Bernoulli con stake fijo (sin
// compounding): el objetivo es aislar la distribución de pérdidas de cola
// a stake constante, no proyectar el crecimiento del bankroll.
package montecarlo

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// Params configura una estimación de VaR.
type Params struct {
	Bankroll   float64 // bankroll de referencia en USD
	EdgePct    float64 // probabilidad de ganar cada trial = EdgePct/100
	TradeSize  float64 // stake USD fijo por trial
	NTrades    int     // trials secuenciales por path
	NSims      int     // número de paths independientes
	Confidence float64 // nivel de confianza del VaR, en (0,1), ej: 0.95
	Seed       uint64  // semilla base; cada path deriva su stream propio
	Workers    int     // paths en paralelo; <=0 usa runtime.NumCPU()
}

// Result es el output de la estimación.
type Result struct {
	VaRUSD     float64 // pérdida al nivel de confianza pedido, magnitud >= 0
	MeanPnL    float64 // P&L final medio entre todos los paths
	SimPaths   int     // número de paths simulados (== Params.NSims)
	Confidence float64
	NTrades    int
}

// validate rechaza parámetros degenerados antes de simular.
func (p Params) validate() error {
	if p.NSims <= 0 {
		return fmt.Errorf("montecarlo: n_sims %d <= 0: %w", p.NSims, domain.ErrInvalidInput)
	}
	if p.NTrades < 0 {
		return fmt.Errorf("montecarlo: n_trades %d < 0: %w", p.NTrades, domain.ErrInvalidInput)
	}
	if p.TradeSize < 0 {
		return fmt.Errorf("montecarlo: trade_size %.2f < 0: %w", p.TradeSize, domain.ErrInvalidInput)
	}
	if p.Bankroll < 0 {
		return fmt.Errorf("montecarlo: bankroll %.2f < 0: %w", p.Bankroll, domain.ErrInvalidInput)
	}
	if p.Confidence <= 0 || p.Confidence >= 1 {
		return fmt.Errorf("montecarlo: confidence %.4f outside (0,1): %w", p.Confidence, domain.ErrInvalidInput)
	}
	return nil
}

// VaR simula NSims paths de NTrades trials y devuelve la pérdida en el
// cuantil (1 − confidence) de la distribución de P&L finales, como
// magnitud no negativa.
//
// Determinista para una semilla fija: cada path usa un stream PCG
// derivado de (Seed, índice del path), así el resultado no depende del
// número de workers ni del orden de ejecución.
func VaR(p Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	winProb := p.EdgePct / 100.0
	if winProb < 0 {
		winProb = 0
	}
	if winProb > 1 {
		winProb = 1
	}

	finals := make([]float64, p.NSims)

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > p.NSims {
		workers = p.NSims
	}

	// Worker pool sobre índices disjuntos: el worker w simula los paths
	// w, w+workers, w+2·workers… y escribe en su propia porción de finals.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < p.NSims; i += workers {
				finals[i] = simulatePath(p.Seed, uint64(i), winProb, p.TradeSize, p.NTrades)
			}
		}(w)
	}
	wg.Wait()

	mean := 0.0
	for _, f := range finals {
		mean += f
	}
	mean /= float64(p.NSims)

	sorted := make([]float64, p.NSims)
	copy(sorted, finals)
	sort.Float64s(sorted)

	// Cuantil inferior: el P&L tal que `confidence` de los paths pierden
	// menos o igual. Mismo índice que el VaR histórico clásico.
	idx := int(float64(p.NSims) * (1.0 - p.Confidence))
	if idx >= p.NSims {
		idx = p.NSims - 1
	}
	varUSD := -sorted[idx]
	if varUSD < 0 {
		varUSD = 0
	}

	return Result{
		VaRUSD:     varUSD,
		MeanPnL:    mean,
		SimPaths:   p.NSims,
		Confidence: p.Confidence,
		NTrades:    p.NTrades,
	}, nil
}

// simulatePath ejecuta un path de nTrades trials Bernoulli con stake fijo
// y devuelve el P&L acumulado final. El stream PCG se deriva de la
// semilla base y el índice del path: streams independientes sin estado
// compartido entre paths concurrentes.
func simulatePath(seed, pathIdx uint64, winProb, tradeSize float64, nTrades int) float64 {
	rng := rand.New(rand.NewPCG(seed, pathIdx))
	pnl := 0.0
	for t := 0; t < nTrades; t++ {
		if rng.Float64() < winProb {
			pnl += tradeSize
		} else {
			pnl -= tradeSize
		}
	}
	return pnl
}

package scanner

// concurrent.go — evaluación paralela de mercados.
//
// Cada par (mercado, venue) es independiente: los workers escriben en
// índices disjuntos del slice de resultados, así no hay estado mutable
// compartido y el orden de entrada se preserva sin reordenar después.

import (
	"context"
	"sync"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

// scanConcurrent reparte los mercados entre s.workers goroutines.
// El worker w procesa los índices w, w+workers, w+2·workers…
func (s *Scanner) scanConcurrent(ctx context.Context, markets []domain.Market, results []domain.ScanResult) {
	workers := s.workers
	if workers > len(markets) {
		workers = len(markets)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(markets); i += workers {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results[i] = s.scanOne(markets[i])
			}
		}(w)
	}
	wg.Wait()
}

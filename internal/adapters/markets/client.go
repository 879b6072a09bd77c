// Package markets implementa el MarketProvider sobre un feed HTTP de
// probabilidades de mercados de predicción.
package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/riskbot/internal/domain"
)

const (
	marketsPath = "/v1/markets"

	// El feed documenta 120 req/10s; nos quedamos al 60%.
	feedRatePerSec = 7

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client es el HTTP client del feed con rate limiting y retries.
type Client struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
	limit   int // mercados por request
}

// NewClient crea un Client contra el base URL dado.
// limit acota cuántos mercados pide por ciclo; <=0 usa 100.
func NewClient(base string, limit int) *Client {
	if limit <= 0 {
		limit = 100
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		base:    base,
		limiter: rate.NewLimiter(feedRatePerSec, 5),
		limit:   limit,
	}
}

// FetchMarkets obtiene los mercados activos del feed y los convierte al
// modelo de dominio. Los mercados que no pasan validación se descartan
// con un log en vez de tumbar el ciclo completo.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	url := fmt.Sprintf("%s%s?active=true&limit=%d", c.base, marketsPath, c.limit)

	var resp marketsResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("markets.FetchMarkets: %w", err)
	}

	markets := mapMarkets(resp.Markets, time.Now())

	slog.Debug("markets fetched",
		"received", len(resp.Markets),
		"valid", len(markets),
	)
	return markets, nil
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by feed", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

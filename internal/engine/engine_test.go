package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/riskbot/internal/domain"
	"github.com/alejandrodnm/riskbot/internal/engine"
	"github.com/alejandrodnm/riskbot/internal/gates"
	"github.com/alejandrodnm/riskbot/internal/ports"
	"github.com/alejandrodnm/riskbot/internal/report"
	"github.com/alejandrodnm/riskbot/internal/scanner"
	"github.com/alejandrodnm/riskbot/internal/sizing"
)

// --- mocks ---

type mockMarketProvider struct {
	markets []domain.Market
	err     error
}

func (m *mockMarketProvider) FetchMarkets(_ context.Context) ([]domain.Market, error) {
	return m.markets, m.err
}

type mockExecutor struct {
	mu     sync.Mutex
	trades []domain.TradeDescriptor
	err    error
}

func (m *mockExecutor) Execute(_ context.Context, trade domain.TradeDescriptor) (domain.Fill, error) {
	m.mu.Lock()
	m.trades = append(m.trades, trade)
	m.mu.Unlock()
	if m.err != nil {
		return domain.Fill{}, m.err
	}
	return domain.Fill{
		TradeID:   trade.ID,
		Accepted:  true,
		FilledUSD: trade.SizeUSD,
		At:        time.Now(),
	}, nil
}

func (m *mockExecutor) executed() []domain.TradeDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trades
}

type mockNotifier struct {
	cycles []report.Cycle
	err    error
}

func (m *mockNotifier) Notify(_ context.Context, cycle report.Cycle) error {
	m.cycles = append(m.cycles, cycle)
	return m.err
}

type mockStorage struct {
	saved []report.Cycle
	err   error
}

func (m *mockStorage) SaveCycle(_ context.Context, cycle report.Cycle) error {
	m.saved = append(m.saved, cycle)
	return m.err
}

func (m *mockStorage) GetTrades(_ context.Context, _, _ time.Time) ([]ports.TradeRecord, error) {
	return nil, nil
}

func (m *mockStorage) Close() error { return nil }

// --- helpers ---

// favorableMarket pasa todos los gates por defecto: líquido, lejos del
// cierre y con edge neto alto en polymarket.
func favorableMarket(id string) domain.Market {
	return domain.Market{
		ID:             id,
		ImpliedProbYes: 0.65,
		ImpliedProbNo:  0.35,
		LiquidityUSD:   5000,
		HoursToEnd:     48,
	}
}

func newTestEngine(provider ports.MarketProvider, executor ports.Executor, notifier ports.Notifier, storage ports.Storage, cfg engine.Config) *engine.Engine {
	catalog := domain.NewDefaultCatalog()
	scan := scanner.New(catalog, 2)
	sizer := sizing.New(sizing.Config{NSims: 2000, Seed: 42})
	return engine.New(cfg, catalog, scan, sizer, provider, executor, notifier, storage)
}

// testConfig usa un bankroll pequeño para que el tamaño Kelly (~$8 con
// edge 64% y odds 1.54) quepa dentro del cap de exposición por mercado.
func testConfig() engine.Config {
	return engine.Config{
		Interval:     time.Minute,
		Bankroll:     20,
		MaxDailyLoss: 100,
		Limits:       gates.DefaultLimits(),
	}
}

// --- tests ---

func TestRunOnceAcceptsFavorableMarket(t *testing.T) {
	provider := &mockMarketProvider{markets: []domain.Market{favorableMarket("mkt-1")}}
	executor := &mockExecutor{}

	e := newTestEngine(provider, executor, &mockNotifier{}, nil, testConfig())
	cycle, err := e.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cycle.Markets)
	assert.Equal(t, 1, cycle.Scanned)
	assert.Equal(t, 1, cycle.Accepted)
	assert.Equal(t, 0, cycle.Rejected)
	require.Len(t, cycle.Evaluations, 1)

	eval := cycle.Evaluations[0]
	assert.True(t, eval.Accepted())
	require.NotNil(t, eval.Trade)
	assert.NotEmpty(t, eval.Trade.ID)
	assert.Equal(t, "mkt-1", eval.Trade.MarketID)
	assert.Equal(t, "polymarket", eval.Trade.Venue)
	assert.Equal(t, "yes", eval.Trade.Side)
	assert.Greater(t, eval.Trade.SizeUSD, 0.0)

	require.NotNil(t, eval.Fill)
	assert.True(t, eval.Fill.Accepted)
	assert.Equal(t, eval.Trade.ID, eval.Fill.TradeID)

	require.Len(t, executor.executed(), 1)
	assert.Equal(t, eval.Trade.ID, executor.executed()[0].ID)
}

func TestRunOnceRejectsIlliquidMarket(t *testing.T) {
	market := favorableMarket("mkt-thin")
	market.LiquidityUSD = 500

	provider := &mockMarketProvider{markets: []domain.Market{market}}
	executor := &mockExecutor{}

	e := newTestEngine(provider, executor, &mockNotifier{}, nil, testConfig())
	cycle, err := e.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cycle.Scanned)
	assert.Equal(t, 0, cycle.Accepted)
	assert.Equal(t, 1, cycle.Rejected)
	require.Len(t, cycle.Evaluations, 1)

	eval := cycle.Evaluations[0]
	assert.False(t, eval.Accepted())
	assert.Nil(t, eval.Trade)
	assert.Nil(t, eval.Fill)
	assert.Contains(t, eval.Gates.Failed(), gates.GateLiquidity)

	assert.Empty(t, executor.executed(), "rejected candidate must not reach the executor")
}

func TestRunOnceSkipsMarketsWithoutPositiveEdge(t *testing.T) {
	// Probabilidad por debajo de las fees de todos los venues tradeables:
	// ningún venue ofrece edge positivo.
	market := favorableMarket("mkt-no-edge")
	market.ImpliedProbYes = 0.005
	market.ImpliedProbNo = 0.995

	provider := &mockMarketProvider{markets: []domain.Market{market}}
	executor := &mockExecutor{}

	e := newTestEngine(provider, executor, &mockNotifier{}, nil, testConfig())
	cycle, err := e.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cycle.Markets)
	assert.Equal(t, 0, cycle.Scanned)
	assert.Empty(t, cycle.Evaluations)
	assert.Empty(t, executor.executed())
}

func TestRunOnceProviderError(t *testing.T) {
	provider := &mockMarketProvider{err: errors.New("api down")}

	e := newTestEngine(provider, &mockExecutor{}, &mockNotifier{}, nil, testConfig())
	_, err := e.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api down")
}

func TestExecutorErrorDoesNotFailCycle(t *testing.T) {
	provider := &mockMarketProvider{markets: []domain.Market{favorableMarket("mkt-1")}}
	executor := &mockExecutor{err: errors.New("venue rejected order")}

	e := newTestEngine(provider, executor, &mockNotifier{}, nil, testConfig())
	cycle, err := e.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cycle.Accepted)
	require.Len(t, cycle.Evaluations, 1)
	assert.NotNil(t, cycle.Evaluations[0].Trade)
	assert.Nil(t, cycle.Evaluations[0].Fill)
}

func TestExposureAccumulatesAcrossCycles(t *testing.T) {
	provider := &mockMarketProvider{markets: []domain.Market{favorableMarket("mkt-1")}}
	executor := &mockExecutor{}

	e := newTestEngine(provider, executor, &mockNotifier{}, nil, testConfig())

	first, err := e.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Accepted)

	// El primer trade consume más de la mitad del cap de $10 por mercado;
	// el segundo intento con el mismo tamaño debe chocar con el cap.
	second, err := e.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Accepted)
	assert.Equal(t, 1, second.Rejected)
	require.Len(t, second.Evaluations, 1)
	assert.Contains(t, second.Evaluations[0].Gates.Failed(), gates.GateMarketExposure)

	// ResetSession limpia la exposición y vuelve a aceptar.
	e.ResetSession()
	third, err := e.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.Accepted)
}

func TestRunDryRunNotifiesAndPersists(t *testing.T) {
	provider := &mockMarketProvider{markets: []domain.Market{favorableMarket("mkt-1")}}
	notifier := &mockNotifier{}
	storage := &mockStorage{}

	cfg := testConfig()
	cfg.DryRun = true

	e := newTestEngine(provider, &mockExecutor{}, notifier, storage, cfg)
	require.NoError(t, e.Run(context.Background()))

	require.Len(t, notifier.cycles, 1)
	assert.Equal(t, 1, notifier.cycles[0].Accepted)
	require.Len(t, storage.saved, 1)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	provider := &mockMarketProvider{markets: nil}

	cfg := testConfig()
	cfg.Interval = 10 * time.Millisecond

	e := newTestEngine(provider, &mockExecutor{}, &mockNotifier{}, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after context cancellation")
	}
}

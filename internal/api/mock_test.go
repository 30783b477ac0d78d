package api

import (
	"context"

	"fxdesk/internal/provider"
	"fxdesk/internal/service"
)

type mockRates struct {
	getRatesFunc func(ctx context.Context, base string) (*service.RatesView, error)
}

func (m *mockRates) GetRates(ctx context.Context, base string) (*service.RatesView, error) {
	return m.getRatesFunc(ctx, base)
}

type mockConverter struct {
	convertFunc    func(ctx context.Context, from, to string, amount, multiplier float64) (*service.Conversion, error)
	currenciesFunc func(ctx context.Context) []service.CurrencyInfo
}

func (m *mockConverter) Convert(ctx context.Context, from, to string, amount, multiplier float64) (*service.Conversion, error) {
	return m.convertFunc(ctx, from, to, amount, multiplier)
}

func (m *mockConverter) SupportedCurrencies(ctx context.Context) []service.CurrencyInfo {
	return m.currenciesFunc(ctx)
}

type mockMarket struct {
	newsFunc    func(ctx context.Context) ([]provider.Article, error)
	historyFunc func(ctx context.Context, base, target, start, end string) ([]provider.HistoryPoint, error)
}

func (m *mockMarket) News(ctx context.Context) ([]provider.Article, error) {
	return m.newsFunc(ctx)
}

func (m *mockMarket) History(ctx context.Context, base, target, start, end string) ([]provider.HistoryPoint, error) {
	return m.historyFunc(ctx, base, target, start, end)
}

type mockEnqueuer struct {
	enqueueFunc func(ctx context.Context, force bool) (string, error)
}

func (m *mockEnqueuer) EnqueueRefresh(ctx context.Context, force bool) (string, error) {
	return m.enqueueFunc(ctx, force)
}

package provider

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetRate(ctx context.Context, base, quote string) (float64, time.Time, error) {
	args := m.Called(ctx, base, quote)
	return args.Get(0).(float64), args.Get(1).(time.Time), args.Error(2)
}

// MockListingProvider is a rate provider that can also list its currencies.
type MockListingProvider struct {
	MockProvider
}

func (m *MockListingProvider) ListCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	codes, _ := args.Get(0).([]string)
	return codes, args.Error(1)
}

package service

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fxdesk/internal/currency"
	"fxdesk/internal/provider"
)

// unitLabels names the allowed amount multipliers. 1 has no label.
var unitLabels = map[float64]string{
	1:    "",
	1e3:  "Thousand",
	1e6:  "Million",
	1e9:  "Billion",
	1e12: "Trillion",
}

// Conversion is the result of converting an amount between two currencies.
type Conversion struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Amount        float64 `json:"amount"`
	Multiplier    float64 `json:"multiplier"`
	DisplayAmount string  `json:"display_amount"`
	Rate          float64 `json:"rate"`
	Result        float64 `json:"result"`
	Date          string  `json:"date"`
}

// CurrencyInfo is one entry of the supported currency list.
type CurrencyInfo struct {
	Code    string `json:"code"`
	Country string `json:"country"`
	Flag    string `json:"flag,omitempty"`
}

// ConvertService converts amounts at live rates.
type ConvertService struct {
	rates     provider.RatesProvider
	lister    provider.CurrencyLister
	validator currency.Validator
	meta      currency.MetadataSource
	log       *zap.SugaredLogger
}

// NewConvertService creates a new ConvertService.
func NewConvertService(rates provider.RatesProvider, lister provider.CurrencyLister, validator currency.Validator, meta currency.MetadataSource, logger *zap.SugaredLogger) *ConvertService {
	return &ConvertService{
		rates:     rates,
		lister:    lister,
		validator: validator,
		meta:      meta,
		log:       logger,
	}
}

// Convert returns amount*multiplier of from expressed in to, rounded to 6 places.
// A zero multiplier means 1.
func (s *ConvertService) Convert(ctx context.Context, from, to string, amount, multiplier float64) (*Conversion, error) {
	from, to, err := s.validatePair(from, to)
	if err != nil {
		return nil, err
	}
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return nil, ErrInvalidAmount
	}
	if multiplier == 0 {
		multiplier = 1
	}
	label, ok := unitLabels[multiplier]
	if !ok {
		return nil, ErrInvalidMultiplier
	}

	rate, updated, err := s.rates.GetRate(ctx, from, to)
	if err != nil {
		s.log.Errorw("Failed to get conversion rate", "from", from, "to", to, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	total := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(multiplier))
	result := total.Mul(decimal.NewFromFloat(rate)).Round(6)

	var date string
	if updated.IsZero() {
		s.log.Warnw("Upstream rate carries no usable timestamp", "from", from, "to", to)
	} else {
		date = updated.UTC().Format(provider.ERAPITimeLayout)
	}

	display := decimal.NewFromFloat(amount).StringFixed(2)
	if label != "" {
		display += " " + label
	}

	return &Conversion{
		From:          from,
		To:            to,
		Amount:        amount,
		Multiplier:    multiplier,
		DisplayAmount: display,
		Rate:          rate,
		Result:        result.InexactFloat64(),
		Date:          date,
	}, nil
}

// SupportedCurrencies lists the codes the live upstream quotes, decorated with metadata.
// An upstream failure yields an empty list.
func (s *ConvertService) SupportedCurrencies(ctx context.Context) []CurrencyInfo {
	codes, err := s.lister.ListCurrencies(ctx)
	if err != nil {
		s.log.Errorw("Failed to list supported currencies", "error", err)
		return []CurrencyInfo{}
	}

	meta, err := s.meta.Load()
	if err != nil {
		s.log.Warnw("Currency metadata unavailable, listing bare codes", "error", err)
		meta = currency.Metadata{}
	}

	out := make([]CurrencyInfo, 0, len(codes))
	for _, code := range codes {
		info := CurrencyInfo{Code: code, Country: code}
		if m, ok := meta[code]; ok {
			if m.Country != "" {
				info.Country = m.Country
			}
			info.Flag = m.Flag
		}
		out = append(out, info)
	}
	return out
}

func (s *ConvertService) validatePair(from, to string) (string, string, error) {
	from, err := currency.Normalize(from)
	if err != nil {
		return "", "", err
	}
	to, err = currency.Normalize(to)
	if err != nil {
		return "", "", err
	}
	for _, code := range []string{from, to} {
		if err := s.validator.Validate(code); err != nil {
			return "", "", fmt.Errorf("%w: %s", err, code)
		}
	}
	return from, to, nil
}

package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fxdesk/internal/provider"
)

// rateSnapshot is the subset of an upstream "latest" document the service reads.
type rateSnapshot struct {
	Result            string             `json:"result"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc"`
	Date              string             `json:"date"`
	Rates             map[string]float64 `json:"rates"`
}

func decodeSnapshot(doc []byte) (*rateSnapshot, error) {
	var s rateSnapshot
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Rates == nil {
		s.Rates = map[string]float64{}
	}
	return &s, nil
}

// timestamp returns the upstream update time, falling back to the plain date field.
func (s *rateSnapshot) timestamp() string {
	if s.TimeLastUpdateUTC != "" {
		return s.TimeLastUpdateUTC
	}
	return s.Date
}

func parseUpdateTime(v string) (time.Time, error) {
	return time.Parse(provider.ERAPITimeLayout, v)
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func round4(v float64) float64 {
	return roundTo(v, 4)
}

// delta4 returns newer-older rounded to 4 places without binary float noise.
func delta4(older, newer float64) float64 {
	return decimal.NewFromFloat(newer).Sub(decimal.NewFromFloat(older)).Round(4).InexactFloat64()
}

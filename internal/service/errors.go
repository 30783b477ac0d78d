// Package service implements the rate refresh cycle and the queries served over HTTP.
package service

import (
	"errors"

	"fxdesk/internal/currency"
)

// ErrInvalidCurrency indicates a currency code is not 3 letters.
var ErrInvalidCurrency = currency.ErrInvalidCode

// ErrUnsupportedCurrency indicates a well-formed code outside the supported table.
var ErrUnsupportedCurrency = currency.ErrUnsupported

// ErrDataUnavailable indicates the cached generations or metadata could not be read.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrInvalidAmount indicates a non-positive or non-finite conversion amount.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// ErrInvalidMultiplier indicates an unknown unit multiplier.
var ErrInvalidMultiplier = errors.New("unsupported unit multiplier")

// ErrMissingParams indicates a required request parameter was empty.
var ErrMissingParams = errors.New("missing parameters")

// ErrInvalidDate indicates a date that is not YYYY-MM-DD or an inverted range.
var ErrInvalidDate = errors.New("invalid date range")

// ErrNotConfigured indicates an upstream needs an API key that is not set.
var ErrNotConfigured = errors.New("API key not set")

// ErrUpstream indicates an external API call failed.
var ErrUpstream = errors.New("upstream request failed")

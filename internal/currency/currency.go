// Package currency holds the shared table of base currencies and code validation.
package currency

import (
	"errors"
	"slices"
	"strings"
)

// Codes lists every base currency whose rate table is cached, in ascending order.
var Codes = []string{
	"AED", "AFN", "ALL", "AMD", "ANG", "AOA", "ARS", "AUD", "AWG", "AZN",
	"BAM", "BBD", "BDT", "BGN", "BHD", "BIF", "BMD", "BND", "BOB", "BRL",
	"BSD", "BTN", "BWP", "BYN", "BZD", "CAD", "CDF", "CHF", "CLP", "CNY",
	"COP", "CRC", "CUP", "CVE", "CZK", "DJF", "DKK", "DOP", "DZD", "EGP",
	"ERN", "ETB", "EUR", "FJD", "FKP", "FOK", "GBP", "GEL", "GGP", "GHS",
	"GIP", "GMD", "GNF", "GTQ", "GYD", "HKD", "HNL", "HRK", "HTG", "HUF",
	"IDR", "ILS", "IMP", "INR", "IQD", "IRR", "ISK", "JEP", "JMD", "JOD",
	"JPY", "KES", "KGS", "KHR", "KID", "KMF", "KRW", "KWD", "KYD", "KZT",
	"LAK", "LBP", "LKR", "LRD", "LSL", "LYD", "MAD", "MDL", "MGA", "MKD",
	"MMK", "MNT", "MOP", "MRU", "MUR", "MVR", "MWK", "MXN", "MYR", "MZN",
	"NAD", "NGN", "NIO", "NOK", "NPR", "NZD", "OMR", "PAB", "PEN", "PGK",
	"PHP", "PKR", "PLN", "PYG", "QAR", "RON", "RSD", "RUB", "RWF", "SAR",
	"SBD", "SCR", "SDG", "SEK", "SGD", "SHP", "SLE", "SLL", "SOS", "SRD",
	"SSP", "STN", "SYP", "SZL", "THB", "TJS", "TMT", "TND", "TOP", "TRY",
	"TTD", "TVD", "TWD", "TZS", "UAH", "UGX", "USD", "UYU", "UZS", "VES",
	"VND", "VUV", "WST", "XAF", "XCD", "XDR", "XOF", "XPF", "YER", "ZAR",
	"ZMW", "ZWL",
}

// ErrInvalidCode indicates the value is not a 3-letter currency code.
var ErrInvalidCode = errors.New("invalid currency code format")

// ErrUnsupported is returned when a well-formed code is not in Codes.
var ErrUnsupported = errors.New("unsupported currency")

// IsValidCode checks whether a string is a 3-letter currency code (case-insensitive).
func IsValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range strings.ToUpper(code) {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// Normalize validates the format of code and returns it upper-cased.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if !IsValidCode(code) {
		return "", ErrInvalidCode
	}
	return strings.ToUpper(code), nil
}

// Validator checks codes against a set of supported currencies.
type Validator interface {
	Validate(code string) error
	IsSupported(code string) bool
}

type validator struct {
	supported []string
}

// NewValidator creates a validator backed by Codes.
func NewValidator() Validator {
	return &validator{supported: Codes}
}

// Validate returns ErrInvalidCode or ErrUnsupported when code cannot be used.
func (v *validator) Validate(code string) error {
	if !IsValidCode(code) {
		return ErrInvalidCode
	}
	if !v.IsSupported(code) {
		return ErrUnsupported
	}
	return nil
}

// IsSupported returns true if the code is in the table (case-insensitive).
func (v *validator) IsSupported(code string) bool {
	_, ok := slices.BinarySearch(v.supported, strings.ToUpper(code))
	return ok
}

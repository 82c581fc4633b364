package core

import (
	"strings"

	"golang.org/x/text/currency"
)

// DefaultCurrency is assigned to users who do not pick one.
const DefaultCurrency = "HKD"

var supportedCurrencies = []currency.Unit{
	currency.HKD, currency.USD, currency.EUR, currency.GBP, currency.JPY, currency.CNY,
}

// NormalizeCurrency upper-cases code and falls back to DefaultCurrency.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// ValidateCurrency accepts the ISO 4217 codes the app supports.
func ValidateCurrency(code string) error {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return ErrInvalidCurrency
	}
	for _, u := range supportedCurrencies {
		if u == unit {
			return nil
		}
	}
	return ErrInvalidCurrency
}

// SupportedCurrencies returns the supported ISO codes.
func SupportedCurrencies() []string {
	codes := make([]string, len(supportedCurrencies))
	for i, u := range supportedCurrencies {
		codes[i] = u.String()
	}
	return codes
}

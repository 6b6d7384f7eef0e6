package entity

import (
	"errors"
	"fmt"
	"sort"
)

// CurrencyCodeLength is the length of an ISO 4217 currency code
const CurrencyCodeLength = 3

// ErrInvalidCurrencyFormat is returned when a currency code is not 3 characters long
var ErrInvalidCurrencyFormat = errors.New("invalid currency format")

// UnknownCurrencyError reports a well-formed code that is absent from the rate table
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("invalid currency `%s`", e.Code)
}

// RateTable maps a currency code to its rate against the base currency
type RateTable map[string]float64

// Rate is a single entry of a RateTable
type Rate struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

// Conversion is the outcome of converting an amount between two currencies
type Conversion struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"converted_amount"`
	Rate            float64 `json:"rate"`
}

// CheckCurrencyFormat validates the shape of a currency code only. Any
// three-character string passes; membership is decided by the rate table.
func CheckCurrencyFormat(code string) error {
	if len(code) != CurrencyCodeLength {
		return fmt.Errorf("%w `%s`", ErrInvalidCurrencyFormat, code)
	}
	return nil
}

// Lookup returns the rate for code or an UnknownCurrencyError
func (t RateTable) Lookup(code string) (float64, error) {
	rate, ok := t[code]
	if !ok {
		return 0, &UnknownCurrencyError{Code: code}
	}
	return rate, nil
}

// Codes returns the currency codes in ascending order
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Sorted returns the table entries ordered by currency code
func (t RateTable) Sorted() []Rate {
	rates := make([]Rate, 0, len(t))
	for _, code := range t.Codes() {
		rates = append(rates, Rate{Code: code, Rate: t[code]})
	}
	return rates
}

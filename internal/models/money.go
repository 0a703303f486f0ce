package models

import "strings"

// Money is an integer count of minor units in a single currency.
// It is never represented as a float internally; major-unit values only
// appear at presentation time.
type Money struct {
	AmountMinor int64  `json:"amountMinor" bson:"amount_minor"`
	Currency    string `json:"currency" bson:"currency"`
}

// currencyExponents maps ISO 4217 alphabetic codes to their decimal
// exponent where it differs from the usual 2. The exponent is the
// power-of-ten divisor between major and minor units.
var currencyExponents = map[string]int{
	// zero-decimal currencies
	"BIF": 0,
	"CLP": 0,
	"DJF": 0,
	"GNF": 0,
	"JPY": 0,
	"KMF": 0,
	"KRW": 0,
	"MGA": 0,
	"PYG": 0,
	"RWF": 0,
	"UGX": 0,
	"VND": 0,
	"VUV": 0,
	"XAF": 0,
	"XOF": 0,
	"XPF": 0,
	// three-decimal currencies
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"KWD": 3,
	"LYD": 3,
	"OMR": 3,
	"TND": 3,
}

// CurrencyExponent returns the ISO 4217 decimal exponent for a currency
// code. Unknown codes return 2 rather than failing: external input
// occasionally carries codes this table does not list, and a lookup miss
// must not break the checkout pipeline.
func CurrencyExponent(code string) int {
	if exp, ok := currencyExponents[strings.ToUpper(code)]; ok {
		return exp
	}
	return 2
}

// MajorUnits renders the amount in major units for display. Derived only,
// never stored.
func (m Money) MajorUnits() float64 {
	div := 1.0
	for i := 0; i < CurrencyExponent(m.Currency); i++ {
		div *= 10
	}
	return float64(m.AmountMinor) / div
}

// Mul returns the money multiplied by a quantity.
func (m Money) Mul(qty int64) Money {
	return Money{AmountMinor: m.AmountMinor * qty, Currency: m.Currency}
}

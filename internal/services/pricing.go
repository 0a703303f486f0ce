package services

import (
	"fmt"
	"strings"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// ResolveUnitAmount picks the stored unit price of a product for the
// requested currency and returns it in integer minor units. Resolution
// order, first match wins:
//
//  1. An explicit per-currency minor-unit amount for the exact currency.
//  2. The canonical minor-unit amount, used as-is (currency-agnostic
//     legacy data).
//  3. The legacy major-unit decimal, converted with
//     round(amount × 10^exponent), rounding half away from zero.
//
// No currency conversion ever happens here: resolving means picking the
// right stored representation, not translating value between currencies.
func ResolveUnitAmount(product *models.Product, currency string) (models.Money, error) {
	currency = strings.ToUpper(currency)

	if amount, ok := product.Prices[currency]; ok {
		return models.Money{AmountMinor: amount, Currency: currency}, nil
	}

	if product.PriceCents != nil {
		return models.Money{AmountMinor: *product.PriceCents, Currency: currency}, nil
	}

	if product.LegacyPrice != nil {
		exp := models.CurrencyExponent(currency)
		minor := decimal.NewFromFloat(*product.LegacyPrice).
			Shift(int32(exp)).
			Round(0).
			IntPart()
		return models.Money{AmountMinor: minor, Currency: currency}, nil
	}

	return models.Money{}, fmt.Errorf("%w: product %s in %s", ErrNoPriceAvailable, product.ID, currency)
}

package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestResolveUnitAmountPerCurrencyMapWinsFirst(t *testing.T) {
	product := &models.Product{
		ID:          "soap-1",
		Prices:      map[string]int64{"JPY": 1200, "USD": 899},
		PriceCents:  int64Ptr(9999),
		LegacyPrice: float64Ptr(123.45),
	}

	money, err := services.ResolveUnitAmount(product, "JPY")
	assert.NoError(t, err)
	assert.Equal(t, int64(1200), money.AmountMinor)
	assert.Equal(t, "JPY", money.Currency)

	money, err = services.ResolveUnitAmount(product, "USD")
	assert.NoError(t, err)
	assert.Equal(t, int64(899), money.AmountMinor)
}

func TestResolveUnitAmountCanonicalCentsSecond(t *testing.T) {
	product := &models.Product{
		ID:          "soap-2",
		PriceCents:  int64Ptr(1500),
		LegacyPrice: float64Ptr(99.99),
	}

	// The canonical minor-unit amount is used as-is, regardless of the
	// requested currency's exponent.
	for _, currency := range []string{"USD", "JPY", "BHD"} {
		money, err := services.ResolveUnitAmount(product, currency)
		assert.NoError(t, err)
		assert.Equal(t, int64(1500), money.AmountMinor, currency)
		assert.Equal(t, currency, money.Currency)
	}
}

func TestResolveUnitAmountLegacyConversion(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		currency string
		want     int64
	}{
		{"two-decimal", 19.99, "USD", 1999},
		{"zero-decimal", 1200, "JPY", 1200},
		{"three-decimal", 10.155, "BHD", 10155},
		{"rounds half away from zero", 2.5, "JPY", 3},
		{"rounds down below half", 10.154, "JPY", 10},
		{"unknown currency defaults to two decimals", 5.00, "XTEST", 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := &models.Product{ID: "legacy", LegacyPrice: float64Ptr(tc.price)}
			money, err := services.ResolveUnitAmount(product, tc.currency)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, money.AmountMinor)
		})
	}
}

func TestResolveUnitAmountCurrencyCaseInsensitive(t *testing.T) {
	product := &models.Product{
		ID:     "soap-3",
		Prices: map[string]int64{"JPY": 1200},
	}

	money, err := services.ResolveUnitAmount(product, "jpy")
	assert.NoError(t, err)
	assert.Equal(t, int64(1200), money.AmountMinor)
	assert.Equal(t, "JPY", money.Currency)
}

func TestResolveUnitAmountNoPricing(t *testing.T) {
	product := &models.Product{ID: "soap-4", Name: "Unpriced"}

	_, err := services.ResolveUnitAmount(product, "USD")
	assert.ErrorIs(t, err, services.ErrNoPriceAvailable)
	assert.Contains(t, err.Error(), "soap-4")
}

func TestResolveUnitAmountOtherCurrencyInMapDoesNotMatch(t *testing.T) {
	// A per-currency entry for a different currency must not leak into
	// the requested one; resolution falls through to the next source.
	product := &models.Product{
		ID:         "soap-5",
		Prices:     map[string]int64{"EUR": 799},
		PriceCents: int64Ptr(850),
	}

	money, err := services.ResolveUnitAmount(product, "USD")
	assert.NoError(t, err)
	assert.Equal(t, int64(850), money.AmountMinor)
}

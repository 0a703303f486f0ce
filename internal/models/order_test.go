package models_test

import (
	"encoding/json"
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		models.StatusPending,
		models.StatusPaid,
		models.StatusFulfilled,
		models.StatusCancelled,
		models.StatusRefunded,
	} {
		assert.True(t, models.ValidStatus(s), s)
	}
	assert.False(t, models.ValidStatus("shipped"))
	assert.False(t, models.ValidStatus(""))
	assert.False(t, models.ValidStatus("PAID"))
}

func TestCanTransition(t *testing.T) {
	// Allowed.
	assert.True(t, models.CanTransition(models.StatusPending, models.StatusPaid))
	assert.True(t, models.CanTransition(models.StatusPending, models.StatusCancelled))
	assert.True(t, models.CanTransition(models.StatusPaid, models.StatusFulfilled))
	assert.True(t, models.CanTransition(models.StatusPaid, models.StatusCancelled))
	assert.True(t, models.CanTransition(models.StatusPaid, models.StatusRefunded))

	// Not allowed.
	assert.False(t, models.CanTransition(models.StatusPending, models.StatusFulfilled))
	assert.False(t, models.CanTransition(models.StatusPending, models.StatusRefunded))
	assert.False(t, models.CanTransition(models.StatusFulfilled, models.StatusPaid))
	assert.False(t, models.CanTransition(models.StatusCancelled, models.StatusPending))
	assert.False(t, models.CanTransition(models.StatusRefunded, models.StatusPaid))
	assert.False(t, models.CanTransition(models.StatusPaid, models.StatusPaid))
}

func TestOrderSumLineTotals(t *testing.T) {
	order := models.Order{
		Items: []models.LineItem{
			{PriceCents: 1200, Quantity: 2, LineTotalCents: 2400},
			{PriceCents: 500, Quantity: 1, LineTotalCents: 500},
		},
	}
	assert.Equal(t, int64(2900), order.SumLineTotals())
	assert.Equal(t, int64(0), (&models.Order{}).SumLineTotals())
}

func TestOrderMarshalJSONDerivedTotal(t *testing.T) {
	order := models.Order{
		ID:         "order-1",
		Currency:   "USD",
		TotalCents: 2999,
		Status:     models.StatusPaid,
	}

	data, err := json.Marshal(order)
	assert.NoError(t, err)

	var rendered map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &rendered))

	// The stored minor-unit total and the derived major-unit total are
	// both rendered.
	assert.Equal(t, float64(2999), rendered["totalCents"])
	assert.Equal(t, 29.99, rendered["total"])
}

func TestOrderMarshalJSONZeroDecimalCurrency(t *testing.T) {
	order := models.Order{Currency: "JPY", TotalCents: 2400}

	data, err := json.Marshal(order)
	assert.NoError(t, err)

	var rendered map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &rendered))

	// JPY has no minor unit, so the derived total equals the stored one.
	assert.Equal(t, float64(2400), rendered["total"])
}

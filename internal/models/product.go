package models

import "time"

// Product represents a catalog item. A product carries up to three pricing
// representations, resolved in order of precedence by the pricing service:
//  1. Prices: explicit per-currency minor-unit amounts.
//  2. PriceCents: a canonical amount already denominated in minor units.
//  3. LegacyPrice: a major-unit decimal left over from older catalog data,
//     converted to minor units at resolution time.
//
// At least one representation must be present for the product to be
// sellable.
type Product struct {
	ID          string           `json:"id" bson:"_id,omitempty" validate:"omitempty,uuid"`
	Name        string           `json:"name" bson:"name" validate:"required,min=3,max=100"`
	ImageSrc    string           `json:"imageSrc,omitempty" bson:"image_src,omitempty"`
	Description string           `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	Category    string           `json:"category" bson:"category" validate:"required"`
	Prices      map[string]int64 `json:"prices,omitempty" bson:"prices,omitempty"`
	PriceCents  *int64           `json:"priceCents,omitempty" bson:"price_cents,omitempty" validate:"omitempty,gte=0"`
	LegacyPrice *float64         `json:"price,omitempty" bson:"legacy_price,omitempty" validate:"omitempty,gte=0"`
	CreatedAt   time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" bson:"updated_at"`
}

// HasPricing reports whether any pricing representation is present.
func (p *Product) HasPricing() bool {
	return len(p.Prices) > 0 || p.PriceCents != nil || p.LegacyPrice != nil
}

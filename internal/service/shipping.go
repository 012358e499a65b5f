package service

import (
	"checkout-service/internal/model"

	"github.com/shopspring/decimal"
)

// ShippingMethod calculates the shipping charge for a basket.
type ShippingMethod interface {
	Name() string
	Calculate(basket *model.Basket) decimal.Decimal
}

// NoShippingRequired is the method for digital goods: nothing ships and
// the charge is zero.
type NoShippingRequired struct{}

func (NoShippingRequired) Name() string {
	return "no-shipping-required"
}

func (NoShippingRequired) Calculate(_ *model.Basket) decimal.Decimal {
	return decimal.Zero
}

// OrderTotalCalculator computes the tax-inclusive order total from the
// basket total and the shipping charge.
type OrderTotalCalculator struct{}

func (OrderTotalCalculator) Calculate(basket *model.Basket, shippingCharge decimal.Decimal) decimal.Decimal {
	return basket.TotalInclTax.Add(shippingCharge)
}

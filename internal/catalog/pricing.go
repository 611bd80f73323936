package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidMargin is returned when a product's retail margin is 100% or
// more, which would make the selling price undefined.
var ErrInvalidMargin = errors.New("catalog: retail margin must be below 100")

var hundred = decimal.NewFromInt(100)

// RetailPrice computes the selling price from a cost price and a retail
// margin percentage: cost / (100 - margin) * 100, rounded to 4 decimal
// places.
func RetailPrice(cost, margin decimal.Decimal) (decimal.Decimal, error) {
	if margin.GreaterThanOrEqual(hundred) {
		return decimal.Decimal{}, fmt.Errorf("%w: got %s", ErrInvalidMargin, margin)
	}
	return cost.Div(hundred.Sub(margin)).Mul(hundred).Round(4), nil
}

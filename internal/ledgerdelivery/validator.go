package ledgerdelivery

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidAmount validates that the amount is a positive decimal with at most two
// fractional digits.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	a, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	d, err := decimal.NewFromString(a)
	if err != nil {
		return false
	}

	return d.GreaterThan(decimal.Zero) && d.Exponent() >= -2
}

package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds a validator with the decimal comparison tags used by
// the request DTOs. The standard gt/gte tags do not understand
// decimal.Decimal, so decimal_gt and decimal_gte compare against the tag
// parameter with decimal arithmetic.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("decimal_gt", decimalGT)
	_ = v.RegisterValidation("decimal_gte", decimalGTE)
	return v
}

func decimalGT(fl validator.FieldLevel) bool {
	value, bound, ok := decimalOperands(fl)
	if !ok {
		return false
	}
	return value.GreaterThan(bound)
}

func decimalGTE(fl validator.FieldLevel) bool {
	value, bound, ok := decimalOperands(fl)
	if !ok {
		return false
	}
	return value.GreaterThanOrEqual(bound)
}

func decimalOperands(fl validator.FieldLevel) (decimal.Decimal, decimal.Decimal, bool) {
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	return value, bound, true
}

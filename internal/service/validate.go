package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"pulse-shop/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateStruct runs the struct's validation tags and turns the first
// failure into an InvalidPayload error naming the offending field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return model.NewInvalidPayload(err.Error())
	}

	e := verrs[0]
	return model.NewInvalidPayload(fmt.Sprintf("%s: %s", fieldPath(e), validationMessage(e)))
}

// fieldPath strips the top-level struct name from the error namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return "must contain at least " + e.Param() + " item(s)"
		}
		return "must be at least " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}

var hundred = decimal.NewFromInt(100)

// toCents converts a non-negative amount in major units to minor units,
// rounding half away from zero.
func toCents(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, model.NewInvalidPayload("price: must be a non-negative amount")
	}

	cents := amount.Mul(hundred).Round(0)
	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, model.NewInvalidPayload("price: amount is too large")
	}

	return cents.IntPart(), nil
}

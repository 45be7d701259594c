package validation

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Amounts are stored as NUMERIC(19, 2).
const (
	amountScale         = 2
	amountIntegerDigits = 17
)

var (
	maxAmount = decimal.New(1, amountIntegerDigits)
	validate  = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("amount", validAmount); err != nil {
		panic(err)
	}
	return v
}

// decimalValue hands decimals to tag validators in their exact string form.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validAmount accepts values that fit the amount column without rounding.
func validAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.Equal(d.Truncate(amountScale)) && d.Abs().LessThan(maxAmount)
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Validate runs the struct's validate tags. It returns nil when obj is valid.
func Validate(obj any) []FieldError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []FieldError{{Message: err.Error(), Type: "invalid"}}
	}

	out := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: getErrorMsg(fe),
			Type:    fe.Tag(),
		})
	}
	return out
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	case "lte":
		return "Value must be less than or equal to " + err.Param()
	case "amount":
		return "Value must have at most 17 integer digits and 2 decimal places"
	default:
		return "Invalid value"
	}
}

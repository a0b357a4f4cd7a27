package validator

import (
	"reflect"
	"strings"

	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func NewValidator() *validator.Validate {
	validate = validator.New()
	registerDecimal(validate)
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

// registerDecimal lets struct tags such as `validate:"required"` look at the
// numeric value of a decimal.Decimal instead of its unexported internals
func registerDecimal(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			fields := make([]string, 0, len(validateErrs))
			for _, fe := range validateErrs {
				details[fe.Field()] = fe.Error()
				fields = append(fields, fe.Field())
			}
			if len(validateErrs) > 0 {
				details["field"] = validateErrs[0].Field()
				details["reason"] = "failed on the '" + validateErrs[0].Tag() + "' rule"
			}
			return ierr.WithError(err).
				WithHintf("Request validation failed for %s", strings.Join(fields, ", ")).
				WithReportableDetails(details).
				Mark(ierr.ErrValidation)
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}
	return nil
}

package httputil

import (
	"reflect"
	"strings"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports JSON field names and knows
// the "bloodtype" rule.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Only fails on programmer error (empty tag or nil func).
	_ = v.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
		return domain.BloodType(fl.Field().String()).IsValid()
	})

	return v
}

package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()

	// e164-ish phone check, looser than the builtin e164 tag to accept local numbers
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		if len(value) < 7 || len(value) > 16 {
			return false
		}
		for i, r := range value {
			if r == '+' && i == 0 {
				continue
			}
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type loginInput struct {
	APIKey string `json:"api_key" validate:"required"`
}

type topicInput struct {
	Topic string `json:"topic" validate:"required"`
}

type imageCountInput struct {
	Count int `json:"count" validate:"min=1,max=10"`
}

// inputValidator checks user input with struct tags. Field names in errors
// follow the json tag so both driving adapters report the same names.
type inputValidator struct {
	validate *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &inputValidator{validate: v}
}

// check returns a *ValidationError for any failed rule, nil otherwise.
func (v *inputValidator) check(input any) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	verr := &ValidationError{}
	for _, e := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: formatValidationError(e),
		})
	}
	return verr
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", e.Field(), e.Tag())
	}
}

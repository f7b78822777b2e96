package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/reciclamais/recicla"
)

// Validator adapts go-playground/validator to echo's Validator interface.
// Failures are returned as recicla.ErrorWithFields keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the application's custom rules.
//
// Usage in the HTTP server:
//
//	e.Validator = validation.NewValidator()
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("printable", validatePrintable)

	return &Validator{validate: v}
}

// Validate validates a struct using its validation tags.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return recicla.ErrorWithFields(FormatValidationErrors(validationErrors))
	}
	return recicla.Invalid("Invalid request")
}

// validatePhone accepts digits with optional leading '+', spaces, dashes
// and parentheses; 8 to 15 digits in total.
func validatePhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	digits := 0
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ', r == '-', r == '(', r == ')':
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}

// validatePrintable rejects control characters other than tab and newlines.
func validatePrintable(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// FormatValidationErrors converts validator errors to user-friendly messages.
//
// Example output:
//
//	{
//	  "status": "is required",
//	  "notes": "must be no more than 1000 characters"
//	}
func FormatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["_error"] = err.Error()
		return fields
	}

	for _, fieldErr := range validationErrors {
		name := fieldErr.Field()
		isString := fieldErr.Kind() == reflect.String

		switch fieldErr.Tag() {
		case "required":
			fields[name] = "is required"
		case "email":
			fields[name] = "must be a valid email address"
		case "min":
			if isString {
				fields[name] = fmt.Sprintf("must be at least %s characters", fieldErr.Param())
			} else {
				fields[name] = fmt.Sprintf("must be at least %s", fieldErr.Param())
			}
		case "max":
			if isString {
				fields[name] = fmt.Sprintf("must be no more than %s characters", fieldErr.Param())
			} else {
				fields[name] = fmt.Sprintf("must be no more than %s", fieldErr.Param())
			}
		case "uuid":
			fields[name] = "must be a valid UUID"
		case "oneof":
			fields[name] = fmt.Sprintf("must be one of: %s", fieldErr.Param())
		case "phone":
			fields[name] = "must be a valid phone number"
		case "printable":
			fields[name] = "contains invalid characters"
		default:
			fields[name] = fmt.Sprintf("failed validation: %s", fieldErr.Tag())
		}
	}

	return fields
}

// SanitizeInput trims whitespace and removes control characters other than
// tabs and newlines.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	var builder strings.Builder
	for _, r := range input {
		if r == '\t' || r == '\n' || r == '\r' || !unicode.IsControl(r) {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

package form

import (
	"errors"
	"reflect"
	"strings"

	"altrion-client/internal/domain/apperr"
	"altrion-client/pkg/format"

	"github.com/go-playground/validator/v10"
)

// Validator checks tagged structs and reports failures as *apperr.ValidationError.
// It satisfies echo.Validator.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return format.ValidateEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("hasupper", func(fl validator.FieldLevel) bool {
		return format.HasUpper(fl.Field().String())
	})
	_ = v.RegisterValidation("hasdigit", func(fl validator.FieldLevel) bool {
		return format.HasDigit(fl.Field().String())
	})

	return &Validator{v: v}
}

func (fv *Validator) Validate(i any) error {
	err := fv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return &apperr.ValidationError{Fields: ToFieldErrors(ve)}
}

var std = NewValidator()

// Check validates i with the shared validator.
func Check(i any) error { return std.Validate(i) }

// ToFieldErrors maps validator failures to readable per-field messages.
func ToFieldErrors(ve validator.ValidationErrors) []apperr.FieldError {
	out := make([]apperr.FieldError, 0, len(ve))
	for _, e := range ve {
		out = append(out, apperr.FieldError{Field: fieldPath(e), Message: messageFor(e)})
	}
	return out
}

// fieldPath drops the root struct name: "Signup.confirmPassword" -> "confirmPassword".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func messageFor(e validator.FieldError) string {
	if m, ok := messages[structName(e)+"."+e.Field()+"|"+e.Tag()]; ok {
		return m
	}
	switch e.Tag() {
	case "required":
		return "is required"
	case "emailaddr":
		return "Please enter a valid email address"
	case "min":
		if e.Kind() == reflect.Slice {
			return "must contain at least " + e.Param() + " item(s)"
		}
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "eqfield":
		return "must match " + e.Param()
	default:
		return e.Tag() + " validation failed"
	}
}

func structName(e validator.FieldError) string {
	name, _, _ := strings.Cut(e.Namespace(), ".")
	return name
}

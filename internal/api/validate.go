package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
})

// Validate checks v's struct tags and reports failures as a KindValidation
// *Error, so they reach the user the same way server errors do.
func Validate(v any) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return &Error{Kind: KindValidation, Message: strings.Join(msgs, "; "), Err: err}
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return lengthBound(fe, "at least")
	case "max":
		return lengthBound(fe, "at most")
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "hexcolor":
		return field + " must be a hex color"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// lengthBound words a min or max failure for the field's kind.
func lengthBound(fe validator.FieldError, bound string) string {
	field, n := fe.Field(), fe.Param()
	switch fe.Kind() {
	case reflect.String:
		if bound == "at least" && n == "1" {
			return field + " must not be empty"
		}
		if n == "1" {
			return fmt.Sprintf("%s must be %s 1 character", field, bound)
		}
		return fmt.Sprintf("%s must be %s %s characters", field, bound, n)
	case reflect.Slice, reflect.Array, reflect.Map:
		if bound == "at least" && n == "1" {
			return field + " must not be empty"
		}
		if n == "1" {
			return fmt.Sprintf("%s must have %s 1 item", field, bound)
		}
		return fmt.Sprintf("%s must have %s %s items", field, bound, n)
	}
	return fmt.Sprintf("%s must be %s %s", field, bound, n)
}

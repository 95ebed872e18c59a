package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Message keys attached to invalid fields
const (
	MessageBlank   = "blank"
	MessageTooLong = "too_long"
	MessageInvalid = "invalid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	return v
}

// ValidationError is returned when a record fails validation before it is written.
type ValidationError struct {
	Model  string
	Fields map[string][]string
}

// Add records a failure for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return fmt.Sprintf("%s is invalid: %s", e.Model, strings.Join(parts, "; "))
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validateRecord(model string, record interface{}, checks ...func(*ValidationError)) error {
	ve := &ValidationError{Model: model}

	if err := validate.Struct(record); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			ve.Add(fe.Field(), messageFor(fe.Tag()))
		}
	}

	for _, check := range checks {
		check(ve)
	}

	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

func messageFor(tag string) string {
	switch tag {
	case "required", "notblank":
		return MessageBlank
	case "max":
		return MessageTooLong
	default:
		return MessageInvalid
	}
}

package validation

import (
	"errors"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// NotBlank rejects strings that are empty after trimming surrounding whitespace.
var NotBlank = ozzo.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// RequiredName validates a required name field and returns the first
// violation as a ValidationError, or nil.
func RequiredName(field, value string) *ValidationError {
	err := ozzo.Errors{field: ozzo.Validate(value, NotBlank)}.Filter()
	if err == nil {
		return nil
	}
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		if fe, ok := fieldErrs[field]; ok {
			return &ValidationError{Field: field, Message: fe.Error(), Code: "BLANK_FIELD"}
		}
	}
	return &ValidationError{Field: field, Message: err.Error(), Code: "BLANK_FIELD"}
}

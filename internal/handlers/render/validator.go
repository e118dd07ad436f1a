package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/memojjang/memojjang/internal/service/validate"
)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(useFormTagNames)
	return v
}

// Report errors under the 'form' tag name instead of the Go field name
// Look at documentation of 'RegisterTagNameFunc' for more details
func useFormTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// Validate runs struct tag validation and converts the result into
// field/message pairs a form template can show
func Validate(value any) validate.FieldErrors {
	err := formValidator.Struct(value)
	if err == nil {
		return nil
	}

	// pretty sure cast will be ok cause expecting value is a valid struct
	verrs := err.(validator.ValidationErrors)

	errs := make(validate.FieldErrors, 0, len(verrs))
	for _, fieldError := range verrs {
		errs = append(errs, validate.FieldError{
			Field:   fieldError.Field(),
			Message: messageForTag(fieldError),
		})
	}

	return errs
}

// Human readable message per validation tag
func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("Value is too short (minimum %s)", fe.Param())
	case "max":
		return fmt.Sprintf("Value is too long (maximum %s)", fe.Param())
	case "eqfield":
		return "Passwords do not match"
	default:
		return "Invalid value"
	}
}

package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RequestIDKey is the gin context key for the request ID.
const RequestIDKey = "request_id"

// SetupValidator configures the binding validator to report field names from
// json/form/uri tags instead of Go struct field names.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// ValidationMessage turns a binding error into a single human-readable
// message. Non-validator errors (malformed JSON and the like) fall back to a
// generic message.
func ValidationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "Request validation failed"
	}

	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		parts = append(parts, e.Field()+": "+fieldMessage(e))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "invalid value"
	}
}

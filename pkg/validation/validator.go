package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=6") // password minimum length
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

// FirstMessage converts a binding error into the message of the first
// violated rule; validation short-circuits on that rule alone.
func FirstMessage(err error) string {
	if err == nil {
		return ""
	}

	var pe *time.ParseError
	if errors.As(err, &pe) {
		return "Invalid date format"
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return "Invalid request body"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}

	return "Invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	label := labelFor(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "email":
		return "Please enter a valid email"
	case "max":
		return label + " cannot exceed " + fe.Param() + " characters"
	case "min", "pwd":
		param := fe.Param()
		if param == "" {
			param = "6"
		}
		return label + " must be at least " + param + " characters"
	case "oneof":
		return "Invalid " + strings.ToLower(label)
	}
	return label + " is invalid"
}

// labelFor turns a json field name into a human label:
// "currentPassword" -> "Current password".
func labelFor(field string) string {
	if field == "" {
		return "Field"
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

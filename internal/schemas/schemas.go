// Package schemas defines the request payloads accepted by the API and
// validates them before they reach the services.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformed is returned when a request body is not valid JSON for the payload.
var ErrMalformed = errors.New("malformed request body")

// ErrInvalid is returned when a payload fails validation.
var ErrInvalid = errors.New("invalid payload")

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

// maxBytes limits the encoded length of a string, unlike max which counts
// runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Decode reads a JSON payload from body into dst, trims its string fields
// and validates it.
func Decode(body io.Reader, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if n, ok := dst.(interface{ normalize() }); ok {
		n.normalize()
	}
	return Validate(dst)
}

// Validate checks the validate tags of payload and, for update payloads,
// that at least one field is set.
func Validate(payload any) error {
	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	if partial, ok := payload.(interface{ empty() bool }); ok && partial.empty() {
		return fmt.Errorf("%w: no fields to update", ErrInvalid)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", fe.Field(), comparison(fe.Tag()), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

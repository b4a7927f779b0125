package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"realty-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Custom ids are short admin codes used in public URLs, e.g. GL100 or A-2041.
var customIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Phones: optional +, digits, spaces, dashes and parentheses, 6-15 digits total.
var phoneCharsRe = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("custom_id", func(fl validator.FieldLevel) bool {
		return IsValidCustomID(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("status_color", func(fl validator.FieldLevel) bool {
		return IsValidStatusColor(fl.Field().String())
	})
	return v
}

func IsValidCustomID(id string) bool {
	return customIDRe.MatchString(id)
}

func IsValidPhone(phone string) bool {
	if !phoneCharsRe.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 6 && digits <= 15
}

func IsValidStatusColor(color string) bool {
	for _, c := range domain.StatusColors {
		if c == color {
			return true
		}
	}
	return false
}

// Struct validates s by its `validate` tags and reports the first failure as a ValidationError.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &domain.ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "custom_id":
		return fmt.Sprintf("%s may contain only letters, digits, '-' and '_'", fe.Field())
	case "phone":
		return fmt.Sprintf("%s is not a valid phone number", fe.Field())
	case "status_color":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(domain.StatusColors, " "))
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

package security

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// EmailFormatTag is the validator tag backed by IsValidEmail.
const EmailFormatTag = "emailformat"

// emailPattern: local part, "@", domain, ".", suffix. No whitespace or extra "@" in any segment.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s is a well-formed email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// RegisterEmailFormat registers the emailformat tag on v.
func RegisterEmailFormat(v *validator.Validate) error {
	return v.RegisterValidation(EmailFormatTag, func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
}

// NewValidator returns a validator with the package's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterEmailFormat(v); err != nil {
		// only fails on an empty tag or nil func
		panic(err)
	}
	return v
}

package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/pkg/phone"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// local@domain.tld where no part contains whitespace or another @
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Digits, spaces, hyphens and parentheses only
	phoneCharsRegex = regexp.MustCompile(`^[\d\s\-()]+$`)
)

// MinPhoneDigits is the minimum number of digits a non-empty phone must carry.
const MinPhoneDigits = 10

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("not_blank", NotBlank)
	_ = v.RegisterValidation("contact_email", ContactEmail)
	_ = v.RegisterValidation("contact_phone", ContactPhone)
	_ = v.RegisterValidation("offered_service", OfferedService)
	_ = v.RegisterValidation("message_length", MessageLength)
}

// NotBlank fails for strings that are empty after trimming whitespace
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ContactEmail validates the local@domain.tld shape
func ContactEmail(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

// ContactPhone validates an optional phone number
func ContactPhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}

// OfferedService validates that the value is one of the enumerated services
func OfferedService(fl validator.FieldLevel) bool {
	return domain.IsOfferedService(fl.Field().String())
}

// MessageLength validates the trimmed message length bounds
func MessageLength(fl validator.FieldLevel) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
	return n >= domain.MessageMinLength && n <= domain.MessageMaxLength
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsPhone reports whether s is empty, or only holds phone characters and at
// least MinPhoneDigits digits.
func IsPhone(s string) bool {
	if s == "" {
		return true // Optional
	}
	return phoneCharsRegex.MatchString(s) && len(phone.Digits(s)) >= MinPhoneDigits
}

package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go-advisory-contact/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FieldRules maps each validated form field to its validator tag chain.
// The first failing tag decides the message.
var FieldRules = map[domain.Field]string{
	domain.FieldFirstName: "not_blank",
	domain.FieldLastName:  "not_blank",
	domain.FieldEmail:     "not_blank,contact_email",
	domain.FieldPhone:     "contact_phone",
	domain.FieldService:   "not_blank,offered_service",
	domain.FieldMessage:   "not_blank,message_length",
}

// RequiredMessages are shown when a required field is blank
var RequiredMessages = map[domain.Field]string{
	domain.FieldFirstName: "First name is required",
	domain.FieldLastName:  "Last name is required",
	domain.FieldEmail:     "Email is required",
	domain.FieldService:   "Please select a service",
	domain.FieldMessage:   "Message is required",
}

// User facing messages for format failures
const (
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgInvalidPhone    = "Please enter a valid phone number"
	MsgInvalidService  = "Please select a service"
	MsgMessageTooShort = "Message must be at least 10 characters"
	MsgMessageTooLong  = "Message must be no more than 1000 characters"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"FirstName":  "First name",
	"LastName":   "Last name",
	"Email":      "Email",
	"Phone":      "Phone",
	"Service":    "Service",
	"Message":    "Message",
	"Newsletter": "Newsletter",
}

// FormValidator runs the contact form rules on top of a validator instance.
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a validator with the custom contact tags registered
func NewFormValidator() *FormValidator {
	v := validator.New()
	RegisterValidators(v)
	return &FormValidator{validate: v}
}

// ValidateField checks a single field. It returns nil when the field is valid
// or carries no rules.
func (fv *FormValidator) ValidateField(form domain.ContactForm, field domain.Field) *domain.FieldError {
	rule, ok := FieldRules[field]
	if !ok {
		return nil
	}
	value := form.Value(field)
	err := fv.validate.Var(value, rule)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.FieldError{Field: field, Message: err.Error()}
	}
	return &domain.FieldError{Field: field, Message: fieldMessage(field, verrs[0].Tag(), value)}
}

// ValidateAll checks every validated field and returns the failures in
// domain.ValidatedFields order.
func (fv *FormValidator) ValidateAll(form domain.ContactForm) []domain.FieldError {
	var out []domain.FieldError
	for _, field := range domain.ValidatedFields {
		if fe := fv.ValidateField(form, field); fe != nil {
			out = append(out, *fe)
		}
	}
	return out
}

// Struct exposes generic struct validation for request DTOs
func (fv *FormValidator) Struct(s interface{}) error {
	return fv.validate.Struct(s)
}

func fieldMessage(field domain.Field, tag, value string) string {
	switch tag {
	case "not_blank":
		if msg, ok := RequiredMessages[field]; ok {
			return msg
		}
		return fmt.Sprintf("%s is required", field)
	case "contact_email":
		return MsgInvalidEmail
	case "contact_phone":
		return MsgInvalidPhone
	case "offered_service":
		return MsgInvalidService
	case "message_length":
		if utf8.RuneCountInString(strings.TrimSpace(value)) < domain.MessageMinLength {
			return MsgMessageTooShort
		}
		return MsgMessageTooLong
	}
	return fmt.Sprintf("Invalid value (%s)", tag)
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be no more than %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be no more than %s", label, param)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s: must be a valid UUID", label)
	case "email", "contact_email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "contact_phone":
		return fmt.Sprintf("%s: invalid phone number", label)
	case "offered_service":
		return fmt.Sprintf("%s: must be one of the offered services", label)
	case "message_length":
		return fmt.Sprintf("%s: must be between %d and %d characters", label, domain.MessageMinLength, domain.MessageMaxLength)
	default:
		return fmt.Sprintf("%s: validation failed (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

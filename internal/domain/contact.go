package domain

import (
	"context"
	"errors"
	"time"
)

// Field identifies one input of the contact form. The values match the
// element ids used by the page markup.
type Field string

const (
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldService    Field = "service"
	FieldMessage    Field = "message"
	FieldNewsletter Field = "newsletter"
)

// ValidatedFields lists the fields that carry validation rules, in the order
// errors are reported.
var ValidatedFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldService,
	FieldMessage,
}

// Message length bounds, counted in characters of the trimmed text.
const (
	MessageMinLength = 10
	MessageMaxLength = 1000
)

// Service is one of the offered services a visitor can ask about.
type Service struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OfferedServices is the enumerated list backing the service select field.
var OfferedServices = []Service{
	{Value: "financial-planning", Label: "Financial Planning"},
	{Value: "retirement-planning", Label: "Retirement Planning"},
	{Value: "investment-management", Label: "Investment Management"},
	{Value: "tax-planning", Label: "Tax Planning"},
	{Value: "estate-planning", Label: "Estate Planning"},
	{Value: "insurance-planning", Label: "Insurance Planning"},
	{Value: "other", Label: "Other"},
}

// IsOfferedService reports whether value is one of OfferedServices.
func IsOfferedService(value string) bool {
	for _, s := range OfferedServices {
		if s.Value == value {
			return true
		}
	}
	return false
}

// ContactForm holds the raw, untrimmed field values as typed by the user.
type ContactForm struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Service    string `json:"service"`
	Message    string `json:"message"`
	Newsletter bool   `json:"newsletter"`
}

// Value returns the string value of a text or select field. The newsletter
// checkbox has no string value.
func (f ContactForm) Value(field Field) string {
	switch field {
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldService:
		return f.Service
	case FieldMessage:
		return f.Message
	}
	return ""
}

// Set assigns a text or select field. It returns false for unknown fields.
func (f *ContactForm) Set(field Field, value string) bool {
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldService:
		f.Service = value
	case FieldMessage:
		f.Message = value
	default:
		return false
	}
	return true
}

// IsEmpty reports whether every text field is empty and the checkbox unset.
func (f ContactForm) IsEmpty() bool {
	return f == ContactForm{}
}

// ContactSubmission is the validated record delivered to the submission
// endpoint. It is only built from a form that passed every field check.
type ContactSubmission struct {
	ID          string    `json:"id,omitempty"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Service     string    `json:"service"`
	Message     string    `json:"message"`
	Newsletter  bool      `json:"newsletter"`
	SubmittedAt time.Time `json:"timestamp"`
	// Source records which client produced the submission (web, cli).
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Form returns the submission values as a form, used for server-side
// re-validation of records received over the wire.
func (s ContactSubmission) Form() ContactForm {
	return ContactForm{
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Email:      s.Email,
		Phone:      s.Phone,
		Service:    s.Service,
		Message:    s.Message,
		Newsletter: s.Newsletter,
	}
}

// FieldError associates a field with a human readable validation message.
type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return string(e.Field) + ": " + e.Message
}

var (
	// ErrValidationFailed is returned by Submit when at least one field is invalid.
	ErrValidationFailed = errors.New("contact form has invalid fields")
	// ErrSubmissionInFlight is returned when a submit arrives while another attempt is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrSubmissionFailed wraps endpoint failures.
	ErrSubmissionFailed = errors.New("submission failed")
)

// Submitter delivers a submission to the remote endpoint. Implementations
// resolve exactly once per call: either the accepted record or an error.
type Submitter interface {
	Submit(ctx context.Context, submission ContactSubmission) (ContactSubmission, error)
}

// ContactRepository persists accepted submissions on the server side.
type ContactRepository interface {
	Create(ctx context.Context, submission *ContactSubmission) error
	GetByID(ctx context.Context, id string) (*ContactSubmission, error)
}

// ContactUsecase defines the server-side contact form operations
type ContactUsecase interface {
	// SendContactMessage validates, stores and forwards a submission
	SendContactMessage(ctx context.Context, req *ContactSubmission) (*ContactSubmission, error)
}

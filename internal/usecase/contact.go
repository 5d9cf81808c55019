package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/pkg/apperror"
	"go-advisory-contact/pkg/email"
	"go-advisory-contact/pkg/logger"
	"go-advisory-contact/pkg/validation"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// ContactNotifier forwards accepted submissions to the advisors' inbox
type ContactNotifier interface {
	IsConfigured() bool
	SendContactEmail(data email.ContactEmailData) error
}

type contactUsecase struct {
	repo      domain.ContactRepository
	notifier  ContactNotifier
	validator *validation.FormValidator
	policy    *bluemonday.Policy
	log       *zap.Logger
	now       func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(repo domain.ContactRepository, notifier ContactNotifier, v *validation.FormValidator, log *zap.Logger) domain.ContactUsecase {
	return &contactUsecase{
		repo:      repo,
		notifier:  notifier,
		validator: v,
		policy:    bluemonday.StrictPolicy(),
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// SendContactMessage cleans the submission, validates the cleaned values with
// the same rules as the form, stores it and notifies the advisors. A notification failure does not
// fail the request once the submission is stored.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactSubmission) (*domain.ContactSubmission, error) {
	if req == nil {
		return nil, apperror.BadRequest("Missing contact submission")
	}

	now := uc.now().UTC()
	record := &domain.ContactSubmission{
		ID:          uuid.NewString(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Service:     req.Service,
		Message:     uc.sanitizeMessage(req.Message),
		Newsletter:  req.Newsletter,
		SubmittedAt: req.SubmittedAt.UTC(),
		Source:      req.Source,
		CreatedAt:   now,
	}
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = now
	}
	if record.Source == "" {
		record.Source = "web"
	}

	// Rules apply to what is stored, not to what was sent
	if fieldErrs := uc.validator.ValidateAll(record.Form()); len(fieldErrs) > 0 {
		return nil, apperror.Validation("Please correct the errors above", fieldErrs)
	}

	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store contact submission: %w", err)
	}

	uc.notify(record)
	return record, nil
}

func (uc *contactUsecase) notify(record *domain.ContactSubmission) {
	if uc.notifier == nil || !uc.notifier.IsConfigured() {
		uc.log.Debug("email service not configured, skipping notification", zap.String("submission_id", record.ID))
		return
	}

	data := email.ContactEmailData{
		SubmissionID: record.ID,
		SenderName:   record.FirstName + " " + record.LastName,
		SenderEmail:  record.Email,
		Phone:        record.Phone,
		Service:      serviceLabel(record.Service),
		Message:      html.UnescapeString(record.Message),
		Newsletter:   record.Newsletter,
		SubmittedAt:  record.SubmittedAt,
	}
	if err := uc.notifier.SendContactEmail(data); err != nil {
		uc.log.Warn("failed to send contact email", zap.String("submission_id", record.ID), zap.Error(err))
	}
}

// sanitizeMessage decodes entities first so encoded markup is stripped like
// literal markup. The result stays HTML-escaped text.
func (uc *contactUsecase) sanitizeMessage(raw string) string {
	return strings.TrimSpace(uc.policy.Sanitize(html.UnescapeString(raw)))
}

func serviceLabel(value string) string {
	for _, s := range domain.OfferedServices {
		if s.Value == value {
			return s.Label
		}
	}
	return value
}

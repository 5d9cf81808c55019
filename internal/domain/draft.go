package domain

import (
	"context"
	"errors"
)

var (
	// ErrDraftNotFound is returned by DraftStore.Load when no draft is stored.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("draft store unavailable")
)

// Draft is the persisted copy of the form. It mirrors ContactForm but lives
// in its own type so the storage layout is stable.
type Draft struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Service    string `json:"service"`
	Message    string `json:"message"`
	Newsletter bool   `json:"newsletter"`
}

// DraftFromForm copies the persistable fields of a form.
func DraftFromForm(f ContactForm) Draft {
	return Draft(f)
}

// Form returns the draft as form values.
func (d Draft) Form() ContactForm {
	return ContactForm(d)
}

// DraftStore is the key-value store holding at most one draft per key.
// Save overwrites wholesale and Delete removes wholesale.
type DraftStore interface {
	Save(ctx context.Context, draft Draft) error
	Load(ctx context.Context) (Draft, error)
	Delete(ctx context.Context) error
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// DraftUsecase manages drafts on behalf of remote clients, one per session.
type DraftUsecase interface {
	SaveDraft(ctx context.Context, session string, draft Draft) error
	GetDraft(ctx context.Context, session string) (*Draft, error)
	DeleteDraft(ctx context.Context, session string) error
}

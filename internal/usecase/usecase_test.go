package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/repository/draftstore"
	"go-advisory-contact/internal/usecase"
	"go-advisory-contact/pkg/apperror"
	"go-advisory-contact/pkg/email"
	"go-advisory-contact/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, s *domain.ContactSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockContactRepo) GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactSubmission), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockNotifier) SendContactEmail(data email.ContactEmailData) error {
	return m.Called(data).Error(0)
}

func validSubmission() *domain.ContactSubmission {
	return &domain.ContactSubmission{
		FirstName:   " Ada ",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Phone:       "(555) 123-4567",
		Service:     "estate-planning",
		Message:     "  I need help with <b>estate</b> planning & trusts.  ",
		SubmittedAt: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
	}
}

func TestContactUsecase_RejectsInvalidSubmission(t *testing.T) {
	repo := new(MockContactRepo)
	uc := usecase.NewContactUsecase(repo, nil, validation.NewFormValidator(), nil)

	req := validSubmission()
	req.Email = "ada@"
	req.Message = "short"

	_, err := uc.SendContactMessage(context.Background(), req)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, []domain.FieldError{
		{Field: domain.FieldEmail, Message: validation.MsgInvalidEmail},
		{Field: domain.FieldMessage, Message: validation.MsgMessageTooShort},
	}, appErr.Details)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactUsecase_StoresAndNotifies(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := usecase.NewContactUsecase(repo, notifier, validation.NewFormValidator(), nil)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ContactSubmission")).Return(nil).Run(func(args mock.Arguments) {
		s := args.Get(1).(*domain.ContactSubmission)
		assert.Equal(t, "Ada", s.FirstName)
		assert.Equal(t, "I need help with estate planning &amp; trusts.", s.Message)
		assert.Equal(t, "web", s.Source)
		_, err := uuid.Parse(s.ID)
		assert.NoError(t, err)
	})
	notifier.On("IsConfigured").Return(true)
	notifier.On("SendContactEmail", mock.MatchedBy(func(d email.ContactEmailData) bool {
		return d.Service == "Estate Planning" && d.SenderName == "Ada Lovelace" &&
			d.Message == "I need help with estate planning & trusts."
	})).Return(errors.New("smtp down"))

	got, err := uc.SendContactMessage(context.Background(), validSubmission())
	require.NoError(t, err, "a failed notification must not fail a stored submission")
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, validSubmission().SubmittedAt, got.SubmittedAt)

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestContactUsecase_ValidatesSanitizedMessage(t *testing.T) {
	repo := new(MockContactRepo)
	uc := usecase.NewContactUsecase(repo, nil, validation.NewFormValidator(), nil)

	req := validSubmission()
	req.Message = "<script>alert(1)</script>"

	_, err := uc.SendContactMessage(context.Background(), req)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, []domain.FieldError{
		{Field: domain.FieldMessage, Message: "Message is required"},
	}, appErr.Details)

	req.Message = "<b><i>hi</i></b> there"
	_, err = uc.SendContactMessage(context.Background(), req)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []domain.FieldError{
		{Field: domain.FieldMessage, Message: validation.MsgMessageTooShort},
	}, appErr.Details)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactUsecase_StripsEncodedMarkup(t *testing.T) {
	repo := new(MockContactRepo)
	uc := usecase.NewContactUsecase(repo, nil, validation.NewFormValidator(), nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validSubmission()
	req.Message = "&lt;script&gt;alert(1)&lt;/script&gt; please call me back"

	got, err := uc.SendContactMessage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "please call me back", got.Message)
	assert.NotContains(t, got.Message, "<")
	repo.AssertExpectations(t)
}

func TestContactUsecase_StorageFailure(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := usecase.NewContactUsecase(repo, notifier, validation.NewFormValidator(), nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(apperror.Internal(errors.New("db gone")))

	_, err := uc.SendContactMessage(context.Background(), validSubmission())
	assert.Error(t, err)
	notifier.AssertNotCalled(t, "SendContactEmail", mock.Anything)
}

func TestDraftUsecase(t *testing.T) {
	backend := draftstore.NewMemoryStore("unused")
	var keys []string
	uc := usecase.NewDraftUsecase(func(key string) domain.DraftStore {
		keys = append(keys, key)
		return backend.WithKey(key)
	}, "gfah_contact_draft", nil)
	ctx := context.Background()
	session := "5b7f3c2e-8a49-4f5e-9d7e-2b1c0e6f4a10"

	t.Run("rejects malformed session", func(t *testing.T) {
		err := uc.SaveDraft(ctx, "../../etc", domain.Draft{})
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("missing draft is not found", func(t *testing.T) {
		_, err := uc.GetDraft(ctx, session)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("round trip", func(t *testing.T) {
		want := domain.Draft{FirstName: "Ada", Message: "draft", Newsletter: true}
		require.NoError(t, uc.SaveDraft(ctx, session, want))
		got, err := uc.GetDraft(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, want, *got)

		require.NoError(t, uc.DeleteDraft(ctx, session))
		_, err = uc.GetDraft(ctx, session)
		assert.Error(t, err)
	})

	assert.Contains(t, keys, "gfah_contact_draft:"+session)
}

func TestHealthUsecase(t *testing.T) {
	uc := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("down") },
		"smtp":     nil,
	})

	status, healthy := uc.Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, map[string]string{
		"status":   "degraded",
		"database": "ok",
		"redis":    "unavailable",
		"smtp":     "disabled",
	}, status)
}

package usecase

import (
	"context"
	"errors"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/pkg/apperror"
	"go-advisory-contact/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftStoreFactory returns the store for one storage key.
type DraftStoreFactory func(key string) domain.DraftStore

type draftUsecase struct {
	stores  DraftStoreFactory
	baseKey string
	log     *zap.Logger
}

// NewDraftUsecase serves drafts for clients without local storage. Each
// session gets its own key below baseKey, e.g. "gfah_contact_draft:<uuid>".
func NewDraftUsecase(stores DraftStoreFactory, baseKey string, log *zap.Logger) domain.DraftUsecase {
	return &draftUsecase{stores: stores, baseKey: baseKey, log: logger.OrNop(log)}
}

func (uc *draftUsecase) SaveDraft(ctx context.Context, session string, draft domain.Draft) error {
	store, err := uc.storeFor(session)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, draft); err != nil {
		uc.log.Warn("failed to save draft", zap.String("session", session), zap.Error(err))
		return apperror.Unavailable("Draft storage temporarily unavailable", err)
	}
	return nil
}

func (uc *draftUsecase) GetDraft(ctx context.Context, session string) (*domain.Draft, error) {
	store, err := uc.storeFor(session)
	if err != nil {
		return nil, err
	}
	draft, err := store.Load(ctx)
	if errors.Is(err, domain.ErrDraftNotFound) {
		return nil, apperror.NotFound("No saved draft")
	}
	if err != nil {
		uc.log.Warn("failed to load draft", zap.String("session", session), zap.Error(err))
		return nil, apperror.Unavailable("Draft storage temporarily unavailable", err)
	}
	return &draft, nil
}

func (uc *draftUsecase) DeleteDraft(ctx context.Context, session string) error {
	store, err := uc.storeFor(session)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx); err != nil {
		uc.log.Warn("failed to clear draft", zap.String("session", session), zap.Error(err))
		return apperror.Unavailable("Draft storage temporarily unavailable", err)
	}
	return nil
}

func (uc *draftUsecase) storeFor(session string) (domain.DraftStore, error) {
	id, err := uuid.Parse(session)
	if err != nil {
		return nil, apperror.BadRequest("Invalid draft session")
	}
	return uc.stores(uc.baseKey + ":" + id.String()), nil
}

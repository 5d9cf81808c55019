package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go-advisory-contact/internal/domain"
)

// FileStore persists the draft as a JSON document in a directory, the
// terminal counterpart of browser local storage. Writes go through a
// temporary file and a rename so a crash never leaves half a draft.
type FileStore struct {
	dir string
	key string
}

func NewFileStore(dir, key string) *FileStore {
	return &FileStore{dir: dir, key: key}
}

// Path returns the file the draft is stored in.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

func (s *FileStore) Save(ctx context.Context, draft domain.Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(s.dir, s.key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return domain.Draft{}, err
	}
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// A corrupt file would be offered again on every load
		_ = os.Remove(s.Path())
		return domain.Draft{}, fmt.Errorf("%w: discarded corrupt draft: %v", domain.ErrDraftNotFound, err)
	}
	return draft, nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

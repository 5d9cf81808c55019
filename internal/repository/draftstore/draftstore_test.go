package draftstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/repository/draftstore"

	"github.com/google/go-cmp/cmp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() domain.Draft {
	return domain.Draft{
		FirstName:  "Grace",
		LastName:   "Hopper",
		Email:      "grace@example.com",
		Phone:      "(555) 123-4567",
		Service:    "tax-planning",
		Message:    "Half-written question about ",
		Newsletter: true,
	}
}

// exerciseStore runs the shared DraftStore contract against an implementation.
func exerciseStore(t *testing.T, store domain.DraftStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	require.NoError(t, store.Save(ctx, sampleDraft()))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleDraft(), got); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}

	overwrite := domain.Draft{Message: "only a message"}
	require.NoError(t, store.Save(ctx, overwrite))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, overwrite, got)

	require.NoError(t, store.Delete(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	// deleting twice is not an error
	assert.NoError(t, store.Delete(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, draftstore.NewMemoryStore("gfah_contact_draft"))
}

func TestMemoryStore_WithKeyIsolation(t *testing.T) {
	ctx := context.Background()
	a := draftstore.NewMemoryStore("a")
	b := a.WithKey("b")

	require.NoError(t, a.Save(ctx, sampleDraft()))
	assert.True(t, a.Has())
	assert.False(t, b.Has())
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, draftstore.NewFileStore(t.TempDir(), "gfah_contact_draft"))
}

func TestFileStore_SurvivesNewInstance(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, draftstore.NewFileStore(dir, "gfah_contact_draft").Save(ctx, sampleDraft()))

	fresh := draftstore.NewFileStore(dir, "gfah_contact_draft")
	got, err := fresh.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleDraft(), got)
	assert.FileExists(t, filepath.Join(dir, "gfah_contact_draft.json"))
}

func TestFileStore_CorruptDraft(t *testing.T) {
	dir := t.TempDir()
	store := draftstore.NewFileStore(dir, "k")
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	assert.NoFileExists(t, store.Path(), "corrupt draft is discarded")

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

type fakeRedis struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *goredis.StringCmd {
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestRedisStore(t *testing.T) {
	exerciseStore(t, draftstore.NewRedisStore(newFakeRedis(), "gfah_contact_draft", time.Hour))
}

func TestRedisStore_WritesTTLAndJSON(t *testing.T) {
	client := newFakeRedis()
	store := draftstore.NewRedisStore(client, "gfah_contact_draft", time.Hour)

	require.NoError(t, store.Save(context.Background(), domain.Draft{Message: "hello"}))
	assert.Equal(t, time.Hour, client.ttls["gfah_contact_draft"])
	assert.JSONEq(t, `{"firstName":"","lastName":"","email":"","phone":"","service":"","message":"hello","newsletter":false}`,
		client.data["gfah_contact_draft"])
}

func TestRedisStore_CorruptDraft(t *testing.T) {
	client := newFakeRedis()
	client.data["k"] = "{not json"
	store := draftstore.NewRedisStore(client, "k", 0)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	assert.NotContains(t, client.data, "k")
}

func TestRedisStore_Unavailable(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	store := draftstore.NewRedisStore(client, "k", 0)
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, sampleDraft()), domain.ErrStoreUnavailable)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete(ctx), domain.ErrStoreUnavailable)

	assert.ErrorIs(t, draftstore.NewRedisStore(nil, "k", 0).Save(ctx, sampleDraft()), domain.ErrStoreUnavailable)
}

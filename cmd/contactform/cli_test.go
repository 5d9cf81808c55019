package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"go-advisory-contact/config"
	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/repository/draftstore"
	"go-advisory-contact/internal/submitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestDraftCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DRAFT_DIR", dir)
	t.Setenv("REDIS_URL", "")
	t.Setenv("APP_PREFIX", "gfah")

	assert.Equal(t, "No saved draft.\n", execute(t, "draft", "show"))

	want := domain.Draft{FirstName: "Ada", Email: "ada@example.com", Message: "Call me tomorrow", Newsletter: true}
	require.NoError(t, draftstore.NewFileStore(dir, "gfah_contact_draft").Save(context.Background(), want))

	var got domain.Draft
	require.NoError(t, json.Unmarshal([]byte(execute(t, "draft", "show")), &got))
	assert.Equal(t, want, got)

	assert.Equal(t, "Draft cleared.\n", execute(t, "draft", "clear"))
	assert.Equal(t, "No saved draft.\n", execute(t, "draft", "show"))
}

func TestNewSubmitter(t *testing.T) {
	_, simulated := newSubmitter(&config.Config{SubmitMode: config.SubmitModeSimulated}).(*submitter.Simulated)
	assert.True(t, simulated)

	_, viaHTTP := newSubmitter(&config.Config{SubmitMode: config.SubmitModeHTTP, SubmitEndpoint: "http://localhost:8080/v1/contact"}).(*submitter.HTTP)
	assert.True(t, viaHTTP)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"go-advisory-contact/config"
	"go-advisory-contact/internal/delivery/cli"
	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/repository/draftstore"
	"go-advisory-contact/internal/submitter"
	"go-advisory-contact/internal/usecase"
	pkglogger "go-advisory-contact/pkg/logger"
	"go-advisory-contact/pkg/redis"
	"go-advisory-contact/pkg/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// fillCmd runs one interactive form session
var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in and submit the contact form",
	Long: `Prompts for each field of the contact form and submits it.

A saved draft is offered first. While the session is open the form is saved
every DRAFT_AUTOSAVE_SECONDS, and a typed message is kept when you quit.
SUBMIT_MODE selects the simulated endpoint or the HTTP API at SUBMIT_ENDPOINT.`,
	RunE: runFill,
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openDraftStore(cfg, logger)
	pipeline := usecase.NewFormPipeline(
		validation.NewFormValidator(),
		store,
		newSubmitter(cfg),
		usecase.WithLogger(logger),
		usecase.WithAutoSaveInterval(cfg.DraftAutoSaveInterval()),
		usecase.WithSource("cli"),
	)

	err := cli.NewSession(pipeline, cli.NewSurveyDriver(), logger).Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cli.ErrAborted), errors.Is(err, context.Canceled):
		if pipeline.Snapshot().Values.Message != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Your draft has been saved.")
		}
		return nil
	case errors.Is(err, domain.ErrSubmissionFailed):
		fmt.Fprintln(cmd.OutOrStdout(), "Your message was not sent. Your draft has been saved.")
		return err
	default:
		return err
	}
}

func newSubmitter(cfg *config.Config) domain.Submitter {
	if cfg.SubmitMode == config.SubmitModeHTTP {
		return submitter.NewHTTP(cfg.SubmitEndpoint, cfg.SubmitTimeout())
	}
	return submitter.NewSimulated(cfg.SubmitDelay(), cfg.SubmitFailureRate)
}

// openDraftStore prefers Redis when configured and reachable, and falls
// back to the local draft file.
func openDraftStore(cfg *config.Config, log *zap.Logger) domain.DraftStore {
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			log.Warn("redis unavailable, using local draft file", zap.Error(err))
		} else {
			return draftstore.NewRedisStore(redis.Client(), cfg.DraftKey(), cfg.DraftTTL())
		}
	}
	return draftstore.NewFileStore(cfg.DraftDir, cfg.DraftKey())
}

func newLogger(level string) (*zap.Logger, error) {
	return pkglogger.New(level, "stderr")
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/usecase"
	"go-advisory-contact/pkg/logger"

	"go.uber.org/zap"
)

// prompts are shown in form order
var prompts = []struct {
	field domain.Field
	label string
}{
	{domain.FieldFirstName, "First name"},
	{domain.FieldLastName, "Last name"},
	{domain.FieldEmail, "Email"},
	{domain.FieldPhone, "Phone (optional)"},
	{domain.FieldService, "Service of interest"},
	{domain.FieldMessage, "Message"},
	{domain.FieldNewsletter, "Subscribe to our newsletter?"},
}

// Session is one visit to the contact page, played out in a terminal.
type Session struct {
	pipeline *usecase.FormPipeline
	driver   PromptDriver
	log      *zap.Logger
}

func NewSession(pipeline *usecase.FormPipeline, driver PromptDriver, log *zap.Logger) *Session {
	return &Session{pipeline: pipeline, driver: driver, log: logger.OrNop(log)}
}

// Run offers the stored draft, walks the fields, then submits until the
// submission succeeds or the user gives up. Autosave runs for the whole
// session and the draft is kept on exit if a message was typed.
func (s *Session) Run(ctx context.Context) error {
	restored, err := s.pipeline.RestoreDraft(ctx, Confirmer(s.driver))
	if err != nil {
		return err
	}
	if restored {
		if err := s.driver.Info(ctx, "Draft restored."); err != nil {
			return err
		}
	}

	defer s.pipeline.Unload(context.WithoutCancel(ctx))

	autoCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.pipeline.RunAutoSave(autoCtx)
	}()
	defer wg.Wait()
	defer stop()

	pending := make([]domain.Field, 0, len(prompts))
	for _, p := range prompts {
		pending = append(pending, p.field)
	}

	for {
		for _, field := range pending {
			if err := s.ask(ctx, field); err != nil {
				return err
			}
		}

		attempt, err := s.pipeline.Submit(ctx)
		if errors.Is(err, domain.ErrValidationFailed) {
			view := s.pipeline.Snapshot()
			if err := s.driver.Info(ctx, view.Notice.Text); err != nil {
				return err
			}
			pending = invalidFields(view)
			continue
		}
		if err != nil {
			return err
		}

		if err := s.driver.Info(ctx, "Sending..."); err != nil {
			return err
		}
		_, err = attempt.Wait(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if infoErr := s.driver.Info(ctx, s.pipeline.Snapshot().Notice.Text); infoErr != nil {
			return infoErr
		}
		if err == nil {
			return nil
		}

		retry, cerr := s.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if cerr != nil {
			return cerr
		}
		if !retry {
			return err
		}
		pending = pending[:0]
	}
}

func (s *Session) ask(ctx context.Context, field domain.Field) error {
	label := labelFor(field)
	for {
		current := s.pipeline.Snapshot().Values

		var fe *domain.FieldError
		switch field {
		case domain.FieldNewsletter:
			optIn, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current.Newsletter})
			if err != nil {
				return err
			}
			s.pipeline.SetNewsletter(optIn)
			return nil

		case domain.FieldService:
			options := make([]string, len(domain.OfferedServices))
			defaultIndex := 0
			for i, svc := range domain.OfferedServices {
				options[i] = svc.Label
				if svc.Value == current.Service {
					defaultIndex = i
				}
			}
			idx, err := s.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: defaultIndex})
			if err != nil {
				return err
			}
			value := ""
			if idx >= 0 && idx < len(domain.OfferedServices) {
				value = domain.OfferedServices[idx].Value
			}
			fe = s.pipeline.Change(field, value)

		case domain.FieldMessage:
			text, err := s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current.Message})
			if err != nil {
				return err
			}
			s.pipeline.Input(field, text)
			if err := s.driver.Info(ctx, s.pipeline.Snapshot().Counter.Text); err != nil {
				return err
			}
			fe = s.pipeline.Blur(field)

		default:
			text, err := s.driver.Input(ctx, InputConfig{Message: label, Default: current.Value(field)})
			if err != nil {
				return err
			}
			if formatted := s.pipeline.Input(field, text); field == domain.FieldPhone && formatted != text && formatted != "" {
				if err := s.driver.Info(ctx, fmt.Sprintf("Phone: %s", formatted)); err != nil {
					return err
				}
			}
			fe = s.pipeline.Blur(field)
		}

		if fe == nil {
			return nil
		}
		if err := s.driver.Info(ctx, "  "+fe.Message); err != nil {
			return err
		}
	}
}

func labelFor(field domain.Field) string {
	for _, p := range prompts {
		if p.field == field {
			return p.label
		}
	}
	return string(field)
}

func invalidFields(view domain.FormView) []domain.Field {
	var out []domain.Field
	for _, p := range prompts {
		if _, bad := view.Errors[p.field]; bad {
			out = append(out, p.field)
		}
	}
	return out
}

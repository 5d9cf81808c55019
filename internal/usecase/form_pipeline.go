package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/pkg/logger"
	"go-advisory-contact/pkg/phone"
	"go-advisory-contact/pkg/validation"

	"go.uber.org/zap"
)

// Notice texts shown in the notification region
const (
	NoticeCorrectErrors  = "Please correct the errors above"
	NoticeSubmitSuccess  = "Thank you for your message! We'll get back to you within 24 hours."
	NoticeSubmitFailure  = "Sorry, there was an error submitting your form. Please try again or contact us directly."
	RestoreDraftQuestion = "We found a saved draft. Would you like to restore it?"
)

// DefaultAutoSaveInterval is how often an open form is written to the draft store.
const DefaultAutoSaveInterval = 10 * time.Second

// FormPipeline owns one contact form for the lifetime of a page: field
// values, their errors, the single in-flight submission and the draft.
// All methods are safe for concurrent use.
type FormPipeline struct {
	validator *validation.FormValidator
	store     domain.DraftStore
	submitter domain.Submitter
	log       *zap.Logger
	now       func() time.Time
	interval  time.Duration
	observer  func(domain.FormView)
	source    string

	mu           sync.Mutex
	seq          uint64
	phase        domain.Phase
	form         domain.ContactForm
	errors       map[domain.Field]string
	notice       domain.Notice
	counter      domain.CharacterCount
	draftOffered bool

	// persistMu orders store writes: a save holds it from snapshot to
	// Save, so a clear can never be overtaken by an older snapshot.
	persistMu sync.Mutex

	observerMu  sync.Mutex
	observedSeq uint64
}

// PipelineOption configures a FormPipeline.
type PipelineOption func(*FormPipeline)

func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *FormPipeline) { p.log = logger.OrNop(l) }
}

// WithClock overrides the time source used for SubmittedAt.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *FormPipeline) { p.now = now }
}

func WithAutoSaveInterval(d time.Duration) PipelineOption {
	return func(p *FormPipeline) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithObserver registers a renderer callback invoked with a fresh view after
// every state change. It is never called with the pipeline lock held.
func WithObserver(fn func(domain.FormView)) PipelineOption {
	return func(p *FormPipeline) { p.observer = fn }
}

// WithSource tags submissions with the client that produced them.
func WithSource(source string) PipelineOption {
	return func(p *FormPipeline) { p.source = source }
}

// NewFormPipeline creates the pipeline for one page load.
func NewFormPipeline(v *validation.FormValidator, store domain.DraftStore, submitter domain.Submitter, opts ...PipelineOption) *FormPipeline {
	p := &FormPipeline{
		validator: v,
		store:     store,
		submitter: submitter,
		log:       zap.NewNop(),
		now:       time.Now,
		interval:  DefaultAutoSaveInterval,
		errors:    make(map[domain.Field]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.counter = characterCount(0)
	p.log.Debug("contact form initialized", zap.Duration("autosave_interval", p.interval))
	return p
}

// Input applies a keystroke-level change to a text field and returns the
// value the field holds afterwards. Phone input is re-formatted live and
// message input is truncated at the maximum length.
func (p *FormPipeline) Input(field domain.Field, value string) string {
	var out string
	p.update(func() {
		switch field {
		case domain.FieldPhone:
			value = phone.Format(value)
		case domain.FieldMessage:
			value = p.applyMessageLocked(value)
		}
		if p.form.Set(field, value) {
			out = value
		}
	})
	return out
}

// Change sets a selection field and validates it immediately.
func (p *FormPipeline) Change(field domain.Field, value string) *domain.FieldError {
	var fe *domain.FieldError
	p.update(func() {
		if field == domain.FieldMessage {
			value = p.applyMessageLocked(value)
		}
		p.form.Set(field, value)
		fe = p.validateFieldLocked(field)
	})
	return fe
}

// Blur validates a text field when it loses focus.
func (p *FormPipeline) Blur(field domain.Field) *domain.FieldError {
	var fe *domain.FieldError
	p.update(func() {
		fe = p.validateFieldLocked(field)
	})
	return fe
}

// SetNewsletter toggles the opt-in checkbox.
func (p *FormPipeline) SetNewsletter(optIn bool) {
	p.update(func() {
		p.form.Newsletter = optIn
	})
}

// Submit validates the whole form and, when every field passes, starts a
// single asynchronous submission. It returns ErrSubmissionInFlight while
// another attempt is pending and ErrValidationFailed when a field is
// invalid; in both cases nothing is sent.
//
// ctx bounds the submission itself. Cancelling it abandons the attempt the
// way navigating away from the page does.
func (p *FormPipeline) Submit(ctx context.Context) (*Attempt, error) {
	var (
		attempt    *Attempt
		submission domain.ContactSubmission
		err        error
	)
	p.update(func() {
		if p.phase == domain.PhaseSubmitting {
			err = domain.ErrSubmissionInFlight
			return
		}

		p.phase = domain.PhaseValidating
		p.notice = domain.Notice{}
		clear(p.errors)

		if fieldErrs := p.validator.ValidateAll(p.form); len(fieldErrs) > 0 {
			for _, fe := range fieldErrs {
				p.errors[fe.Field] = fe.Message
			}
			p.notice = domain.Notice{Kind: domain.NoticeError, Text: NoticeCorrectErrors, Visible: true}
			p.phase = domain.PhaseIdle
			err = fmt.Errorf("%w: %d field(s)", domain.ErrValidationFailed, len(fieldErrs))
			return
		}

		submission = p.buildSubmissionLocked()
		p.phase = domain.PhaseSubmitting
		attempt = newAttempt()
	})
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionInFlight) {
			p.log.Debug("submit ignored, attempt already in flight")
		}
		return nil, err
	}

	go p.deliver(ctx, attempt, submission)
	return attempt, nil
}

func (p *FormPipeline) deliver(ctx context.Context, attempt *Attempt, submission domain.ContactSubmission) {
	result, err := p.submitter.Submit(ctx, submission)

	abandoned := err != nil && ctx.Err() != nil
	p.update(func() {
		p.phase = domain.PhaseIdle
		switch {
		case abandoned:
			// The page is gone, nobody is left to notify.
		case err != nil:
			p.notice = domain.Notice{Kind: domain.NoticeError, Text: NoticeSubmitFailure, Visible: true}
		default:
			p.notice = domain.Notice{Kind: domain.NoticeSuccess, Text: NoticeSubmitSuccess, Visible: true}
			p.form = domain.ContactForm{}
			clear(p.errors)
			p.counter = characterCount(0)
		}
	})

	switch {
	case abandoned:
		p.log.Info("submission abandoned", zap.Error(err))
	case err != nil:
		p.log.Error("form submission error", zap.Error(err))
	default:
		p.log.Info("form submitted successfully",
			zap.String("submission_id", result.ID),
			zap.String("service", result.Service),
		)
		p.ClearDraft(context.WithoutCancel(ctx))
	}

	attempt.resolve(result, err)
}

// SaveDraft writes the current field values to the draft store. Failures are
// logged and otherwise ignored.
func (p *FormPipeline) SaveDraft(ctx context.Context) {
	p.saveDraftIf(ctx, func(domain.ContactForm) bool { return true })
}

// saveDraftIf saves when keep accepts the form as it is at write time.
func (p *FormPipeline) saveDraftIf(ctx context.Context, keep func(domain.ContactForm) bool) {
	p.persistMu.Lock()
	defer p.persistMu.Unlock()

	p.mu.Lock()
	form := p.form
	p.mu.Unlock()
	if !keep(form) {
		return
	}

	if err := p.store.Save(ctx, domain.DraftFromForm(form)); err != nil {
		p.log.Warn("failed to save draft", zap.Error(err))
		return
	}
	p.log.Debug("draft saved")
}

// ClearDraft removes the stored draft. Failures are logged and otherwise ignored.
func (p *FormPipeline) ClearDraft(ctx context.Context) {
	p.persistMu.Lock()
	defer p.persistMu.Unlock()

	if err := p.store.Delete(ctx); err != nil {
		p.log.Warn("failed to clear draft", zap.Error(err))
		return
	}
	p.log.Debug("draft cleared")
}

// Unload saves the draft when the page is closed with a non-blank message.
func (p *FormPipeline) Unload(ctx context.Context) {
	p.saveDraftIf(ctx, func(f domain.ContactForm) bool {
		return strings.TrimSpace(f.Message) != ""
	})
}

// RestoreDraft offers a stored draft to the user once per pipeline. When the
// user accepts, every field is replaced by the draft values. It reports
// whether a draft was restored. Store failures are logged and reported as
// "nothing restored"; only a failing confirmation prompt returns an error.
func (p *FormPipeline) RestoreDraft(ctx context.Context, confirmer domain.Confirmer) (bool, error) {
	p.mu.Lock()
	offered := p.draftOffered
	p.draftOffered = true
	p.mu.Unlock()
	if offered {
		return false, nil
	}

	draft, err := p.store.Load(ctx)
	if errors.Is(err, domain.ErrDraftNotFound) {
		return false, nil
	}
	if err != nil {
		p.log.Warn("failed to load draft", zap.Error(err))
		return false, nil
	}

	restore, err := confirmer.Confirm(ctx, RestoreDraftQuestion)
	if err != nil {
		return false, fmt.Errorf("confirm draft restore: %w", err)
	}
	if !restore {
		return false, nil
	}

	p.update(func() {
		p.form = draft.Form()
		p.form.Message = p.applyMessageLocked(p.form.Message)
	})
	p.log.Debug("draft restored")
	return true, nil
}

// RunAutoSave saves the draft on every interval tick while any field holds a
// value. It blocks until ctx is done.
func (p *FormPipeline) RunAutoSave(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.saveDraftIf(ctx, func(f domain.ContactForm) bool {
				return !f.IsEmpty()
			})
		}
	}
}

// Snapshot returns the current view state.
func (p *FormPipeline) Snapshot() domain.FormView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

// Phase returns the current lifecycle phase.
func (p *FormPipeline) Phase() domain.Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// update runs fn under the lock and then hands the resulting view to the
// observer. Views reach the observer one at a time in Seq order; a view
// overtaken by a newer one is dropped.
func (p *FormPipeline) update(fn func()) {
	p.mu.Lock()
	fn()
	p.seq++
	var view domain.FormView
	if p.observer != nil {
		view = p.viewLocked()
	}
	p.mu.Unlock()

	if p.observer != nil {
		p.notify(view)
	}
}

func (p *FormPipeline) notify(view domain.FormView) {
	p.observerMu.Lock()
	defer p.observerMu.Unlock()
	if view.Seq <= p.observedSeq {
		return
	}
	p.observedSeq = view.Seq
	p.observer(view)
}

func (p *FormPipeline) viewLocked() domain.FormView {
	errs := make(map[domain.Field]string, len(p.errors))
	for k, v := range p.errors {
		errs[k] = v
	}
	submitting := p.phase == domain.PhaseSubmitting
	return domain.FormView{
		Seq:            p.seq,
		Phase:          p.phase,
		Values:         p.form,
		Errors:         errs,
		Notice:         p.notice,
		Counter:        p.counter,
		SubmitDisabled: submitting,
		Busy:           submitting,
	}
}

// validateFieldLocked sets or clears the single error slot of a field.
func (p *FormPipeline) validateFieldLocked(field domain.Field) *domain.FieldError {
	fe := p.validator.ValidateField(p.form, field)
	if fe == nil {
		delete(p.errors, field)
		return nil
	}
	p.errors[field] = fe.Message
	return fe
}

// applyMessageLocked recomputes the counter for a message value and returns
// it truncated to the maximum length.
func (p *FormPipeline) applyMessageLocked(value string) string {
	n := utf8.RuneCountInString(value)
	p.counter = characterCount(n)
	if n > domain.MessageMaxLength {
		value = string([]rune(value)[:domain.MessageMaxLength])
	}
	return value
}

func (p *FormPipeline) buildSubmissionLocked() domain.ContactSubmission {
	return domain.ContactSubmission{
		FirstName:   strings.TrimSpace(p.form.FirstName),
		LastName:    strings.TrimSpace(p.form.LastName),
		Email:       strings.TrimSpace(p.form.Email),
		Phone:       strings.TrimSpace(p.form.Phone),
		Service:     p.form.Service,
		Message:     strings.TrimSpace(p.form.Message),
		Newsletter:  p.form.Newsletter,
		SubmittedAt: p.now().UTC(),
		Source:      p.source,
	}
}

func characterCount(n int) domain.CharacterCount {
	switch {
	case n < domain.MessageMinLength:
		return domain.CharacterCount{
			Count: n,
			Text:  fmt.Sprintf("%d / %d characters (minimum)", n, domain.MessageMinLength),
			Warn:  true,
		}
	case n > domain.MessageMaxLength:
		return domain.CharacterCount{
			Count: n,
			Text:  fmt.Sprintf("%d / %d characters (maximum exceeded)", n, domain.MessageMaxLength),
			Warn:  true,
		}
	}
	return domain.CharacterCount{Count: n, Text: fmt.Sprintf("%d characters", n)}
}

// Attempt is one submission in flight. It resolves exactly once.
type Attempt struct {
	done   chan struct{}
	result domain.ContactSubmission
	err    error
}

func newAttempt() *Attempt {
	return &Attempt{done: make(chan struct{})}
}

func (a *Attempt) resolve(result domain.ContactSubmission, err error) {
	a.result, a.err = result, err
	close(a.done)
}

// Done is closed once the attempt has resolved.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt resolves or ctx is done.
func (a *Attempt) Wait(ctx context.Context) (domain.ContactSubmission, error) {
	select {
	case <-a.done:
		return a.result, a.err
	case <-ctx.Done():
		return domain.ContactSubmission{}, ctx.Err()
	}
}

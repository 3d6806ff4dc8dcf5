// Package wizard implements the multi-step profile-completion state machine:
// an ordered sequence of form steps with per-step validation gates, field
// locking for existing profiles, and a single submission path.
package wizard

import (
	"context"
	"log/slog"
	"sync"

	"quire/internal/profile/models"
	"quire/internal/profile/transcode"
	"quire/internal/profile/validate"
	dErrors "quire/pkg/domain-errors"
)

// Step indexes one page of the wizard.
type Step int

const (
	StepIdentity Step = iota
	StepAffiliation
	StepAcademic
	StepOptional

	stepCount
)

// String names the step for logs and responses.
func (s Step) String() string {
	switch s {
	case StepIdentity:
		return "identity"
	case StepAffiliation:
		return "affiliation"
	case StepAcademic:
		return "academic"
	case StepOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// Saver persists the profile update a successful submission produces. The
// implementation is supplied by the caller; the wizard never talks to storage
// directly.
type Saver interface {
	Save(ctx context.Context, update *models.UserProfileUpdate) error
}

// Wizard is one profile-completion session. All state transitions run under
// its mutex: sessions are driven over HTTP, so unlike the original
// single-threaded UI loop, two requests can race on the same session.
type Wizard struct {
	mu sync.Mutex

	validator *validate.Validator
	verifier  transcode.DomainVerifier
	saver     Saver
	onCancel  func()
	logger    *slog.Logger

	step       Step
	form       models.FormData
	errors     map[models.Field]string
	editMode   bool
	submitting bool
	done       bool
	closed     bool
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) { w.logger = logger }
}

// WithCancelFunc sets the callback invoked when the user backs out of the
// first step.
func WithCancelFunc(cancel func()) Option {
	return func(w *Wizard) { w.onCancel = cancel }
}

// WithExistingProfile seeds the session from a stored profile and puts it in
// edit mode: identity and affiliation fields are locked when the profile
// provenance says it already exists.
func WithExistingProfile(p models.UserProfile) Option {
	return func(w *Wizard) {
		w.form = transcode.FromUserProfile(p)
		w.editMode = true
	}
}

// WithSeedEmail pre-fills the identity step for a brand-new profile from the
// only thing we know about the user: their address.
func WithSeedEmail(email string, firstName, lastName string) Option {
	return func(w *Wizard) {
		w.form.Email = email
		w.form.FirstName = firstName
		w.form.LastName = lastName
	}
}

// New constructs a session starting at the identity step.
func New(validator *validate.Validator, verifier transcode.DomainVerifier, saver Saver, opts ...Option) *Wizard {
	w := &Wizard{
		validator: validator,
		verifier:  verifier,
		saver:     saver,
		logger:    slog.Default(),
		form:      models.NewFormData(),
		errors:    map[models.Field]string{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State is a read-only snapshot of the session, safe to hand to transport.
type State struct {
	Step       Step                    `json:"step"`
	StepName   string                  `json:"stepName"`
	Form       models.FormData         `json:"form"`
	Errors     map[models.Field]string `json:"errors"`
	EditMode   bool                    `json:"editMode"`
	Submitting bool                    `json:"submitting"`
	Done       bool                    `json:"done"`
	Closed     bool                    `json:"closed"`
}

// State returns the current snapshot.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) snapshotLocked() State {
	errs := make(map[models.Field]string, len(w.errors))
	for k, v := range w.errors {
		errs[k] = v
	}
	return State{
		Step:       w.step,
		StepName:   w.step.String(),
		Form:       w.form,
		Errors:     errs,
		EditMode:   w.editMode,
		Submitting: w.submitting,
		Done:       w.done,
		Closed:     w.closed,
	}
}

// ChangeField applies a typed field change. Restricted fields (identity and
// affiliation core) are silent no-ops when editing an existing profile: the
// verified facts of a profile are not re-litigated post-creation. A
// successful change clears any pending error for that field.
func (w *Wizard) ChangeField(field models.Field, value models.Value) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutableLocked(); err != nil {
		return w.snapshotLocked(), err
	}

	if w.editMode && w.form.IsExistingProfile && field.IsRestricted() {
		return w.snapshotLocked(), nil
	}

	if err := w.form.Apply(field, value); err != nil {
		return w.snapshotLocked(), err
	}
	delete(w.errors, field)

	return w.snapshotLocked(), nil
}

// Next validates the current step only. On failure the step does not change
// and the step's errors are surfaced; on success errors clear and the session
// advances.
func (w *Wizard) Next() (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutableLocked(); err != nil {
		return w.snapshotLocked(), err
	}
	if w.step >= stepCount-1 {
		return w.snapshotLocked(), dErrors.New(dErrors.CodeBadRequest, "already on the final step; submit instead")
	}

	result := w.validateStepLocked(w.step)
	if !result.IsValid {
		w.errors = result.Errors
		return w.snapshotLocked(), nil
	}

	w.errors = map[models.Field]string{}
	w.step++
	return w.snapshotLocked(), nil
}

// Previous moves back one step. From the first step it invokes the cancel
// callback and closes the session instead.
func (w *Wizard) Previous() (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutableLocked(); err != nil {
		return w.snapshotLocked(), err
	}

	if w.step == 0 {
		w.closed = true
		if w.onCancel != nil {
			w.onCancel()
		}
		return w.snapshotLocked(), nil
	}

	w.step--
	return w.snapshotLocked(), nil
}

// GoToStep jumps directly to an already-reached step. Forward jumps past the
// current step are rejected: the only way forward is through Next's
// validation gate.
func (w *Wizard) GoToStep(target Step) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutableLocked(); err != nil {
		return w.snapshotLocked(), err
	}
	if target < 0 || target >= stepCount {
		return w.snapshotLocked(), dErrors.Newf(dErrors.CodeInvalidInput, "no such step %d", target)
	}
	if target > w.step {
		return w.snapshotLocked(), dErrors.New(dErrors.CodeBadRequest, "cannot jump forward past the current step")
	}

	w.step = target
	return w.snapshotLocked(), nil
}

// Submit runs all four section validators, translates the form, and invokes
// the save callback. Validation failure is returned as state, not as an
// error. A domain-verification mismatch aborts the attempt. While the save is
// in flight every other operation on the session is rejected; if the session
// is closed before the save resolves, the late result is discarded.
func (w *Wizard) Submit(ctx context.Context) (State, error) {
	w.mu.Lock()
	if err := w.mutableLocked(); err != nil {
		st := w.snapshotLocked()
		w.mu.Unlock()
		return st, err
	}
	if w.step != stepCount-1 {
		st := w.snapshotLocked()
		w.mu.Unlock()
		return st, dErrors.New(dErrors.CodeBadRequest, "submit is only available from the final step")
	}

	result := w.validator.All(w.form)
	if !result.IsValid {
		w.errors = result.Errors
		st := w.snapshotLocked()
		w.mu.Unlock()
		return st, nil
	}
	w.errors = map[models.Field]string{}

	update, err := transcode.ToUserProfile(w.form, w.editMode, w.verifier)
	if err != nil {
		st := w.snapshotLocked()
		w.mu.Unlock()
		return st, err
	}

	w.submitting = true
	w.mu.Unlock()

	saveErr := w.saver.Save(ctx, update)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		// Session was torn down while the save was in flight; whatever
		// happened, there is nobody left to tell.
		w.logger.Info("discarding save result for closed session", "save_failed", saveErr != nil)
		return w.snapshotLocked(), nil
	}

	w.submitting = false
	if saveErr != nil {
		w.logger.Warn("profile save failed", "error", saveErr)
		return w.snapshotLocked(), dErrors.Wrap(dErrors.CodeUnavailable, "could not save profile", saveErr)
	}

	w.done = true
	if !w.editMode {
		// A new profile navigates away after completion; the session is over.
		w.closed = true
	}
	return w.snapshotLocked(), nil
}

// Close tears the session down. Any save still in flight will have its result
// discarded.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

func (w *Wizard) mutableLocked() error {
	if w.closed {
		return dErrors.New(dErrors.CodeConflict, "session is closed")
	}
	if w.submitting {
		return dErrors.New(dErrors.CodeConflict, "submission in flight")
	}
	return nil
}

func (w *Wizard) validateStepLocked(step Step) models.ValidationResult {
	switch step {
	case StepIdentity:
		return w.validator.Identity(w.form)
	case StepAffiliation:
		return w.validator.Affiliation(w.form)
	case StepAcademic:
		return w.validator.Academic(w.form)
	default:
		return w.validator.Optional(w.form)
	}
}

package views

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"productos/internal/apperror"
	"productos/internal/client"
	"productos/internal/models"
	"productos/internal/validation"
)

// Mode says whether the editor creates a new producto or edits a persisted one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// State is the editor lifecycle: Editing -> Submitting -> Closed.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateClosed:
		return "closed"
	default:
		return "editing"
	}
}

// Result is what a closed editor resolves to.
type Result struct {
	Changed bool
}

var (
	// ErrEditorClosed is returned when acting on an editor that already closed.
	ErrEditorClosed = errors.New("editor is closed")
	// ErrSubmitInProgress is returned by a second Submit while one is in flight.
	ErrSubmitInProgress = errors.New("submit already in progress")
)

// Editor is the modal create-or-update workflow for a single producto.
type Editor struct {
	client   client.ProductoClient
	notifier Notifier
	logger   *slog.Logger

	mode Mode
	id   int64

	mu     sync.Mutex
	state  State
	draft  models.Draft
	result Result
	done   chan struct{}
}

// NewEditor creates an editor seeded from seed. A nil seed or a seed without
// ID opens in create mode with empty defaults.
func NewEditor(c client.ProductoClient, seed *models.Producto, notifier Notifier, logger *slog.Logger) *Editor {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Editor{
		client:   c,
		notifier: notifier,
		logger:   logger,
		mode:     ModeCreate,
		state:    StateEditing,
		done:     make(chan struct{}),
	}
	if seed != nil && !seed.IsNew() {
		e.mode = ModeEdit
		e.id = seed.IDValue()
		e.draft = models.NewDraft(seed)
	} else {
		e.draft = models.NewDraft(nil)
	}
	return e
}

// Mode returns the mode fixed at construction.
func (e *Editor) Mode() Mode { return e.mode }

// ID returns the ID of the edited producto, or 0 in create mode.
func (e *Editor) ID() int64 { return e.id }

// State returns the current lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() models.Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// SetDraft replaces the draft. Only allowed while editing.
func (e *Editor) SetDraft(d models.Draft) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateClosed:
		return ErrEditorClosed
	case StateSubmitting:
		return ErrSubmitInProgress
	}
	e.draft = d.Clone()
	return nil
}

// Validate returns the violations of the current draft, or nil.
func (e *Editor) Validate() validation.Violations {
	return validation.Validate(e.Draft())
}

// Submit validates the draft and sends it: Update in edit mode, Create in
// create mode. An invalid draft makes no network call. On failure the editor
// stays open for another attempt.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateClosed:
		e.mu.Unlock()
		return ErrEditorClosed
	case StateSubmitting:
		e.mu.Unlock()
		return ErrSubmitInProgress
	}
	draft := e.draft.Clone()
	if violations := validation.Validate(draft); violations != nil {
		e.mu.Unlock()
		return apperror.NewValidationError(violations)
	}
	e.state = StateSubmitting
	e.mu.Unlock()

	producto := draft.Producto()
	var (
		err     error
		message string
	)
	if e.mode == ModeEdit {
		err = e.client.Update(ctx, e.id, producto)
		message = MsgUpdated
	} else {
		_, err = e.client.Create(ctx, producto)
		message = MsgCreated
	}

	if err != nil {
		e.logger.Error("producto submit failed",
			"mode", e.mode.String(),
			"id", e.id,
			"category", apperror.Category(err),
			"error", err,
		)
		e.mu.Lock()
		e.state = StateEditing
		e.mu.Unlock()
		return err
	}

	e.notifier.Notify(message)
	e.close(Result{Changed: true})
	return nil
}

// Cancel closes the editor without a network call and discards the draft.
// Cancelling a closed editor does nothing.
func (e *Editor) Cancel() {
	e.close(Result{Changed: false})
}

// Done is closed when the editor closes.
func (e *Editor) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the editor closes or ctx is done.
func (e *Editor) Wait(ctx context.Context) (Result, error) {
	select {
	case <-e.done:
		r, _ := e.Result()
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the outcome and whether the editor has closed.
func (e *Editor) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.state == StateClosed
}

func (e *Editor) close(r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return
	}
	// A cancel racing an in-flight submit is ignored; the submit decides.
	if e.state == StateSubmitting && !r.Changed {
		return
	}
	e.state = StateClosed
	e.result = r
	e.draft = models.Draft{}
	close(e.done)
}

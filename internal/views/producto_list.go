package views

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"productos/internal/apperror"
	"productos/internal/client"
	"productos/internal/models"
)

var (
	// ErrEditorBusy is returned by OpenEditorFor while another editor is open.
	ErrEditorBusy = errors.New("an editor is already open")
	// ErrNotConfirmed is returned by Remove when the user did not confirm.
	ErrNotConfirmed = errors.New("deletion not confirmed")
	// ErrViewClosed is returned by operations on a torn down view.
	ErrViewClosed = errors.New("view is closed")
)

// ListView holds the last fetched snapshot of productos and the active
// search term. Every mutation is followed by a full reload.
type ListView struct {
	client    client.ProductoClient
	confirmer Confirmer
	notifier  Notifier
	logger    *slog.Logger

	mu         sync.RWMutex
	snapshot   []models.Producto
	searchTerm string
	editing    bool
	closed     bool
}

// NewListView creates a ListView with an empty snapshot. A nil confirmer
// blocks every deletion.
func NewListView(c client.ProductoClient, confirmer Confirmer, notifier Notifier, logger *slog.Logger) *ListView {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListView{
		client:    c,
		confirmer: confirmer,
		notifier:  notifier,
		logger:    logger,
		snapshot:  []models.Producto{},
	}
}

// Snapshot returns a copy of the current productos.
func (v *ListView) Snapshot() []models.Producto {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Producto, len(v.snapshot))
	copy(out, v.snapshot)
	return out
}

// SearchTerm returns the active search term.
func (v *ListView) SearchTerm() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.searchTerm
}

// SetSearchTerm changes the term used by the next Refresh.
func (v *ListView) SetSearchTerm(term string) {
	v.mu.Lock()
	v.searchTerm = term
	v.mu.Unlock()
}

// Search sets the term and refreshes.
func (v *ListView) Search(ctx context.Context, term string) error {
	v.SetSearchTerm(term)
	return v.Refresh(ctx)
}

// Refresh reloads the snapshot: the full list when the trimmed term is
// empty, the server-side name search otherwise. On failure the previous
// snapshot is kept and the error is logged.
func (v *ListView) Refresh(ctx context.Context) error {
	v.mu.RLock()
	term, closed := v.searchTerm, v.closed
	v.mu.RUnlock()
	if closed {
		return ErrViewClosed
	}

	var (
		productos []models.Producto
		err       error
	)
	if strings.TrimSpace(term) == "" {
		productos, err = v.client.ListAll(ctx)
	} else {
		productos, err = v.client.FindByName(ctx, term)
	}
	if err != nil {
		v.logger.Error("refresh productos failed",
			"term", term,
			"category", apperror.Category(err),
			"error", err,
		)
		return err
	}
	if productos == nil {
		productos = []models.Producto{}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	// Responses arriving after teardown are dropped.
	if v.closed {
		return ErrViewClosed
	}
	v.snapshot = productos
	return nil
}

// OpenEditorFor launches the record editor for rec (edit mode when rec has an
// ID, create mode otherwise), hands it to driver and waits until it closes.
// The view refreshes only when the editor reports a change. When ctx is done
// the editor is cancelled and OpenEditorFor returns once Drive has returned.
func (v *ListView) OpenEditorFor(ctx context.Context, rec *models.Producto, driver EditorDriver) (Result, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return Result{}, ErrViewClosed
	}
	if v.editing {
		v.mu.Unlock()
		return Result{}, ErrEditorBusy
	}
	v.editing = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.editing = false
		v.mu.Unlock()
	}()

	var seed *models.Producto
	if rec != nil && !rec.IsNew() {
		seed = rec
	}
	editor := NewEditor(v.client, seed, v.notifier, v.logger)

	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		driver.Drive(ctx, editor)
		editor.Cancel()
	}()

	result, err := editor.Wait(ctx)
	if err != nil {
		editor.Cancel()
	}
	// The slot stays taken until the driver lets go of the editor.
	<-driverDone
	if err != nil {
		return Result{}, err
	}
	if result.Changed {
		// Refresh errors are already logged; the editor outcome stands.
		_ = v.Refresh(ctx)
	}
	return result, nil
}

// Remove deletes the producto with id after an explicit confirmation, then
// refreshes. Without confirmation no call is made.
func (v *ListView) Remove(ctx context.Context, id int64) error {
	if v.isClosed() {
		return ErrViewClosed
	}
	if !confirmed(ctx, v.confirmer, PromptDelete) {
		return ErrNotConfirmed
	}

	if err := v.client.Delete(ctx, id); err != nil {
		v.logger.Error("delete producto failed",
			"id", id,
			"category", apperror.Category(err),
			"error", err,
		)
		return err
	}

	v.notifier.Notify(MsgDeleted)
	_ = v.Refresh(ctx)
	return nil
}

// Page returns one page of the snapshot.
func (v *ListView) Page(index, size int) Page {
	return Paginate(v.Snapshot(), index, size)
}

// Close tears the view down. Later responses no longer touch the snapshot.
func (v *ListView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

func (v *ListView) isClosed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

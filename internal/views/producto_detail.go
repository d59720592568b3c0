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

// ErrNotLoaded is returned when saving or removing before a producto was loaded.
var ErrNotLoaded = errors.New("no producto loaded")

// DetailView shows and edits one producto on its own route.
type DetailView struct {
	client    client.ProductoClient
	confirmer Confirmer
	notifier  Notifier
	navigator Navigator
	logger    *slog.Logger

	mu      sync.RWMutex
	current models.Producto
}

// NewDetailView creates a DetailView whose current producto starts at the
// empty defaults.
func NewDetailView(c client.ProductoClient, confirmer Confirmer, notifier Notifier, navigator Navigator, logger *slog.Logger) *DetailView {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if navigator == nil {
		navigator = nopNavigator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailView{
		client:    c,
		confirmer: confirmer,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// Current returns the producto being shown.
func (d *DetailView) Current() models.Producto {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// SetCurrent replaces the edited fields. The loaded ID is kept.
func (d *DetailView) SetCurrent(p models.Producto) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p.ID = d.current.ID
	d.current = p
}

// Load fetches the producto with id. On failure the current producto is left as is.
func (d *DetailView) Load(ctx context.Context, id int64) error {
	p, err := d.client.GetOne(ctx, id)
	if err != nil {
		d.logger.Error("load producto failed",
			"id", id,
			"not_found", apperror.IsNotFound(err),
			"error", err,
		)
		return err
	}
	if p.ID == nil {
		p = p.WithID(id)
	}
	d.mu.Lock()
	d.current = p
	d.mu.Unlock()
	return nil
}

// Save sends the current producto as a full replace.
func (d *DetailView) Save(ctx context.Context) error {
	current := d.Current()
	if current.IsNew() {
		return ErrNotLoaded
	}
	if violations := validation.Validate(current); violations != nil {
		return apperror.NewValidationError(violations)
	}

	if err := d.client.Update(ctx, current.IDValue(), current); err != nil {
		d.logger.Error("update producto failed",
			"id", current.IDValue(),
			"category", apperror.Category(err),
			"error", err,
		)
		return err
	}
	d.notifier.Notify(MsgUpdated)
	return nil
}

// Remove deletes the current producto after confirmation and navigates back
// to the list.
func (d *DetailView) Remove(ctx context.Context) error {
	current := d.Current()
	if current.IsNew() {
		return ErrNotLoaded
	}
	if !confirmed(ctx, d.confirmer, PromptDelete) {
		return ErrNotConfirmed
	}

	if err := d.client.Delete(ctx, current.IDValue()); err != nil {
		d.logger.Error("delete producto failed",
			"id", current.IDValue(),
			"category", apperror.Category(err),
			"error", err,
		)
		return err
	}
	d.navigator.Navigate(RouteList)
	d.notifier.Notify(MsgDeleted)
	return nil
}

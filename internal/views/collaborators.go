// Package views keeps the client-side view state of the producto catalog in
// sync with the remote collection: the list view, the detail view and the
// modal record editor.
package views

import (
	"context"
	"strconv"
)

// Confirmer is the yes/no gate shown before destructive actions.
// Anything but an explicit yes must return false.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Notifier shows transient success messages.
type Notifier interface {
	Notify(message string)
}

// Navigator switches between the list route and the detail route.
type Navigator interface {
	Navigate(route string)
}

// EditorDriver is the presentation surface of the modal editor. Drive lets the
// user edit the draft and must end by submitting successfully or cancelling;
// an editor still open when Drive returns is cancelled. Drive must return
// promptly once ctx is done, since the list keeps its editor slot until then.
type EditorDriver interface {
	Drive(ctx context.Context, editor *Editor)
}

// EditorDriverFunc adapts a function to EditorDriver.
type EditorDriverFunc func(ctx context.Context, editor *Editor)

// Drive calls f(ctx, editor).
func (f EditorDriverFunc) Drive(ctx context.Context, editor *Editor) { f(ctx, editor) }

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f(ctx, prompt).
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// RouteList is the route of the list view.
const RouteList = "/productos"

// DetailRoute returns the route of the detail view for id.
func DetailRoute(id int64) string {
	return RouteList + "/" + strconv.FormatInt(id, 10)
}

// Messages shown through the Notifier.
const (
	MsgCreated   = "Producto creado correctamente"
	MsgUpdated   = "Producto actualizado correctamente"
	MsgDeleted   = "Producto eliminado correctamente"
	PromptDelete = "¿Está seguro de eliminar este producto?"
)

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}

// confirmed treats a missing confirmer as a "no".
func confirmed(ctx context.Context, c Confirmer, prompt string) bool {
	if c == nil {
		return false
	}
	return c.Confirm(ctx, prompt)
}

package views_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"productos/internal/apperror"
	"productos/internal/models"
	"productos/internal/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validDraft() models.Draft {
	return models.Draft{
		Nombre:      "Pen",
		Descripcion: "Blue pen",
		Precio:      floatPtr(1.5),
		Stock:       intPtr(100),
	}
}

func TestEditor_ModeFromSeed(t *testing.T) {
	mockClient := new(MockProductoClient)

	create := views.NewEditor(mockClient, nil, nil, nil)
	assert.Equal(t, views.ModeCreate, create.Mode())
	assert.Equal(t, views.StateEditing, create.State())
	d := create.Draft()
	assert.Empty(t, d.Nombre)
	assert.Empty(t, d.Descripcion)
	require.NotNil(t, d.Precio)
	require.NotNil(t, d.Stock)
	assert.Equal(t, 0.0, *d.Precio)
	assert.Equal(t, 0, *d.Stock)

	seedWithoutID := pen()
	assert.Equal(t, views.ModeCreate, views.NewEditor(mockClient, &seedWithoutID, nil, nil).Mode())

	seed := notebook()
	edit := views.NewEditor(mockClient, &seed, nil, nil)
	assert.Equal(t, views.ModeEdit, edit.Mode())
	assert.Equal(t, int64(8), edit.ID())
	assert.Equal(t, "Notebook", edit.Draft().Nombre)
	assert.Equal(t, 3.25, *edit.Draft().Precio)
}

func TestEditor_SubmitCreateCallsCreateOnceWithoutID(t *testing.T) {
	mockClient := new(MockProductoClient)
	notifier := &recordingNotifier{}
	editor := views.NewEditor(mockClient, nil, notifier, nil)
	require.NoError(t, editor.SetDraft(validDraft()))

	mockClient.On("Create", mock.Anything, pen()).Return(pen().WithID(7), nil).Once()

	err := editor.Submit(context.Background())

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
	mockClient.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	assert.Nil(t, mockClient.Calls[0].Arguments.Get(1).(models.Producto).ID)
	assert.Equal(t, views.StateClosed, editor.State())
	result, closed := editor.Result()
	assert.True(t, closed)
	assert.True(t, result.Changed)
	assert.Equal(t, []string{views.MsgCreated}, notifier.Messages())
}

func TestEditor_SubmitEditCallsUpdateOnceWithOriginalID(t *testing.T) {
	mockClient := new(MockProductoClient)
	seed := notebook()
	editor := views.NewEditor(mockClient, &seed, nil, nil)

	d := editor.Draft()
	d.Stock = intPtr(15)
	require.NoError(t, editor.SetDraft(d))

	expected := models.Producto{Nombre: "Notebook", Descripcion: "A5 notebook", Precio: 3.25, Stock: 15}
	mockClient.On("Update", mock.Anything, int64(8), expected).Return(nil).Once()

	require.NoError(t, editor.Submit(context.Background()))

	mockClient.AssertExpectations(t)
	mockClient.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	result, _ := editor.Result()
	assert.True(t, result.Changed)
}

func TestEditor_InvalidDraftMakesNoCalls(t *testing.T) {
	violations := map[string]func(d *models.Draft){
		"nombre empty":      func(d *models.Draft) { d.Nombre = "" },
		"nombre short":      func(d *models.Draft) { d.Nombre = "ab" },
		"descripcion empty": func(d *models.Draft) { d.Descripcion = "" },
		"precio missing":    func(d *models.Draft) { d.Precio = nil },
		"precio negative":   func(d *models.Draft) { d.Precio = floatPtr(-1) },
		"stock missing":     func(d *models.Draft) { d.Stock = nil },
		"stock negative":    func(d *models.Draft) { d.Stock = intPtr(-5) },
		"nombre two chars":  func(d *models.Draft) { d.Nombre = "a " },
	}

	for name, edit := range violations {
		t.Run(name, func(t *testing.T) {
			for _, seed := range []*models.Producto{nil, func() *models.Producto { p := notebook(); return &p }()} {
				mockClient := new(MockProductoClient)
				editor := views.NewEditor(mockClient, seed, nil, nil)
				d := validDraft()
				edit(&d)
				require.NoError(t, editor.SetDraft(d))

				assert.NotEmpty(t, editor.Validate())
				err := editor.Submit(context.Background())

				assert.True(t, apperror.IsValidation(err))
				assert.Empty(t, mockClient.Calls)
				assert.Equal(t, views.StateEditing, editor.State())
			}
		})
	}
}

func TestEditor_SubmitFailureKeepsEditing(t *testing.T) {
	mockClient := new(MockProductoClient)
	notifier := &recordingNotifier{}
	editor := views.NewEditor(mockClient, nil, notifier, nil)
	require.NoError(t, editor.SetDraft(validDraft()))

	serverErr := apperror.NewStatusError("create producto", 500, "boom")
	mockClient.On("Create", mock.Anything, pen()).Return(models.Producto{}, serverErr).Once()

	err := editor.Submit(context.Background())

	assert.ErrorIs(t, err, serverErr)
	assert.Equal(t, views.StateEditing, editor.State())
	assert.Empty(t, notifier.Messages())
	select {
	case <-editor.Done():
		t.Fatal("editor must stay open after a failed submit")
	default:
	}

	// A second attempt is up to the user.
	mockClient.On("Create", mock.Anything, pen()).Return(pen().WithID(7), nil).Once()
	require.NoError(t, editor.Submit(context.Background()))
	mockClient.AssertExpectations(t)
	assert.Equal(t, views.StateClosed, editor.State())
}

func TestEditor_CancelMakesNoCalls(t *testing.T) {
	mockClient := new(MockProductoClient)
	editor := views.NewEditor(mockClient, nil, nil, nil)
	require.NoError(t, editor.SetDraft(validDraft()))

	editor.Cancel()
	editor.Cancel()

	result, err := editor.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Empty(t, mockClient.Calls)
	assert.ErrorIs(t, editor.Submit(context.Background()), views.ErrEditorClosed)
	assert.ErrorIs(t, editor.SetDraft(validDraft()), views.ErrEditorClosed)
}

func TestEditor_WaitHonoursContext(t *testing.T) {
	editor := views.NewEditor(new(MockProductoClient), nil, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := editor.Wait(ctx)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, views.StateEditing, editor.State())
}

func TestEditor_DraftIsACopy(t *testing.T) {
	editor := views.NewEditor(new(MockProductoClient), nil, nil, nil)

	d := editor.Draft()
	*d.Precio = 99

	assert.Equal(t, 0.0, *editor.Draft().Precio)
}

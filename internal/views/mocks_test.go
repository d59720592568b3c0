package views_test

import (
	"context"
	"sync"

	"productos/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockProductoClient is a mock implementation of client.ProductoClient
type MockProductoClient struct {
	mock.Mock
}

func (m *MockProductoClient) ListAll(ctx context.Context) ([]models.Producto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Producto), args.Error(1)
}

func (m *MockProductoClient) GetOne(ctx context.Context, id int64) (models.Producto, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Producto), args.Error(1)
}

func (m *MockProductoClient) Create(ctx context.Context, producto models.Producto) (models.Producto, error) {
	args := m.Called(ctx, producto)
	return args.Get(0).(models.Producto), args.Error(1)
}

func (m *MockProductoClient) Update(ctx context.Context, id int64, producto models.Producto) error {
	args := m.Called(ctx, id, producto)
	return args.Error(0)
}

func (m *MockProductoClient) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductoClient) FindByName(ctx context.Context, term string) ([]models.Producto, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Producto), args.Error(1)
}

// MockConfirmer is a mock implementation of views.Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) bool {
	args := m.Called(ctx, prompt)
	return args.Bool(0)
}

// recordingNotifier keeps every message it was asked to show.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// recordingNavigator keeps every route it was asked to open.
type recordingNavigator struct {
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.routes = append(n.routes, route)
}

func idPtr(id int64) *int64       { return &id }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func pen() models.Producto {
	return models.Producto{Nombre: "Pen", Descripcion: "Blue pen", Precio: 1.5, Stock: 100}
}

func notebook() models.Producto {
	return models.Producto{ID: idPtr(8), Nombre: "Notebook", Descripcion: "A5 notebook", Precio: 3.25, Stock: 20}
}

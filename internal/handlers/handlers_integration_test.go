package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"productos/internal/handlers"
	"productos/internal/models"
	"productos/internal/repositories"
	"productos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to connect to in-memory database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	productoRepo := repositories.NewGORMProductoRepository(db)
	require.NoError(t, productoRepo.AutoMigrate())
	seedProductosForTest(t, productoRepo)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	productoService := services.NewProductoService(productoRepo, nil, quiet)
	productoHandler := handlers.NewProductoHandler(productoService, quiet)

	app := fiber.New()
	productoHandler.RegisterRoutes(app.Group("/api"))
	return app
}

// seedProductosForTest stores two productos with IDs 1 and 2.
func seedProductosForTest(t *testing.T, repo repositories.ProductoRepository) {
	productos := []models.Producto{
		{Nombre: "Test Laptop", Descripcion: "For testing purposes", Precio: 1000.00, Stock: 5},
		{Nombre: "Test Monitor", Descripcion: "Another test item", Precio: 200.00, Stock: 10},
	}
	for i := range productos {
		require.NoError(t, repo.Create(testContext(t), &productos[i]))
	}
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestProductoCRUD(t *testing.T) {
	app := setupApp(t)

	// Create
	resp, raw := doJSON(t, app, http.MethodPost, "/api/productos", map[string]interface{}{
		"id": 77, "nombre": "Pen", "descripcion": "Blue ink", "precio": 1.5, "stock": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created models.Producto
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, int64(3), created.IDValue(), "client supplied id is ignored")
	assert.Equal(t, "Pen", created.Nombre)

	// Get
	resp, raw = doJSON(t, app, http.MethodGet, "/api/productos/3", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Producto
	require.NoError(t, json.Unmarshal(raw, &fetched))
	assert.Equal(t, created, fetched)

	// Update, path id wins
	resp, raw = doJSON(t, app, http.MethodPut, "/api/productos/3", map[string]interface{}{
		"id": 1, "nombre": "Pen", "descripcion": "Red ink", "precio": 0, "stock": 0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated models.Producto
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, int64(3), updated.IDValue())
	assert.Equal(t, "Red ink", updated.Descripcion)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/productos/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Test Laptop")

	// Delete
	resp, raw = doJSON(t, app, http.MethodDelete, "/api/productos/3", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Producto eliminado correctamente")

	resp, _ = doJSON(t, app, http.MethodGet, "/api/productos/3", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAndSearch(t *testing.T) {
	app := setupApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/productos", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.Producto
	require.NoError(t, json.Unmarshal(raw, &all))
	assert.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].IDValue())

	resp, raw = doJSON(t, app, http.MethodGet, "/api/productos?nombre=monitor", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var found []models.Producto
	require.NoError(t, json.Unmarshal(raw, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Test Monitor", found[0].Nombre)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/productos?nombre=nada", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestValidationErrors(t *testing.T) {
	app := setupApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/productos", map[string]interface{}{
		"nombre": "ab", "descripcion": "", "precio": -1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Validation failed", body.Message)
	for _, field := range []string{"nombre", "descripcion", "precio", "stock"} {
		assert.Contains(t, body.Errors, field)
	}

	// nothing was stored
	resp, raw = doJSON(t, app, http.MethodGet, "/api/productos", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.Producto
	require.NoError(t, json.Unmarshal(raw, &all))
	assert.Len(t, all, 2)
}

func TestBadRequests(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/productos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/productos", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/productos/404", map[string]interface{}{
		"nombre": "Pen", "descripcion": "Blue", "precio": 1, "stock": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/productos/404", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package repositories

import (
	"context"
	"errors"
	"strings"

	"productos/internal/models"
)

// ErrNotFound is returned when no producto has the requested ID.
var ErrNotFound = errors.New("producto not found")

// ProductoRepository defines the interface for producto data access.
// Lists are ordered by ID.
type ProductoRepository interface {
	GetAll(ctx context.Context) ([]models.Producto, error)
	FindByNombre(ctx context.Context, nombre string) ([]models.Producto, error)
	GetByID(ctx context.Context, id int64) (*models.Producto, error)
	Create(ctx context.Context, producto *models.Producto) error
	Update(ctx context.Context, producto *models.Producto) error
	Delete(ctx context.Context, id int64) error
}

// foldNombre is the case folding shared by every name search. It folds
// Unicode, so "Ñandú" and "ñandú" compare equal on all backends.
func foldNombre(s string) string {
	return strings.ToLower(s)
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"productos/internal/models"

	"gorm.io/gorm"
)

// ProductoRow is the GORM entity backing the productos table.
type ProductoRow struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Nombre         string    `gorm:"type:varchar(255);not null;index"`
	// NombreBusqueda holds Nombre folded in Go; SQLite's LOWER only folds ASCII.
	NombreBusqueda string    `gorm:"type:varchar(255);not null;default:'';index"`
	Descripcion    string    `gorm:"type:text;not null"`
	Precio         float64   `gorm:"not null;default:0"`
	Stock          int       `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName pins the table name.
func (ProductoRow) TableName() string { return "productos" }

func rowFromModel(p *models.Producto) ProductoRow {
	return ProductoRow{
		ID:             p.IDValue(),
		Nombre:         p.Nombre,
		NombreBusqueda: foldNombre(p.Nombre),
		Descripcion:    p.Descripcion,
		Precio:         p.Precio,
		Stock:          p.Stock,
	}
}

func (r ProductoRow) model() models.Producto {
	return models.Producto{
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Precio:      r.Precio,
		Stock:       r.Stock,
	}.WithID(r.ID)
}

// GORMProductoRepository is a GORM implementation of ProductoRepository.
type GORMProductoRepository struct {
	db *gorm.DB
}

// NewGORMProductoRepository creates a new instance of GORMProductoRepository.
func NewGORMProductoRepository(db *gorm.DB) *GORMProductoRepository {
	return &GORMProductoRepository{
		db: db,
	}
}

// AutoMigrate creates or updates the productos table and fills the search
// column of rows written before it existed.
func (r *GORMProductoRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&ProductoRow{}); err != nil {
		return fmt.Errorf("failed to migrate productos table: %w", err)
	}

	var stale []ProductoRow
	err := r.db.Select("id", "nombre").
		Where("nombre_busqueda = ? AND nombre <> ?", "", "").
		Find(&stale).Error
	if err != nil {
		return fmt.Errorf("failed to load productos to backfill: %w", err)
	}
	for _, row := range stale {
		err := r.db.Model(&ProductoRow{}).
			Where("id = ?", row.ID).
			UpdateColumn("nombre_busqueda", foldNombre(row.Nombre)).Error
		if err != nil {
			return fmt.Errorf("failed to backfill producto %d: %w", row.ID, err)
		}
	}
	return nil
}

// GetAll retrieves all productos from the database.
func (r *GORMProductoRepository) GetAll(ctx context.Context) ([]models.Producto, error) {
	var rows []ProductoRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get all productos: %w", err)
	}
	return toModels(rows), nil
}

// FindByNombre retrieves the productos whose nombre contains nombre, ignoring case.
func (r *GORMProductoRepository) FindByNombre(ctx context.Context, nombre string) ([]models.Producto, error) {
	var rows []ProductoRow
	pattern := "%" + escapeLike(foldNombre(nombre)) + "%"
	err := r.db.WithContext(ctx).
		Where(`nombre_busqueda LIKE ? ESCAPE '\'`, pattern).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find productos by nombre %q: %w", nombre, err)
	}
	return toModels(rows), nil
}

// GetByID retrieves a single producto by its ID from the database.
func (r *GORMProductoRepository) GetByID(ctx context.Context, id int64) (*models.Producto, error) {
	var row ProductoRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("producto with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get producto by ID %d: %w", id, err)
	}
	p := row.model()
	return &p, nil
}

// Create inserts a new producto and sets its generated ID.
func (r *GORMProductoRepository) Create(ctx context.Context, producto *models.Producto) error {
	row := rowFromModel(producto)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create producto: %w", err)
	}
	*producto = row.model()
	return nil
}

// Update replaces every column of an existing producto.
func (r *GORMProductoRepository) Update(ctx context.Context, producto *models.Producto) error {
	row := rowFromModel(producto)
	row.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&ProductoRow{}).
		Where("id = ?", row.ID).
		Select("nombre", "nombre_busqueda", "descripcion", "precio", "stock", "updated_at").
		Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("failed to update producto: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("producto with ID %d not updated: %w", row.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a producto by its ID from the database.
func (r *GORMProductoRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&ProductoRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete producto: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("producto with ID %d not deleted: %w", id, ErrNotFound)
	}
	return nil
}

func toModels(rows []ProductoRow) []models.Producto {
	out := make([]models.Producto, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

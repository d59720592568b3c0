package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"productos/internal/models"
)

// MemoryProductoRepository is an in-memory implementation of ProductoRepository.
type MemoryProductoRepository struct {
	productos map[int64]models.Producto
	nextID    int64
	mu        sync.RWMutex
}

// NewMemoryProductoRepository creates a new instance of MemoryProductoRepository.
func NewMemoryProductoRepository() *MemoryProductoRepository {
	return &MemoryProductoRepository{
		productos: make(map[int64]models.Producto),
		nextID:    1,
	}
}

// GetAll returns all productos.
func (r *MemoryProductoRepository) GetAll(_ context.Context) ([]models.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(models.Producto) bool { return true }), nil
}

// FindByNombre returns the productos whose nombre contains nombre, ignoring case.
func (r *MemoryProductoRepository) FindByNombre(_ context.Context, nombre string) ([]models.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := foldNombre(nombre)
	return r.filter(func(p models.Producto) bool {
		return strings.Contains(foldNombre(p.Nombre), needle)
	}), nil
}

// GetByID returns a producto by its ID.
func (r *MemoryProductoRepository) GetByID(_ context.Context, id int64) (*models.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	producto, ok := r.productos[id]
	if !ok {
		return nil, fmt.Errorf("producto with ID %d: %w", id, ErrNotFound)
	}
	return &producto, nil
}

// Create adds a new producto and assigns its ID.
func (r *MemoryProductoRepository) Create(_ context.Context, producto *models.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if producto.ID != nil {
		if _, taken := r.productos[*producto.ID]; taken {
			return fmt.Errorf("producto with ID %d already exists", *producto.ID)
		}
		if *producto.ID >= r.nextID {
			r.nextID = *producto.ID + 1
		}
	} else {
		*producto = producto.WithID(r.nextID)
		r.nextID++
	}
	r.productos[*producto.ID] = *producto
	return nil
}

// Update replaces an existing producto.
func (r *MemoryProductoRepository) Update(_ context.Context, producto *models.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := producto.IDValue()
	if _, ok := r.productos[id]; !ok {
		return fmt.Errorf("producto with ID %d not updated: %w", id, ErrNotFound)
	}
	r.productos[id] = *producto
	return nil
}

// Delete removes a producto by its ID.
func (r *MemoryProductoRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.productos[id]; !ok {
		return fmt.Errorf("producto with ID %d not deleted: %w", id, ErrNotFound)
	}
	delete(r.productos, id)
	return nil
}

// filter must be called with the lock held.
func (r *MemoryProductoRepository) filter(keep func(models.Producto) bool) []models.Producto {
	out := make([]models.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IDValue() < out[j].IDValue() })
	return out
}

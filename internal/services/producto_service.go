package services

import (
	"context"
	"log/slog"
	"time"

	"productos/internal/models"
	"productos/internal/repositories"
)

// EventPublisher publishes catalog change events. The RabbitMQ client implements it.
type EventPublisher interface {
	PublishProductoEvent(event models.ProductoEvent) error
}

// ProductoService handles business logic related to productos.
type ProductoService struct {
	repo      repositories.ProductoRepository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewProductoService creates a new ProductoService. publisher may be nil.
func NewProductoService(repo repositories.ProductoRepository, publisher EventPublisher, logger *slog.Logger) *ProductoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductoService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAll retrieves all productos.
func (s *ProductoService) GetAll(ctx context.Context) ([]models.Producto, error) {
	return s.repo.GetAll(ctx)
}

// FindByNombre retrieves the productos matching a name search term.
func (s *ProductoService) FindByNombre(ctx context.Context, nombre string) ([]models.Producto, error) {
	return s.repo.FindByNombre(ctx, nombre)
}

// GetByID retrieves a single producto by its ID.
func (s *ProductoService) GetByID(ctx context.Context, id int64) (*models.Producto, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new producto. Any client supplied ID is discarded.
func (s *ProductoService) Create(ctx context.Context, producto *models.Producto) error {
	*producto = producto.WithoutID()
	if err := s.repo.Create(ctx, producto); err != nil {
		return err
	}
	s.publish(models.EventProductoCreated, producto.IDValue(), producto)
	return nil
}

// Update replaces the producto stored under id.
func (s *ProductoService) Update(ctx context.Context, id int64, producto *models.Producto) error {
	*producto = producto.WithID(id)
	if err := s.repo.Update(ctx, producto); err != nil {
		return err
	}
	s.publish(models.EventProductoUpdated, id, producto)
	return nil
}

// Delete deletes a producto by its ID.
func (s *ProductoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(models.EventProductoDeleted, id, nil)
	return nil
}

// publish only logs publisher failures; the mutation already succeeded.
func (s *ProductoService) publish(eventType string, id int64, producto *models.Producto) {
	if s.publisher == nil {
		return
	}
	event := models.ProductoEvent{
		Type:       eventType,
		ProductoID: id,
		OccurredAt: time.Now().UTC(),
	}
	if producto != nil {
		snapshot := *producto
		event.Producto = &snapshot
	}
	if err := s.publisher.PublishProductoEvent(event); err != nil {
		s.logger.Warn("failed to publish producto event", "type", eventType, "id", id, "error", err)
	}
}

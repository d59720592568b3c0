package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"productos/internal/models"
	"productos/internal/repositories"
	"productos/internal/services"
	"productos/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ProductoHandler handles HTTP requests for productos.
type ProductoHandler struct {
	service *services.ProductoService
	logger  *slog.Logger
}

// NewProductoHandler creates a new ProductoHandler.
func NewProductoHandler(service *services.ProductoService, logger *slog.Logger) *ProductoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductoHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the producto routes with the Fiber app.
func (h *ProductoHandler) RegisterRoutes(router fiber.Router) {
	productoRoutes := router.Group("/productos")
	productoRoutes.Get("/", h.HandleGetProductos)
	productoRoutes.Get("/:id", h.HandleGetProductoByID)
	productoRoutes.Post("/", h.HandleCreateProducto)
	productoRoutes.Put("/:id", h.HandleUpdateProducto)
	productoRoutes.Delete("/:id", h.HandleDeleteProducto)
}

// HandleGetProductos lists every producto, or searches by name when the
// nombre query parameter is present.
func (h *ProductoHandler) HandleGetProductos(c *fiber.Ctx) error {
	var (
		productos []models.Producto
		err       error
	)
	if c.Context().QueryArgs().Has("nombre") {
		productos, err = h.service.FindByNombre(c.UserContext(), c.Query("nombre"))
	} else {
		productos, err = h.service.GetAll(c.UserContext())
	}
	if err != nil {
		h.logger.Error("error listing productos", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve productos",
			"error":   err.Error(),
		})
	}
	return c.JSON(productos)
}

// HandleGetProductoByID retrieves a single producto by its ID.
func (h *ProductoHandler) HandleGetProductoByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c, err)
	}
	producto, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, id, "Could not retrieve producto", err)
	}
	return c.JSON(producto)
}

// HandleCreateProducto creates a new producto. An id in the body is ignored.
func (h *ProductoHandler) HandleCreateProducto(c *fiber.Ctx) error {
	producto, failed := h.parseBody(c)
	if failed != nil {
		return failed()
	}
	if err := h.service.Create(c.UserContext(), &producto); err != nil {
		h.logger.Error("error creating producto", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create producto",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(producto)
}

// HandleUpdateProducto replaces an existing producto. The path id wins over any id in the body.
func (h *ProductoHandler) HandleUpdateProducto(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c, err)
	}
	producto, failed := h.parseBody(c)
	if failed != nil {
		return failed()
	}
	if err := h.service.Update(c.UserContext(), id, &producto); err != nil {
		return h.fail(c, id, "Could not update producto", err)
	}
	return c.JSON(producto)
}

// HandleDeleteProducto deletes a producto by its ID.
func (h *ProductoHandler) HandleDeleteProducto(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, id, "Could not delete producto", err)
	}
	return c.JSON(fiber.Map{
		"message": "Producto eliminado correctamente",
	})
}

// parseBody decodes and validates the request body as a draft. On failure
// it returns a function writing the 400 response.
func (h *ProductoHandler) parseBody(c *fiber.Ctx) (models.Producto, func() error) {
	var draft models.Draft
	if err := c.BodyParser(&draft); err != nil {
		h.logger.Warn("error parsing request body", "error", err)
		return models.Producto{}, func() error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}
	if violations := validation.Validate(draft); violations != nil {
		return models.Producto{}, func() error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  violations.Map(),
			})
		}
	}
	return draft.Producto(), nil
}

func (h *ProductoHandler) fail(c *fiber.Ctx, id int64, message string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Producto with ID %d not found", id),
		})
	}
	h.logger.Error(message, "id", id, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func badID(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid producto ID",
		"error":   err.Error(),
	})
}

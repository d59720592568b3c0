package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"productos/internal/client"
	"productos/internal/config"
	"productos/internal/handlers"
	"productos/internal/models"
	"productos/internal/repositories"
	"productos/internal/services"
	"productos/pkg/logger"
	"productos/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	app, cleanup, err := NewApp(cfg, log)
	if err != nil {
		log.Error("failed to create app", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Info("starting server", "port", cfg.AppPort, "driver", cfg.DatabaseDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error("server failed to start", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during fiber shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
}

// NewApp wires storage, events, services and handlers into a Fiber app.
// The returned cleanup releases the database and broker connections.
func NewApp(cfg *config.Config, log *slog.Logger) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Initialize Repository ---
	productoRepo, closeRepo, err := openRepository(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeRepo)

	// --- Initialize RabbitMQ Client ---
	var publisher services.EventPublisher
	mqStatus := "disabled"
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		closers = append(closers, func() {
			if err := mqClient.Close(); err != nil {
				log.Warn("error closing RabbitMQ client", "error", err)
			}
		})
		publisher = mqClient
		mqStatus = "connected"

		if err := mqClient.ConsumeProductoEvents(func(event models.ProductoEvent) error {
			log.Info("producto event received", "type", event.Type, "id", event.ProductoID)
			return nil
		}); err != nil {
			log.Warn("failed to start RabbitMQ consumer", "error", err)
		}
	}

	// --- Initialize Services and Handlers ---
	productoService := services.NewProductoService(productoRepo, publisher, log)
	productoHandler := handlers.NewProductoHandler(productoService, log)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:               "productos",
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    client.RequestIDHeader,
		Generator: uuid.NewString,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${status} ${latency} ${method} ${path} ${locals:requestid}\n",
		Output: accessLog{log},
	}))

	// --- API Routes ---
	api := app.Group("/api")
	productoHandler.RegisterRoutes(api)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"storage":  cfg.DatabaseDriver,
			"rabbitmq": mqStatus,
		})
	})

	return app, cleanup, nil
}

func openRepository(cfg *config.Config, log *slog.Logger) (repositories.ProductoRepository, func(), error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		repo := repositories.NewMemoryProductoRepository()
		seedProductos(repo, log)
		return repo, func() {}, nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("error closing database", "error", err)
		}
	}

	repo := repositories.NewGORMProductoRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		closeDB()
		return nil, nil, err
	}
	return repo, closeDB, nil
}

// seedProductos populates the memory repository with some initial data.
func seedProductos(repo repositories.ProductoRepository, log *slog.Logger) {
	productos := []models.Producto{
		{Nombre: "Laptop", Descripcion: "High performance laptop", Precio: 1200.00, Stock: 10},
		{Nombre: "Keyboard", Descripcion: "Mechanical keyboard", Precio: 75.00, Stock: 25},
		{Nombre: "Mouse", Descripcion: "Ergonomic wireless mouse", Precio: 25.00, Stock: 50},
	}

	for i := range productos {
		if err := repo.Create(context.Background(), &productos[i]); err != nil {
			log.Warn("error seeding producto", "nombre", productos[i].Nombre, "error", err)
			continue
		}
		log.Debug("seeded producto", "nombre", productos[i].Nombre, "id", productos[i].IDValue())
	}
}

// accessLog forwards fiber's access log lines to slog.
type accessLog struct {
	log *slog.Logger
}

func (a accessLog) Write(p []byte) (int, error) {
	a.log.Info("request", "access", strings.TrimSpace(string(p)))
	return len(p), nil
}

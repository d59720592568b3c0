package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"productos/internal/apperror"
	"productos/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ProductoClient defines the operations available on the remote producto collection.
// Each call issues exactly one request; there is no retry and no caching.
type ProductoClient interface {
	ListAll(ctx context.Context) ([]models.Producto, error)
	GetOne(ctx context.Context, id int64) (models.Producto, error)
	Create(ctx context.Context, producto models.Producto) (models.Producto, error)
	Update(ctx context.Context, id int64, producto models.Producto) error
	Delete(ctx context.Context, id int64) error
	FindByName(ctx context.Context, term string) ([]models.Producto, error)
}

// ErrIDNotAllowed is returned by Create when the record already carries an ID.
var ErrIDNotAllowed = errors.New("producto to create must not carry an id")

// RequestIDHeader correlates client log lines with the server access log.
const RequestIDHeader = "X-Request-ID"

const collectionPath = "/productos"

// Config holds the REST client settings.
type Config struct {
	BaseURL string        // e.g. "http://localhost:3000/api"
	Timeout time.Duration // zero means no timeout
}

// apiError is the error body returned by the productos API.
type apiError struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Error != "" {
		parts = append(parts, e.Error)
	}
	return strings.Join(parts, ": ")
}

// RESTClient is the resty implementation of ProductoClient.
type RESTClient struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewRESTClient creates a new RESTClient for cfg.BaseURL.
func NewRESTClient(cfg Config, logger *slog.Logger) *RESTClient {
	if logger == nil {
		logger = slog.Default()
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})
	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("productos api call",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"request_id", resp.Request.Header.Get(RequestIDHeader),
		)
		return nil
	})

	return &RESTClient{http: rc, logger: logger}
}

// ListAll retrieves every producto.
func (c *RESTClient) ListAll(ctx context.Context) ([]models.Producto, error) {
	var productos []models.Producto
	resp, err := c.request(ctx).
		SetResult(&productos).
		Get(collectionPath)
	if err := check("list productos", resp, err); err != nil {
		return nil, err
	}
	return nonNil(productos), nil
}

// FindByName retrieves the productos whose nombre matches term on the server.
// The term is sent as-is; no filtering happens on this side.
func (c *RESTClient) FindByName(ctx context.Context, term string) ([]models.Producto, error) {
	var productos []models.Producto
	resp, err := c.request(ctx).
		SetQueryParam("nombre", term).
		SetResult(&productos).
		Get(collectionPath)
	if err := check("find productos by nombre", resp, err); err != nil {
		return nil, err
	}
	return nonNil(productos), nil
}

// GetOne retrieves a single producto by its ID.
func (c *RESTClient) GetOne(ctx context.Context, id int64) (models.Producto, error) {
	var producto models.Producto
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&producto).
		Get(collectionPath + "/{id}")
	if err := check("get producto "+strconv.FormatInt(id, 10), resp, err); err != nil {
		return models.Producto{}, err
	}
	return producto, nil
}

// Create posts a new producto and returns the record acknowledged by the server.
func (c *RESTClient) Create(ctx context.Context, producto models.Producto) (models.Producto, error) {
	if !producto.IsNew() {
		return models.Producto{}, ErrIDNotAllowed
	}

	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(producto).
		Post(collectionPath)
	if err := check("create producto", resp, err); err != nil {
		return models.Producto{}, err
	}

	// A bare ack carries no record; the server has still created it.
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return models.Producto{}, nil
	}
	var created models.Producto
	if err := json.Unmarshal(body, &created); err != nil {
		c.logger.Warn("create producto: ignoring undecodable response body", "status", resp.StatusCode(), "error", err)
		return models.Producto{}, nil
	}
	return created, nil
}

// Update replaces the producto identified by id. The path id wins over any id in the body.
func (c *RESTClient) Update(ctx context.Context, id int64, producto models.Producto) error {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetBody(producto.WithID(id)).
		Put(collectionPath + "/{id}")
	return check("update producto "+strconv.FormatInt(id, 10), resp, err)
}

// Delete removes the producto identified by id.
func (c *RESTClient) Delete(ctx context.Context, id int64) error {
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Delete(collectionPath + "/{id}")
	return check("delete producto "+strconv.FormatInt(id, 10), resp, err)
}

func (c *RESTClient) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetError(&apiError{})
}

// check turns a resty outcome into nil, a TransportError or a StatusError.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return apperror.NewTransportError(op, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	message := ""
	if body, ok := resp.Error().(*apiError); ok {
		message = body.text()
	}
	if message == "" && resp.StatusCode() != http.StatusNotFound {
		message = strings.TrimSpace(resp.String())
	}
	return apperror.NewStatusError(op, resp.StatusCode(), message)
}

func nonNil(productos []models.Producto) []models.Producto {
	if productos == nil {
		return []models.Producto{}
	}
	return productos
}

// internal/api/api.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/vmcollection/spidermap-go/internal/conf"
	"github.com/vmcollection/spidermap-go/internal/datastore"
	"github.com/vmcollection/spidermap-go/internal/docstore"
	"github.com/vmcollection/spidermap-go/internal/errors"
	"github.com/vmcollection/spidermap-go/internal/imageindex"
	"github.com/vmcollection/spidermap-go/internal/observability"
	"github.com/vmcollection/spidermap-go/internal/records"
	"github.com/vmcollection/spidermap-go/internal/syncer"
)

// DocumentStore is the document-store write surface the API exposes.
type DocumentStore interface {
	SaveIdentifications(ctx context.Context, key string, taxa []docstore.TaxonObserved) error
	ReplaceTaxaObserved(ctx context.Context, key string, taxa []docstore.TaxonObserved) error
	DeleteRecord(ctx context.Context, key string) error
	SetFlagged(ctx context.Context, key string, flagged bool) error
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings
	Images   *imageindex.Index
	Enricher *records.Enricher
	Docs     DocumentStore
	Syncer   *syncer.Syncer

	taxaCache *cache.Cache           // Cache for taxon queries
	apiLogger *slog.Logger           // Structured logger for API operations
	metrics   *observability.Metrics // Shared metrics instance
}

// New creates a new API controller and registers its routes.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	images *imageindex.Index, enricher *records.Enricher, docs DocumentStore,
	sync *syncer.Syncer, metrics *observability.Metrics, logger *slog.Logger) *Controller {

	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		Images:    images,
		Enricher:  enricher,
		Docs:      docs,
		Syncer:    sync,
		taxaCache: cache.New(5*time.Minute, 10*time.Minute),
		apiLogger: logger,
		metrics:   metrics,
	}

	e.Use(middleware.Recover())
	if metrics != nil {
		e.Use(c.metricsMiddleware())
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	c.initSearchRoutes()
	c.initTaxaRoutes()
	c.initMediaRoutes()
	c.initDocumentRoutes()

	return c
}

// requestContext derives the per-request deadline context. Outstanding
// sub-queries are cancelled when the deadline passes instead of hanging.
func (c *Controller) requestContext(ctx echo.Context) (context.Context, context.CancelFunc) {
	timeout := c.Settings.WebServer.RequestTimeout
	if timeout <= 0 {
		return ctx.Request().Context(), func() {}
	}
	return context.WithTimeout(ctx.Request().Context(), timeout)
}

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// HandleError logs an error and sends the generic JSON error body. Raw store
// errors never reach the client; message is all the caller sees.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	correlationID := uuid.NewString()[:8]

	c.apiLogger.Error("API Error",
		"correlation_id", correlationID,
		"message", message,
		"error", err,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, ErrorResponse{Error: message, CorrelationID: correlationID})
}

// translateError maps the error taxonomy onto HTTP responses: validation
// failures are 4xx, entity absence is 404, everything store-level is a
// generic 500.
func (c *Controller) translateError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, datastore.ErrInvalidFilter):
		return c.HandleError(ctx, err, "Invalid filter parameter", http.StatusBadRequest)
	case errors.Is(err, datastore.ErrQueryTooShort):
		return c.HandleError(ctx, err, "Query too short", http.StatusBadRequest)
	case errors.Is(err, docstore.ErrInvalidIdentifications):
		return c.HandleError(ctx, err, "Invalid taxa observed data", http.StatusBadRequest)
	case errors.Is(err, datastore.ErrTaxonNotFound):
		return c.HandleError(ctx, err, "Taxon not found", http.StatusNotFound)
	case errors.Is(err, datastore.ErrSpecimenNotFound):
		return c.HandleError(ctx, err, "Record not found", http.StatusNotFound)
	case errors.Is(err, docstore.ErrRecordNotFound):
		return c.HandleError(ctx, err, "Record not found", http.StatusNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return c.HandleError(ctx, err, "Request timed out", http.StatusGatewayTimeout)
	default:
		return c.HandleError(ctx, err, "Database query failed", http.StatusInternalServerError)
	}
}

// metricsMiddleware counts requests by route and status code.
func (c *Controller) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)
			route := ctx.Path()
			if route == "" {
				route = ctx.Request().URL.Path
			}
			c.metrics.HTTPRequests.WithLabelValues(route,
				strconv.Itoa(ctx.Response().Status)).Inc()
			return err
		}
	}
}

// queryParams flattens the request's query string into the filter mapping,
// taking the first value per key.
func queryParams(ctx echo.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range ctx.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

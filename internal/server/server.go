// Package server wires the datastore, image index, enricher, document store
// and HTTP controller together and runs them.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vmcollection/spidermap-go/internal/api"
	"github.com/vmcollection/spidermap-go/internal/conf"
	"github.com/vmcollection/spidermap-go/internal/datastore"
	"github.com/vmcollection/spidermap-go/internal/docstore"
	"github.com/vmcollection/spidermap-go/internal/imageindex"
	"github.com/vmcollection/spidermap-go/internal/logging"
	"github.com/vmcollection/spidermap-go/internal/observability"
	"github.com/vmcollection/spidermap-go/internal/records"
	"github.com/vmcollection/spidermap-go/internal/syncer"
)

const shutdownTimeout = 10 * time.Second

// services holds the wired application components.
type services struct {
	settings *conf.Settings
	ds       datastore.Interface
	images   *imageindex.Index
	enricher *records.Enricher
	docs     *docstore.Store
	syncer   *syncer.Syncer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// buildServices opens the relational store, loads the image index and
// connects the document store. requireDocs makes a failed document-store
// connection fatal instead of a degraded start.
func buildServices(ctx context.Context, settings *conf.Settings, requireDocs bool) (*services, error) {
	logger := logging.ForService("server")

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return nil, fmt.Errorf("failed to open datastore: %w", err)
	}

	images, err := imageindex.Load(settings.Images.Directory)
	if err != nil {
		// The image directory is provisioned separately. Records are still
		// servable without retrieval links.
		logger.Warn("image index unavailable, serving records without images",
			"directory", settings.Images.Directory, "error", err)
		images = imageindex.New(nil)
	} else {
		logger.Info("image index loaded",
			"files", images.Size(), "records", images.Tokens())
	}

	enricher := records.NewEnricher(ds, images, settings.Sync.Enrichment.Limit)

	svc := &services{
		settings: settings,
		ds:       ds,
		images:   images,
		enricher: enricher,
		logger:   logger,
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	svc.metrics = metrics

	if settings.DocStore.URI != "" {
		docs, err := docstore.Connect(ctx, settings)
		if err != nil {
			if requireDocs {
				_ = ds.Close()
				return nil, fmt.Errorf("failed to connect document store: %w", err)
			}
			logger.Warn("document store unavailable, record write routes disabled",
				"error", err)
		} else {
			svc.docs = docs
			svc.syncer = syncer.New(ds, enricher, docs, settings.Images.BaseURL,
				metrics, logging.ForService("syncer"))
		}
	}

	return svc, nil
}

func (s *services) close(ctx context.Context) {
	if s.docs != nil {
		if err := s.docs.Close(ctx); err != nil {
			s.logger.Error("document store close failed", "error", err)
		}
	}
	if err := s.ds.Close(); err != nil {
		s.logger.Error("datastore close failed", "error", err)
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func Run(settings *conf.Settings) error {
	if !settings.WebServer.Enabled {
		return fmt.Errorf("web server is disabled in configuration, set webserver.enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, settings, false)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		svc.close(closeCtx)
	}()

	e := echo.New()
	e.HideBanner = true

	var docs api.DocumentStore
	if svc.docs != nil {
		docs = svc.docs
	}
	api.New(e, svc.ds, settings, svc.images, svc.enricher, docs, svc.syncer,
		svc.metrics, logging.ForService("api"))

	address := net.JoinHostPort(settings.WebServer.Host, settings.WebServer.Port)
	errChan := make(chan error, 1)
	go func() {
		svc.logger.Info("starting HTTP server", "address", address)
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	svc.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

// RunSync performs a one-shot relational→document synchronization and
// returns the number of documents written.
func RunSync(settings *conf.Settings, params map[string]string) (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, settings, true)
	if err != nil {
		return 0, err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		svc.close(closeCtx)
	}()

	if svc.syncer == nil {
		return 0, fmt.Errorf("document store is not configured, set docstore.uri")
	}
	return svc.syncer.Run(ctx, params)
}

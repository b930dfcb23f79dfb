// Package syncer copies enriched specimen records into the document store.
package syncer

import (
	"context"
	"log/slog"

	"github.com/vmcollection/spidermap-go/internal/datastore"
	"github.com/vmcollection/spidermap-go/internal/docstore"
	"github.com/vmcollection/spidermap-go/internal/observability"
	"github.com/vmcollection/spidermap-go/internal/records"
)

// DocumentWriter is the subset of the document store the syncer needs.
type DocumentWriter interface {
	PutRecord(ctx context.Context, doc *docstore.Document) error
	SetRecordCount(ctx context.Context, count int) error
}

// Syncer runs the relational→document synchronization.
type Syncer struct {
	ds       datastore.Interface
	enricher *records.Enricher
	writer   DocumentWriter
	baseURL  string
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New creates a syncer. metrics may be nil.
func New(ds datastore.Interface, enricher *records.Enricher, writer DocumentWriter,
	imageBaseURL string, metrics *observability.Metrics, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		ds:       ds,
		enricher: enricher,
		writer:   writer,
		baseURL:  imageBaseURL,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run synchronizes the records selected by params (the same filter policy as
// the enriched-records endpoint) into the document store, then updates the
// stored record count. Returns the number of documents written.
func (s *Syncer) Run(ctx context.Context, params map[string]string) (int, error) {
	filters, err := datastore.CompileFilters(params, datastore.ModeRecords)
	if err != nil {
		return 0, err
	}

	rows, err := s.ds.SearchSpecimens(ctx, filters)
	if err != nil {
		return 0, err
	}

	enriched, err := s.enricher.Enrich(ctx, rows)
	if err != nil {
		return 0, err
	}

	written := 0
	for i := range enriched {
		doc := docstore.Project(&enriched[i], s.baseURL)
		if err := s.writer.PutRecord(ctx, &doc); err != nil {
			return written, err
		}
		written++
	}

	if err := s.writer.SetRecordCount(ctx, written); err != nil {
		return written, err
	}

	if s.metrics != nil {
		s.metrics.SyncedRecords.Set(float64(written))
	}
	s.logger.Info("record sync complete", "records", written)
	return written, nil
}

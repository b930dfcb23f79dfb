// Package records assembles composite specimen records: the relational row
// joined with its photographs and determination history.
package records

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vmcollection/spidermap-go/internal/datastore"
	"github.com/vmcollection/spidermap-go/internal/imageindex"
)

// CompositeRecord is the enriched, per-request join of one specimen row with
// its image filenames and ordered identification list. Never persisted.
type CompositeRecord struct {
	datastore.SpecimenRow
	Images          []string
	Identifications []datastore.Identification
}

// Token returns the specimen's image-index token, e.g. "VM100".
func (r *CompositeRecord) Token() string {
	return fmt.Sprintf("VM%d", r.VMNumber)
}

// Enricher attaches images and identifications to specimen rows.
type Enricher struct {
	ds     datastore.Interface
	images *imageindex.Index
	limit  int
}

// NewEnricher creates an enricher. limit bounds the concurrent per-row
// sub-queries; values below 1 fall back to serial execution.
func NewEnricher(ds datastore.Interface, images *imageindex.Index, limit int) *Enricher {
	if limit < 1 {
		limit = 1
	}
	return &Enricher{ds: ds, images: images, limit: limit}
}

// Enrich builds one CompositeRecord per input row. Rows are enriched
// concurrently, bounded by the configured limit, and each result is written
// into its input-index slot so the original row order survives. A failure in
// any row's sub-query fails the whole call; partial results are never returned.
func (e *Enricher) Enrich(ctx context.Context, rows []datastore.SpecimenRow) ([]CompositeRecord, error) {
	results := make([]CompositeRecord, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, row := range rows {
		g.Go(func() error {
			record := CompositeRecord{SpecimenRow: row}
			record.Images = e.images.Filenames(record.Token())

			idents, err := e.ds.IdentificationsForSpecimen(ctx, row.VMNumber)
			if err != nil {
				return err
			}
			record.Identifications = idents

			results[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// EnrichOne builds a single CompositeRecord without the fan-out.
func (e *Enricher) EnrichOne(ctx context.Context, row datastore.SpecimenRow) (CompositeRecord, error) {
	record := CompositeRecord{SpecimenRow: row}
	record.Images = e.images.Filenames(record.Token())

	idents, err := e.ds.IdentificationsForSpecimen(ctx, row.VMNumber)
	if err != nil {
		return CompositeRecord{}, err
	}
	record.Identifications = idents
	return record, nil
}

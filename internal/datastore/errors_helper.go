// Package datastore provides error handling helpers for database operations
package datastore

import (
	stderrors "errors"

	"github.com/vmcollection/spidermap-go/internal/errors"
)

// Sentinel errors surfaced to callers. HTTP handlers map these to status codes.
var (
	// ErrInvalidFilter marks a search request carrying a key outside the
	// filter allow-list.
	ErrInvalidFilter = stderrors.New("invalid filter key")

	// ErrQueryTooShort marks a taxon search below the minimum query length.
	ErrQueryTooShort = stderrors.New("query too short")

	// ErrTaxonNotFound marks a taxon lookup with no matching row.
	ErrTaxonNotFound = stderrors.New("taxon not found")

	// ErrSpecimenNotFound marks a specimen lookup with no matching row.
	ErrSpecimenNotFound = stderrors.New("specimen not found")
)

// dbError creates a properly categorized database error with context.
// Every store-level failure funnels through here so callers can treat the
// database category as the single "query execution failed" signal.
func dbError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

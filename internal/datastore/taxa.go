package datastore

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vmcollection/spidermap-go/internal/errors"
	"gorm.io/gorm"
)

// MinTaxaQueryLength is the shortest accepted taxon search text.
const MinTaxaQueryLength = 2

// TaxaSearchPattern converts free search text into the LIKE pattern used for
// scientific-name matching. Whitespace runs collapse to single spaces and each
// token boundary becomes a wildcard, so "Aphonopelma seemanni" yields
// "Aphonopelma% seemanni%".
func TaxaSearchPattern(query string) string {
	tokens := strings.Fields(query)
	return strings.Join(tokens, "% ") + "%"
}

// SearchTaxa performs a prefix-style search against scientific names,
// ordered alphabetically. Case sensitivity follows the store's collation.
func (ds *DataStore) SearchTaxa(ctx context.Context, query string) ([]Taxon, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinTaxaQueryLength {
		return nil, errors.Newf("search text %q: %w", trimmed, ErrQueryTooShort).
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("length", utf8.RuneCountInString(trimmed)).
			Build()
	}

	var taxa []Taxon
	err := ds.DB.WithContext(ctx).
		Where("scientific_name LIKE ?", TaxaSearchPattern(trimmed)).
		Order("scientific_name").
		Find(&taxa).Error
	if err != nil {
		return nil, dbError(err, "search_taxa")
	}
	return taxa, nil
}

// GetTaxon retrieves a single taxonomy entry by its code.
func (ds *DataStore) GetTaxon(ctx context.Context, spCode string) (Taxon, error) {
	var taxon Taxon
	err := ds.DB.WithContext(ctx).
		Where("sp_code = ?", spCode).
		First(&taxon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Taxon{}, errors.Newf("taxon %q: %w", spCode, ErrTaxonNotFound).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("sp_code", spCode).
				Build()
		}
		return Taxon{}, dbError(err, "get_taxon", "sp_code", spCode)
	}
	return taxon, nil
}

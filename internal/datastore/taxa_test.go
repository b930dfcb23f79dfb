package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxaSearchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single token", "Aphonopelma", "Aphonopelma%"},
		{"two tokens", "Aphonopelma seemanni", "Aphonopelma% seemanni%"},
		{"whitespace runs collapse", "  Aphonopelma   seemanni ", "Aphonopelma% seemanni%"},
		{"three tokens", "a b c", "a% b% c%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TaxaSearchPattern(tt.query))
		})
	}
}

func TestSearchTaxaMinimumLength(t *testing.T) {
	ds := createDatabase(t)
	seedTestData(t, ds)

	_, err := ds.SearchTaxa(context.Background(), "a")
	assert.ErrorIs(t, err, ErrQueryTooShort)

	results, err := ds.SearchTaxa(context.Background(), "Ap")
	require.NoError(t, err, "two characters is the accepted boundary")
	require.Len(t, results, 1)
	assert.Equal(t, "Aphonopelma seemanni", results[0].ScientificName)
}

func TestSearchTaxaOrdersByScientificName(t *testing.T) {
	ds := createDatabase(t)
	seedTestData(t, ds)

	// Trailing wildcard matches every seeded name starting with a capital
	results, err := ds.SearchTaxa(context.Background(), "La")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "LATMAC", results[0].SpCode)
}

func TestSearchTaxaTokenBoundaries(t *testing.T) {
	ds := createDatabase(t)
	seedTestData(t, ds)

	results, err := ds.SearchTaxa(context.Background(), "Aphonopelma see")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Aphonopelma seemanni", results[0].ScientificName)
}

func TestGetTaxon(t *testing.T) {
	ds := createDatabase(t)
	seedTestData(t, ds)

	taxon, err := ds.GetTaxon(context.Background(), "BRASMI")
	require.NoError(t, err)
	assert.Equal(t, "Brachypelma smithi", taxon.ScientificName)
	assert.Equal(t, "Theraphosidae", taxon.Family)

	_, err = ds.GetTaxon(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrTaxonNotFound, "unknown code is a NotFound, not an empty result")
}

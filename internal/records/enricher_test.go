package records

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vmcollection/spidermap-go/internal/datastore"
	"github.com/vmcollection/spidermap-go/internal/imageindex"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore implements datastore.Interface for enrichment tests.
type fakeStore struct {
	identsByNumber map[int][]datastore.Identification
	failFor        int // vm_number whose sub-query fails, 0 = none
	delayFirst     time.Duration
}

func (f *fakeStore) Open() error  { return nil }
func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) SearchSpecimens(context.Context, *datastore.CompiledFilters) ([]datastore.SpecimenRow, error) {
	return nil, nil
}

func (f *fakeStore) GetSpecimen(context.Context, int) (datastore.SpecimenRow, error) {
	return datastore.SpecimenRow{}, nil
}

func (f *fakeStore) SearchTaxa(context.Context, string) ([]datastore.Taxon, error) {
	return nil, nil
}

func (f *fakeStore) GetTaxon(context.Context, string) (datastore.Taxon, error) {
	return datastore.Taxon{}, nil
}

func (f *fakeStore) IdentificationsForSpecimen(ctx context.Context, vmNumber int) ([]datastore.Identification, error) {
	if f.delayFirst > 0 && vmNumber == 100 {
		// Slow down the first row so completion order differs from input order
		select {
		case <-time.After(f.delayFirst):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failFor != 0 && vmNumber == f.failFor {
		return nil, stderrors.New("query execution failed")
	}
	return f.identsByNumber[vmNumber], nil
}

func specimenRows(numbers ...int) []datastore.SpecimenRow {
	rows := make([]datastore.SpecimenRow, len(numbers))
	for i, n := range numbers {
		rows[i] = datastore.SpecimenRow{Specimen: datastore.Specimen{VMNumber: n}}
	}
	return rows
}

func TestEnrichPreservesRowOrder(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		identsByNumber: map[int][]datastore.Identification{
			100: {{PanelID: 1, VMNumber: 100}},
			200: {{PanelID: 2, VMNumber: 200}},
			300: {},
		},
		delayFirst: 20 * time.Millisecond,
	}
	images := imageindex.New([]string{"img_VM100_a.jpg", "img_VM100_b.jpg", "img_VM300_c.jpg"})
	enricher := NewEnricher(store, images, 4)

	results, err := enricher.Enrich(context.Background(), specimenRows(100, 200, 300))
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, want := range []int{100, 200, 300} {
		assert.Equal(t, want, results[i].VMNumber, "result %d must keep input order", i)
	}
	assert.Equal(t, []string{"img_VM100_a.jpg", "img_VM100_b.jpg"}, results[0].Images)
	assert.Empty(t, results[1].Images, "missing image entry is an empty list, not an error")
	assert.Len(t, results[0].Identifications, 1)
}

func TestEnrichFailureIsAllOrNothing(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		identsByNumber: map[int][]datastore.Identification{100: {{PanelID: 1}}},
		failFor:        200,
	}
	enricher := NewEnricher(store, imageindex.New(nil), 2)

	results, err := enricher.Enrich(context.Background(), specimenRows(100, 200, 300))
	require.Error(t, err)
	assert.Nil(t, results, "partial results are never returned")
}

func TestEnrichHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	store := &fakeStore{delayFirst: time.Second}
	enricher := NewEnricher(store, imageindex.New(nil), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := enricher.Enrich(ctx, specimenRows(100, 200))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
}

func TestEnrichEmptyInput(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(&fakeStore{}, imageindex.New(nil), 4)
	results, err := enricher.Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEnrichOne(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		identsByNumber: map[int][]datastore.Identification{
			100: {{PanelID: 1, VMNumber: 100}},
		},
	}
	images := imageindex.New([]string{"img_VM100_a.jpg"})
	enricher := NewEnricher(store, images, 4)

	record, err := enricher.EnrichOne(context.Background(),
		datastore.SpecimenRow{Specimen: datastore.Specimen{VMNumber: 100}})
	require.NoError(t, err)
	assert.Equal(t, []string{"img_VM100_a.jpg"}, record.Images)
	assert.Len(t, record.Identifications, 1)

	store.failFor = 100
	_, err = enricher.EnrichOne(context.Background(),
		datastore.SpecimenRow{Specimen: datastore.Specimen{VMNumber: 100}})
	assert.Error(t, err)
}

func TestCompositeRecordToken(t *testing.T) {
	t.Parallel()

	r := CompositeRecord{SpecimenRow: datastore.SpecimenRow{Specimen: datastore.Specimen{VMNumber: 1234}}}
	assert.Equal(t, fmt.Sprintf("VM%d", 1234), r.Token())
}

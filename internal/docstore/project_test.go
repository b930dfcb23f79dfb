package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcollection/spidermap-go/internal/datastore"
	"github.com/vmcollection/spidermap-go/internal/records"
)

func fullRecord() *records.CompositeRecord {
	return &records.CompositeRecord{
		SpecimenRow: datastore.SpecimenRow{
			Specimen: datastore.Specimen{
				VMNumber:         100,
				SpCode:           "APHSEE",
				Collector:        "J. Doe",
				CollectorEmail:   "jane@example.org",
				YearCollected:    "1998",
				MonthCollected:   "7",
				DayCollected:     "14",
				Country:          "Costa Rica",
				StateProvince:    "Guanacaste",
				ClosestTown:      "Liberia",
				Locality:         "dry forest edge",
				DecimalLatitude:  "12.5",
				DecimalLongitude: "-85.25",
				Remarks:          "under bark",
			},
			ScientificName: "Aphonopelma seemanni",
			Family:         "Theraphosidae",
		},
		Images: []string{"img_VM100_a.jpg", "img_VM100_b.jpg"},
		Identifications: []datastore.Identification{
			{PanelID: 2, VMNumber: 100, SpCode: "APHSEE", IdentifiedBy: "C. Hamilton", DateIdentified: "2010-09-12"},
			{PanelID: 1, VMNumber: 100, SpCode: "BRASMI", IdentifiedBy: "R. West", DateIdentified: "2003-05-01", Qualifier: "cf."},
		},
	}
}

func TestProjectFullRecord(t *testing.T) {
	t.Parallel()

	doc := Project(fullRecord(), "http://localhost:3000")

	assert.Equal(t, "vm100", doc.Key)
	assert.False(t, doc.Flagged)

	event := doc.Observation.Event
	assert.Equal(t, "J. Doe", event.Recorder)
	assert.Equal(t, "jane@example.org", event.Contact)
	require.NotNil(t, event.Year)
	assert.Equal(t, 1998, *event.Year)
	require.NotNil(t, event.Month)
	assert.Equal(t, 7, *event.Month)

	loc := doc.Observation.Location
	assert.Equal(t, "Liberia", loc.Town)
	require.NotNil(t, loc.DecimalLatitude)
	assert.InDelta(t, 12.5, *loc.DecimalLatitude, 1e-9)
	require.NotNil(t, loc.DecimalLongitude)
	assert.InDelta(t, -85.25, *loc.DecimalLongitude, 1e-9)

	require.Len(t, doc.Observation.TaxaObserved, 1, "exactly one taxaObserved entry per record")
	taxon := doc.Observation.TaxaObserved[0]
	assert.Equal(t, "Aphonopelma seemanni", taxon.ScientificName)
	assert.Equal(t, "under bark", taxon.OccurrenceRemarks)

	require.Len(t, taxon.AssociatedMedia, 2)
	assert.Equal(t, "http://localhost:3000/recordImages/img_VM100_a.jpg", taxon.AssociatedMedia[0].Identifier)

	require.Len(t, taxon.Identifications, 2)
	assert.Equal(t, "Aphonopelma seemanni", taxon.Identifications[0].ScientificName,
		"matching code inherits the specimen's name")
	assert.Empty(t, taxon.Identifications[1].ScientificName,
		"a differing code has no name available")
	assert.Equal(t, "cf.", taxon.Identifications[1].Qualifier)
}

func TestProjectEmptyRecordIsTotal(t *testing.T) {
	t.Parallel()

	record := &records.CompositeRecord{
		SpecimenRow: datastore.SpecimenRow{Specimen: datastore.Specimen{VMNumber: 7}},
	}
	doc := Project(record, "https://api.example.org/")

	assert.Equal(t, "vm7", doc.Key)
	assert.Nil(t, doc.Observation.Event.Year)
	assert.Nil(t, doc.Observation.Event.Month)
	assert.Nil(t, doc.Observation.Event.Day)
	assert.Nil(t, doc.Observation.Location.DecimalLatitude)
	assert.Nil(t, doc.Observation.Location.DecimalLongitude)
	assert.Empty(t, doc.Observation.Location.Country)

	require.Len(t, doc.Observation.TaxaObserved, 1)
	assert.NotNil(t, doc.Observation.TaxaObserved[0].AssociatedMedia)
	assert.NotNil(t, doc.Observation.TaxaObserved[0].Identifications)
}

func TestProjectIsDeterministic(t *testing.T) {
	t.Parallel()

	a := Project(fullRecord(), "http://localhost:3000")
	b := Project(fullRecord(), "http://localhost:3000")
	assert.Equal(t, a, b)
}

func TestProjectZeroCoordinateIsPresent(t *testing.T) {
	t.Parallel()

	record := fullRecord()
	record.DecimalLatitude = "0"
	record.DecimalLongitude = "0.0"

	doc := Project(record, "http://localhost:3000")
	require.NotNil(t, doc.Observation.Location.DecimalLatitude)
	assert.Zero(t, *doc.Observation.Location.DecimalLatitude,
		"a literal zero coordinate is a value, not an absence")
	require.NotNil(t, doc.Observation.Location.DecimalLongitude)
}

func TestProjectUnparseableNumericIsNull(t *testing.T) {
	t.Parallel()

	record := fullRecord()
	record.YearCollected = "circa 1998"
	record.DecimalLatitude = "N 12 30"

	doc := Project(record, "http://localhost:3000")
	assert.Nil(t, doc.Observation.Event.Year)
	assert.Nil(t, doc.Observation.Location.DecimalLatitude)
}

func TestImageURLJoining(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://api.example.org/recordImages/img_VM9_a.jpg",
		imageURL("https://api.example.org/", "img_VM9_a.jpg"))
	assert.Equal(t, "https://api.example.org/recordImages/img_VM9_a.jpg",
		imageURL("https://api.example.org", "img_VM9_a.jpg"))
}

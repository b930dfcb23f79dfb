package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmcollection/spidermap-go/internal/docstore"
)

const identificationsBody = `[{
	"scientificName": "Aphonopelma seemanni",
	"taxonCode": "APHSEE",
	"identifications": [{
		"date": "2019-03-01",
		"identifiedBy": "S. Longhorn",
		"scientificName": "Aphonopelma seemanni",
		"taxonCode": "APHSEE"
	}]
}]`

func TestHandleSaveIdentifications(t *testing.T) {
	t.Parallel()

	docs := newMockDocs()
	c := newTestController(t, seededStore(), docs)

	rec := doRequest(c, http.MethodPut, "/records/vm100/identifications", identificationsBody)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, docs.saved, "vm100")
	assert.Equal(t, "APHSEE", docs.saved["vm100"][0].TaxonCode)
}

func TestHandleSaveIdentificationsEmptiedListReplaces(t *testing.T) {
	t.Parallel()

	docs := newMockDocs()
	c := newTestController(t, seededStore(), docs)

	// Removing the last determination ships the block with an empty list,
	// which must still be accepted as a replace.
	body := `[{"scientificName": "Aphonopelma seemanni", "taxonCode": "APHSEE", "identifications": []}]`
	rec := doRequest(c, http.MethodPut, "/records/vm100/identifications", body)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, docs.saved, "vm100")
	assert.Empty(t, docs.saved["vm100"][0].Identifications)
}

func TestHandleSaveIdentificationsRejectsBadKeyAndBody(t *testing.T) {
	t.Parallel()

	docs := newMockDocs()
	c := newTestController(t, seededStore(), docs)

	rec := doRequest(c, http.MethodPut, "/records/100/identifications", identificationsBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(c, http.MethodPut, "/records/vm100/identifications", `{"not": "a list"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Two taxaObserved entries violate the single-taxon document shape.
	rec = doRequest(c, http.MethodPut, "/records/vm100/identifications",
		`[{"taxonCode": "A", "identifications": [{"date": "x"}]}, {"taxonCode": "B", "identifications": [{"date": "y"}]}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, docs.saved)
}

func TestHandleDeleteRecord(t *testing.T) {
	t.Parallel()

	docs := newMockDocs()
	c := newTestController(t, seededStore(), docs)

	rec := doRequest(c, http.MethodDelete, "/records/vm100", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"vm100"}, docs.deleted)

	docs.missing = true
	rec = doRequest(c, http.MethodDelete, "/records/vm200", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleFlagRoutes(t *testing.T) {
	t.Parallel()

	docs := newMockDocs()
	c := newTestController(t, seededStore(), docs)

	rec := doRequest(c, http.MethodPost, "/records/vm100/flag", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, docs.flagged["vm100"])

	rec = doRequest(c, http.MethodDelete, "/records/vm100/flag", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, docs.flagged["vm100"])
}

func TestDocumentRoutesDisabledWithoutStore(t *testing.T) {
	t.Parallel()

	c := newTestController(t, seededStore(), nil)

	rec := doRequest(c, http.MethodDelete, "/records/vm100", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorBodyShape(t *testing.T) {
	t.Parallel()

	docs := newMockDocs()
	docs.missing = true
	c := newTestController(t, seededStore(), docs)

	rec := doRequest(c, http.MethodPost, "/records/vm999/flag", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Record not found", resp.Error)
	assert.Len(t, resp.CorrelationID, 8)
}

var _ DocumentStore = (*mockDocs)(nil)
var _ DocumentStore = (*docstore.Store)(nil)

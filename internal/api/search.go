package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vmcollection/spidermap-go/internal/datastore"
	"github.com/vmcollection/spidermap-go/internal/records"
)

// initSearchRoutes registers the specimen search routes
func (c *Controller) initSearchRoutes() {
	c.Echo.GET("/search", c.HandleSearch)
	c.Echo.GET("/records", c.HandleRecords)
	c.Echo.GET("/records/:vm_number", c.HandleRecord)
}

// SearchResult is the slim row returned by the generic search endpoint,
// matching the legacy column projection.
type SearchResult struct {
	VMNumber        int    `json:"vm_number"`
	ScientificName  string `json:"scientific_name"`
	IDConfirmedBy   string `json:"id_confirmed_by"`
	DateIDConfirmed string `json:"date_id_confirmed"`
}

// HandleSearch runs the generic column-equality search over the
// specimen+taxonomy join. Every query parameter must be an allow-listed
// filter column.
func (c *Controller) HandleSearch(ctx echo.Context) error {
	filters, err := datastore.CompileFilters(queryParams(ctx), datastore.ModeSearch)
	if err != nil {
		return c.translateError(ctx, err)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := c.DS.SearchSpecimens(reqCtx, filters)
	if err != nil {
		return c.translateError(ctx, err)
	}
	c.observeQuery("search_specimens", start)

	results := make([]SearchResult, 0, len(rows))
	for i := range rows {
		results = append(results, SearchResult{
			VMNumber:        rows[i].VMNumber,
			ScientificName:  rows[i].ScientificName,
			IDConfirmedBy:   rows[i].IDConfirmedBy,
			DateIDConfirmed: rows[i].DateIDConfirmed,
		})
	}
	return ctx.JSON(http.StatusOK, results)
}

// RecordResponse is one enriched record returned by the records endpoint.
type RecordResponse struct {
	VMNumber           int                      `json:"vm_number"`
	SpCode             string                   `json:"sp_code"`
	ScientificName     string                   `json:"scientific_name"`
	Family             string                   `json:"family"`
	TaxonomicAuthority string                   `json:"taxonomic_authority"`
	Collector          string                   `json:"collector"`
	CollectorEmail     string                   `json:"collector_email"`
	YearCollected      string                   `json:"year_collected"`
	MonthCollected     string                   `json:"month_collected"`
	DayCollected       string                   `json:"day_collected"`
	Country            string                   `json:"country"`
	StateProvince      string                   `json:"state_province"`
	ClosestTown        string                   `json:"closest_town"`
	Locality           string                   `json:"locality"`
	DecimalLatitude    string                   `json:"decimal_latitude"`
	DecimalLongitude   string                   `json:"decimal_longitude"`
	Remarks            string                   `json:"remarks"`
	IDConfirmedBy      string                   `json:"id_confirmed_by"`
	DateIDConfirmed    string                   `json:"date_id_confirmed"`
	Images             []string                 `json:"images"`
	Identifications    []IdentificationResponse `json:"identifications"`
}

// IdentificationResponse is one determination note attached to a record.
type IdentificationResponse struct {
	PanelID        int    `json:"panel_id"`
	SpCode         string `json:"sp_code"`
	IdentifiedBy   string `json:"identified_by"`
	Qualifier      string `json:"qualifier"`
	Remarks        string `json:"remarks"`
	DateIdentified string `json:"date_identified"`
}

// HandleRecords returns enriched composite records: the reserved "name"
// parameter filters by scientific name, any other parameter must be an
// allow-listed filter column, and no name falls back to the default family.
func (c *Controller) HandleRecords(ctx echo.Context) error {
	filters, err := datastore.CompileFilters(queryParams(ctx), datastore.ModeRecords)
	if err != nil {
		return c.translateError(ctx, err)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := c.DS.SearchSpecimens(reqCtx, filters)
	if err != nil {
		return c.translateError(ctx, err)
	}
	c.observeQuery("search_specimens", start)

	enriched, err := c.Enricher.Enrich(reqCtx, rows)
	if err != nil {
		return c.translateError(ctx, err)
	}

	results := make([]RecordResponse, 0, len(enriched))
	for i := range enriched {
		results = append(results, recordResponse(&enriched[i]))
	}
	return ctx.JSON(http.StatusOK, results)
}

// HandleRecord returns a single enriched record by its specimen number.
// Soft-deleted specimens are absent, not found.
func (c *Controller) HandleRecord(ctx echo.Context) error {
	vmNumber, err := strconv.Atoi(ctx.Param("vm_number"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid record number", http.StatusBadRequest)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	start := time.Now()
	row, err := c.DS.GetSpecimen(reqCtx, vmNumber)
	if err != nil {
		return c.translateError(ctx, err)
	}
	c.observeQuery("get_specimen", start)

	record, err := c.Enricher.EnrichOne(reqCtx, row)
	if err != nil {
		return c.translateError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, recordResponse(&record))
}

func recordResponse(record *records.CompositeRecord) RecordResponse {
	idents := make([]IdentificationResponse, 0, len(record.Identifications))
	for _, ident := range record.Identifications {
		idents = append(idents, IdentificationResponse{
			PanelID:        ident.PanelID,
			SpCode:         ident.SpCode,
			IdentifiedBy:   ident.IdentifiedBy,
			Qualifier:      ident.Qualifier,
			Remarks:        ident.Remarks,
			DateIdentified: ident.DateIdentified,
		})
	}

	images := record.Images
	if images == nil {
		images = []string{}
	}

	return RecordResponse{
		VMNumber:           record.VMNumber,
		SpCode:             record.SpCode,
		ScientificName:     record.ScientificName,
		Family:             record.Family,
		TaxonomicAuthority: record.TaxonomicAuthority,
		Collector:          record.Collector,
		CollectorEmail:     record.CollectorEmail,
		YearCollected:      record.YearCollected,
		MonthCollected:     record.MonthCollected,
		DayCollected:       record.DayCollected,
		Country:            record.Country,
		StateProvince:      record.StateProvince,
		ClosestTown:        record.ClosestTown,
		Locality:           record.Locality,
		DecimalLatitude:    record.DecimalLatitude,
		DecimalLongitude:   record.DecimalLongitude,
		Remarks:            record.Remarks,
		IDConfirmedBy:      record.IDConfirmedBy,
		DateIDConfirmed:    record.DateIDConfirmed,
		Images:             images,
		Identifications:    idents,
	}
}

// observeQuery records a query duration when metrics are wired.
func (c *Controller) observeQuery(operation string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

package api

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/vmcollection/spidermap-go/internal/docstore"
)

// recordKeyPattern matches document keys like "vm100".
var recordKeyPattern = regexp.MustCompile(`^vm[0-9]+$`)

// initDocumentRoutes registers the document-store write surface consumed by
// the map client, plus the sync trigger.
func (c *Controller) initDocumentRoutes() {
	if c.Docs != nil {
		c.Echo.PUT("/records/:key/identifications", c.HandleSaveIdentifications)
		c.Echo.DELETE("/records/:key", c.HandleDeleteRecord)
		c.Echo.POST("/records/:key/flag", c.HandleFlagRecord)
		c.Echo.DELETE("/records/:key/flag", c.HandleUnflagRecord)
	}
	if c.Syncer != nil {
		c.Echo.POST("/records/sync", c.HandleSyncRecords)
	}
}

func (c *Controller) recordKey(ctx echo.Context) (string, bool) {
	key := ctx.Param("key")
	return key, recordKeyPattern.MatchString(key)
}

// HandleSaveIdentifications creates or replaces a record's taxaObserved
// block. The body is the full block, one entry with a non-empty
// identification list.
func (c *Controller) HandleSaveIdentifications(ctx echo.Context) error {
	key, ok := c.recordKey(ctx)
	if !ok {
		return c.HandleError(ctx, nil, "Invalid record key", http.StatusBadRequest)
	}

	var taxa []docstore.TaxonObserved
	if err := ctx.Bind(&taxa); err != nil {
		return c.HandleError(ctx, err, "Invalid request format", http.StatusBadRequest)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	// An emptied identification list is a determination removal, which the
	// client performs with the same replace write.
	var err error
	if len(taxa) == 1 && len(taxa[0].Identifications) == 0 {
		err = c.Docs.ReplaceTaxaObserved(reqCtx, key, taxa)
	} else {
		err = c.Docs.SaveIdentifications(reqCtx, key, taxa)
	}
	if err != nil {
		return c.translateError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// HandleDeleteRecord removes a record document.
func (c *Controller) HandleDeleteRecord(ctx echo.Context) error {
	key, ok := c.recordKey(ctx)
	if !ok {
		return c.HandleError(ctx, nil, "Invalid record key", http.StatusBadRequest)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	if err := c.Docs.DeleteRecord(reqCtx, key); err != nil {
		return c.translateError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// HandleFlagRecord sets the flagged marker on a record.
func (c *Controller) HandleFlagRecord(ctx echo.Context) error {
	return c.setFlag(ctx, true)
}

// HandleUnflagRecord clears the flagged marker on a record.
func (c *Controller) HandleUnflagRecord(ctx echo.Context) error {
	return c.setFlag(ctx, false)
}

func (c *Controller) setFlag(ctx echo.Context, flagged bool) error {
	key, ok := c.recordKey(ctx)
	if !ok {
		return c.HandleError(ctx, nil, "Invalid record key", http.StatusBadRequest)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	if err := c.Docs.SetFlagged(reqCtx, key, flagged); err != nil {
		return c.translateError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SyncResponse reports how many documents a sync run wrote.
type SyncResponse struct {
	Synced int `json:"synced"`
}

// HandleSyncRecords triggers a relational→document sync using the request's
// filter parameters.
func (c *Controller) HandleSyncRecords(ctx echo.Context) error {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	written, err := c.Syncer.Run(reqCtx, queryParams(ctx))
	if err != nil {
		return c.translateError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, SyncResponse{Synced: written})
}

package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vmcollection/spidermap-go/internal/datastore"
)

// initTaxaRoutes registers the taxonomy lookup routes
func (c *Controller) initTaxaRoutes() {
	c.Echo.GET("/taxa", c.HandleTaxaSearch)
	c.Echo.GET("/taxa/:code", c.HandleTaxonLookup)
}

// TaxaSearchResponse wraps the taxon search results.
type TaxaSearchResponse struct {
	Results []datastore.Taxon `json:"results"`
}

// HandleTaxaSearch performs the prefix-style scientific-name search.
func (c *Controller) HandleTaxaSearch(ctx echo.Context) error {
	query := strings.TrimSpace(ctx.QueryParam("q"))

	cacheKey := "taxa:" + query
	if cached, found := c.taxaCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached.(TaxaSearchResponse))
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	taxa, err := c.DS.SearchTaxa(reqCtx, query)
	if err != nil {
		return c.translateError(ctx, err)
	}
	if taxa == nil {
		taxa = []datastore.Taxon{}
	}

	response := TaxaSearchResponse{Results: taxa}
	c.taxaCache.SetDefault(cacheKey, response)
	return ctx.JSON(http.StatusOK, response)
}

// HandleTaxonLookup retrieves a single taxonomy entry by code.
func (c *Controller) HandleTaxonLookup(ctx echo.Context) error {
	code := ctx.Param("code")

	cacheKey := "taxon:" + code
	if cached, found := c.taxaCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached.(datastore.Taxon))
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	taxon, err := c.DS.GetTaxon(reqCtx, code)
	if err != nil {
		return c.translateError(ctx, err)
	}

	c.taxaCache.SetDefault(cacheKey, taxon)
	return ctx.JSON(http.StatusOK, taxon)
}

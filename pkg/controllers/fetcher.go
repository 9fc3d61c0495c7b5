package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/httputil"
)

type FetcherResponse struct {
	Data FetcherObject `json:"data"`
}

type FetcherObject struct {
	Installed bool   `json:"installed" example:"true"`
	Version   string `json:"version" example:"1.3"` // Empty if unknown
}

// RegisterFetcherRoutes registers the routes for the fetch source status
// with the RouterGroup that is passed.
func (co Controller) RegisterFetcherRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsFetcher)
	r.GET("", co.GetFetcher)
	r.OPTIONS("/update", co.OptionsFetcherUpdate)
	r.POST("/update", co.UpdateFetcher)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/v1/fetcher [options]
func (co Controller) OptionsFetcher(c *gin.Context) {
	httputil.Options(c, http.MethodGet)
}

//	@Summary		Fetch source status
//	@Description	Returns whether the external fetch source is installed, and its version
//	@Tags			General
//	@Produce		json
//	@Success		200	{object}	FetcherResponse
//	@Router			/v1/fetcher [get]
func (co Controller) GetFetcher(c *gin.Context) {
	c.JSON(http.StatusOK, FetcherResponse{Data: co.fetcherStatus(c)})
}

func (co Controller) fetcherStatus(c *gin.Context) FetcherObject {
	var status FetcherObject
	if co.Fetcher != nil {
		status.Installed = co.Fetcher.Installed(c.Request.Context())
		if status.Installed {
			status.Version = co.Fetcher.Version(c.Request.Context())
		}
	}
	return status
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/v1/fetcher/update [options]
func (co Controller) OptionsFetcherUpdate(c *gin.Context) {
	httputil.Options(c, http.MethodPost)
}

//	@Summary		Update bank modules
//	@Description	Updates the bank modules of the fetch source and returns its status
//	@Tags			General
//	@Produce		json
//	@Success		200	{object}	FetcherResponse
//	@Failure		404	{object}	httperrors.HTTPError
//	@Failure		502	{object}	httperrors.HTTPError
//	@Router			/v1/fetcher/update [post]
func (co Controller) UpdateFetcher(c *gin.Context) {
	if co.Fetcher == nil {
		httperrors.New(c, http.StatusNotFound, "There is no fetch source to update")
		return
	}

	if err := co.Fetcher.Update(c.Request.Context()); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, FetcherResponse{Data: co.fetcherStatus(c)})
}

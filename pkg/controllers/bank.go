package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httputil"
	"github.com/kresus/backend/pkg/models"
)

type BankListResponse struct {
	Data []models.Bank `json:"data"`
}

// RegisterBankRoutes registers the routes for the bank catalog with
// the RouterGroup that is passed.
func (co Controller) RegisterBankRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsBankList)
	r.GET("", co.GetBanks)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Banks
//	@Success		204
//	@Router			/v1/banks [options]
func (co Controller) OptionsBankList(c *gin.Context) {
	httputil.Options(c, http.MethodGet)
}

//	@Summary		List banks
//	@Description	Returns the catalog of supported banks, sorted by name
//	@Tags			Banks
//	@Produce		json
//	@Success		200	{object}	BankListResponse
//	@Router			/v1/banks [get]
func (co Controller) GetBanks(c *gin.Context) {
	banks := co.Store.Snapshot().Banks
	if banks == nil {
		banks = []models.Bank{}
	}

	c.JSON(http.StatusOK, BankListResponse{Data: banks})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/httputil"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/pkg/store"
)

type Alert struct {
	models.Alert
	AccountID string     `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Empty if no account has the account number
	Links     AlertLinks `json:"links"`
}

type AlertLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/alerts/0e5c1b4f-2d4e-4f6e-9c7c-4ad3a1f3f1b2"`
}

type AlertListResponse struct {
	Data []Alert `json:"data"`
}

type AlertResponse struct {
	Data Alert `json:"data"`
}

type AlertQueryFilter struct {
	Type string `form:"type"`
}

func newAlert(c *gin.Context, s store.State, a models.Alert) Alert {
	alert := Alert{
		Alert: a,
		Links: AlertLinks{
			Self: baseURL(c) + "/v1/alerts/" + a.ID,
		},
	}

	if account, ok := store.AccountByNumber(s, a.BankAccount); ok {
		alert.AccountID = account.ID
	}
	return alert
}

// RegisterAlertRoutes registers the routes for alerts with
// the RouterGroup that is passed.
func (co Controller) RegisterAlertRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsAlertList)
		r.GET("", co.GetAlerts)
		r.POST("", co.CreateAlert)
	}

	// Alert with ID
	{
		r.OPTIONS("/:alertId", co.OptionsAlertDetail)
		r.GET("/:alertId", co.GetAlert)
		r.PATCH("/:alertId", co.UpdateAlert)
		r.DELETE("/:alertId", co.DeleteAlert)
	}
}

// getAlert writes a 404 response if the alert does not exist.
func (co Controller) getAlert(c *gin.Context, id string) (models.Alert, bool) {
	for _, a := range co.Store.Snapshot().Alerts {
		if a.ID == id {
			return a, true
		}
	}

	httperrors.New(c, http.StatusNotFound, "There is no alert with ID %s", id)
	return models.Alert{}, false
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Alerts
//	@Success		204
//	@Router			/v1/alerts [options]
func (co Controller) OptionsAlertList(c *gin.Context) {
	httputil.Options(c, http.MethodGet, http.MethodPost)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Alerts
//	@Success		204
//	@Failure		404		{object}	httperrors.HTTPError
//	@Param			alertId	path		string	true	"ID of the alert"
//	@Router			/v1/alerts/{alertId} [options]
func (co Controller) OptionsAlertDetail(c *gin.Context) {
	if _, ok := co.getAlert(c, c.Param("alertId")); !ok {
		return
	}
	httputil.Options(c, http.MethodGet, http.MethodPatch, http.MethodDelete)
}

//	@Summary		List alerts
//	@Description	Returns all alerts. When filtering by type, alerts of unknown accounts are left out
//	@Tags			Alerts
//	@Produce		json
//	@Success		200		{object}	AlertListResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Param			type	query		string	false	"Filter by type: balance, transaction or report"
//	@Router			/v1/alerts [get]
func (co Controller) GetAlerts(c *gin.Context) {
	var filter AlertQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httperrors.Handler(c, httperrors.ErrInvalidQuery)
		return
	}

	s := co.Store.Snapshot()
	data := make([]Alert, 0)

	if filter.Type == "" {
		for _, a := range s.Alerts {
			data = append(data, newAlert(c, s, a))
		}
		c.JSON(http.StatusOK, AlertListResponse{Data: data})
		return
	}

	alertType := models.AlertType(filter.Type)
	if !alertType.Valid() {
		httperrors.New(c, http.StatusBadRequest, "Unknown alert type %s", filter.Type)
		return
	}

	for _, pair := range store.AlertPairsByType(s, alertType) {
		data = append(data, newAlert(c, s, pair.Alert))
	}
	c.JSON(http.StatusOK, AlertListResponse{Data: data})
}

//	@Summary		Get alert
//	@Description	Returns a specific alert
//	@Tags			Alerts
//	@Produce		json
//	@Success		200		{object}	AlertResponse
//	@Failure		404		{object}	httperrors.HTTPError
//	@Param			alertId	path		string	true	"ID of the alert"
//	@Router			/v1/alerts/{alertId} [get]
func (co Controller) GetAlert(c *gin.Context) {
	a, ok := co.getAlert(c, c.Param("alertId"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AlertResponse{Data: newAlert(c, co.Store.Snapshot(), a)})
}

//	@Summary		Create alert
//	@Description	Creates an alert
//	@Tags			Alerts
//	@Produce		json
//	@Success		201		{object}	AlertResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Failure		500		{object}	httperrors.HTTPError
//	@Param			alert	body		models.AlertCreate	true	"Alert"
//	@Router			/v1/alerts [post]
func (co Controller) CreateAlert(c *gin.Context) {
	var create models.AlertCreate
	if !httputil.BindDataHandleErrors(c, &create) {
		return
	}

	a, err := co.Store.CreateAlert(c.Request.Context(), create)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, AlertResponse{Data: newAlert(c, co.Store.Snapshot(), a)})
}

//	@Summary		Update alert
//	@Description	Updates an alert. Only the fields in the body are changed
//	@Tags			Alerts
//	@Produce		json
//	@Success		200		{object}	AlertResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Failure		404		{object}	httperrors.HTTPError
//	@Param			alertId	path		string				true	"ID of the alert"
//	@Param			alert	body		models.AlertUpdate	true	"Alert"
//	@Router			/v1/alerts/{alertId} [patch]
func (co Controller) UpdateAlert(c *gin.Context) {
	id := c.Param("alertId")
	if _, ok := co.getAlert(c, id); !ok {
		return
	}

	var update models.AlertUpdate
	if !httputil.BindDataHandleErrors(c, &update) {
		return
	}

	if err := co.Store.UpdateAlert(c.Request.Context(), id, update); err != nil {
		httperrors.Handler(c, err)
		return
	}

	a, ok := co.getAlert(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AlertResponse{Data: newAlert(c, co.Store.Snapshot(), a)})
}

//	@Summary		Delete alert
//	@Description	Deletes an alert
//	@Tags			Alerts
//	@Success		204
//	@Failure		404		{object}	httperrors.HTTPError
//	@Failure		500		{object}	httperrors.HTTPError
//	@Param			alertId	path		string	true	"ID of the alert"
//	@Router			/v1/alerts/{alertId} [delete]
func (co Controller) DeleteAlert(c *gin.Context) {
	id := c.Param("alertId")
	if _, ok := co.getAlert(c, id); !ok {
		return
	}

	if err := co.Store.DeleteAlert(c.Request.Context(), id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/httputil"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/pkg/store"
)

type Access struct {
	models.Access
	Links AccessLinks `json:"links"`
}

type AccessLinks struct {
	Self            string `json:"self" example:"https://example.com/api/v1/accesses/2b9e8b1c-5d07-4a30-8f1e-0c9b43b2f8a4"`
	FetchAccounts   string `json:"fetchAccounts" example:"https://example.com/api/v1/accesses/2b9e8b1c-5d07-4a30-8f1e-0c9b43b2f8a4/fetch/accounts"`
	FetchOperations string `json:"fetchOperations" example:"https://example.com/api/v1/accesses/2b9e8b1c-5d07-4a30-8f1e-0c9b43b2f8a4/fetch/operations"`
}

type AccessListResponse struct {
	Data []Access `json:"data"`
}

type AccessResponse struct {
	Data Access `json:"data"`
}

// AccessCreate is the body of an access creation.
type AccessCreate struct {
	Bank         string `json:"bank" example:"fakebank1"` // UUID of the bank in the catalog
	Login        string `json:"login" example:"jdoe"`
	Password     string `json:"password" example:"hunter2"`
	CustomFields string `json:"customFields" example:"[]"`
}

func newAccess(c *gin.Context, a models.Access) Access {
	url := baseURL(c) + "/v1/accesses/" + a.ID

	if a.Name == "" {
		a.Name = models.BankName(a.Bank)
	}

	return Access{
		Access: a,
		Links: AccessLinks{
			Self:            url,
			FetchAccounts:   url + "/fetch/accounts",
			FetchOperations: url + "/fetch/operations",
		},
	}
}

// RegisterAccessRoutes registers the routes for accesses with
// the RouterGroup that is passed.
func (co Controller) RegisterAccessRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsAccessList)
		r.GET("", co.GetAccesses)
		r.POST("", co.CreateAccess)
	}

	// Access with ID
	{
		r.OPTIONS("/:accessId", co.OptionsAccessDetail)
		r.GET("/:accessId", co.GetAccess)
		r.PATCH("/:accessId", co.UpdateAccess)
		r.DELETE("/:accessId", co.DeleteAccess)
		r.POST("/:accessId/fetch/accounts", co.FetchAccounts)
		r.POST("/:accessId/fetch/operations", co.FetchOperations)
	}
}

// getAccess writes a 404 response if the access does not exist.
func (co Controller) getAccess(c *gin.Context, id string) (models.Access, bool) {
	a, ok := store.AccessByID(co.Store.Snapshot(), id)
	if !ok {
		httperrors.New(c, http.StatusNotFound, "There is no access with ID %s", id)
		return models.Access{}, false
	}
	return a, true
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Accesses
//	@Success		204
//	@Router			/v1/accesses [options]
func (co Controller) OptionsAccessList(c *gin.Context) {
	httputil.Options(c, http.MethodGet, http.MethodPost)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Accesses
//	@Success		204
//	@Failure		404			{object}	httperrors.HTTPError
//	@Param			accessId	path		string	true	"ID of the access"
//	@Router			/v1/accesses/{accessId} [options]
func (co Controller) OptionsAccessDetail(c *gin.Context) {
	if _, ok := co.getAccess(c, c.Param("accessId")); !ok {
		return
	}
	httputil.Options(c, http.MethodGet, http.MethodPatch, http.MethodDelete)
}

//	@Summary		List accesses
//	@Description	Returns all accesses. Passwords are never returned
//	@Tags			Accesses
//	@Produce		json
//	@Success		200	{object}	AccessListResponse
//	@Router			/v1/accesses [get]
func (co Controller) GetAccesses(c *gin.Context) {
	data := make([]Access, 0)
	for _, a := range co.Store.Snapshot().Accesses {
		data = append(data, newAccess(c, a))
	}

	c.JSON(http.StatusOK, AccessListResponse{Data: data})
}

//	@Summary		Get access
//	@Description	Returns a specific access
//	@Tags			Accesses
//	@Produce		json
//	@Success		200			{object}	AccessResponse
//	@Failure		404			{object}	httperrors.HTTPError
//	@Param			accessId	path		string	true	"ID of the access"
//	@Router			/v1/accesses/{accessId} [get]
func (co Controller) GetAccess(c *gin.Context) {
	a, ok := co.getAccess(c, c.Param("accessId"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AccessResponse{Data: newAccess(c, a)})
}

//	@Summary		Create access
//	@Description	Creates an access and runs its first sync. Nothing is created if the sync fails
//	@Tags			Accesses
//	@Produce		json
//	@Success		201		{object}	AccessResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Failure		401		{object}	httperrors.HTTPError
//	@Failure		404		{object}	httperrors.HTTPError
//	@Failure		502		{object}	httperrors.HTTPError
//	@Param			access	body		AccessCreate	true	"Access"
//	@Router			/v1/accesses [post]
func (co Controller) CreateAccess(c *gin.Context) {
	var create AccessCreate
	if !httputil.BindDataHandleErrors(c, &create) {
		return
	}

	access, err := co.Store.CreateAccess(c.Request.Context(), models.Access{
		Bank:         create.Bank,
		Login:        create.Login,
		Password:     create.Password,
		CustomFields: create.CustomFields,
	})
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, AccessResponse{Data: newAccess(c, access)})
}

//	@Summary		Update access
//	@Description	Updates the credentials of an access. Only the fields in the body are changed
//	@Tags			Accesses
//	@Produce		json
//	@Success		200			{object}	AccessResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Param			accessId	path		string				true	"ID of the access"
//	@Param			access		body		models.AccessUpdate	true	"Access"
//	@Router			/v1/accesses/{accessId} [patch]
func (co Controller) UpdateAccess(c *gin.Context) {
	id := c.Param("accessId")
	if _, ok := co.getAccess(c, id); !ok {
		return
	}

	var update models.AccessUpdate
	if !httputil.BindDataHandleErrors(c, &update) {
		return
	}

	if err := co.Store.UpdateAccess(c.Request.Context(), id, update); err != nil {
		httperrors.Handler(c, err)
		return
	}

	a, ok := co.getAccess(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AccessResponse{Data: newAccess(c, a)})
}

//	@Summary		Delete access
//	@Description	Deletes an access with all its accounts, operations and alerts
//	@Tags			Accesses
//	@Success		204
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			accessId	path		string	true	"ID of the access"
//	@Router			/v1/accesses/{accessId} [delete]
func (co Controller) DeleteAccess(c *gin.Context) {
	id := c.Param("accessId")
	if _, ok := co.getAccess(c, id); !ok {
		return
	}

	if err := co.Store.DeleteAccess(c.Request.Context(), id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

//	@Summary		Fetch accounts
//	@Description	Fetches the accounts and operations of an access from the bank and returns its accounts
//	@Tags			Accesses
//	@Produce		json
//	@Success		200			{object}	AccountListResponse
//	@Failure		401			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		502			{object}	httperrors.HTTPError
//	@Param			accessId	path		string	true	"ID of the access"
//	@Router			/v1/accesses/{accessId}/fetch/accounts [post]
func (co Controller) FetchAccounts(c *gin.Context) {
	co.fetch(c, co.Store.RunAccountsSync)
}

//	@Summary		Fetch operations
//	@Description	Fetches the new operations of an access from the bank and returns its accounts
//	@Tags			Accesses
//	@Produce		json
//	@Success		200			{object}	AccountListResponse
//	@Failure		401			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		502			{object}	httperrors.HTTPError
//	@Param			accessId	path		string	true	"ID of the access"
//	@Router			/v1/accesses/{accessId}/fetch/operations [post]
func (co Controller) FetchOperations(c *gin.Context) {
	co.fetch(c, co.Store.RunOperationsSync)
}

func (co Controller) fetch(c *gin.Context, run func(ctx context.Context, accessID string) error) {
	id := c.Param("accessId")
	if _, ok := co.getAccess(c, id); !ok {
		return
	}

	if err := run(c.Request.Context(), id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	s := co.Store.Snapshot()
	c.JSON(http.StatusOK, newAccountList(c, s, store.AccountsByAccessID(s, id)))
}

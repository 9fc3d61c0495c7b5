package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/httputil"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/pkg/search"
	"github.com/kresus/backend/pkg/store"
)

type Operation struct {
	models.Operation
	Links OperationLinks `json:"links"`
}

type OperationLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/operations/65392deb-5e92-4268-b114-297faad6cdce"`
	Account string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Empty if the account is unknown
	Merge   string `json:"merge" example:"https://example.com/api/v1/operations/65392deb-5e92-4268-b114-297faad6cdce/merge"`
}

type OperationListResponse struct {
	Data []Operation `json:"data"`
}

type OperationResponse struct {
	Data Operation `json:"data"`
}

// OperationUpdate is the body of an operation update. Nil fields are left
// untouched.
type OperationUpdate struct {
	CategoryID  *string `json:"categoryId" example:"-1"` // "-1" or "" for no category
	Type        *string `json:"type" example:"type.card"`
	CustomLabel *string `json:"customLabel" example:"Croissants"` // Blank removes the custom label
}

// MergeRequest is the body of a merge.
type MergeRequest struct {
	Remove string `json:"remove" example:"4fba6f54-5a7a-4b1f-9b1a-3c5b9ef2d1d0"` // ID of the operation merged into the one of the path
}

func newOperation(c *gin.Context, s store.State, o models.Operation) Operation {
	url := baseURL(c)

	links := OperationLinks{
		Self:  url + "/v1/operations/" + o.ID,
		Merge: url + "/v1/operations/" + o.ID + "/merge",
	}

	if account, ok := store.AccountByNumber(s, o.BankAccount); ok {
		links.Account = url + "/v1/accounts/" + account.ID
	}

	return Operation{Operation: o, Links: links}
}

// RegisterOperationRoutes registers the routes for operations with
// the RouterGroup that is passed.
func (co Controller) RegisterOperationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsOperationList)
		r.GET("", co.GetOperations)
		r.POST("", co.CreateOperation)
	}

	// Operation with ID
	{
		r.OPTIONS("/:operationId", co.OptionsOperationDetail)
		r.GET("/:operationId", co.GetOperation)
		r.PATCH("/:operationId", co.UpdateOperation)
		r.DELETE("/:operationId", co.DeleteOperation)
		r.OPTIONS("/:operationId/merge", co.OptionsOperationMerge)
		r.POST("/:operationId/merge", co.MergeOperations)
	}
}

// getOperation writes a 404 response if the operation does not exist.
func (co Controller) getOperation(c *gin.Context, id string) (models.Operation, bool) {
	o, ok := store.OperationByID(co.Store.Snapshot(), id)
	if !ok {
		httperrors.New(c, http.StatusNotFound, "There is no operation with ID %s", id)
		return models.Operation{}, false
	}
	return o, true
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Operations
//	@Success		204
//	@Router			/v1/operations [options]
func (co Controller) OptionsOperationList(c *gin.Context) {
	httputil.Options(c, http.MethodGet, http.MethodPost)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Operations
//	@Success		204
//	@Failure		404	{object}	httperrors.HTTPError
//	@Param			operationId	path	string	true	"ID of the operation"
//	@Router			/v1/operations/{operationId} [options]
func (co Controller) OptionsOperationDetail(c *gin.Context) {
	if _, ok := co.getOperation(c, c.Param("operationId")); !ok {
		return
	}
	httputil.Options(c, http.MethodGet, http.MethodPatch, http.MethodDelete)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Operations
//	@Success		204
//	@Failure		404	{object}	httperrors.HTTPError
//	@Param			operationId	path	string	true	"ID of the operation"
//	@Router			/v1/operations/{operationId}/merge [options]
func (co Controller) OptionsOperationMerge(c *gin.Context) {
	if _, ok := co.getOperation(c, c.Param("operationId")); !ok {
		return
	}
	httputil.Options(c, http.MethodPost)
}

//	@Summary		List operations
//	@Description	Returns the operations sorted by date, most recent first, then by label
//	@Tags			Operations
//	@Produce		json
//	@Success		200	{object}	OperationListResponse
//	@Failure		400	{object}	httperrors.HTTPError
//	@Failure		404	{object}	httperrors.HTTPError
//	@Param			account		query	string	false	"Filter by account ID"
//	@Param			search		query	string	false	"Keywords, all must match the title, raw label or custom label. * matches anything"
//	@Param			category	query	string	false	"Filter by category ID, -1 for uncategorized"
//	@Param			type		query	string	false	"Filter by operation type"
//	@Param			amountLow	query	string	false	"Minimum amount"
//	@Param			amountHigh	query	string	false	"Maximum amount"
//	@Param			dateLow		query	string	false	"First date, YYYY-MM-DD"
//	@Param			dateHigh	query	string	false	"Last date, YYYY-MM-DD"
//	@Router			/v1/operations [get]
func (co Controller) GetOperations(c *gin.Context) {
	var query httputil.OperationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperrors.Handler(c, httperrors.ErrInvalidQuery)
		return
	}

	fields, err := query.Fields()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	s := co.Store.Snapshot()

	operations := s.Operations
	if query.AccountID != "" {
		if _, ok := store.AccountByID(s, query.AccountID); !ok {
			httperrors.New(c, http.StatusNotFound, "There is no account with ID %s", query.AccountID)
			return
		}
		operations = store.OperationsByAccountID(s, query.AccountID)
	}

	data := make([]Operation, 0)
	for _, o := range search.Filter(operations, fields) {
		data = append(data, newOperation(c, s, o))
	}

	c.JSON(http.StatusOK, OperationListResponse{Data: data})
}

//	@Summary		Get operation
//	@Description	Returns a specific operation
//	@Tags			Operations
//	@Produce		json
//	@Success		200	{object}	OperationResponse
//	@Failure		404	{object}	httperrors.HTTPError
//	@Param			operationId	path	string	true	"ID of the operation"
//	@Router			/v1/operations/{operationId} [get]
func (co Controller) GetOperation(c *gin.Context) {
	o, ok := co.getOperation(c, c.Param("operationId"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, OperationResponse{Data: newOperation(c, co.Store.Snapshot(), o)})
}

//	@Summary		Create operation
//	@Description	Creates an operation for an existing account
//	@Tags			Operations
//	@Produce		json
//	@Success		201			{object}	OperationResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			operation	body		models.OperationCreate	true	"Operation"
//	@Router			/v1/operations [post]
func (co Controller) CreateOperation(c *gin.Context) {
	var create models.OperationCreate
	if !httputil.BindDataHandleErrors(c, &create) {
		return
	}

	o, err := co.Store.CreateOperation(c.Request.Context(), create)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, OperationResponse{Data: newOperation(c, co.Store.Snapshot(), o)})
}

//	@Summary		Update operation
//	@Description	Updates the category, type or custom label of an operation. Only the fields in the body are changed
//	@Tags			Operations
//	@Produce		json
//	@Success		200			{object}	OperationResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			operationId	path		string			true	"ID of the operation"
//	@Param			operation	body		OperationUpdate	true	"Operation"
//	@Router			/v1/operations/{operationId} [patch]
func (co Controller) UpdateOperation(c *gin.Context) {
	id := c.Param("operationId")
	if _, ok := co.getOperation(c, id); !ok {
		return
	}

	var update OperationUpdate
	if !httputil.BindDataHandleErrors(c, &update) {
		return
	}

	ctx := c.Request.Context()

	if update.CategoryID != nil {
		if err := co.Store.SetOperationCategory(ctx, id, *update.CategoryID); err != nil {
			httperrors.Handler(c, err)
			return
		}
	}

	if update.Type != nil {
		if err := co.Store.SetOperationType(ctx, id, *update.Type); err != nil {
			httperrors.Handler(c, err)
			return
		}
	}

	if update.CustomLabel != nil {
		if err := co.Store.SetOperationCustomLabel(ctx, id, *update.CustomLabel); err != nil {
			httperrors.Handler(c, err)
			return
		}
	}

	o, ok := co.getOperation(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, OperationResponse{Data: newOperation(c, co.Store.Snapshot(), o)})
}

//	@Summary		Delete operation
//	@Description	Deletes an operation
//	@Tags			Operations
//	@Success		204
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			operationId	path		string	true	"ID of the operation"
//	@Router			/v1/operations/{operationId} [delete]
func (co Controller) DeleteOperation(c *gin.Context) {
	id := c.Param("operationId")
	if _, ok := co.getOperation(c, id); !ok {
		return
	}

	if err := co.Store.DeleteOperation(c.Request.Context(), id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

//	@Summary		Merge operations
//	@Description	Merges the operation of the body into the one of the path and deletes it
//	@Tags			Operations
//	@Produce		json
//	@Success		200			{object}	OperationResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			operationId	path		string			true	"ID of the operation to keep"
//	@Param			merge		body		MergeRequest	true	"Operation to remove"
//	@Router			/v1/operations/{operationId}/merge [post]
func (co Controller) MergeOperations(c *gin.Context) {
	id := c.Param("operationId")
	if _, ok := co.getOperation(c, id); !ok {
		return
	}

	var merge MergeRequest
	if !httputil.BindDataHandleErrors(c, &merge) {
		return
	}

	if _, ok := co.getOperation(c, merge.Remove); !ok {
		return
	}

	merged, err := co.Store.MergeOperations(c.Request.Context(), id, merge.Remove)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, OperationResponse{Data: newOperation(c, co.Store.Snapshot(), merged)})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/httputil"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/pkg/store"
	"github.com/shopspring/decimal"
)

type Account struct {
	models.Account
	Balance decimal.Decimal `json:"balance" example:"1194.04"` // Initial amount plus the sum of all operations
	Current bool            `json:"current" example:"true"`    // Whether this is the selected account
	Links   AccountLinks    `json:"links"`
}

type AccountLinks struct {
	Self          string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Operations    string `json:"operations" example:"https://example.com/api/v1/operations?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Duplicates    string `json:"duplicates" example:"https://example.com/api/v1/duplicates?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Access        string `json:"access" example:"https://example.com/api/v1/accesses/2b9e8b1c-5d07-4a30-8f1e-0c9b43b2f8a4"`
	ResyncBalance string `json:"resyncBalance" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/resync-balance"`
}

type AccountListResponse struct {
	Data []Account `json:"data"`
}

type AccountResponse struct {
	Data Account `json:"data"`
}

func newAccount(c *gin.Context, s store.State, a models.Account) Account {
	url := baseURL(c)
	balance, _ := store.Balance(s, a.ID)

	return Account{
		Account: a,
		Balance: balance,
		Current: s.CurrentAccountID == a.ID,
		Links: AccountLinks{
			Self:          url + "/v1/accounts/" + a.ID,
			Operations:    url + "/v1/operations?account=" + a.ID,
			Duplicates:    url + "/v1/duplicates?account=" + a.ID,
			Access:        url + "/v1/accesses/" + a.BankAccess,
			ResyncBalance: url + "/v1/accounts/" + a.ID + "/resync-balance",
		},
	}
}

func newAccountList(c *gin.Context, s store.State, accounts []models.Account) AccountListResponse {
	data := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		data = append(data, newAccount(c, s, a))
	}
	return AccountListResponse{Data: data}
}

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsAccountList)
		r.GET("", co.GetAccounts)
	}

	// Account with ID
	{
		r.OPTIONS("/:accountId", co.OptionsAccountDetail)
		r.GET("/:accountId", co.GetAccount)
		r.DELETE("/:accountId", co.DeleteAccount)
		r.POST("/:accountId/resync-balance", co.ResyncBalance)
		r.POST("/:accountId/select", co.SelectAccount)
	}
}

// getAccount writes a 404 response if the account does not exist.
func (co Controller) getAccount(c *gin.Context, id string) (models.Account, bool) {
	a, ok := store.AccountByID(co.Store.Snapshot(), id)
	if !ok {
		httperrors.New(c, http.StatusNotFound, "There is no account with ID %s", id)
		return models.Account{}, false
	}
	return a, true
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Accounts
//	@Success		204
//	@Router			/v1/accounts [options]
func (co Controller) OptionsAccountList(c *gin.Context) {
	httputil.Options(c, http.MethodGet)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Accounts
//	@Success		204
//	@Failure		404			{object}	httperrors.HTTPError
//	@Param			accountId	path		string	true	"ID of the account"
//	@Router			/v1/accounts/{accountId} [options]
func (co Controller) OptionsAccountDetail(c *gin.Context) {
	if _, ok := co.getAccount(c, c.Param("accountId")); !ok {
		return
	}
	httputil.Options(c, http.MethodGet, http.MethodDelete)
}

//	@Summary		List accounts
//	@Description	Returns all accounts sorted by title
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	AccountListResponse
//	@Router			/v1/accounts [get]
func (co Controller) GetAccounts(c *gin.Context) {
	s := co.Store.Snapshot()
	c.JSON(http.StatusOK, newAccountList(c, s, s.Accounts))
}

//	@Summary		Get account
//	@Description	Returns a specific account
//	@Tags			Accounts
//	@Produce		json
//	@Success		200			{object}	AccountResponse
//	@Failure		404			{object}	httperrors.HTTPError
//	@Param			accountId	path		string	true	"ID of the account"
//	@Router			/v1/accounts/{accountId} [get]
func (co Controller) GetAccount(c *gin.Context) {
	a, ok := co.getAccount(c, c.Param("accountId"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: newAccount(c, co.Store.Snapshot(), a)})
}

//	@Summary		Delete account
//	@Description	Deletes an account with its operations and alerts. The access is deleted with its last account
//	@Tags			Accounts
//	@Success		204
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			accountId	path		string	true	"ID of the account"
//	@Router			/v1/accounts/{accountId} [delete]
func (co Controller) DeleteAccount(c *gin.Context) {
	id := c.Param("accountId")
	if _, ok := co.getAccount(c, id); !ok {
		return
	}

	if err := co.Store.DeleteAccount(c.Request.Context(), id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

//	@Summary		Resync balance
//	@Description	Sets the initial amount of the account so that its balance matches the one reported by the bank
//	@Tags			Accounts
//	@Produce		json
//	@Success		200			{object}	AccountResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		502			{object}	httperrors.HTTPError
//	@Param			accountId	path		string	true	"ID of the account"
//	@Router			/v1/accounts/{accountId}/resync-balance [post]
func (co Controller) ResyncBalance(c *gin.Context) {
	id := c.Param("accountId")
	if _, ok := co.getAccount(c, id); !ok {
		return
	}

	if err := co.Store.ResyncBalance(c.Request.Context(), id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	a, ok := co.getAccount(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: newAccount(c, co.Store.Snapshot(), a)})
}

//	@Summary		Select account
//	@Description	Makes the account the current one
//	@Tags			Accounts
//	@Produce		json
//	@Success		200			{object}	AccountResponse
//	@Failure		404			{object}	httperrors.HTTPError
//	@Param			accountId	path		string	true	"ID of the account"
//	@Router			/v1/accounts/{accountId}/select [post]
func (co Controller) SelectAccount(c *gin.Context) {
	id := c.Param("accountId")
	a, ok := co.getAccount(c, id)
	if !ok {
		return
	}

	if err := co.Store.SetCurrentAccount(id); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: newAccount(c, co.Store.Snapshot(), a)})
}

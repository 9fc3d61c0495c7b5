package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/duplicates"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/httputil"
	"github.com/kresus/backend/pkg/store"
)

type DuplicateListResponse struct {
	Data []duplicates.Pair `json:"data"`
}

type DuplicateQueryFilter struct {
	AccountID            string `form:"account"`
	IgnoreDifferentTypes *bool  `form:"ignoreDifferentTypes"`
}

// RegisterDuplicateRoutes registers the routes for duplicates with
// the RouterGroup that is passed.
func (co Controller) RegisterDuplicateRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsDuplicateList)
	r.GET("", co.GetDuplicates)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Operations
//	@Success		204
//	@Router			/v1/duplicates [options]
func (co Controller) OptionsDuplicateList(c *gin.Context) {
	httputil.Options(c, http.MethodGet)
}

//	@Summary		List duplicates
//	@Description	Returns the pairs of operations that look like duplicates. Pairs never span two accounts
//	@Tags			Operations
//	@Produce		json
//	@Success		200						{object}	DuplicateListResponse
//	@Failure		400						{object}	httperrors.HTTPError
//	@Failure		404						{object}	httperrors.HTTPError
//	@Param			account					query		string	false	"Only look at the operations of this account"
//	@Param			ignoreDifferentTypes	query		bool	false	"Pair operations even if their types differ"
//	@Router			/v1/duplicates [get]
func (co Controller) GetDuplicates(c *gin.Context) {
	var filter DuplicateQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httperrors.Handler(c, httperrors.ErrInvalidQuery)
		return
	}

	options := co.Duplicates
	if filter.IgnoreDifferentTypes != nil {
		options.IgnoreDifferentTypes = *filter.IgnoreDifferentTypes
	}

	s := co.Store.Snapshot()

	accountIDs := []string{}
	if filter.AccountID != "" {
		if _, ok := store.AccountByID(s, filter.AccountID); !ok {
			httperrors.New(c, http.StatusNotFound, "There is no account with ID %s", filter.AccountID)
			return
		}
		accountIDs = append(accountIDs, filter.AccountID)
	} else {
		for _, a := range s.Accounts {
			accountIDs = append(accountIDs, a.ID)
		}
	}

	pairs := make([]duplicates.Pair, 0)
	for _, id := range accountIDs {
		pairs = append(pairs, duplicates.FindPairs(store.OperationsByAccountID(s, id), options)...)
	}

	c.JSON(http.StatusOK, DuplicateListResponse{Data: pairs})
}

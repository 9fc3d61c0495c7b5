package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/httputil"
)

type CategoryDeleteFilter struct {
	ReplaceBy string `form:"replaceBy"`
}

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:categoryId", co.OptionsCategoryDetail)
	r.DELETE("/:categoryId", co.DeleteCategory)
}

//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Categories
//	@Success		204
//	@Param			categoryId	path	string	true	"ID of the category"
//	@Router			/v1/categories/{categoryId} [options]
func (co Controller) OptionsCategoryDetail(c *gin.Context) {
	httputil.Options(c, http.MethodDelete)
}

//	@Summary		Delete category
//	@Description	Deletes a category. Its operations are moved to the replacement category, or to no category
//	@Tags			Categories
//	@Success		204
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			categoryId	path		string	true	"ID of the category"
//	@Param			replaceBy	query		string	false	"ID of the replacement category"
//	@Router			/v1/categories/{categoryId} [delete]
func (co Controller) DeleteCategory(c *gin.Context) {
	var filter CategoryDeleteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httperrors.Handler(c, httperrors.ErrInvalidQuery)
		return
	}

	if err := co.Store.DeleteCategory(c.Request.Context(), c.Param("categoryId"), filter.ReplaceBy); err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

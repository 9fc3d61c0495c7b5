package controllers_test

import (
	"net/http"

	"github.com/kresus/backend/pkg/controllers"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/test"
)

func (suite *TestSuiteStandard) TestDeleteCategory() {
	suite.createDemoAccess("jdoe")

	for _, title := range []string{"Bakery", "Supermarket"} {
		o := suite.operationByTitle(title)
		r := suite.request(http.MethodPatch, o.Links.Self, controllers.OperationUpdate{CategoryID: ptr("food")})
		test.AssertHTTPStatus(suite.T(), r, http.StatusOK)
	}

	r := suite.request(http.MethodDelete, "http://example.com/v1/categories/food?replaceBy=groceries", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)

	suite.Assert().Len(suite.operations("?category=groceries"), 2)
	suite.Assert().Empty(suite.operations("?category=food"))

	r = suite.request(http.MethodDelete, "http://example.com/v1/categories/groceries", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)
	suite.Assert().Len(suite.operations("?category="+models.NoneCategoryID), 5)
}

func (suite *TestSuiteStandard) TestDeleteCategoryInvalid() {
	r := suite.request(http.MethodDelete, "http://example.com/v1/categories/-1", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)

	r = suite.request(http.MethodDelete, "http://example.com/v1/categories/food?replaceBy=food", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)
}

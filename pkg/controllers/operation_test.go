package controllers_test

import (
	"net/http"

	"github.com/kresus/backend/pkg/controllers"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/test"
	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T {
	return &v
}

func (suite *TestSuiteStandard) TestGetOperations() {
	suite.createDemoAccess("jdoe")
	accounts := suite.accounts()

	operations := suite.operations("")
	suite.Require().Len(operations, 5)
	for i := 1; i < len(operations); i++ {
		suite.Assert().False(operations[i].Date.After(operations[i-1].Date), "Operations are sorted by date, most recent first")
	}

	suite.Assert().Len(suite.operations("?account="+accounts[0].ID), 4)
	suite.Assert().Len(suite.operations("?account="+accounts[1].ID), 1)
	suite.Assert().Equal(accounts[0].Links.Self, suite.operationByTitle("Bakery").Links.Account)
}

func (suite *TestSuiteStandard) TestGetOperationsFilter() {
	suite.createDemoAccess("jdoe")

	tests := []struct {
		query  string
		titles []string
	}{
		{"?search=cb", []string{"Bakery", "Supermarket"}},
		{"?search=vir%20sal*", []string{"Salary"}},
		{"?type=type.transfer", []string{"Salary", "Savings"}},
		{"?amountLow=-100&amountHigh=0", []string{"Bakery", "Supermarket"}},
		{"?dateLow=2023-01-29&dateHigh=2023-01-30", []string{"Bakery", "Supermarket"}},
		{"?category=-1", []string{"Bakery", "Supermarket", "Salary", "Savings", "Rent"}},
	}

	for _, tt := range tests {
		titles := []string{}
		for _, o := range suite.operations(tt.query) {
			titles = append(titles, o.Title)
		}
		suite.Assert().ElementsMatch(tt.titles, titles, "Query %s", tt.query)
	}
}

func (suite *TestSuiteStandard) TestGetOperationsBadQuery() {
	r := suite.request(http.MethodGet, "http://example.com/v1/operations?amountLow=ten", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)

	r = suite.request(http.MethodGet, "http://example.com/v1/operations?account=nope", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateOperation() {
	suite.createDemoAccess("jdoe")
	checking := suite.accounts()[0]

	r := suite.request(http.MethodPost, "http://example.com/v1/operations", models.OperationCreate{
		BankAccount: checking.AccountNumber,
		Title:       "Cash withdrawal",
		Amount:      decimal.NewFromInt(-40),
		Date:        suite.demo.Reference,
		Type:        "type.withdrawal",
	})
	test.AssertHTTPStatus(suite.T(), r, http.StatusCreated)

	var response controllers.OperationResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal("Cash withdrawal", response.Data.Title)
	suite.Assert().Equal(models.NoneCategoryID, response.Data.CategoryID)
	suite.Assert().Len(suite.operations(""), 6)

	r = suite.request(http.MethodPost, "http://example.com/v1/operations", models.OperationCreate{
		BankAccount: "unknown",
		Title:       "Nope",
		Date:        suite.demo.Reference,
	})
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)

	r = suite.request(http.MethodPost, "http://example.com/v1/operations", "")
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateOperation() {
	suite.createDemoAccess("jdoe")
	bakery := suite.operationByTitle("Bakery")

	r := suite.request(http.MethodPatch, bakery.Links.Self, controllers.OperationUpdate{
		CategoryID:  ptr("food"),
		Type:        ptr("type.withdrawal"),
		CustomLabel: ptr("Croissants"),
	})
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.OperationResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal("food", response.Data.CategoryID)
	suite.Assert().Equal("type.withdrawal", response.Data.Type)
	suite.Assert().Equal("Croissants", response.Data.DisplayLabel())
	suite.Assert().Equal("Bakery", response.Data.Title)

	// Removing the custom label and the category
	r = suite.request(http.MethodPatch, bakery.Links.Self, controllers.OperationUpdate{
		CategoryID:  ptr(""),
		CustomLabel: ptr("  "),
	})
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal(models.NoneCategoryID, response.Data.CategoryID)
	suite.Assert().Nil(response.Data.CustomLabel)
	suite.Assert().Equal("type.withdrawal", response.Data.Type)
}

func (suite *TestSuiteStandard) TestUpdateOperationFails() {
	suite.createDemoAccess("jdoe")
	bakery := suite.operationByTitle("Bakery")

	r := suite.request(http.MethodPatch, bakery.Links.Self, controllers.OperationUpdate{Type: ptr("type.magic")})
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)
	suite.Assert().Equal("type.card", suite.operationByTitle("Bakery").Type)

	r = suite.request(http.MethodPatch, "http://example.com/v1/operations/nope", controllers.OperationUpdate{Type: ptr("type.card")})
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteOperation() {
	suite.createDemoAccess("jdoe")
	bakery := suite.operationByTitle("Bakery")

	r := suite.request(http.MethodDelete, bakery.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)
	suite.Assert().Len(suite.operations(""), 4)

	r = suite.request(http.MethodDelete, bakery.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestMergeOperations() {
	suite.createDemoAccess("jdoe")
	bakery := suite.operationByTitle("Bakery")
	supermarket := suite.operationByTitle("Supermarket")

	r := suite.request(http.MethodPatch, supermarket.Links.Self, controllers.OperationUpdate{CategoryID: ptr("food")})
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	r = suite.request(http.MethodPost, bakery.Links.Merge, controllers.MergeRequest{Remove: supermarket.ID})
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.OperationResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal(bakery.ID, response.Data.ID)
	suite.Assert().Equal("food", response.Data.CategoryID, "The category of the removed operation is kept")
	suite.Assert().Len(suite.operations(""), 4)

	r = suite.request(http.MethodPost, bakery.Links.Merge, controllers.MergeRequest{Remove: bakery.ID})
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadRequest)

	r = suite.request(http.MethodPost, bakery.Links.Merge, controllers.MergeRequest{Remove: supermarket.ID})
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

package controllers_test

import (
	"net/http"
	"testing"

	"github.com/kresus/backend/pkg/controllers"
	"github.com/kresus/backend/pkg/fetch"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCreateAccess() {
	access := suite.createDemoAccess("jdoe")

	suite.Assert().NotEmpty(access.ID)
	suite.Assert().Equal("Demo bank", access.Name)
	suite.Assert().Equal("http://example.com/v1/accesses/"+access.ID, access.Links.Self)

	accounts := suite.accounts()
	suite.Require().Len(accounts, 2)
	suite.Assert().Equal("Checking account", accounts[0].Title)
	suite.Assert().True(accounts[0].Current, "The first account of the first access is selected")
	suite.Assert().Len(suite.operations(""), 5)
}

func (suite *TestSuiteStandard) TestCreateAccessHidesPassword() {
	access := suite.createDemoAccess("jdoe")

	r := suite.request(http.MethodGet, access.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)
	suite.Assert().NotContains(r.Body.String(), "password")
}

func (suite *TestSuiteStandard) TestCreateAccessFails() {
	tests := []struct {
		name   string
		create controllers.AccessCreate
		status int
		code   string
	}{
		{"Incomplete", controllers.AccessCreate{Bank: "demo", Login: "jdoe"}, http.StatusBadRequest, ""},
		{"Wrong password", controllers.AccessCreate{Bank: "demo", Login: fetch.DemoLoginWrong, Password: "demo"}, http.StatusUnauthorized, "INVALID_PASSWORD"},
		{"Expired password", controllers.AccessCreate{Bank: "demo", Login: fetch.DemoLoginExpired, Password: "demo"}, http.StatusUnauthorized, "EXPIRED_PASSWORD"},
		{"No accounts", controllers.AccessCreate{Bank: "demo", Login: fetch.DemoLoginNoAccounts, Password: "demo"}, http.StatusNotFound, "NO_ACCOUNTS"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(http.MethodPost, "http://example.com/v1/accesses", tt.create)
			test.AssertHTTPStatus(t, r, tt.status)
			assert.Equal(t, tt.code, test.DecodeError(t, r).Code)
		})
	}

	suite.Assert().Empty(suite.controller.Store.Snapshot().Accesses, "Failed creations leave no access behind")
	suite.Assert().Empty(suite.accounts())
}

func (suite *TestSuiteStandard) TestGetAccesses() {
	suite.createDemoAccess("jdoe")
	suite.createDemoAccess("alice")

	r := suite.request(http.MethodGet, "http://example.com/v1/accesses", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.AccessListResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("jdoe", response.Data[0].Login)
	suite.Assert().Equal("alice", response.Data[1].Login)
}

func (suite *TestSuiteStandard) TestAccessNotFound() {
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		r := suite.request(method, "http://example.com/v1/accesses/nope", `{}`)
		test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
	}

	r := suite.request(http.MethodPost, "http://example.com/v1/accesses/nope/fetch/operations", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateAccess() {
	access := suite.createDemoAccess("jdoe")

	login := "john"
	r := suite.request(http.MethodPatch, access.Links.Self, models.AccessUpdate{Login: &login})
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.AccessResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal("john", response.Data.Login)
	suite.Assert().Equal("demo", response.Data.Bank)
}

func (suite *TestSuiteStandard) TestFetchOperations() {
	access := suite.createDemoAccess("jdoe")

	suite.demo.Extra["jdoe"] = []fetch.RawOperation{
		{
			Account: fetch.DemoAccountNumber("jdoe", 1),
			Amount:  decimal.RequireFromString("-12.50"),
			Raw:     "CB CINEMA",
			Title:   "Cinema",
			Date:    suite.demo.Reference,
			Type:    "type.card",
		},
	}

	r := suite.request(http.MethodPost, access.Links.FetchOperations, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.AccountListResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Require().Len(response.Data, 2)

	operations := suite.operations("")
	suite.Require().Len(operations, 6)
	suite.Assert().Equal("Cinema", operations[0].Title, "The most recent operation comes first")

	// Fetching again brings nothing new
	r = suite.request(http.MethodPost, access.Links.FetchAccounts, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)
	suite.Assert().Len(suite.operations(""), 6)
}

func (suite *TestSuiteStandard) TestFetchFails() {
	access := suite.createDemoAccess("jdoe")

	wrong := fetch.DemoLoginWrong
	r := suite.request(http.MethodPatch, access.Links.Self, models.AccessUpdate{Login: &wrong})
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	r = suite.request(http.MethodPost, access.Links.FetchOperations, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusUnauthorized)
	suite.Assert().Equal("INVALID_PASSWORD", test.DecodeError(suite.T(), r).Code)
	suite.Assert().Len(suite.operations(""), 5, "A failed sync changes nothing")
}

func (suite *TestSuiteStandard) TestDeleteAccess() {
	access := suite.createDemoAccess("jdoe")
	other := suite.createDemoAccess("alice")

	r := suite.request(http.MethodDelete, access.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)

	accounts := suite.accounts()
	suite.Require().Len(accounts, 2)
	for _, a := range accounts {
		suite.Assert().Equal(other.ID, a.BankAccess)
	}
	suite.Assert().Len(suite.operations(""), 5)
	suite.Assert().Equal(other.ID, suite.controller.Store.Snapshot().CurrentAccessID)
}

package controllers_test

import (
	"context"
	"net/http"

	"github.com/kresus/backend/pkg/controllers"
	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/test"
)

type fakeFetcher struct {
	installed bool
	updateErr error
}

func (f fakeFetcher) Installed(context.Context) bool { return f.installed }
func (f fakeFetcher) Version(context.Context) string { return "1.3" }
func (f fakeFetcher) Update(context.Context) error   { return f.updateErr }

func (suite *TestSuiteStandard) TestGetBanks() {
	r := suite.request(http.MethodGet, "http://example.com/v1/banks", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.BankListResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Require().NotEmpty(response.Data)

	names := []string{}
	for _, b := range response.Data {
		names = append(names, b.Name)
	}
	suite.Assert().Contains(names, "Demo bank")
}

func (suite *TestSuiteStandard) TestGetFetcher() {
	var response controllers.FetcherResponse

	r := suite.request(http.MethodGet, "http://example.com/v1/fetcher", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().False(response.Data.Installed)

	suite.controller.Fetcher = fakeFetcher{installed: true}
	r = suite.request(http.MethodGet, "http://example.com/v1/fetcher", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().True(response.Data.Installed)
	suite.Assert().Equal("1.3", response.Data.Version)
}

func (suite *TestSuiteStandard) TestUpdateFetcher() {
	r := suite.request(http.MethodPost, "http://example.com/v1/fetcher/update", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)

	suite.controller.Fetcher = fakeFetcher{installed: true}
	r = suite.request(http.MethodPost, "http://example.com/v1/fetcher/update", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.FetcherResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().True(response.Data.Installed)
	suite.Assert().Equal("1.3", response.Data.Version)

	suite.controller.Fetcher = fakeFetcher{updateErr: errcodes.New(errcodes.Generic, "update failed")}
	r = suite.request(http.MethodPost, "http://example.com/v1/fetcher/update", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusBadGateway)
}

func (suite *TestSuiteStandard) TestHealthz() {
	r := suite.request(http.MethodGet, "http://example.com/healthz", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestOptions() {
	suite.createDemoAccess("jdoe")
	account := suite.accounts()[0]
	operation := suite.operations("")[0]

	tests := []struct {
		url   string
		allow string
	}{
		{"http://example.com/v1/operations", "OPTIONS, GET, POST"},
		{operation.Links.Self, "OPTIONS, GET, PATCH, DELETE"},
		{operation.Links.Merge, "OPTIONS, POST"},
		{"http://example.com/v1/accounts", "OPTIONS, GET"},
		{account.Links.Self, "OPTIONS, GET, DELETE"},
		{"http://example.com/v1/accesses", "OPTIONS, GET, POST"},
		{"http://example.com/v1/alerts", "OPTIONS, GET, POST"},
		{"http://example.com/v1/categories/food", "OPTIONS, DELETE"},
		{"http://example.com/v1/banks", "OPTIONS, GET"},
		{"http://example.com/v1/duplicates", "OPTIONS, GET"},
		{"http://example.com/v1/fetcher/update", "OPTIONS, POST"},
	}

	for _, tt := range tests {
		r := suite.request(http.MethodOptions, tt.url, nil)
		test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)
		suite.Assert().Equal(tt.allow, r.Header().Get("allow"), "URL %s", tt.url)
	}
}

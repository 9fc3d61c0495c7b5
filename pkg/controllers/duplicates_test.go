package controllers_test

import (
	"net/http"

	"github.com/kresus/backend/pkg/controllers"
	"github.com/kresus/backend/pkg/fetch"
	"github.com/kresus/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) duplicates(query string) controllers.DuplicateListResponse {
	r := suite.request(http.MethodGet, "http://example.com/v1/duplicates"+query, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.DuplicateListResponse
	test.DecodeResponse(suite.T(), r, &response)
	return response
}

func (suite *TestSuiteStandard) TestGetDuplicates() {
	access := suite.createDemoAccess("jdoe")
	suite.Assert().Empty(suite.duplicates("").Data)

	suite.demo.Extra["jdoe"] = []fetch.RawOperation{
		{
			Account: fetch.DemoAccountNumber("jdoe", 1),
			Amount:  decimal.RequireFromString("-4.20"),
			Raw:     "RETRAIT DAB",
			Title:   "Withdrawal",
			Date:    suite.demo.Reference.AddDate(0, 0, -1),
			Type:    "type.withdrawal",
		},
	}

	r := suite.request(http.MethodPost, access.Links.FetchOperations, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	suite.Assert().Empty(suite.duplicates("").Data, "Operations of different types are not paired")

	pairs := suite.duplicates("?ignoreDifferentTypes=true").Data
	suite.Require().Len(pairs, 1)
	suite.Assert().Equal("Withdrawal", pairs[0].ToKeep.Title, "The most recently imported operation is kept")
	suite.Assert().Equal("Bakery", pairs[0].ToRemove.Title)

	checking := suite.accounts()[0]
	suite.Assert().Len(suite.duplicates("?ignoreDifferentTypes=true&account="+checking.ID).Data, 1)

	savings := suite.accounts()[1]
	suite.Assert().Empty(suite.duplicates("?ignoreDifferentTypes=true&account=" + savings.ID).Data)

	r = suite.request(http.MethodGet, "http://example.com/v1/duplicates?account=nope", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

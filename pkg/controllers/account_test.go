package controllers_test

import (
	"net/http"

	"github.com/kresus/backend/pkg/controllers"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGetAccounts() {
	access := suite.createDemoAccess("jdoe")

	accounts := suite.accounts()
	suite.Require().Len(accounts, 2)

	checking := accounts[0]
	suite.Assert().Equal("Checking account", checking.Title)
	suite.Assert().Equal(access.ID, checking.BankAccess)
	suite.Assert().True(decimal.RequireFromString("1250.34").Equal(checking.Balance), "Balance is %s", checking.Balance)
	suite.Assert().Equal("http://example.com/v1/operations?account="+checking.ID, checking.Links.Operations)

	savings := accounts[1]
	suite.Assert().Equal("Savings account", savings.Title)
	suite.Assert().False(savings.Current)
	suite.Assert().True(decimal.RequireFromString("5000").Equal(savings.Balance), "Balance is %s", savings.Balance)
	suite.Assert().True(decimal.RequireFromString("4800").Equal(savings.InitialAmount), "Initial amount is %s", savings.InitialAmount)
}

func (suite *TestSuiteStandard) TestGetAccount() {
	suite.createDemoAccess("jdoe")
	account := suite.accounts()[1]

	r := suite.request(http.MethodGet, account.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.AccountResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal(account.ID, response.Data.ID)

	r = suite.request(http.MethodGet, "http://example.com/v1/accounts/nope", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestSelectAccount() {
	suite.createDemoAccess("jdoe")
	savings := suite.accounts()[1]

	r := suite.request(http.MethodPost, savings.Links.Self+"/select", nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	accounts := suite.accounts()
	suite.Assert().False(accounts[0].Current)
	suite.Assert().True(accounts[1].Current)
}

func (suite *TestSuiteStandard) TestResyncBalance() {
	suite.createDemoAccess("jdoe")
	checking := suite.accounts()[0]

	// A manual operation moves the balance away from the bank's
	r := suite.request(http.MethodPost, "http://example.com/v1/operations", models.OperationCreate{
		BankAccount: checking.AccountNumber,
		Title:       "Cash",
		Amount:      decimal.NewFromInt(-20),
		Date:        suite.demo.Reference,
	})
	test.AssertHTTPStatus(suite.T(), r, http.StatusCreated)
	suite.Assert().True(decimal.RequireFromString("1230.34").Equal(suite.accounts()[0].Balance))

	r = suite.request(http.MethodPost, checking.Links.ResyncBalance, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusOK)

	var response controllers.AccountResponse
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().True(decimal.RequireFromString("1250.34").Equal(response.Data.Balance), "Balance is %s", response.Data.Balance)
}

func (suite *TestSuiteStandard) TestDeleteAccount() {
	suite.createDemoAccess("jdoe")
	accounts := suite.accounts()

	r := suite.request(http.MethodDelete, accounts[0].Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)

	remaining := suite.accounts()
	suite.Require().Len(remaining, 1)
	suite.Assert().Equal(accounts[1].ID, remaining[0].ID)
	suite.Assert().True(remaining[0].Current, "The remaining account of the access is selected")
	suite.Assert().Len(suite.operations(""), 1)

	// Deleting the last account deletes the access
	r = suite.request(http.MethodDelete, remaining[0].Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), r, http.StatusNoContent)
	suite.Assert().Empty(suite.controller.Store.Snapshot().Accesses)
	suite.Assert().Empty(suite.controller.Store.Snapshot().CurrentAccountID)
}

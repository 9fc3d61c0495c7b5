package backend_test

import (
	"context"
	"time"

	"github.com/kresus/backend/pkg/backend"
	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/pkg/fetch"
	"github.com/kresus/backend/pkg/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateAccess() {
	access, results := suite.createDemoAccess("jdoe")

	suite.Assert().True(access.HasID())
	suite.Assert().Equal("Demo bank", access.Name)
	suite.Assert().Equal(access.ID, results.AccessID)
	suite.Assert().Len(results.Accounts, 2)
	suite.Assert().Len(results.NewOperations, 5)

	for _, o := range results.NewOperations {
		suite.Assert().True(o.HasID())
		suite.Assert().Equal(models.NoneCategoryID, o.CategoryID)
		suite.Assert().False(o.DateImport.IsZero())
	}
}

func (suite *TestSuiteStandard) TestCreateAccessInitialAmount() {
	_, results := suite.createDemoAccess("jdoe")

	// 1250.34 - (-4.20 - 52.10 + 2100 - 800)
	checking := suite.accountByNumber(results, fetch.DemoAccountNumber("jdoe", 1))
	suite.Assert().True(decimal.RequireFromString("6.64").Equal(checking.InitialAmount), "Initial amount is %s", checking.InitialAmount)
	suite.Assert().Equal("EUR", checking.Currency)

	savings := suite.accountByNumber(results, fetch.DemoAccountNumber("jdoe", 2))
	suite.Assert().True(decimal.RequireFromString("4800").Equal(savings.InitialAmount), "Initial amount is %s", savings.InitialAmount)
}

func (suite *TestSuiteStandard) TestCreateAccessFailureLeavesNothing() {
	tests := []struct {
		login string
		code  errcodes.Code
	}{
		{fetch.DemoLoginExpired, errcodes.ExpiredPassword},
		{fetch.DemoLoginWrong, errcodes.InvalidPassword},
		{fetch.DemoLoginNoAccounts, errcodes.NoAccounts},
	}

	for _, tt := range tests {
		_, _, err := suite.backend.CreateAccess(context.Background(), models.Access{Bank: "demo", Login: tt.login, Password: "demo"})
		suite.Assert().Equal(tt.code, errcodes.CodeOf(err), tt.login)
	}

	world, err := suite.backend.Init(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Empty(world.Accesses)
	suite.Assert().Empty(world.Accounts)
	suite.Assert().Empty(world.Operations)
}

func (suite *TestSuiteStandard) TestCreateAccessNoPassword() {
	_, _, err := suite.backend.CreateAccess(context.Background(), models.Access{Bank: "demo", Login: "jdoe"})
	suite.Assert().Equal(errcodes.NoPassword, errcodes.CodeOf(err))
}

func (suite *TestSuiteStandard) TestResyncSkipsKnownOperations() {
	access, _ := suite.createDemoAccess("jdoe")

	results, err := suite.backend.GetNewOperations(context.Background(), access.ID)
	suite.Require().Nil(err)
	suite.Assert().Empty(results.NewOperations)
	suite.Assert().Len(results.Accounts, 2)

	results, err = suite.backend.GetNewAccounts(context.Background(), access.ID)
	suite.Require().Nil(err)
	suite.Assert().Empty(results.NewOperations)
	suite.Assert().Len(results.Accounts, 2)
}

func (suite *TestSuiteStandard) TestResyncReturnsOnlyNewOperations() {
	access, _ := suite.createDemoAccess("jdoe")

	suite.demo.Extra["jdoe"] = []fetch.RawOperation{
		{Account: fetch.DemoAccountNumber("jdoe", 1), Amount: decimal.NewFromInt(-3), Raw: "CB COFFEE", Date: suite.demo.Reference},
	}

	results, err := suite.backend.GetNewOperations(context.Background(), access.ID)
	suite.Require().Nil(err)
	suite.Require().Len(results.NewOperations, 1)
	suite.Assert().Equal("CB COFFEE", results.NewOperations[0].Title, "Title must default to the raw label")
	suite.Assert().Equal(models.UnknownOperationType, results.NewOperations[0].Type)
}

func (suite *TestSuiteStandard) TestResyncKeepsIdenticalOperations() {
	access, _ := suite.createDemoAccess("jdoe")

	coffee := fetch.RawOperation{Account: fetch.DemoAccountNumber("jdoe", 1), Amount: decimal.NewFromInt(-3), Raw: "CB COFFEE", Date: suite.demo.Reference}
	suite.demo.Extra["jdoe"] = []fetch.RawOperation{coffee, coffee}

	results, err := suite.backend.GetNewOperations(context.Background(), access.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(results.NewOperations, 2, "Two identical operations on the same day are both real")

	results, err = suite.backend.GetNewOperations(context.Background(), access.ID)
	suite.Require().Nil(err)
	suite.Assert().Empty(results.NewOperations)
}

func (suite *TestSuiteStandard) TestResyncSkipsInvalidOperations() {
	access, _ := suite.createDemoAccess("jdoe")

	suite.demo.Extra["jdoe"] = []fetch.RawOperation{
		{Account: "unknown-account", Amount: decimal.NewFromInt(-3), Raw: "CB COFFEE", Date: suite.demo.Reference},
		{Account: fetch.DemoAccountNumber("jdoe", 1), Amount: decimal.NewFromInt(-3), Raw: "NO DATE"},
	}

	results, err := suite.backend.GetNewOperations(context.Background(), access.ID)
	suite.Require().Nil(err)
	suite.Assert().Empty(results.NewOperations)
}

func (suite *TestSuiteStandard) TestResyncFailure() {
	access, _ := suite.createDemoAccess("jdoe")

	suite.Require().Nil(suite.db.Model(&access).UpdateColumn("login", fetch.DemoLoginExpired).Error)

	_, err := suite.backend.GetNewAccounts(context.Background(), access.ID)
	suite.Assert().Equal(errcodes.ExpiredPassword, errcodes.CodeOf(err))
}

func (suite *TestSuiteStandard) TestSyncUnknownAccess() {
	_, err := suite.backend.GetNewOperations(context.Background(), "does-not-exist")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

// paddedSource returns account numbers surrounded by whitespace.
type paddedSource struct {
	reference time.Time
}

func (s paddedSource) FetchAccounts(context.Context, models.Access) ([]fetch.RawAccount, error) {
	return []fetch.RawAccount{
		{AccountNumber: "123 ", Label: "Checking", Balance: decimal.NewFromInt(100)},
	}, nil
}

func (s paddedSource) FetchOperations(context.Context, models.Access) ([]fetch.RawOperation, error) {
	return []fetch.RawOperation{
		{Account: " 123", Amount: decimal.NewFromInt(-30), Raw: "CB BAKERY", Date: s.reference},
	}, nil
}

func (suite *TestSuiteStandard) TestSyncTrimsAccountNumbers() {
	b := backend.NewLocal(suite.db, paddedSource{reference: suite.demo.Reference}, "EUR")

	access, results, err := b.CreateAccess(context.Background(), models.Access{Bank: "padded", Login: "jdoe", Password: "secret"})
	suite.Require().Nil(err)
	suite.Require().Len(results.Accounts, 1)
	suite.Require().Len(results.NewOperations, 1, "The operation must be attached to the trimmed account")

	account := results.Accounts[0]
	suite.Assert().Equal("123", account.AccountNumber)
	suite.Assert().Equal("123", results.NewOperations[0].BankAccount)
	suite.Assert().True(decimal.NewFromInt(130).Equal(account.InitialAmount), "Initial amount is %s", account.InitialAmount)

	results, err = b.GetNewAccounts(context.Background(), access.ID)
	suite.Require().Nil(err, "Resync must find the existing account")
	suite.Assert().Len(results.Accounts, 1)
	suite.Assert().Empty(results.NewOperations)
}

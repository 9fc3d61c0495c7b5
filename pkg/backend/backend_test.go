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

func (suite *TestSuiteStandard) loadOperation(id string) models.Operation {
	var operation models.Operation
	suite.Require().Nil(suite.db.First(&operation, "id = ?", id).Error)
	return operation
}

func (suite *TestSuiteStandard) TestSetCategoryForOperation() {
	_, results := suite.createDemoAccess("jdoe")
	id := results.NewOperations[0].ID

	suite.Require().Nil(suite.backend.SetCategoryForOperation(context.Background(), id, "cat9"))
	suite.Assert().Equal("cat9", suite.loadOperation(id).CategoryID)

	// The empty string is "no category" on this side of the boundary
	suite.Require().Nil(suite.backend.SetCategoryForOperation(context.Background(), id, ""))
	suite.Assert().Equal(models.NoneCategoryID, suite.loadOperation(id).CategoryID)
}

func (suite *TestSuiteStandard) TestSetTypeForOperation() {
	_, results := suite.createDemoAccess("jdoe")
	id := results.NewOperations[0].ID

	suite.Require().Nil(suite.backend.SetTypeForOperation(context.Background(), id, "type.check"))
	suite.Assert().Equal("type.check", suite.loadOperation(id).Type)

	err := suite.backend.SetTypeForOperation(context.Background(), id, "type.nope")
	suite.Assert().ErrorIs(err, backend.ErrUnknownOperationType)
}

func (suite *TestSuiteStandard) TestSetCustomLabel() {
	_, results := suite.createDemoAccess("jdoe")
	id := results.NewOperations[0].ID

	suite.Require().Nil(suite.backend.SetCustomLabel(context.Background(), id, "Croissants"))
	label := suite.loadOperation(id).CustomLabel
	suite.Require().NotNil(label)
	suite.Assert().Equal("Croissants", *label)

	suite.Require().Nil(suite.backend.SetCustomLabel(context.Background(), id, ""))
	suite.Assert().Nil(suite.loadOperation(id).CustomLabel)
}

func (suite *TestSuiteStandard) TestOperationEditsNotFound() {
	ctx := context.Background()

	suite.Assert().ErrorIs(suite.backend.SetCategoryForOperation(ctx, "nope", "cat"), models.ErrResourceNotFound)
	suite.Assert().ErrorIs(suite.backend.SetTypeForOperation(ctx, "nope", "type.card"), models.ErrResourceNotFound)
	suite.Assert().ErrorIs(suite.backend.SetCustomLabel(ctx, "nope", "label"), models.ErrResourceNotFound)
	suite.Assert().ErrorIs(suite.backend.DeleteOperation(ctx, "nope"), models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestCreateOperation() {
	suite.createDemoAccess("jdoe")

	operation, err := suite.backend.CreateOperation(context.Background(), models.OperationCreate{
		BankAccount: fetch.DemoAccountNumber("jdoe", 1),
		Title:       " Cash ",
		Amount:      decimal.NewFromInt(-20),
		Date:        time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	suite.Require().Nil(err)
	suite.Assert().True(operation.HasID())
	suite.Assert().Equal("Cash", operation.Title)
	suite.Assert().Equal(models.NoneCategoryID, operation.CategoryID)
	suite.Assert().Equal(models.UnknownOperationType, operation.Type)
}

func (suite *TestSuiteStandard) TestCreateOperationErrors() {
	_, err := suite.backend.CreateOperation(context.Background(), models.OperationCreate{
		BankAccount: "unknown",
		Date:        time.Now(),
	})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.backend.CreateOperation(context.Background(), models.OperationCreate{Date: time.Now()})
	suite.Assert().ErrorIs(err, models.ErrOperationNoAccount)
}

func (suite *TestSuiteStandard) TestDeleteOperation() {
	_, results := suite.createDemoAccess("jdoe")
	id := results.NewOperations[0].ID

	suite.Require().Nil(suite.backend.DeleteOperation(context.Background(), id))

	var count int64
	suite.db.Model(&models.Operation{}).Where("id = ?", id).Count(&count)
	suite.Assert().Zero(count)
}

func (suite *TestSuiteStandard) TestMergeOperations() {
	_, results := suite.createDemoAccess("jdoe")
	keep := results.NewOperations[0]
	remove := results.NewOperations[1]

	ctx := context.Background()
	suite.Require().Nil(suite.backend.SetCustomLabel(ctx, remove.ID, "Groceries"))
	suite.Require().Nil(suite.backend.SetCategoryForOperation(ctx, remove.ID, "cat9"))
	suite.Require().Nil(suite.backend.SetCategoryForOperation(ctx, keep.ID, "cat1"))

	merged, err := suite.backend.MergeOperations(ctx, keep.ID, remove.ID)
	suite.Require().Nil(err)

	suite.Assert().Equal(keep.ID, merged.ID)
	suite.Require().NotNil(merged.CustomLabel)
	suite.Assert().Equal("Groceries", *merged.CustomLabel, "The kept operation must adopt the custom label")
	suite.Assert().Equal("cat1", merged.CategoryID, "The kept operation's own category must win")

	stored := suite.loadOperation(keep.ID)
	suite.Assert().Equal("cat1", stored.CategoryID)
	suite.Assert().Equal("Groceries", *stored.CustomLabel)

	var count int64
	suite.db.Model(&models.Operation{}).Where("id = ?", remove.ID).Count(&count)
	suite.Assert().Zero(count)
}

func (suite *TestSuiteStandard) TestMergeAdoptsCategory() {
	_, results := suite.createDemoAccess("jdoe")
	keep := results.NewOperations[0]
	remove := results.NewOperations[1]

	suite.Require().Nil(suite.backend.SetCategoryForOperation(context.Background(), remove.ID, "cat9"))

	merged, err := suite.backend.MergeOperations(context.Background(), keep.ID, remove.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal("cat9", merged.CategoryID)
}

func (suite *TestSuiteStandard) TestMergeErrors() {
	_, results := suite.createDemoAccess("jdoe")
	id := results.NewOperations[0].ID

	_, err := suite.backend.MergeOperations(context.Background(), id, id)
	suite.Assert().ErrorIs(err, backend.ErrMergeSameOperation)

	_, err = suite.backend.MergeOperations(context.Background(), id, "nope")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	// Nothing was deleted
	suite.loadOperation(id)
}

func (suite *TestSuiteStandard) TestDeleteAccountCascade() {
	access, results := suite.createDemoAccess("jdoe")
	checking := suite.accountByNumber(results, fetch.DemoAccountNumber("jdoe", 1))
	savings := suite.accountByNumber(results, fetch.DemoAccountNumber("jdoe", 2))

	_, err := suite.backend.CreateAlert(context.Background(), models.AlertCreate{BankAccount: checking.AccountNumber, Type: models.AlertBalance, Order: "lt"})
	suite.Require().Nil(err)

	suite.Require().Nil(suite.backend.DeleteAccount(context.Background(), checking.ID))

	world, err := suite.backend.Init(context.Background())
	suite.Require().Nil(err)

	suite.Assert().Len(world.Accesses, 1, "The access still has an account")
	suite.Assert().Len(world.Accounts, 1)
	suite.Assert().Empty(world.Alerts)
	for _, o := range world.Operations {
		suite.Assert().Equal(savings.AccountNumber, o.BankAccount)
	}

	suite.Require().Nil(suite.backend.DeleteAccount(context.Background(), savings.ID))

	var count int64
	suite.db.Model(&models.Access{}).Where("id = ?", access.ID).Count(&count)
	suite.Assert().Zero(count, "Deleting the last account must delete the access")
}

func (suite *TestSuiteStandard) TestDeleteAccess() {
	access, _ := suite.createDemoAccess("jdoe")
	suite.createDemoAccess("other")

	suite.Require().Nil(suite.backend.DeleteAccess(context.Background(), access.ID))

	world, err := suite.backend.Init(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Len(world.Accesses, 1)
	suite.Assert().Len(world.Accounts, 2)
	suite.Assert().Len(world.Operations, 5)

	err = suite.backend.DeleteAccess(context.Background(), access.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestResyncBalance() {
	_, results := suite.createDemoAccess("jdoe")
	checking := suite.accountByNumber(results, fetch.DemoAccountNumber("jdoe", 1))

	// A manually created operation shifts the computed balance
	_, err := suite.backend.CreateOperation(context.Background(), models.OperationCreate{
		BankAccount: checking.AccountNumber,
		Amount:      decimal.NewFromInt(-10),
		Date:        time.Now(),
	})
	suite.Require().Nil(err)

	initial, err := suite.backend.ResyncBalance(context.Background(), checking.ID)
	suite.Require().Nil(err)
	suite.Assert().True(decimal.RequireFromString("16.64").Equal(initial), "Initial amount is %s", initial)

	var stored models.Account
	suite.Require().Nil(suite.db.First(&stored, "id = ?", checking.ID).Error)
	suite.Assert().True(initial.Equal(stored.InitialAmount))
}

func (suite *TestSuiteStandard) TestResyncBalanceAccountGone() {
	_, results := suite.createDemoAccess("jdoe")
	checking := suite.accountByNumber(results, fetch.DemoAccountNumber("jdoe", 1))

	suite.Require().Nil(suite.db.Model(&checking).UpdateColumn("account_number", "closed").Error)

	_, err := suite.backend.ResyncBalance(context.Background(), checking.ID)
	suite.Require().NotNil(err)
	suite.Assert().Equal(errcodes.Generic, errcodes.CodeOf(err))
	suite.Assert().Contains(err.Error(), backend.ErrAccountNotFetched.Error())
}

func (suite *TestSuiteStandard) TestAlerts() {
	ctx := context.Background()

	alert, err := suite.backend.CreateAlert(ctx, models.AlertCreate{BankAccount: "1234", Type: models.AlertTransaction, Limit: decimal.NewFromInt(100), Order: "gt"})
	suite.Require().Nil(err)
	suite.Assert().True(alert.HasID())

	limit := decimal.NewFromInt(50)
	suite.Require().Nil(suite.backend.UpdateAlert(ctx, alert.ID, models.AlertUpdate{Limit: &limit}))

	var stored models.Alert
	suite.Require().Nil(suite.db.First(&stored, "id = ?", alert.ID).Error)
	suite.Assert().True(limit.Equal(stored.Limit))
	suite.Assert().Equal("gt", stored.Order)

	suite.Require().Nil(suite.backend.DeleteAlert(ctx, alert.ID))
	suite.Assert().ErrorIs(suite.backend.DeleteAlert(ctx, alert.ID), models.ErrResourceNotFound)
	suite.Assert().ErrorIs(suite.backend.UpdateAlert(ctx, alert.ID, models.AlertUpdate{}), models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestCreateAlertInvalid() {
	_, err := suite.backend.CreateAlert(context.Background(), models.AlertCreate{BankAccount: "1234", Type: "nope"})
	suite.Assert().NotNil(err)
}

func (suite *TestSuiteStandard) TestDeleteCategory() {
	_, results := suite.createDemoAccess("jdoe")
	ctx := context.Background()

	category := models.Category{Title: "Food"}
	suite.Require().Nil(suite.db.Create(&category).Error)

	for _, o := range results.NewOperations[:2] {
		suite.Require().Nil(suite.backend.SetCategoryForOperation(ctx, o.ID, category.ID))
	}

	suite.Require().Nil(suite.backend.DeleteCategory(ctx, category.ID, ""))

	world, err := suite.backend.Init(ctx)
	suite.Require().Nil(err)
	suite.Assert().Empty(world.Categories)
	for _, o := range world.Operations {
		suite.Assert().Equal(models.NoneCategoryID, o.CategoryID)
	}
}

func (suite *TestSuiteStandard) TestUpdateAccess() {
	access, _ := suite.createDemoAccess("jdoe")

	password := "new-password"
	updated, err := suite.backend.UpdateAccess(context.Background(), access.ID, models.AccessUpdate{Password: &password})
	suite.Require().Nil(err)
	suite.Assert().Equal("jdoe", updated.Login)
	suite.Assert().Equal(password, updated.Password)

	empty := ""
	_, err = suite.backend.UpdateAccess(context.Background(), access.ID, models.AccessUpdate{Password: &empty})
	suite.Assert().NotNil(err)
}

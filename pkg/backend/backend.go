// Package backend persists the canonical data and runs bank syncs.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/pkg/fetch"
	"github.com/kresus/backend/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrUnknownOperationType = errors.New("unknown operation type")
	ErrAccountNotFetched    = errors.New("the bank did not return the account")
)

// Local is the backend persisting to the local database.
//
// Category and custom label arguments use the server convention: the
// empty string means "none".
type Local struct {
	db              *gorm.DB
	source          fetch.Source
	defaultCurrency string
	logger          zerolog.Logger
}

// NewLocal creates a Local backend.
func NewLocal(db *gorm.DB, source fetch.Source, defaultCurrency string) *Local {
	return &Local{
		db:              db,
		source:          source,
		defaultCurrency: defaultCurrency,
		logger:          log.With().Str("component", "backend").Logger(),
	}
}

// notFound builds the same error the database callbacks return for
// missing resources.
func notFound(resource string) error {
	return fmt.Errorf("%w %s matching your query", models.ErrResourceNotFound, resource)
}

// Init loads everything that is persisted.
func (b *Local) Init(ctx context.Context) (models.World, error) {
	db := b.db.WithContext(ctx)

	var world models.World
	if err := db.Find(&world.Accesses).Error; err != nil {
		return models.World{}, err
	}

	if err := db.Find(&world.Accounts).Error; err != nil {
		return models.World{}, err
	}

	if err := db.Find(&world.Operations).Error; err != nil {
		return models.World{}, err
	}

	if err := db.Find(&world.Alerts).Error; err != nil {
		return models.World{}, err
	}

	if err := db.Find(&world.Categories).Error; err != nil {
		return models.World{}, err
	}

	return world, nil
}

// UpdateAccess updates the credentials of an access.
func (b *Local) UpdateAccess(ctx context.Context, id string, update models.AccessUpdate) (models.Access, error) {
	db := b.db.WithContext(ctx)

	var access models.Access
	if err := db.First(&access, "id = ?", id).Error; err != nil {
		return models.Access{}, err
	}

	access = update.Apply(access)
	if err := access.Validate(); err != nil {
		return models.Access{}, errcodes.New(errcodes.NoPassword, "%v", err)
	}

	if err := db.Save(&access).Error; err != nil {
		return models.Access{}, err
	}

	return access, nil
}

// updateOperationColumn sets a single column without running the save hooks.
func (b *Local) updateOperationColumn(ctx context.Context, id, column string, value any) error {
	tx := b.db.WithContext(ctx).Model(&models.Operation{DefaultModel: models.DefaultModel{ID: id}}).UpdateColumn(column, value)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return notFound("operation")
	}
	return nil
}

// SetCategoryForOperation sets the category of an operation.
func (b *Local) SetCategoryForOperation(ctx context.Context, id, categoryID string) error {
	return b.updateOperationColumn(ctx, id, "category_id", categoryID)
}

// SetTypeForOperation sets the type of an operation.
func (b *Local) SetTypeForOperation(ctx context.Context, id, operationType string) error {
	if !models.ValidOperationType(operationType) {
		return fmt.Errorf("%w: %s", ErrUnknownOperationType, operationType)
	}
	return b.updateOperationColumn(ctx, id, "type", operationType)
}

// SetCustomLabel sets the custom label of an operation.
func (b *Local) SetCustomLabel(ctx context.Context, id, label string) error {
	return b.updateOperationColumn(ctx, id, "custom_label", models.LabelFromServer(label))
}

// CreateOperation creates an operation for an existing account.
func (b *Local) CreateOperation(ctx context.Context, create models.OperationCreate) (models.Operation, error) {
	db := b.db.WithContext(ctx)

	operation := models.Operation{OperationCreate: create}
	operation.Normalize()
	if err := operation.Validate(); err != nil {
		return models.Operation{}, err
	}

	var count int64
	if err := db.Model(&models.Account{}).Where("account_number = ?", operation.BankAccount).Count(&count).Error; err != nil {
		return models.Operation{}, err
	}

	if count == 0 {
		return models.Operation{}, notFound("account")
	}

	if err := db.Create(&operation).Error; err != nil {
		return models.Operation{}, err
	}

	return operation, nil
}

// DeleteOperation deletes an operation.
func (b *Local) DeleteOperation(ctx context.Context, id string) error {
	tx := b.db.WithContext(ctx).Delete(&models.Operation{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return notFound("operation")
	}
	return nil
}

// deleteAccountData removes the operations and alerts of an account, then the account.
func deleteAccountData(tx *gorm.DB, account models.Account) error {
	if err := tx.Delete(&models.Operation{}, "bank_account = ?", account.AccountNumber).Error; err != nil {
		return err
	}

	if err := tx.Delete(&models.Alert{}, "bank_account = ?", account.AccountNumber).Error; err != nil {
		return err
	}

	return tx.Delete(&models.Account{}, "id = ?", account.ID).Error
}

// DeleteAccount deletes an account with its operations and alerts. The
// access is deleted too if this was its last account.
func (b *Local) DeleteAccount(ctx context.Context, id string) error {
	tx := b.db.WithContext(ctx).Begin()

	var account models.Account
	if err := tx.First(&account, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := deleteAccountData(tx, account); err != nil {
		tx.Rollback()
		return err
	}

	var remaining int64
	if err := tx.Model(&models.Account{}).Where("bank_access = ?", account.BankAccess).Count(&remaining).Error; err != nil {
		tx.Rollback()
		return err
	}

	if remaining == 0 {
		b.logger.Info().Str("access", account.BankAccess).Msg("Deleting access after its last account")
		if err := tx.Delete(&models.Access{}, "id = ?", account.BankAccess).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// DeleteAccess deletes an access with all of its accounts.
func (b *Local) DeleteAccess(ctx context.Context, id string) error {
	tx := b.db.WithContext(ctx).Begin()

	var access models.Access
	if err := tx.First(&access, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}

	var accounts []models.Account
	if err := tx.Where("bank_access = ?", id).Find(&accounts).Error; err != nil {
		tx.Rollback()
		return err
	}

	for _, account := range accounts {
		if err := deleteAccountData(tx, account); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Delete(&access).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// ResyncBalance recomputes the initial amount of an account so that its
// balance matches the one reported by the bank.
func (b *Local) ResyncBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	db := b.db.WithContext(ctx)

	var account models.Account
	if err := db.First(&account, "id = ?", id).Error; err != nil {
		return decimal.Zero, err
	}

	var access models.Access
	if err := db.First(&access, "id = ?", account.BankAccess).Error; err != nil {
		return decimal.Zero, err
	}

	raw, err := b.source.FetchAccounts(ctx, access)
	if err != nil {
		return decimal.Zero, err
	}

	var balance *decimal.Decimal
	for _, r := range raw {
		if r.AccountNumber == account.AccountNumber {
			balance = &r.Balance
			break
		}
	}

	if balance == nil {
		return decimal.Zero, errcodes.New(errcodes.Generic, "%v: %s", ErrAccountNotFetched, account.AccountNumber)
	}

	sum, err := operationsSum(db, account.AccountNumber)
	if err != nil {
		return decimal.Zero, err
	}

	initial := balance.Sub(sum)
	if err := db.Model(&account).UpdateColumn("initial_amount", initial).Error; err != nil {
		return decimal.Zero, err
	}

	b.logger.Info().Str("account", account.ID).Str("initialAmount", initial.String()).Msg("Resynced balance")
	return initial, nil
}

func operationsSum(db *gorm.DB, accountNumber string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := db.Model(&models.Operation{}).Where("bank_account = ?", accountNumber).Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}

	return decimal.Sum(decimal.Zero, amounts...), nil
}

// CreateAlert creates an alert.
func (b *Local) CreateAlert(ctx context.Context, create models.AlertCreate) (models.Alert, error) {
	alert := models.Alert{AlertCreate: create}
	if err := b.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return models.Alert{}, err
	}
	return alert, nil
}

// UpdateAlert applies a partial update to an alert.
func (b *Local) UpdateAlert(ctx context.Context, id string, update models.AlertUpdate) error {
	db := b.db.WithContext(ctx)

	var alert models.Alert
	if err := db.First(&alert, "id = ?", id).Error; err != nil {
		return err
	}

	alert = update.Apply(alert)
	return db.Save(&alert).Error
}

// DeleteAlert deletes an alert.
func (b *Local) DeleteAlert(ctx context.Context, id string) error {
	tx := b.db.WithContext(ctx).Delete(&models.Alert{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return notFound("alert")
	}
	return nil
}

// DeleteCategory deletes a category and reassigns its operations to replaceBy.
func (b *Local) DeleteCategory(ctx context.Context, id, replaceBy string) error {
	tx := b.db.WithContext(ctx).Begin()

	err := tx.Model(&models.Operation{}).Where("category_id = ?", id).UpdateColumn("category_id", replaceBy).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

package backend

import (
	"context"
	"strings"
	"time"

	"github.com/kresus/backend/internal/helpers"
	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/pkg/fetch"
	"github.com/kresus/backend/pkg/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fetched is the raw data returned by the fetch source for one access.
type fetched struct {
	accounts   []fetch.RawAccount
	operations []fetch.RawOperation
}

// importHash identifies an operation across fetches.
func importHash(accountNumber string, date time.Time, amount decimal.Decimal, raw string) string {
	return helpers.ImportHash(accountNumber, date.UTC().Format(time.RFC3339), amount.String(), raw)
}

// operationFromRaw converts a raw operation. The result is not validated.
func operationFromRaw(raw fetch.RawOperation, imported time.Time) models.Operation {
	operation := models.Operation{
		OperationCreate: models.OperationCreate{
			BankAccount: raw.Account,
			Title:       raw.Title,
			Raw:         raw.Raw,
			Amount:      raw.Amount,
			Date:        raw.Date,
			CategoryID:  models.NoneCategoryID,
			Type:        raw.Type,
			Binary:      raw.Binary,
		},
		DateImport: imported,
	}

	if operation.Title == "" {
		operation.Title = operation.Raw
	}

	if !models.ValidOperationType(operation.Type) {
		operation.Type = models.UnknownOperationType
	}

	operation.Normalize()
	operation.ImportHash = importHash(operation.BankAccount, operation.Date, operation.Amount, operation.Raw)
	return operation
}

// fetchAll calls the fetch source. Accounts are only fetched when
// withAccounts is set.
func (b *Local) fetchAll(ctx context.Context, access models.Access, withAccounts bool) (fetched, error) {
	var f fetched
	var err error

	if withAccounts {
		f.accounts, err = b.source.FetchAccounts(ctx, access)
		if err != nil {
			return fetched{}, err
		}

		if len(f.accounts) == 0 {
			return fetched{}, errcodes.New(errcodes.NoAccounts, "no accounts for access %s", access.ID)
		}
	}

	f.operations, err = b.source.FetchOperations(ctx, access)
	if err != nil {
		return fetched{}, err
	}

	return f, nil
}

// persist stores the fetched data for the access and returns the accounts of
// the access together with the operations that were not known before.
func (b *Local) persist(tx *gorm.DB, access models.Access, f fetched) (models.SyncResults, error) {
	now := time.Now().In(time.UTC)

	var existing []models.Account
	if err := tx.Where("bank_access = ?", access.ID).Find(&existing).Error; err != nil {
		return models.SyncResults{}, err
	}

	accounts := make(map[string]models.Account, len(existing))
	for _, a := range existing {
		accounts[a.AccountNumber] = a
	}

	// Accounts created during this sync get their initial amount adjusted
	// once the operations are known
	balances := make(map[string]decimal.Decimal)

	for _, raw := range f.accounts {
		// Stored account numbers are trimmed
		number := strings.TrimSpace(raw.AccountNumber)

		account, ok := accounts[number]
		if !ok {
			account = models.Account{
				AccountNumber: number,
				BankAccess:    access.ID,
				Bank:          access.Bank,
				InitialAmount: raw.Balance,
			}
			balances[number] = raw.Balance
		}

		account.Title = raw.Label
		account.Iban = raw.Iban
		account.Currency = raw.Currency
		account = account.WithDefaultCurrency(b.defaultCurrency)
		account.LastChecked = now

		if err := account.Validate(); err != nil {
			b.logger.Warn().Err(err).Str("access", access.ID).Msg("Skipping invalid account")
			continue
		}

		if err := tx.Save(&account).Error; err != nil {
			return models.SyncResults{}, err
		}
		accounts[account.AccountNumber] = account
	}

	if len(accounts) == 0 {
		return models.SyncResults{}, errcodes.New(errcodes.NoAccounts, "no accounts for access %s", access.ID)
	}

	numbers := make([]string, 0, len(accounts))
	for number := range accounts {
		numbers = append(numbers, number)
	}

	var hashes []string
	if err := tx.Model(&models.Operation{}).Where("bank_account IN ?", numbers).Pluck("import_hash", &hashes).Error; err != nil {
		return models.SyncResults{}, err
	}

	// Identical operations can legitimately appear several times, so
	// known hashes are counted rather than just remembered
	known := make(map[string]int, len(hashes))
	for _, h := range hashes {
		known[h]++
	}

	newOperations := []models.Operation{}
	for _, raw := range f.operations {
		operation := operationFromRaw(raw, now)

		if err := operation.Validate(); err != nil {
			b.logger.Warn().Err(err).Str("access", access.ID).Msg("Skipping invalid operation")
			continue
		}

		if _, ok := accounts[operation.BankAccount]; !ok {
			b.logger.Warn().Str("access", access.ID).Str("account", operation.BankAccount).Msg("Skipping operation of unknown account")
			continue
		}

		if known[operation.ImportHash] > 0 {
			known[operation.ImportHash]--
			continue
		}

		if err := tx.Create(&operation).Error; err != nil {
			return models.SyncResults{}, err
		}
		newOperations = append(newOperations, operation)

		if balance, ok := balances[operation.BankAccount]; ok {
			balances[operation.BankAccount] = balance.Sub(operation.Amount)
		}
	}

	results := models.SyncResults{
		AccessID:      access.ID,
		Accounts:      make([]models.Account, 0, len(accounts)),
		NewOperations: newOperations,
	}

	for _, account := range accounts {
		if initial, ok := balances[account.AccountNumber]; ok {
			account.InitialAmount = initial
		}
		account.LastChecked = now

		if err := tx.Model(&account).UpdateColumns(map[string]any{
			"initial_amount": account.InitialAmount,
			"last_checked":   account.LastChecked,
		}).Error; err != nil {
			return models.SyncResults{}, err
		}

		results.Accounts = append(results.Accounts, account)
	}

	b.logger.Info().
		Str("access", access.ID).
		Int("accounts", len(results.Accounts)).
		Int("newOperations", len(newOperations)).
		Msg("Sync done")

	return results, nil
}

// sync fetches and persists the data of an access in one transaction.
func (b *Local) sync(ctx context.Context, accessID string, withAccounts bool) (models.SyncResults, error) {
	var access models.Access
	if err := b.db.WithContext(ctx).First(&access, "id = ?", accessID).Error; err != nil {
		return models.SyncResults{}, err
	}

	f, err := b.fetchAll(ctx, access, withAccounts)
	if err != nil {
		return models.SyncResults{}, err
	}

	tx := b.db.WithContext(ctx).Begin()
	results, err := b.persist(tx, access, f)
	if err != nil {
		tx.Rollback()
		return models.SyncResults{}, err
	}

	return results, tx.Commit().Error
}

// GetNewAccounts fetches the accounts and the operations of an access.
func (b *Local) GetNewAccounts(ctx context.Context, accessID string) (models.SyncResults, error) {
	return b.sync(ctx, accessID, true)
}

// GetNewOperations fetches the operations of an access.
func (b *Local) GetNewOperations(ctx context.Context, accessID string) (models.SyncResults, error) {
	return b.sync(ctx, accessID, false)
}

// CreateAccess creates an access and runs its first sync. Nothing is
// persisted if the sync fails.
func (b *Local) CreateAccess(ctx context.Context, access models.Access) (models.Access, models.SyncResults, error) {
	if err := access.Validate(); err != nil {
		return models.Access{}, models.SyncResults{}, errcodes.New(errcodes.NoPassword, "%v", err)
	}

	f, err := b.fetchAll(ctx, access, true)
	if err != nil {
		return models.Access{}, models.SyncResults{}, err
	}

	tx := b.db.WithContext(ctx).Begin()
	if err := tx.Create(&access).Error; err != nil {
		tx.Rollback()
		return models.Access{}, models.SyncResults{}, err
	}
	access.Name = models.BankName(access.Bank)

	results, err := b.persist(tx, access, f)
	if err != nil {
		tx.Rollback()
		return models.Access{}, models.SyncResults{}, err
	}

	return access, results, tx.Commit().Error
}

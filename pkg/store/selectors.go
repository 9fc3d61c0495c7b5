package store

import (
	"github.com/kresus/backend/pkg/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// OperationByID returns the operation with the given ID.
func OperationByID(s State, id string) (models.Operation, bool) {
	idx := slices.IndexFunc(s.Operations, func(o models.Operation) bool { return o.ID == id })
	if idx == -1 {
		return models.Operation{}, false
	}
	return s.Operations[idx], true
}

// AccountByID returns the account with the given ID.
func AccountByID(s State, id string) (models.Account, bool) {
	idx := slices.IndexFunc(s.Accounts, func(a models.Account) bool { return a.ID == id })
	if idx == -1 {
		return models.Account{}, false
	}
	return s.Accounts[idx], true
}

// AccountByNumber returns the account with the given account number.
func AccountByNumber(s State, number string) (models.Account, bool) {
	idx := slices.IndexFunc(s.Accounts, func(a models.Account) bool { return a.AccountNumber == number })
	if idx == -1 {
		return models.Account{}, false
	}
	return s.Accounts[idx], true
}

// AccessByID returns the access with the given ID.
func AccessByID(s State, id string) (models.Access, bool) {
	idx := slices.IndexFunc(s.Accesses, func(a models.Access) bool { return a.ID == id })
	if idx == -1 {
		return models.Access{}, false
	}
	return s.Accesses[idx], true
}

// AccessByAccountID returns the access owning the account.
func AccessByAccountID(s State, accountID string) (models.Access, bool) {
	account, ok := AccountByID(s, accountID)
	if !ok {
		return models.Access{}, false
	}
	return AccessByID(s, account.BankAccess)
}

// AccountsByAccessID returns the accounts of an access, sorted by title.
func AccountsByAccessID(s State, accessID string) []models.Account {
	accounts := []models.Account{}
	for _, a := range s.Accounts {
		if a.BankAccess == accessID {
			accounts = append(accounts, a)
		}
	}
	return accounts
}

// OperationsByAccountID returns the sorted operations of an account.
func OperationsByAccountID(s State, accountID string) []models.Operation {
	operations := []models.Operation{}

	account, ok := AccountByID(s, accountID)
	if !ok {
		return operations
	}

	for _, o := range s.Operations {
		if o.BankAccount == account.AccountNumber {
			operations = append(operations, o)
		}
	}
	return operations
}

// AlertPair is an alert with the account it is about.
type AlertPair struct {
	Alert   models.Alert   `json:"alert"`
	Account models.Account `json:"account"`
}

// AlertPairsByType returns the alerts of a type with their accounts.
// Alerts of unknown accounts are left out.
func AlertPairsByType(s State, alertType models.AlertType) []AlertPair {
	pairs := []AlertPair{}
	for _, al := range s.Alerts {
		if al.Type != alertType {
			continue
		}

		account, ok := AccountByNumber(s, al.BankAccount)
		if !ok {
			continue
		}
		pairs = append(pairs, AlertPair{Alert: al, Account: account})
	}
	return pairs
}

// CurrentAccount returns the selected account.
func CurrentAccount(s State) (models.Account, bool) {
	if s.CurrentAccountID == "" {
		return models.Account{}, false
	}
	return AccountByID(s, s.CurrentAccountID)
}

// Balance is the initial amount of the account plus the sum of its operations.
func Balance(s State, accountID string) (decimal.Decimal, bool) {
	account, ok := AccountByID(s, accountID)
	if !ok {
		return decimal.Zero, false
	}

	balance := account.InitialAmount
	for _, o := range OperationsByAccountID(s, accountID) {
		balance = balance.Add(o.Amount)
	}
	return balance, true
}

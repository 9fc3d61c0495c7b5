package store

import (
	"github.com/kresus/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// deleteAccountCascade removes the account, its operations and its alerts.
// The access goes away with its last account.
func deleteAccountCascade(s State, account models.Account) State {
	s.Accounts = slices.DeleteFunc(slices.Clone(s.Accounts), func(a models.Account) bool {
		return a.ID == account.ID
	})

	s.Operations = slices.DeleteFunc(slices.Clone(s.Operations), func(o models.Operation) bool {
		return o.BankAccount == account.AccountNumber
	})

	s.Alerts = slices.DeleteFunc(slices.Clone(s.Alerts), func(al models.Alert) bool {
		return al.BankAccount == account.AccountNumber
	})

	if len(AccountsByAccessID(s, account.BankAccess)) == 0 {
		s.Accesses = slices.DeleteFunc(slices.Clone(s.Accesses), func(a models.Access) bool {
			return a.ID == account.BankAccess
		})
	}

	return s
}

// repointAfterAccountDeletion selects another account if the current one
// is gone. Accounts of the same access are preferred.
func repointAfterAccountDeletion(s State, deleted models.Account) State {
	if _, ok := CurrentAccount(s); ok {
		return s
	}

	if accounts := AccountsByAccessID(s, deleted.BankAccess); len(accounts) > 0 {
		s.CurrentAccessID = deleted.BankAccess
		s.CurrentAccountID = accounts[0].ID
		return s
	}

	return selectFirstAccount(s)
}

// selectFirstAccount selects the first account of the first access that
// has one. Without any account, the selection is cleared.
func selectFirstAccount(s State) State {
	for _, access := range s.Accesses {
		if accounts := AccountsByAccessID(s, access.ID); len(accounts) > 0 {
			s.CurrentAccessID = access.ID
			s.CurrentAccountID = accounts[0].ID
			return s
		}
	}

	s.CurrentAccessID = ""
	s.CurrentAccountID = ""
	return s
}

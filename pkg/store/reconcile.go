package store

import (
	"github.com/kresus/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// upsertOperations adds the operations, replacing those with the same ID.
// Operations are never matched on their content here: the backend only
// returns operations it did not know before.
func upsertOperations(existing, fresh []models.Operation) []models.Operation {
	operations := slices.Clone(existing)

	for _, o := range fresh {
		idx := slices.IndexFunc(operations, func(e models.Operation) bool { return e.ID == o.ID })
		if idx == -1 {
			operations = append(operations, o)
			continue
		}
		operations[idx] = o
	}

	return operations
}

// finishSync merges the results of a sync into the state.
//
// The accounts of the synced access are replaced wholesale by the fetched
// ones. Accounts of other accesses are left untouched. New operations are
// added and everything is resorted.
func finishSync(s State, results models.SyncResults) State {
	locale := s.Constants.Locale

	fresh := make([]models.Account, 0, len(results.Accounts))
	for _, a := range results.Accounts {
		fresh = append(fresh, a.WithDefaultCurrency(s.Constants.DefaultCurrency))
	}
	fresh = SortAccounts(fresh, locale)

	unrelated := slices.DeleteFunc(slices.Clone(s.Accounts), func(a models.Account) bool {
		return a.BankAccess == results.AccessID
	})
	s.Accounts = SortAccounts(append(unrelated, fresh...), locale)

	// First sync of the first access
	if s.CurrentAccountID == "" && len(fresh) > 0 {
		s.CurrentAccessID = results.AccessID
		s.CurrentAccountID = fresh[0].ID
	}

	s.Operations = SortOperations(upsertOperations(s.Operations, results.NewOperations), locale)
	return s
}

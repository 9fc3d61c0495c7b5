package store

import (
	"github.com/kresus/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// Reduce returns the state after the action. It never modifies s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetOperationCategory:
		return reduceSetOperationCategory(s, a)
	case SetOperationType:
		return reduceSetOperationType(s, a)
	case SetOperationCustomLabel:
		return reduceSetOperationCustomLabel(s, a)
	case CreateOperation:
		return reduceCreateOperation(s, a)
	case DeleteOperation:
		return reduceDeleteOperation(s, a)
	case MergeOperations:
		return reduceMergeOperations(s, a)
	case CreateAccess:
		return reduceCreateAccess(s, a)
	case UpdateAccess:
		return reduceUpdateAccess(s, a)
	case RunAccountsSync:
		return reduceSync(s, a.Meta, ReasonFetchAccount, a.Results)
	case RunOperationsSync:
		return reduceSync(s, a.Meta, ReasonSync, a.Results)
	case RunBalanceResync:
		return reduceRunBalanceResync(s, a)
	case DeleteAccount:
		return reduceDeleteAccount(s, a)
	case DeleteAccess:
		return reduceDeleteAccess(s, a)
	case CreateAlert:
		return reduceCreateAlert(s, a)
	case UpdateAlert:
		return reduceUpdateAlert(s, a)
	case DeleteAlert:
		return reduceDeleteAlert(s, a)
	case DeleteCategory:
		return reduceDeleteCategory(s, a)
	case SetCurrentAccount:
		return reduceSetCurrentAccount(s, a)
	}
	return s
}

// processing sets the processing reason while an action is pending and
// clears it once the action has settled.
func processing(s State, status Status, reason Reason) State {
	if status == Pending {
		s.ProcessingReason = reason
	} else {
		s.ProcessingReason = ""
	}
	return s
}

// updateOperation applies f to the operation with the given ID.
func updateOperation(s State, id string, f func(models.Operation) models.Operation) State {
	idx := slices.IndexFunc(s.Operations, func(o models.Operation) bool { return o.ID == id })
	if idx == -1 {
		return s
	}

	operations := slices.Clone(s.Operations)
	operations[idx] = f(operations[idx])
	s.Operations = operations
	return s
}

func reduceSetOperationCategory(s State, a SetOperationCategory) State {
	var category string
	switch a.Status {
	case Pending:
		category = a.CategoryID
	case Failure:
		category = a.FormerCategoryID
	default:
		return s
	}

	return updateOperation(s, a.OperationID, func(o models.Operation) models.Operation {
		o.CategoryID = category
		return o
	})
}

func reduceSetOperationType(s State, a SetOperationType) State {
	var operationType string
	switch a.Status {
	case Pending:
		operationType = a.Type
	case Failure:
		operationType = a.FormerType
	default:
		return s
	}

	return updateOperation(s, a.OperationID, func(o models.Operation) models.Operation {
		o.Type = operationType
		return o
	})
}

func reduceSetOperationCustomLabel(s State, a SetOperationCustomLabel) State {
	var label *string
	switch a.Status {
	case Pending:
		label = a.Label
	case Failure:
		label = a.FormerLabel
	default:
		return s
	}

	s = updateOperation(s, a.OperationID, func(o models.Operation) models.Operation {
		o.CustomLabel = label
		return o
	})

	// The display label is part of the sort key
	s.Operations = SortOperations(s.Operations, s.Constants.Locale)
	return s
}

func reduceCreateOperation(s State, a CreateOperation) State {
	if a.Status != Success {
		return s
	}

	s.Operations = SortOperations(upsertOperations(s.Operations, []models.Operation{a.Operation}), s.Constants.Locale)
	return s
}

func reduceDeleteOperation(s State, a DeleteOperation) State {
	if a.Status != Success {
		return s
	}

	s.Operations = slices.DeleteFunc(slices.Clone(s.Operations), func(o models.Operation) bool {
		return o.ID == a.OperationID
	})
	return s
}

// reduceMergeOperations only changes the state once the merge is confirmed.
// The kept operation is replaced by the merged one returned by the backend.
func reduceMergeOperations(s State, a MergeOperations) State {
	if a.Status != Success {
		return s
	}

	operations := slices.DeleteFunc(slices.Clone(s.Operations), func(o models.Operation) bool {
		return o.ID == a.ToRemoveID || o.ID == a.ToKeepID || o.ID == a.Merged.ID
	})

	s.Operations = SortOperations(append(operations, a.Merged), s.Constants.Locale)
	return s
}

func reduceCreateAccess(s State, a CreateAccess) State {
	s = processing(s, a.Status, ReasonFetchAccount)
	if a.Status != Success {
		return s
	}

	accesses := slices.DeleteFunc(slices.Clone(s.Accesses), func(access models.Access) bool {
		return access.ID == a.Access.ID
	})
	s.Accesses = append(accesses, a.Access)

	return finishSync(s, a.Results)
}

func reduceUpdateAccess(s State, a UpdateAccess) State {
	if a.Status != Success {
		return s
	}

	idx := slices.IndexFunc(s.Accesses, func(access models.Access) bool { return access.ID == a.AccessID })
	if idx == -1 {
		return s
	}

	accesses := slices.Clone(s.Accesses)
	accesses[idx] = a.Access
	s.Accesses = accesses
	return s
}

func reduceSync(s State, m Meta, reason Reason, results models.SyncResults) State {
	s = processing(s, m.Status, reason)
	if m.Status != Success {
		return s
	}
	return finishSync(s, results)
}

func reduceRunBalanceResync(s State, a RunBalanceResync) State {
	s = processing(s, a.Status, ReasonBalanceResync)
	if a.Status != Success {
		return s
	}

	idx := slices.IndexFunc(s.Accounts, func(account models.Account) bool { return account.ID == a.AccountID })
	if idx == -1 {
		return s
	}

	accounts := slices.Clone(s.Accounts)
	accounts[idx].InitialAmount = a.InitialAmount
	s.Accounts = accounts
	return s
}

func reduceDeleteAccount(s State, a DeleteAccount) State {
	s = processing(s, a.Status, ReasonDeleteAccount)
	if a.Status != Success {
		return s
	}

	account, ok := AccountByID(s, a.AccountID)
	if !ok {
		return s
	}

	s = deleteAccountCascade(s, account)
	return repointAfterAccountDeletion(s, account)
}

func reduceDeleteAccess(s State, a DeleteAccess) State {
	s = processing(s, a.Status, ReasonDeleteAccount)
	if a.Status != Success {
		return s
	}

	for _, account := range AccountsByAccessID(s, a.AccessID) {
		s = deleteAccountCascade(s, account)
	}

	// An access without accounts is not removed by the cascade
	s.Accesses = slices.DeleteFunc(slices.Clone(s.Accesses), func(access models.Access) bool {
		return access.ID == a.AccessID
	})

	if s.CurrentAccessID == a.AccessID {
		return selectFirstAccount(s)
	}
	return s
}

func reduceCreateAlert(s State, a CreateAlert) State {
	if a.Status != Success {
		return s
	}

	s.Alerts = append([]models.Alert{a.Alert}, s.Alerts...)
	return s
}

func reduceUpdateAlert(s State, a UpdateAlert) State {
	if a.Status != Success {
		return s
	}

	idx := slices.IndexFunc(s.Alerts, func(al models.Alert) bool { return al.ID == a.AlertID })
	if idx == -1 {
		return s
	}

	alerts := slices.Clone(s.Alerts)
	alerts[idx] = a.Update.Apply(alerts[idx])
	s.Alerts = alerts
	return s
}

func reduceDeleteAlert(s State, a DeleteAlert) State {
	if a.Status != Success {
		return s
	}

	s.Alerts = slices.DeleteFunc(slices.Clone(s.Alerts), func(al models.Alert) bool {
		return al.ID == a.AlertID
	})
	return s
}

// reduceDeleteCategory reassigns every operation of the deleted category.
func reduceDeleteCategory(s State, a DeleteCategory) State {
	if a.Status != Success {
		return s
	}

	operations := slices.Clone(s.Operations)
	for i, o := range operations {
		if o.CategoryID == a.CategoryID {
			operations[i].CategoryID = a.ReplaceByID
		}
	}
	s.Operations = operations
	return s
}

func reduceSetCurrentAccount(s State, a SetCurrentAccount) State {
	account, ok := AccountByID(s, a.AccountID)
	if !ok {
		return s
	}

	s.CurrentAccessID = account.BankAccess
	s.CurrentAccountID = account.ID
	return s
}

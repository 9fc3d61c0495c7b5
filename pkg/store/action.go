package store

import (
	"github.com/kresus/backend/pkg/models"
	"github.com/shopspring/decimal"
)

// Status is the phase of a mutation.
type Status int

const (
	Pending Status = iota
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "unknown"
}

// Reason tells what the store is busy with. The empty reason means idle.
type Reason string

const (
	ReasonSync          Reason = "sync"
	ReasonBalanceResync Reason = "balance-resync"
	ReasonDeleteAccount Reason = "delete-account"
	ReasonFetchAccount  Reason = "fetch-account"
)

// Kind identifies the type of an action.
type Kind string

const (
	KindSetOperationCategory    Kind = "SET_OPERATION_CATEGORY"
	KindSetOperationType        Kind = "SET_OPERATION_TYPE"
	KindSetOperationCustomLabel Kind = "SET_OPERATION_CUSTOM_LABEL"
	KindCreateOperation         Kind = "CREATE_OPERATION"
	KindDeleteOperation         Kind = "DELETE_OPERATION"
	KindMergeOperations         Kind = "MERGE_OPERATIONS"
	KindCreateAccess            Kind = "CREATE_ACCESS"
	KindUpdateAccess            Kind = "UPDATE_ACCESS"
	KindRunAccountsSync         Kind = "RUN_ACCOUNTS_SYNC"
	KindRunOperationsSync       Kind = "RUN_OPERATIONS_SYNC"
	KindRunBalanceResync        Kind = "RUN_BALANCE_RESYNC"
	KindDeleteAccount           Kind = "DELETE_ACCOUNT"
	KindDeleteAccess            Kind = "DELETE_ACCESS"
	KindCreateAlert             Kind = "CREATE_ALERT"
	KindUpdateAlert             Kind = "UPDATE_ALERT"
	KindDeleteAlert             Kind = "DELETE_ALERT"
	KindDeleteCategory          Kind = "DELETE_CATEGORY"
	KindSetCurrentAccount       Kind = "SET_CURRENT_ACCOUNT"
)

// Meta carries the phase of an action and, on failure, its error.
type Meta struct {
	Status Status
	Err    error
}

func (m Meta) meta() Meta {
	return m
}

// Action is a state transition. The set of actions is closed, every one of
// them is declared in this file.
type Action interface {
	Kind() Kind
	meta() Meta
}

// StatusOf returns the phase of an action.
func StatusOf(a Action) Status {
	return a.meta().Status
}

// ErrOf returns the error of a failed action.
func ErrOf(a Action) error {
	return a.meta().Err
}

type SetOperationCategory struct {
	Meta
	OperationID      string
	CategoryID       string
	FormerCategoryID string
}

type SetOperationType struct {
	Meta
	OperationID string
	Type        string
	FormerType  string
}

type SetOperationCustomLabel struct {
	Meta
	OperationID string
	Label       *string
	FormerLabel *string
}

// CreateOperation carries the created operation on success.
type CreateOperation struct {
	Meta
	Operation models.Operation
}

type DeleteOperation struct {
	Meta
	OperationID string
}

// MergeOperations carries the merged operation returned by the backend on success.
type MergeOperations struct {
	Meta
	ToKeepID   string
	ToRemoveID string
	Merged     models.Operation
}

// CreateAccess carries the created access and the results of its first sync.
type CreateAccess struct {
	Meta
	Access  models.Access
	Results models.SyncResults
}

// UpdateAccess carries the updated access on success.
type UpdateAccess struct {
	Meta
	AccessID string
	Access   models.Access
}

type RunAccountsSync struct {
	Meta
	AccessID string
	Results  models.SyncResults
}

type RunOperationsSync struct {
	Meta
	AccessID string
	Results  models.SyncResults
}

type RunBalanceResync struct {
	Meta
	AccountID     string
	InitialAmount decimal.Decimal
}

type DeleteAccount struct {
	Meta
	AccountID string
}

type DeleteAccess struct {
	Meta
	AccessID string
}

type CreateAlert struct {
	Meta
	Alert models.Alert
}

type UpdateAlert struct {
	Meta
	AlertID string
	Update  models.AlertUpdate
}

type DeleteAlert struct {
	Meta
	AlertID string
}

// DeleteCategory reassigns the operations of the deleted category to ReplaceByID.
type DeleteCategory struct {
	Meta
	CategoryID  string
	ReplaceByID string
}

// SetCurrentAccount changes the selection. It is local only and always
// dispatched as a success.
type SetCurrentAccount struct {
	Meta
	AccountID string
}

func (SetOperationCategory) Kind() Kind    { return KindSetOperationCategory }
func (SetOperationType) Kind() Kind        { return KindSetOperationType }
func (SetOperationCustomLabel) Kind() Kind { return KindSetOperationCustomLabel }
func (CreateOperation) Kind() Kind         { return KindCreateOperation }
func (DeleteOperation) Kind() Kind         { return KindDeleteOperation }
func (MergeOperations) Kind() Kind         { return KindMergeOperations }
func (CreateAccess) Kind() Kind            { return KindCreateAccess }
func (UpdateAccess) Kind() Kind            { return KindUpdateAccess }
func (RunAccountsSync) Kind() Kind         { return KindRunAccountsSync }
func (RunOperationsSync) Kind() Kind       { return KindRunOperationsSync }
func (RunBalanceResync) Kind() Kind        { return KindRunBalanceResync }
func (DeleteAccount) Kind() Kind           { return KindDeleteAccount }
func (DeleteAccess) Kind() Kind            { return KindDeleteAccess }
func (CreateAlert) Kind() Kind             { return KindCreateAlert }
func (UpdateAlert) Kind() Kind             { return KindUpdateAlert }
func (DeleteAlert) Kind() Kind             { return KindDeleteAlert }
func (DeleteCategory) Kind() Kind          { return KindDeleteCategory }
func (SetCurrentAccount) Kind() Kind       { return KindSetCurrentAccount }

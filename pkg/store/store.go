package store

import (
	"context"
	"strings"
	"sync"

	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Backend persists mutations. Category IDs and custom labels use the
// server convention where the empty string means "none".
type Backend interface {
	Init(ctx context.Context) (models.World, error)
	CreateAccess(ctx context.Context, access models.Access) (models.Access, models.SyncResults, error)
	UpdateAccess(ctx context.Context, id string, update models.AccessUpdate) (models.Access, error)
	GetNewAccounts(ctx context.Context, accessID string) (models.SyncResults, error)
	GetNewOperations(ctx context.Context, accessID string) (models.SyncResults, error)
	SetCategoryForOperation(ctx context.Context, id, categoryID string) error
	SetTypeForOperation(ctx context.Context, id, operationType string) error
	SetCustomLabel(ctx context.Context, id, label string) error
	MergeOperations(ctx context.Context, keepID, removeID string) (models.Operation, error)
	CreateOperation(ctx context.Context, create models.OperationCreate) (models.Operation, error)
	DeleteOperation(ctx context.Context, id string) error
	DeleteAccount(ctx context.Context, id string) error
	DeleteAccess(ctx context.Context, id string) error
	ResyncBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	CreateAlert(ctx context.Context, create models.AlertCreate) (models.Alert, error)
	UpdateAlert(ctx context.Context, id string, update models.AlertUpdate) error
	DeleteAlert(ctx context.Context, id string) error
	DeleteCategory(ctx context.Context, id, replaceBy string) error
}

// Store owns the canonical state.
//
// Reductions are serialized, backend calls are not: two mutations of the
// same entity run concurrently and the last one to settle wins.
type Store struct {
	backend  Backend
	settings Settings
	logger   zerolog.Logger

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// New creates a store with an empty state. Call Load to fill it.
func New(backend Backend, settings Settings) *Store {
	return &Store{
		backend:     backend,
		settings:    settings,
		logger:      log.With().Str("component", "store").Logger(),
		state:       InitialState(models.World{}, settings),
		subscribers: map[int]func(State){},
	}
}

// Load replaces the state with the persisted data.
func (s *Store) Load(ctx context.Context) error {
	world, err := s.backend.Init(ctx)
	if err != nil {
		return err
	}

	state := InitialState(world, s.settings)

	s.mu.Lock()
	s.state = state
	s.notify()
	s.mu.Unlock()

	s.logger.Info().
		Int("accesses", len(state.Accesses)).
		Int("accounts", len(state.Accounts)).
		Int("operations", len(state.Operations)).
		Msg("State loaded")
	return nil
}

// Snapshot returns the current state. Callers must treat it as read-only.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every
// reduction. fn runs while the store is locked and must not dispatch.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notify() {
	for _, fn := range s.subscribers {
		fn(s.state)
	}
}

// Dispatch reduces the action into the state and returns the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	actionCount.WithLabelValues(string(a.Kind()), StatusOf(a).String()).Inc()

	event := s.logger.Debug()
	if err := ErrOf(a); err != nil {
		event = s.logger.Warn().Err(err)
	}
	event.Str("kind", string(a.Kind())).Str("status", StatusOf(a).String()).Msg("Action")

	s.notify()
	return s.state
}

// mutate runs the three phases of a mutation. build is called with the
// meta of each phase. For the success phase, it is called after remote
// returned, so it can use what remote stored.
func (s *Store) mutate(ctx context.Context, build func(Meta) Action, remote func(context.Context) error) error {
	s.Dispatch(build(Meta{Status: Pending}))

	if err := remote(ctx); err != nil {
		s.Dispatch(build(Meta{Status: Failure, Err: err}))
		return err
	}

	s.Dispatch(build(Meta{Status: Success}))
	return nil
}

func (s *Store) operation(kind Kind, id string) (models.Operation, error) {
	if id == "" {
		return models.Operation{}, precondition(kind, "missing operation id")
	}

	operation, ok := OperationByID(s.Snapshot(), id)
	if !ok {
		return models.Operation{}, precondition(kind, "unknown operation %s", id)
	}
	return operation, nil
}

// SetOperationCategory sets the category of an operation. The new category
// is visible immediately and rolled back if the backend fails.
func (s *Store) SetOperationCategory(ctx context.Context, operationID, categoryID string) error {
	operation, err := s.operation(KindSetOperationCategory, operationID)
	if err != nil {
		return err
	}

	categoryID = models.CategoryFromServer(categoryID)
	former := operation.CategoryID

	return s.mutate(ctx, func(m Meta) Action {
		return SetOperationCategory{Meta: m, OperationID: operationID, CategoryID: categoryID, FormerCategoryID: former}
	}, func(ctx context.Context) error {
		return s.backend.SetCategoryForOperation(ctx, operationID, models.CategoryToServer(categoryID))
	})
}

// SetOperationType sets the type of an operation, optimistically.
func (s *Store) SetOperationType(ctx context.Context, operationID, operationType string) error {
	operation, err := s.operation(KindSetOperationType, operationID)
	if err != nil {
		return err
	}

	if !models.ValidOperationType(operationType) {
		return precondition(KindSetOperationType, "unknown operation type %s", operationType)
	}

	former := operation.Type

	return s.mutate(ctx, func(m Meta) Action {
		return SetOperationType{Meta: m, OperationID: operationID, Type: operationType, FormerType: former}
	}, func(ctx context.Context) error {
		return s.backend.SetTypeForOperation(ctx, operationID, operationType)
	})
}

// SetOperationCustomLabel sets the custom label of an operation,
// optimistically. A blank label removes the custom label.
func (s *Store) SetOperationCustomLabel(ctx context.Context, operationID, label string) error {
	operation, err := s.operation(KindSetOperationCustomLabel, operationID)
	if err != nil {
		return err
	}

	newLabel := models.LabelFromServer(strings.TrimSpace(label))
	former := operation.CustomLabel

	return s.mutate(ctx, func(m Meta) Action {
		return SetOperationCustomLabel{Meta: m, OperationID: operationID, Label: newLabel, FormerLabel: former}
	}, func(ctx context.Context) error {
		return s.backend.SetCustomLabel(ctx, operationID, models.LabelToServer(newLabel))
	})
}

// CreateOperation creates an operation for a known account.
func (s *Store) CreateOperation(ctx context.Context, create models.OperationCreate) (models.Operation, error) {
	if _, ok := AccountByNumber(s.Snapshot(), create.BankAccount); !ok {
		return models.Operation{}, precondition(KindCreateOperation, "unknown account number %s", create.BankAccount)
	}

	if create.Date.IsZero() {
		return models.Operation{}, precondition(KindCreateOperation, "missing date")
	}

	var created models.Operation
	err := s.mutate(ctx, func(m Meta) Action {
		return CreateOperation{Meta: m, Operation: created}
	}, func(ctx context.Context) (err error) {
		created, err = s.backend.CreateOperation(ctx, create)
		return err
	})

	return created, err
}

// DeleteOperation deletes an operation once the backend confirmed it.
func (s *Store) DeleteOperation(ctx context.Context, operationID string) error {
	if _, err := s.operation(KindDeleteOperation, operationID); err != nil {
		return err
	}

	return s.mutate(ctx, func(m Meta) Action {
		return DeleteOperation{Meta: m, OperationID: operationID}
	}, func(ctx context.Context) error {
		return s.backend.DeleteOperation(ctx, operationID)
	})
}

// MergeOperations merges toRemove into toKeep. Nothing changes in the state
// before the backend returns the merged operation.
func (s *Store) MergeOperations(ctx context.Context, toKeepID, toRemoveID string) (models.Operation, error) {
	if _, err := s.operation(KindMergeOperations, toKeepID); err != nil {
		return models.Operation{}, err
	}

	if _, err := s.operation(KindMergeOperations, toRemoveID); err != nil {
		return models.Operation{}, err
	}

	if toKeepID == toRemoveID {
		return models.Operation{}, precondition(KindMergeOperations, "cannot merge operation %s with itself", toKeepID)
	}

	var merged models.Operation
	err := s.mutate(ctx, func(m Meta) Action {
		return MergeOperations{Meta: m, ToKeepID: toKeepID, ToRemoveID: toRemoveID, Merged: merged}
	}, func(ctx context.Context) (err error) {
		merged, err = s.backend.MergeOperations(ctx, toKeepID, toRemoveID)
		return err
	})

	return merged, err
}

// CreateAccess creates an access and merges the results of its first sync.
// Failures are returned as *errcodes.SyncError.
func (s *Store) CreateAccess(ctx context.Context, access models.Access) (models.Access, error) {
	if err := access.Validate(); err != nil {
		return models.Access{}, precondition(KindCreateAccess, "%v", err)
	}

	var created models.Access
	var results models.SyncResults
	err := s.mutate(ctx, func(m Meta) Action {
		return CreateAccess{Meta: m, Access: created, Results: results}
	}, func(ctx context.Context) (err error) {
		created, results, err = s.backend.CreateAccess(ctx, access)
		return err
	})
	if err != nil {
		return models.Access{}, errcodes.NewSyncError(err, true)
	}

	return created, nil
}

// UpdateAccess updates the credentials of an access.
func (s *Store) UpdateAccess(ctx context.Context, accessID string, update models.AccessUpdate) error {
	if _, ok := AccessByID(s.Snapshot(), accessID); !ok {
		return precondition(KindUpdateAccess, "unknown access %s", accessID)
	}

	var updated models.Access
	return s.mutate(ctx, func(m Meta) Action {
		return UpdateAccess{Meta: m, AccessID: accessID, Access: updated}
	}, func(ctx context.Context) (err error) {
		updated, err = s.backend.UpdateAccess(ctx, accessID, update)
		return err
	})
}

func (s *Store) sync(ctx context.Context, kind Kind, accessID string, build func(Meta, models.SyncResults) Action, remote func(context.Context, string) (models.SyncResults, error)) error {
	if _, ok := AccessByID(s.Snapshot(), accessID); !ok {
		return precondition(kind, "unknown access %s", accessID)
	}

	var results models.SyncResults
	err := s.mutate(ctx, func(m Meta) Action {
		return build(m, results)
	}, func(ctx context.Context) (err error) {
		results, err = remote(ctx, accessID)
		return err
	})
	if err != nil {
		return errcodes.NewSyncError(err, false)
	}

	return nil
}

// RunAccountsSync fetches the accounts and operations of an access.
// Failures are returned as *errcodes.SyncError.
func (s *Store) RunAccountsSync(ctx context.Context, accessID string) error {
	return s.sync(ctx, KindRunAccountsSync, accessID, func(m Meta, results models.SyncResults) Action {
		return RunAccountsSync{Meta: m, AccessID: accessID, Results: results}
	}, s.backend.GetNewAccounts)
}

// RunOperationsSync fetches the operations of an access.
// Failures are returned as *errcodes.SyncError.
func (s *Store) RunOperationsSync(ctx context.Context, accessID string) error {
	return s.sync(ctx, KindRunOperationsSync, accessID, func(m Meta, results models.SyncResults) Action {
		return RunOperationsSync{Meta: m, AccessID: accessID, Results: results}
	}, s.backend.GetNewOperations)
}

// ResyncBalance aligns the balance of an account with the one of the bank.
func (s *Store) ResyncBalance(ctx context.Context, accountID string) error {
	if _, ok := AccountByID(s.Snapshot(), accountID); !ok {
		return precondition(KindRunBalanceResync, "unknown account %s", accountID)
	}

	var initial decimal.Decimal
	return s.mutate(ctx, func(m Meta) Action {
		return RunBalanceResync{Meta: m, AccountID: accountID, InitialAmount: initial}
	}, func(ctx context.Context) (err error) {
		initial, err = s.backend.ResyncBalance(ctx, accountID)
		return err
	})
}

// DeleteAccount deletes an account with its operations and alerts, and
// its access if it was the last account.
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	if _, ok := AccountByID(s.Snapshot(), accountID); !ok {
		return precondition(KindDeleteAccount, "unknown account %s", accountID)
	}

	return s.mutate(ctx, func(m Meta) Action {
		return DeleteAccount{Meta: m, AccountID: accountID}
	}, func(ctx context.Context) error {
		return s.backend.DeleteAccount(ctx, accountID)
	})
}

// DeleteAccess deletes an access with all its accounts.
func (s *Store) DeleteAccess(ctx context.Context, accessID string) error {
	if _, ok := AccessByID(s.Snapshot(), accessID); !ok {
		return precondition(KindDeleteAccess, "unknown access %s", accessID)
	}

	return s.mutate(ctx, func(m Meta) Action {
		return DeleteAccess{Meta: m, AccessID: accessID}
	}, func(ctx context.Context) error {
		return s.backend.DeleteAccess(ctx, accessID)
	})
}

// CreateAlert creates an alert.
func (s *Store) CreateAlert(ctx context.Context, create models.AlertCreate) (models.Alert, error) {
	if err := (models.Alert{AlertCreate: create}).Validate(); err != nil {
		return models.Alert{}, precondition(KindCreateAlert, "%v", err)
	}

	var created models.Alert
	err := s.mutate(ctx, func(m Meta) Action {
		return CreateAlert{Meta: m, Alert: created}
	}, func(ctx context.Context) (err error) {
		created, err = s.backend.CreateAlert(ctx, create)
		return err
	})

	return created, err
}

// UpdateAlert applies a partial update to an alert.
func (s *Store) UpdateAlert(ctx context.Context, alertID string, update models.AlertUpdate) error {
	if !s.hasAlert(alertID) {
		return precondition(KindUpdateAlert, "unknown alert %s", alertID)
	}

	return s.mutate(ctx, func(m Meta) Action {
		return UpdateAlert{Meta: m, AlertID: alertID, Update: update}
	}, func(ctx context.Context) error {
		return s.backend.UpdateAlert(ctx, alertID, update)
	})
}

// DeleteAlert deletes an alert.
func (s *Store) DeleteAlert(ctx context.Context, alertID string) error {
	if !s.hasAlert(alertID) {
		return precondition(KindDeleteAlert, "unknown alert %s", alertID)
	}

	return s.mutate(ctx, func(m Meta) Action {
		return DeleteAlert{Meta: m, AlertID: alertID}
	}, func(ctx context.Context) error {
		return s.backend.DeleteAlert(ctx, alertID)
	})
}

func (s *Store) hasAlert(id string) bool {
	for _, a := range s.Snapshot().Alerts {
		if a.ID == id {
			return true
		}
	}
	return false
}

// DeleteCategory deletes a category and moves its operations to
// replaceByID. The empty string and NoneCategoryID both mean "no category".
func (s *Store) DeleteCategory(ctx context.Context, categoryID, replaceByID string) error {
	if categoryID == "" || categoryID == models.NoneCategoryID {
		return precondition(KindDeleteCategory, "the none category cannot be deleted")
	}

	if categoryID == replaceByID {
		return precondition(KindDeleteCategory, "category %s cannot replace itself", categoryID)
	}

	replaceByID = models.CategoryFromServer(replaceByID)

	return s.mutate(ctx, func(m Meta) Action {
		return DeleteCategory{Meta: m, CategoryID: categoryID, ReplaceByID: replaceByID}
	}, func(ctx context.Context) error {
		return s.backend.DeleteCategory(ctx, categoryID, models.CategoryToServer(replaceByID))
	})
}

// SetCurrentAccount selects an account.
func (s *Store) SetCurrentAccount(accountID string) error {
	if _, ok := AccountByID(s.Snapshot(), accountID); !ok {
		return precondition(KindSetCurrentAccount, "unknown account %s", accountID)
	}

	s.Dispatch(SetCurrentAccount{Meta: Meta{Status: Success}, AccountID: accountID})
	return nil
}

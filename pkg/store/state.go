// Package store holds the canonical in-memory state and applies every
// mutation to it through the pending, success and failure phases.
package store

import (
	"github.com/kresus/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// Constants are settings that do not change while the store runs.
type Constants struct {
	DefaultCurrency string
	Locale          string
}

// Settings configure the initial state.
type Settings struct {
	Constants
	DefaultAccountID string // Account selected on startup if it exists
}

// State is the canonical state. It is a value: reducers return a new State
// and never modify the slices of the one they receive.
type State struct {
	Banks      []models.Bank      // Sorted by name
	Accesses   []models.Access    // In creation order
	Accounts   []models.Account   // Sorted by title
	Operations []models.Operation // Sorted by date, then display label
	Alerts     []models.Alert

	CurrentAccessID  string
	CurrentAccountID string

	ProcessingReason Reason
	Constants        Constants
}

// InitialState builds the sorted state from the persisted data and selects
// the default account, or the first account of the first access.
func InitialState(world models.World, settings Settings) State {
	locale := settings.Locale

	accounts := make([]models.Account, 0, len(world.Accounts))
	for _, a := range world.Accounts {
		accounts = append(accounts, a.WithDefaultCurrency(settings.DefaultCurrency))
	}

	state := State{
		Banks:      SortBanks(models.Banks(), locale),
		Accesses:   slices.Clone(world.Accesses),
		Accounts:   SortAccounts(accounts, locale),
		Operations: SortOperations(world.Operations, locale),
		Alerts:     slices.Clone(world.Alerts),
		Constants:  settings.Constants,
	}

out:
	for _, access := range state.Accesses {
		for _, account := range AccountsByAccessID(state, access.ID) {
			if account.ID == settings.DefaultAccountID {
				state.CurrentAccessID = access.ID
				state.CurrentAccountID = account.ID
				break out
			}

			if state.CurrentAccountID == "" {
				state.CurrentAccessID = access.ID
				state.CurrentAccountID = account.ID
			}
		}
	}

	return state
}

package fetch

import (
	"context"

	"github.com/kresus/backend/pkg/models"
)

// Mux dispatches to a source per bank, with a fallback for all other banks.
type Mux struct {
	Banks    map[string]Source
	Fallback Source
}

func (m Mux) source(bank string) Source {
	if s, ok := m.Banks[bank]; ok {
		return s
	}
	return m.Fallback
}

// FetchAccounts implements Source.
func (m Mux) FetchAccounts(ctx context.Context, access models.Access) ([]RawAccount, error) {
	return m.source(access.Bank).FetchAccounts(ctx, access)
}

// FetchOperations implements Source.
func (m Mux) FetchOperations(ctx context.Context, access models.Access) ([]RawOperation, error) {
	return m.source(access.Bank).FetchOperations(ctx, access)
}

// Package fetch retrieves raw accounts and operations from a bank through
// an external fetch source.
package fetch

import (
	"context"
	"time"

	"github.com/kresus/backend/pkg/models"
	"github.com/shopspring/decimal"
)

// Source fetches raw data for an access.
//
// Errors returned by a Source carry an errcodes.Code whenever the
// failure could be classified.
type Source interface {
	FetchAccounts(ctx context.Context, access models.Access) ([]RawAccount, error)
	FetchOperations(ctx context.Context, access models.Access) ([]RawOperation, error)
}

// RawAccount is an account as returned by a fetch source.
type RawAccount struct {
	AccountNumber string          `json:"accountNumber"`
	Label         string          `json:"label"`
	Balance       decimal.Decimal `json:"balance"`
	Iban          string          `json:"iban,omitempty"`
	Currency      string          `json:"currency,omitempty"`
}

// RawOperation is an operation as returned by a fetch source.
type RawOperation struct {
	Account string          `json:"account"` // Account number
	Amount  decimal.Decimal `json:"amount"`
	Raw     string          `json:"raw"`
	Title   string          `json:"title"`
	Date    time.Time       `json:"date"`
	Type    string          `json:"type"`
	Binary  *string         `json:"binary,omitempty"`
}

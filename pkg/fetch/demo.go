package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/pkg/models"
	"github.com/shopspring/decimal"
)

// Logins that make the demo source fail with the matching error.
const (
	DemoLoginExpired    = "expired"
	DemoLoginWrong      = "wrong"
	DemoLoginNoAccounts = "noaccounts"
)

// Demo is a deterministic source for the demo bank.
//
// Every access gets the same two accounts, with account numbers derived from
// the login. Operations are dated relative to Reference so that repeated
// fetches return identical data.
type Demo struct {
	Reference time.Time

	// Extra operations returned in addition to the fixed ones, keyed by login.
	Extra map[string][]RawOperation
}

// NewDemo creates a demo source with a fixed reference date.
func NewDemo() *Demo {
	return &Demo{
		Reference: time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
		Extra:     map[string][]RawOperation{},
	}
}

func demoError(login string) error {
	switch login {
	case DemoLoginExpired:
		return errcodes.New(errcodes.ExpiredPassword, "demo password expired")
	case DemoLoginWrong:
		return errcodes.New(errcodes.InvalidPassword, "demo password wrong")
	}
	return nil
}

// DemoAccountNumber is the account number of the n-th demo account of a login.
func DemoAccountNumber(login string, n int) string {
	return fmt.Sprintf("DEMO-%s-%d", login, n)
}

// FetchAccounts implements Source.
func (d *Demo) FetchAccounts(_ context.Context, access models.Access) ([]RawAccount, error) {
	if err := demoError(access.Login); err != nil {
		return nil, err
	}

	if access.Login == DemoLoginNoAccounts {
		return []RawAccount{}, nil
	}

	return []RawAccount{
		{
			AccountNumber: DemoAccountNumber(access.Login, 1),
			Label:         "Checking account",
			Balance:       decimal.RequireFromString("1250.34"),
			Currency:      "EUR",
		},
		{
			AccountNumber: DemoAccountNumber(access.Login, 2),
			Label:         "Savings account",
			Balance:       decimal.RequireFromString("5000"),
			Currency:      "EUR",
		},
	}, nil
}

// FetchOperations implements Source.
func (d *Demo) FetchOperations(_ context.Context, access models.Access) ([]RawOperation, error) {
	if err := demoError(access.Login); err != nil {
		return nil, err
	}

	if access.Login == DemoLoginNoAccounts {
		return []RawOperation{}, nil
	}

	checking := DemoAccountNumber(access.Login, 1)
	savings := DemoAccountNumber(access.Login, 2)
	day := func(n int) time.Time {
		return d.Reference.AddDate(0, 0, -n)
	}

	ops := []RawOperation{
		{Account: checking, Amount: decimal.RequireFromString("-4.20"), Raw: "CB BOULANGERIE", Title: "Bakery", Date: day(1), Type: "type.card"},
		{Account: checking, Amount: decimal.RequireFromString("-52.10"), Raw: "CB SUPERMARCHE", Title: "Supermarket", Date: day(2), Type: "type.card"},
		{Account: checking, Amount: decimal.RequireFromString("2100"), Raw: "VIR SALAIRE", Title: "Salary", Date: day(5), Type: "type.transfer"},
		{Account: checking, Amount: decimal.RequireFromString("-800"), Raw: "PRLV LOYER", Title: "Rent", Date: day(6), Type: "type.order"},
		{Account: savings, Amount: decimal.RequireFromString("200"), Raw: "VIR EPARGNE", Title: "Savings", Date: day(5), Type: "type.transfer"},
	}

	return append(ops, d.Extra[access.Login]...), nil
}

package httputil

import (
	"fmt"
	"time"

	"github.com/kresus/backend/pkg/httperrors"
	"github.com/kresus/backend/pkg/search"
	"github.com/shopspring/decimal"
)

// OperationQuery is the query string of the operation list.
type OperationQuery struct {
	AccountID  string `form:"account"`
	Search     string `form:"search"`
	CategoryID string `form:"category"`
	Type       string `form:"type"`
	AmountLow  string `form:"amountLow"`
	AmountHigh string `form:"amountHigh"`
	DateLow    string `form:"dateLow"`  // YYYY-MM-DD or RFC3339
	DateHigh   string `form:"dateHigh"` // YYYY-MM-DD or RFC3339
}

func parseAmount(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid amount", httperrors.ErrInvalidQuery, name)
	}
	return &d, nil
}

func parseDate(name, s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		t = t.In(time.UTC)
		return &t, nil
	}

	t, err = time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD or RFC3339", httperrors.ErrInvalidQuery, name)
	}

	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// Fields converts the query to search criteria.
func (q OperationQuery) Fields() (f search.Fields, err error) {
	f = search.Fields{
		Keywords:   search.ParseKeywords(q.Search),
		CategoryID: q.CategoryID,
		Type:       q.Type,
	}

	if f.AmountLow, err = parseAmount("amountLow", q.AmountLow); err != nil {
		return search.Fields{}, err
	}

	if f.AmountHigh, err = parseAmount("amountHigh", q.AmountHigh); err != nil {
		return search.Fields{}, err
	}

	if f.DateLow, err = parseDate("dateLow", q.DateLow, false); err != nil {
		return search.Fields{}, err
	}

	if f.DateHigh, err = parseDate("dateHigh", q.DateHigh, true); err != nil {
		return search.Fields{}, err
	}

	return f, nil
}

// Package search filters operations.
package search

import (
	"strings"
	"time"

	"github.com/kresus/backend/pkg/models"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
)

// Fields are the search criteria. Zero values match everything.
type Fields struct {
	Keywords   []string         // All must match, lower case
	CategoryID string           // Exact category, NoneCategoryID for uncategorized operations
	Type       string           // Exact operation type
	AmountLow  *decimal.Decimal // Inclusive
	AmountHigh *decimal.Decimal // Inclusive
	DateLow    *time.Time       // Inclusive
	DateHigh   *time.Time       // Inclusive
}

// ParseKeywords splits a search string into lower case keywords.
func ParseKeywords(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func matchKeyword(keyword string, o models.Operation) bool {
	candidates := []string{o.Title, o.Raw}
	if o.CustomLabel != nil {
		candidates = append(candidates, *o.CustomLabel)
	}

	for _, c := range candidates {
		c = strings.ToLower(c)

		if strings.Contains(keyword, glob.GLOB) {
			if glob.Glob(keyword, c) {
				return true
			}
			continue
		}

		if strings.Contains(c, keyword) {
			return true
		}
	}
	return false
}

// Match reports whether the operation matches all criteria.
func (f Fields) Match(o models.Operation) bool {
	for _, k := range f.Keywords {
		if !matchKeyword(k, o) {
			return false
		}
	}

	if f.CategoryID != "" && o.CategoryID != f.CategoryID {
		return false
	}

	if f.Type != "" && o.Type != f.Type {
		return false
	}

	if f.AmountLow != nil && o.Amount.LessThan(*f.AmountLow) {
		return false
	}

	if f.AmountHigh != nil && o.Amount.GreaterThan(*f.AmountHigh) {
		return false
	}

	if f.DateLow != nil && o.Date.Before(*f.DateLow) {
		return false
	}

	if f.DateHigh != nil && o.Date.After(*f.DateHigh) {
		return false
	}

	return true
}

// Filter returns the matching operations in their original order.
func Filter(operations []models.Operation, f Fields) []models.Operation {
	matching := []models.Operation{}
	for _, o := range operations {
		if f.Match(o) {
			matching = append(matching, o)
		}
	}
	return matching
}

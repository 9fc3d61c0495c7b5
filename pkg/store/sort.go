package store

import (
	"github.com/kresus/backend/pkg/models"
	"golang.org/x/exp/slices"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a collator for the locale. Collators are not safe
// for concurrent use, so every sort gets its own.
func newCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return collate.New(tag)
}

// SortOperations returns the operations sorted by date, most recent first.
// Operations on the same date are sorted by display label.
func SortOperations(operations []models.Operation, locale string) []models.Operation {
	c := newCollator(locale)
	sorted := slices.Clone(operations)

	slices.SortStableFunc(sorted, func(a, b models.Operation) int {
		if !a.Date.Equal(b.Date) {
			if a.Date.After(b.Date) {
				return -1
			}
			return 1
		}

		if cmp := c.CompareString(a.DisplayLabel(), b.DisplayLabel()); cmp != 0 {
			return cmp
		}

		// Fully identical operations keep a stable order across resorts
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	return sorted
}

// SortAccounts returns the accounts sorted by title.
func SortAccounts(accounts []models.Account, locale string) []models.Account {
	c := newCollator(locale)
	sorted := slices.Clone(accounts)

	slices.SortStableFunc(sorted, func(a, b models.Account) int {
		return c.CompareString(a.Title, b.Title)
	})

	return sorted
}

// SortBanks returns the banks sorted by name, with the options of their
// select fields sorted by label.
func SortBanks(banks []models.Bank, locale string) []models.Bank {
	c := newCollator(locale)
	sorted := slices.Clone(banks)

	for i, b := range sorted {
		fields := slices.Clone(b.CustomFields)
		for j, f := range fields {
			values := slices.Clone(f.Values)
			slices.SortStableFunc(values, func(x, y models.SelectOption) int {
				return c.CompareString(x.Label, y.Label)
			})
			fields[j].Values = values
		}
		sorted[i].CustomFields = fields
	}

	slices.SortStableFunc(sorted, func(a, b models.Bank) int {
		return c.CompareString(a.Name, b.Name)
	})

	return sorted
}

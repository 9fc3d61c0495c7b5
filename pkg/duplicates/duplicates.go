// Package duplicates finds operations that probably are the same bank
// transaction. Pairs are proposals, nothing is ever merged here.
package duplicates

import (
	"time"

	"github.com/kresus/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// DefaultThreshold is the maximum date difference between duplicates.
const DefaultThreshold = 24 * time.Hour

// Options tune the detection.
type Options struct {
	Threshold time.Duration // Zero means DefaultThreshold

	// IgnoreDifferentTypes makes operations of different known types
	// candidates too.
	IgnoreDifferentTypes bool
}

// Pair is a merge proposal.
type Pair struct {
	ToKeep   models.Operation `json:"toKeep"`
	ToRemove models.Operation `json:"toRemove"`
}

// NewPair builds a pair that keeps the most recently imported operation.
// On equal import dates, a is kept.
func NewPair(a, b models.Operation) Pair {
	if b.DateImport.After(a.DateImport) {
		return Pair{ToKeep: b, ToRemove: a}
	}
	return Pair{ToKeep: a, ToRemove: b}
}

// Switch returns the pair with the operations swapped.
func (p Pair) Switch() Pair {
	return Pair{ToKeep: p.ToRemove, ToRemove: p.ToKeep}
}

func compatibleTypes(a, b string) bool {
	return a == b || a == models.UnknownOperationType || b == models.UnknownOperationType
}

// FindPairs returns the duplicate candidates among the operations: same
// account, same amount, dates within the threshold and compatible types.
func FindPairs(operations []models.Operation, options Options) []Pair {
	threshold := options.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	sorted := slices.Clone(operations)
	slices.SortStableFunc(sorted, func(a, b models.Operation) int {
		return a.Date.Compare(b.Date)
	})

	pairs := []Pair{}
	for i, a := range sorted {
		for _, b := range sorted[i+1:] {
			// Sorted by date, no later operation can match
			if b.Date.Sub(a.Date) > threshold {
				break
			}

			if a.BankAccount != b.BankAccount || !a.Amount.Equal(b.Amount) {
				continue
			}

			if !options.IgnoreDifferentTypes && !compatibleTypes(a.Type, b.Type) {
				continue
			}

			pairs = append(pairs, NewPair(a, b))
		}
	}

	return pairs
}

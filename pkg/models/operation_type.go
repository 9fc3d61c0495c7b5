package models

import "golang.org/x/exp/slices"

// UnknownOperationType is the type of operations the bank did not qualify.
const UnknownOperationType = "type.unknown"

// OperationTypes is the catalog of known operation types.
var OperationTypes = []string{
	"type.transfer",
	"type.order",
	"type.check",
	"type.deposit",
	"type.payback",
	"type.withdrawal",
	"type.card",
	"type.loan_payment",
	"type.bankfee",
	"type.cash_deposit",
	"type.card_summary",
	"type.deferred_card",
	UnknownOperationType,
}

// ValidOperationType reports whether the type is part of the catalog.
func ValidOperationType(t string) bool {
	return slices.Contains(OperationTypes, t)
}

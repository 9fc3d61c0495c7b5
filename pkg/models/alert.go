package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AlertType is the kind of notification rule.
type AlertType string

const (
	AlertBalance     AlertType = "balance"
	AlertTransaction AlertType = "transaction"
	AlertReport      AlertType = "report"
)

// Valid reports whether the alert type is known.
func (t AlertType) Valid() bool {
	switch t {
	case AlertBalance, AlertTransaction, AlertReport:
		return true
	}
	return false
}

// Alert is a user-configured notification rule tied to an account.
type Alert struct {
	DefaultModel
	AlertCreate
	LastTriggeredDate *time.Time `json:"lastTriggeredDate"`
}

// AlertCreate holds the fields that can be set when creating an alert.
type AlertCreate struct {
	BankAccount string          `json:"bankAccount" gorm:"index" example:"FR7630001007941234567890185"` // Account number, not account ID
	Type        AlertType       `json:"type" example:"balance"`
	Frequency   string          `json:"frequency" example:"weekly"` // Only used for reports
	Limit       decimal.Decimal `json:"limit" gorm:"type:DECIMAL(20,8)" example:"100"`
	Order       string          `json:"order" example:"lt"` // "lt" or "gt", compared against Limit
}

// AlertUpdate carries the attributes of a partial alert update.
// Nil fields are left untouched.
type AlertUpdate struct {
	Frequency *string          `json:"frequency"`
	Limit     *decimal.Decimal `json:"limit"`
	Order     *string          `json:"order"`
}

// Apply returns the alert with the update applied.
func (u AlertUpdate) Apply(a Alert) Alert {
	if u.Frequency != nil {
		a.Frequency = *u.Frequency
	}
	if u.Limit != nil {
		a.Limit = *u.Limit
	}
	if u.Order != nil {
		a.Order = *u.Order
	}
	return a
}

// Validate checks the alert type and account reference.
func (a Alert) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("unknown alert type: %s", a.Type)
	}

	if a.BankAccount == "" {
		return fmt.Errorf("alert of type %s must reference a bank account", a.Type)
	}

	return nil
}

// BeforeSave validates the alert.
func (a *Alert) BeforeSave(_ *gorm.DB) (err error) {
	return a.Validate()
}

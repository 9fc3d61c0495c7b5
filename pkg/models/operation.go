package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NoneCategoryID is the category of operations that have not been categorized.
const NoneCategoryID = "-1"

var (
	ErrOperationNoAccount = errors.New("operation must reference a bank account number")
	ErrOperationNoDate    = errors.New("operation must have a date")
)

// Operation is a single bank transaction.
type Operation struct {
	DefaultModel
	OperationCreate
	DateImport time.Time `json:"dateImport" example:"2023-01-04T08:12:00Z"` // When the operation was first observed
	ImportHash string    `json:"-" gorm:"index"`                            // SHA256 of the raw values, used to skip already known operations on sync
}

// OperationCreate holds the fields that can be set when creating an operation.
type OperationCreate struct {
	BankAccount string          `json:"bankAccount" gorm:"index" example:"FR7630001007941234567890185"` // Account number of the owning account, not its ID
	Title       string          `json:"title" example:"Bakery"`
	Raw         string          `json:"raw" example:"CB BOULANGERIE 03/01"` // Unprocessed label from the bank
	CustomLabel *string         `json:"customLabel" example:"Croissants"`   // User override for the title
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"-4.20"`
	Date        time.Time       `json:"date" example:"2023-01-03T00:00:00Z"`
	CategoryID  string          `json:"categoryId" example:"-1"`
	Type        string          `json:"type" example:"type.card"`
	Binary      *string         `json:"binary"` // Reference to an attached document
}

// DisplayLabel is the custom label if it is set and not blank, the title otherwise.
func (o Operation) DisplayLabel() string {
	if o.CustomLabel != nil && strings.TrimSpace(*o.CustomLabel) != "" {
		return *o.CustomLabel
	}
	return o.Title
}

// Normalize sets default values and UTC dates.
func (o *Operation) Normalize() {
	o.BankAccount = strings.TrimSpace(o.BankAccount)
	o.Title = strings.TrimSpace(o.Title)
	o.Raw = strings.TrimSpace(o.Raw)
	o.CategoryID = CategoryFromServer(o.CategoryID)

	if o.Type == "" {
		o.Type = UnknownOperationType
	}

	o.Date = o.Date.In(time.UTC)
	if o.DateImport.IsZero() {
		o.DateImport = time.Now().In(time.UTC)
	} else {
		o.DateImport = o.DateImport.In(time.UTC)
	}
}

// Validate checks the shape of an operation at ingestion.
func (o Operation) Validate() error {
	if o.BankAccount == "" {
		return ErrOperationNoAccount
	}

	if o.Date.IsZero() {
		return ErrOperationNoDate
	}

	return nil
}

// BeforeSave normalizes the operation and translates the none category
// to its storage representation.
func (o *Operation) BeforeSave(_ *gorm.DB) (err error) {
	o.Normalize()
	o.CategoryID = CategoryToServer(o.CategoryID)
	return nil
}

// AfterSave restores the in-memory category sentinel.
func (o *Operation) AfterSave(_ *gorm.DB) (err error) {
	o.CategoryID = CategoryFromServer(o.CategoryID)
	return nil
}

// AfterFind enforces UTC and the category sentinel.
func (o *Operation) AfterFind(tx *gorm.DB) (err error) {
	err = o.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	o.Date = o.Date.In(time.UTC)
	o.DateImport = o.DateImport.In(time.UTC)
	o.CategoryID = CategoryFromServer(o.CategoryID)
	if o.Type == "" {
		o.Type = UnknownOperationType
	}
	return nil
}

// CategoryToServer translates the none category sentinel to the empty string
// the server side expects.
func CategoryToServer(id string) string {
	if id == NoneCategoryID {
		return ""
	}
	return id
}

// CategoryFromServer translates the server side empty category to the sentinel.
func CategoryFromServer(id string) string {
	if id == "" {
		return NoneCategoryID
	}
	return id
}

// LabelToServer translates a missing custom label to the empty string.
func LabelToServer(label *string) string {
	if label == nil {
		return ""
	}
	return *label
}

// LabelFromServer translates the empty string to a missing custom label.
func LabelFromServer(label string) *string {
	if label == "" {
		return nil
	}
	return &label
}

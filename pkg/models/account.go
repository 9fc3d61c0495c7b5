package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNoNumber = errors.New("account must have an account number")
	ErrAccountNoAccess = errors.New("account must belong to an access")
)

// Account represents a bank account.
//
// AccountNumber is the stable identifier given by the bank. Operations and
// alerts reference accounts through it, not through the ID.
type Account struct {
	DefaultModel
	AccountNumber string          `json:"accountNumber" gorm:"uniqueIndex:account_access_number" example:"FR7630001007941234567890185"`
	BankAccess    string          `json:"bankAccess" gorm:"uniqueIndex:account_access_number" example:"2b9e8b1c-5d07-4a30-8f1e-0c9b43b2f8a4"` // ID of the owning access
	Bank          string          `json:"bank" example:"fakebank1"`                                                                           // UUID of the bank in the catalog
	Title         string          `json:"title" example:"Checking account"`
	Iban          string          `json:"iban" example:"FR7630001007941234567890185"`
	InitialAmount decimal.Decimal `json:"initialAmount" gorm:"type:DECIMAL(20,8)" example:"1250.34"`
	Currency      string          `json:"currency" example:"EUR"`
	LastChecked   time.Time       `json:"lastChecked" example:"2023-01-04T08:12:00Z"`
}

// BeforeSave trims whitespace and forces UTC.
func (a *Account) BeforeSave(_ *gorm.DB) (err error) {
	a.Title = strings.TrimSpace(a.Title)
	a.AccountNumber = strings.TrimSpace(a.AccountNumber)
	a.LastChecked = a.LastChecked.In(time.UTC)
	return nil
}

// AfterFind enforces UTC for LastChecked.
func (a *Account) AfterFind(tx *gorm.DB) (err error) {
	err = a.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	a.LastChecked = a.LastChecked.In(time.UTC)
	return nil
}

// WithDefaultCurrency returns the account with its currency set to the
// given default if the bank did not provide one.
func (a Account) WithDefaultCurrency(currency string) Account {
	if a.Currency == "" {
		a.Currency = currency
	}
	return a
}

// Validate checks the shape of an account at ingestion.
func (a Account) Validate() error {
	if a.AccountNumber == "" {
		return ErrAccountNoNumber
	}

	if a.BankAccess == "" {
		return ErrAccountNoAccess
	}

	return nil
}

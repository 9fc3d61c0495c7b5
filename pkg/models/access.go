package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrAccessIncomplete = errors.New("an access needs a bank, a login and a password")

// Access is a set of credentials for one bank. It owns one or more accounts.
type Access struct {
	DefaultModel
	Bank         string `json:"bank" example:"fakebank1"` // UUID of the bank in the catalog
	Login        string `json:"login" example:"jdoe"`
	Password     string `json:"-"`
	CustomFields string `json:"customFields" example:"[{\"name\":\"website\",\"value\":\"par\"}]"` // Opaque, forwarded to the fetch source as is
	Name         string `json:"name" gorm:"-" example:"Fake Bank"`
}

// BeforeSave trims the login.
func (a *Access) BeforeSave(_ *gorm.DB) (err error) {
	a.Login = strings.TrimSpace(a.Login)
	return nil
}

// AfterFind resolves the display name from the bank catalog.
func (a *Access) AfterFind(tx *gorm.DB) (err error) {
	err = a.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	a.Name = BankName(a.Bank)
	return nil
}

// Validate checks that all credentials needed for a fetch are present.
func (a Access) Validate() error {
	if a.Bank == "" || a.Login == "" || a.Password == "" {
		return ErrAccessIncomplete
	}
	return nil
}

// AccessUpdate carries the attributes of a credentials update.
// Nil fields are left untouched.
type AccessUpdate struct {
	Login        *string `json:"login"`
	Password     *string `json:"password"`
	CustomFields *string `json:"customFields"`
}

// Apply returns the access with the update applied.
func (u AccessUpdate) Apply(a Access) Access {
	if u.Login != nil {
		a.Login = *u.Login
	}
	if u.Password != nil {
		a.Password = *u.Password
	}
	if u.CustomFields != nil {
		a.CustomFields = *u.CustomFields
	}
	return a
}

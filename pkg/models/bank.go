package models

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

//go:embed data/banks.json
var banksJSON []byte

// SelectOption is one choice of a select custom field.
type SelectOption struct {
	Label string `json:"label" example:"Particuliers"`
	Value string `json:"value" example:"par"`
}

// BankField describes a custom field a bank needs in addition to login and password.
type BankField struct {
	Name    string         `json:"name" example:"website"`
	Type    string         `json:"type" example:"select"`
	Label   string         `json:"label" example:"Website"`
	Default string         `json:"default,omitempty" example:"par"`
	Values  []SelectOption `json:"values,omitempty"`
}

// Bank is an entry of the static catalog of supported institutions.
type Bank struct {
	UUID         string      `json:"uuid" example:"societegenerale"`
	Name         string      `json:"name" example:"Société Générale"`
	Backend      string      `json:"backend" example:"societegenerale"`
	CustomFields []BankField `json:"customFields,omitempty"`
}

var (
	catalog     []Bank
	catalogOnce sync.Once
)

func loadCatalog() {
	if err := json.Unmarshal(banksJSON, &catalog); err != nil {
		log.Fatal().Err(err).Msg("Bank catalog")
	}
}

// Banks returns a copy of the bank catalog that callers may sort freely.
func Banks() []Bank {
	catalogOnce.Do(loadCatalog)

	banks := make([]Bank, len(catalog))
	for i, b := range catalog {
		b.CustomFields = slices.Clone(b.CustomFields)
		for j, f := range b.CustomFields {
			b.CustomFields[j].Values = slices.Clone(f.Values)
		}
		banks[i] = b
	}
	return banks
}

// BankByUUID returns the catalog entry for a bank.
func BankByUUID(uuid string) (Bank, bool) {
	banks := Banks()
	idx := slices.IndexFunc(banks, func(b Bank) bool { return b.UUID == uuid })
	if idx == -1 {
		return Bank{}, false
	}
	return banks[idx], true
}

// BankName is the display name of a bank, "?" for unknown banks.
func BankName(uuid string) string {
	b, ok := BankByUUID(uuid)
	if !ok {
		return "?"
	}
	return b.Name
}

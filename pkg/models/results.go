package models

// SyncResults is what the backend returns after fetching from a bank.
type SyncResults struct {
	AccessID      string      `json:"accessId"`
	Accounts      []Account   `json:"accounts"`      // All accounts of the access, freshly fetched
	NewOperations []Operation `json:"newOperations"` // Only operations that were not known before
}

// World is the complete persisted state, loaded on startup.
type World struct {
	Accesses   []Access    `json:"accesses"`
	Accounts   []Account   `json:"accounts"`
	Operations []Operation `json:"operations"`
	Alerts     []Alert     `json:"alerts"`
	Categories []Category  `json:"categories"`
}

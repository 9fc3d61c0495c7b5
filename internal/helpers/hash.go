// Package helpers contains small functions shared by the backend packages.
package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ImportHash returns the hex encoded SHA256 of the fields joined with "|".
//
// It identifies a fetched operation independently of the id the backend
// gives it.
func ImportHash(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

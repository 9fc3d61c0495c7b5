package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// DatabaseFile returns the DSN of a fresh SQLite database file that is
// removed when the test ends.
func DatabaseFile(t *testing.T) string {
	name := "kresus-" + uuid.New().String() + ".sqlite"
	return filepath.Join(t.TempDir(), name) + "?_pragma=foreign_keys(1)"
}

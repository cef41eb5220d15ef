package localstore

import (
	"fmt"
	"path/filepath"

	"github.com/quotedesk/quotedesk/internal/colors"
	"github.com/quotedesk/quotedesk/internal/config"
)

// DBFileName is the database file inside the state directory.
const DBFileName = "quotedesk.db"

// Path returns the database path for the loaded configuration.
func Path() string {
	return filepath.Join(config.Get("state_dir", "."), DBFileName)
}

// OpenDefault opens the SQLite store in the state directory, falling back
// to an in-memory store when the file cannot be opened.
func OpenDefault() Store {
	s, err := OpenSQLite(Path())
	if err != nil {
		colors.Warning(fmt.Sprintf("failed to open local state, session will not persist: %v", err))
		return NewMemory()
	}
	return s
}

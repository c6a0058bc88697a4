// Package storetest opens throwaway migrated stores for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// NewSQLite returns a migrated store backed by a file in t.TempDir. A file
// is used rather than :memory: so every pooled connection sees one database.
func NewSQLite(t testing.TB) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "shop.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

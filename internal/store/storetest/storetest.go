// Package storetest builds ready-to-use stores for tests in other packages.
package storetest

import (
	"testing"

	"github.com/vovakirdan/socialmedia-server/internal/store"
	"github.com/vovakirdan/socialmedia-server/internal/store/memory"
	"github.com/vovakirdan/socialmedia-server/internal/store/migrations"
	"github.com/vovakirdan/socialmedia-server/internal/store/sqldb"
)

// NewSQLite creates an in-memory SQLite store with the schema applied.
func NewSQLite(t *testing.T) store.Store {
	t.Helper()

	st, err := sqldb.Open(sqldb.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := migrations.Up(st.DB(), st.DriverName()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return st
}

// NewMemory creates an empty map-backed store.
func NewMemory(t *testing.T) store.Store {
	t.Helper()
	return memory.New()
}

// Run executes fn as a subtest against every store implementation.
func Run(t *testing.T, fn func(t *testing.T, st store.Store)) {
	t.Helper()

	for name, open := range map[string]func(*testing.T) store.Store{
		"sqlite": NewSQLite,
		"memory": NewMemory,
	} {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

// Package dbtest opens a migrated in-memory sqlite database per test.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"udhar-ledger/internal/infrastructure/db"
)

var seq atomic.Int64

// Open returns a fresh database with the production schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:udhar_test_%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	gdb, err := db.OpenGormWithDialector(sqlite.Open(dsn), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	if _, err := db.Migrate(context.Background(), gdb, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

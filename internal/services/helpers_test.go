package services

import (
	"testing"
	"time"

	"github.com/isdelr/task-manager-be/internal/database"
	"github.com/isdelr/task-manager-be/internal/storage/sqlstore"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	db, err := database.New(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	s := sqlstore.New(db)
	t.Cleanup(func() { s.Close() })
	return s
}

// fixedClock returns a settable clock starting at start.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func strPtr(s string) *string { return &s }

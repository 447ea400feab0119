package sqlstore

import (
	"errors"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	pg, err := DialectFor(DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "pgx", pg.DriverName())
	assert.Equal(t, goose.DialectPostgres, pg.GooseDialect())

	lite, err := DialectFor(DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", lite.DriverName())
	assert.Equal(t, goose.DialectSQLite3, lite.GooseDialect())
	assert.Empty(t, lite.LockQuery())

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM sessions WHERE user_id = ? AND completed = ?"

	assert.Equal(t,
		"SELECT * FROM sessions WHERE user_id = $1 AND completed = $2",
		postgresDialect{}.Rebind(query))
	assert.Equal(t, query, sqliteDialect{}.Rebind(query))
	assert.Equal(t, "SELECT pg_advisory_xact_lock(hashtext($1))",
		postgresDialect{}.Rebind(postgresDialect{}.LockQuery()))
}

func TestSQLiteClassifyFallsBackToMessage(t *testing.T) {
	d := sqliteDialect{}

	assert.Equal(t, uniqueViolation, d.classify(errors.New("UNIQUE constraint failed: exercises.name")))
	assert.Equal(t, foreignKeyViolation, d.classify(errors.New("FOREIGN KEY constraint failed")))
	assert.Equal(t, checkViolation, d.classify(errors.New("CHECK constraint failed: sort_order >= 0")))
	assert.Equal(t, notNullViolation, d.classify(errors.New("NOT NULL constraint failed: users.id")))
	assert.Equal(t, noViolation, d.classify(errors.New("disk I/O error")))
}

func TestPostgresClassifyIgnoresForeignErrors(t *testing.T) {
	assert.Equal(t, noViolation, postgresDialect{}.classify(errors.New("UNIQUE constraint failed")))
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 30, 15, 123456000, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{"time value", want.In(time.FixedZone("CET", 3600))},
		{"driver text", "2024-03-09 14:30:15.123456+00:00"},
		{"rfc3339", []byte("2024-03-09T14:30:15.123456Z")},
		{"no zone", "2024-03-09 14:30:15.123456"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got time.Time
			require.NoError(t, timestamp{&got}.Scan(tc.src))
			assert.True(t, want.Equal(got), "got %v", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	var got time.Time
	assert.Error(t, timestamp{&got}.Scan("yesterday"))
	assert.Error(t, timestamp{&got}.Scan(3.5))
}

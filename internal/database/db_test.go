package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("vm", "s3cret", "127.0.0.1", "3306", "visitors")
	assert.Equal(t,
		"vm:s3cret@tcp(127.0.0.1:3306)/visitors?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)

	// An empty password drops the colon entirely.
	got = dsn("vm", "", "localhost", "3306", "visitors")
	assert.Equal(t,
		"vm@tcp(localhost:3306)/visitors?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

// RowsAffected must count matched rows, not changed rows. The
// repositories treat zero affected rows as "not found", so without
// clientFoundRows a repeated check-out landing in the same second
// would 404 against a row that exists.
func TestDSNCountsMatchedRows(t *testing.T) {
	assert.Contains(t, dsn("vm", "", "h", "3306", "d"), "clientFoundRows=true")
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection before returning.
// The schema (see schema.sql) relies on primary keys for user_id,
// ref_num and log_id; those unique indexes are what turns concurrent
// duplicate registrations into clean 1062 errors instead of double
// inserts.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// dsn builds the driver connection string.
//
// parseTime=true maps DATETIME to time.Time and loc=UTC keeps times
// consistent. clientFoundRows=true makes RowsAffected count matched
// rows rather than changed rows; without it an update that re-submits
// identical values (a repeated check-out in the same second, say)
// reports zero rows and the repositories would answer "not found" for
// a row that exists.
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)
}

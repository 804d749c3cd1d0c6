package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrWorkoutNotFound is returned when a workout doesn't exist
var ErrWorkoutNotFound = errors.New("workout not found")

// ErrPlanNotFound is returned when a plan doesn't exist
var ErrPlanNotFound = errors.New("plan not found")

// ErrDayNotFound is returned when a plan day doesn't exist
var ErrDayNotFound = errors.New("plan day not found")

// ErrExerciseNotFound is returned when an exercise doesn't exist
var ErrExerciseNotFound = errors.New("exercise not found")

// DBFileName is the name of the SQLite file inside the data directory
const DBFileName = "data.db"

// Store is the application's data access layer over SQLite
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database in dataDir, creating it if necessary.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return openDSN(filepath.Join(dataDir, DBFileName))
}

// OpenInMemory opens a private in-memory database with migrations applied.
// Intended for tests.
func OpenInMemory() (*Store, error) {
	return openDSN(":memory:")
}

func openDSN(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each pooled connection to ":memory:" would be a separate database
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Run migrations
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

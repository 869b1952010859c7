package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pagewatcher/internal/models"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteSnapshotStore persists one snapshot per target in a SQLite database.
// Put is an atomic UPSERT inside a single statement, so readers never observe
// a half-written row; SQLite serializes writers, and the scheduler guarantees
// at most one in-flight evaluation per target on top of that.
type SQLiteSnapshotStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteSnapshotStore opens (creating if needed) the snapshot database and
// ensures the schema is in place.
func NewSQLiteSnapshotStore(dataSourceName string, logger zerolog.Logger) (*SQLiteSnapshotStore, error) {
	storeLogger := logger.With().Str("component", "SnapshotStore").Logger()
	storeLogger.Info().Str("db_path", dataSourceName).Msg("Initializing snapshot database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		storeLogger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create snapshot database directory")
		return nil, fmt.Errorf("failed to create snapshot database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		storeLogger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open snapshot database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	store := &SQLiteSnapshotStore{
		db:     dbInstance,
		logger: storeLogger,
	}

	if err := store.initSchema(); err != nil {
		_ = store.Close()
		storeLogger.Error().Err(err).Msg("Failed to initialize snapshot schema")
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	storeLogger.Info().Str("path", dataSourceName).Msg("Snapshot database initialized and schema verified")
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteSnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSnapshotStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		target_id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		captured_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	if err != nil {
		return err
	}
	return nil
}

// Get retrieves the current snapshot for a target.
// Returns models.ErrSnapshotNotFound when no baseline exists yet.
func (s *SQLiteSnapshotStore) Get(targetID string) (*models.Snapshot, error) {
	query := `SELECT target_id, fingerprint, content, captured_at FROM snapshots WHERE target_id = ?`

	var snapshot models.Snapshot
	var capturedAt time.Time
	err := s.db.QueryRow(query, targetID).Scan(&snapshot.TargetID, &snapshot.Fingerprint, &snapshot.Content, &capturedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrSnapshotNotFound
		}
		s.logger.Error().Err(err).Str("target_id", targetID).Msg("Failed to query snapshot")
		return nil, fmt.Errorf("failed to query snapshot for %q: %w", targetID, err)
	}
	snapshot.CapturedAt = capturedAt

	return &snapshot, nil
}

// Put atomically replaces the snapshot for snapshot.TargetID.
func (s *SQLiteSnapshotStore) Put(snapshot models.Snapshot) error {
	query := `
	INSERT INTO snapshots (target_id, fingerprint, content, captured_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(target_id) DO UPDATE SET
		fingerprint = excluded.fingerprint,
		content = excluded.content,
		captured_at = excluded.captured_at
	`
	_, err := s.db.Exec(query, snapshot.TargetID, snapshot.Fingerprint, snapshot.Content, snapshot.CapturedAt)
	if err != nil {
		s.logger.Error().Err(err).Str("target_id", snapshot.TargetID).Msg("Failed to store snapshot")
		return fmt.Errorf("failed to store snapshot for %q: %w", snapshot.TargetID, err)
	}

	s.logger.Debug().
		Str("target_id", snapshot.TargetID).
		Str("fingerprint", snapshot.Fingerprint).
		Msg("Snapshot stored")
	return nil
}

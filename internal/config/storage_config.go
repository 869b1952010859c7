package config

// StorageConfig defines configuration for snapshot persistence and the
// change-history archive.
type StorageConfig struct {
	SQLiteDBPath       string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required"`
	HistoryArchivePath string `json:"history_archive_path,omitempty" yaml:"history_archive_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLiteDBPath:       "data/snapshots.db",
		HistoryArchivePath: "data/history",
	}
}

package datastore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"pagewatcher/internal/models"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

const historyFileName = "changes.parquet"

// HistoryArchive keeps an append-only record of every detected change in a
// Parquet file under the archive directory. The archive is informational
// only; the pipeline never reads it to make decisions.
type HistoryArchive struct {
	basePath string
	logger   zerolog.Logger
	mu       sync.Mutex
}

// NewHistoryArchive creates the archive directory if needed and returns the
// archive. An empty basePath disables archiving.
func NewHistoryArchive(basePath string, logger zerolog.Logger) (*HistoryArchive, error) {
	archiveLogger := logger.With().Str("component", "HistoryArchive").Logger()

	if basePath != "" {
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history archive directory %s: %w", basePath, err)
		}
	}

	return &HistoryArchive{
		basePath: basePath,
		logger:   archiveLogger,
	}, nil
}

// Append adds one change record to the archive. The Parquet format has no
// cheap in-place append, so the file is read back and rewritten with the new
// record included, mirroring how small history files are maintained.
func (ha *HistoryArchive) Append(record models.ChangeRecord) error {
	if ha.basePath == "" {
		return nil
	}

	ha.mu.Lock()
	defer ha.mu.Unlock()

	filePath := filepath.Join(ha.basePath, historyFileName)

	existing, err := ha.readAll(filePath)
	if err != nil {
		return err
	}
	existing = append(existing, record)

	if err := ha.writeAll(filePath, existing); err != nil {
		return err
	}

	ha.logger.Debug().
		Str("target_id", record.TargetID).
		Int("total_records", len(existing)).
		Msg("Change record archived")
	return nil
}

// ReadAll returns every archived change record in insertion order. A disabled
// or not-yet-written archive yields an empty slice.
func (ha *HistoryArchive) ReadAll() ([]models.ChangeRecord, error) {
	if ha.basePath == "" {
		return []models.ChangeRecord{}, nil
	}

	ha.mu.Lock()
	defer ha.mu.Unlock()
	return ha.readAll(filepath.Join(ha.basePath, historyFileName))
}

// readAll reads every record from the archive file. A missing or empty file
// yields an empty slice.
func (ha *HistoryArchive) readAll(filePath string) ([]models.ChangeRecord, error) {
	osFile, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ChangeRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open history file '%s': %w", filePath, err)
	}
	defer osFile.Close()

	stat, err := osFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat history file '%s': %w", filePath, err)
	}
	if stat.Size() == 0 {
		return []models.ChangeRecord{}, nil
	}

	reader := parquet.NewGenericReader[models.ChangeRecord](osFile)
	defer reader.Close()

	var records []models.ChangeRecord
	buf := make([]models.ChangeRecord, 64)
	for {
		n, err := reader.Read(buf)
		records = append(records, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history file '%s': %w", filePath, err)
		}
	}

	return records, nil
}

// writeAll rewrites the archive file with the given records, zstd compressed.
func (ha *HistoryArchive) writeAll(filePath string, records []models.ChangeRecord) error {
	tmpPath := filePath + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create history file '%s': %w", tmpPath, err)
	}

	writer := parquet.NewGenericWriter[models.ChangeRecord](file, parquet.Compression(&parquet.Zstd))
	if _, err := writer.Write(records); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write history records: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}

	// Rename over the old file so readers never see a partial archive.
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"codespark/internal/models"
)

// BackupVersion is the format version written by Export
const BackupVersion = "1.0"

// BackupData represents the complete progress backup structure
type BackupData struct {
	Version      string                    `json:"version"`
	ExportedAt   time.Time                 `json:"exportedAt"`
	DatabaseType string                    `json:"databaseType"`
	Snapshots    []models.ProgressSnapshot `json:"snapshots"`
}

// SnapshotStore is the storage a backup reads from and restores into
type SnapshotStore interface {
	ListSnapshots(ctx context.Context) ([]models.ProgressSnapshot, error)
	ImportSnapshots(ctx context.Context, snapshots []models.ProgressSnapshot, clear bool) error
}

// BackupService handles progress backup and restore operations
type BackupService struct {
	store        SnapshotStore
	databaseType string
	now          func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(store SnapshotStore, databaseType string) *BackupService {
	return &BackupService{store: store, databaseType: databaseType, now: time.Now}
}

// Export writes a complete backup of stored progress to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) (int, error) {
	log.Println("Starting progress export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	count, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return 0, err
	}

	log.Printf("Exported %d sessions to %s", count, outputPath)
	return count, nil
}

// ExportToWriter writes a complete backup of stored progress to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (int, error) {
	snapshots, err := s.store.ListSnapshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to export snapshots: %w", err)
	}

	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   s.now().UTC(),
		DatabaseType: s.databaseType,
		Snapshots:    snapshots,
	}
	if backup.Snapshots == nil {
		backup.Snapshots = []models.ProgressSnapshot{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}

	return len(snapshots), nil
}

// Import restores progress from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) (int, error) {
	log.Printf("Starting progress import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file, clear)
}

// ImportFromReader restores progress from a backup reader
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader, clear bool) (int, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return 0, fmt.Errorf("failed to decode backup: %w", err)
	}

	if backup.Version != BackupVersion {
		return 0, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s from %s", backup.Version, backup.ExportedAt, backup.DatabaseType)

	for i, snap := range backup.Snapshots {
		if snap.SessionID == "" {
			return 0, fmt.Errorf("snapshot %d has no session id", i)
		}
	}

	if err := s.store.ImportSnapshots(ctx, backup.Snapshots, clear); err != nil {
		return 0, fmt.Errorf("failed to import snapshots: %w", err)
	}

	log.Printf("Imported %d sessions", len(backup.Snapshots))
	return len(backup.Snapshots), nil
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codespark/internal/models"
	"codespark/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotStore struct {
	snapshots []models.ProgressSnapshot
	cleared   bool
}

func (s *fakeSnapshotStore) ListSnapshots(ctx context.Context) ([]models.ProgressSnapshot, error) {
	return s.snapshots, nil
}

func (s *fakeSnapshotStore) ImportSnapshots(ctx context.Context, snapshots []models.ProgressSnapshot, clear bool) error {
	if clear {
		s.snapshots = nil
		s.cleared = true
	}
	s.snapshots = append(s.snapshots, snapshots...)
	return nil
}

func fakeOpener(store *fakeSnapshotStore) opener {
	return func(ctx context.Context) (*service.BackupService, func(), error) {
		return service.NewBackupService(store, "sqlite"), func() {}, nil
	}
}

func snapshot(id string) models.ProgressSnapshot {
	now := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	return models.ProgressSnapshot{SessionID: id, Handle: "calm-otter", Lives: 3, CreatedAt: now, UpdatedAt: now}
}

func run(t *testing.T, open opener, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestExportThenImport(t *testing.T) {
	source := &fakeSnapshotStore{snapshots: []models.ProgressSnapshot{snapshot("s1"), snapshot("s2")}}
	file := filepath.Join(t.TempDir(), "nested", "progress.json")

	out, err := run(t, fakeOpener(source), "", "export", "--output", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 sessions")

	target := &fakeSnapshotStore{}
	out, err = run(t, fakeOpener(target), "", "import", "--input", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 sessions")
	assert.Equal(t, source.snapshots, target.snapshots)
	assert.False(t, target.cleared)
}

func TestImportClearNeedsConfirmation(t *testing.T) {
	source := &fakeSnapshotStore{snapshots: []models.ProgressSnapshot{snapshot("s1")}}
	file := filepath.Join(t.TempDir(), "progress.json")
	_, err := run(t, fakeOpener(source), "", "export", "-o", file)
	require.NoError(t, err)

	tests := []struct {
		name        string
		stdin       string
		args        []string
		wantCleared bool
	}{
		{"declined", "no\n", []string{"import", "-i", file, "--clear"}, false},
		{"confirmed", "yes\n", []string{"import", "-i", file, "--clear"}, true},
		{"skipped with --yes", "", []string{"import", "-i", file, "--clear", "--yes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeSnapshotStore{snapshots: []models.ProgressSnapshot{snapshot("old")}}
			_, err := run(t, fakeOpener(target), tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCleared, target.cleared)
		})
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	badVersion := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(badVersion, []byte(`{"version":"0.1","snapshots":[]}`), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"missing input flag", []string{"import"}},
		{"missing file", []string{"import", "--input", filepath.Join(dir, "nope.json")}},
		{"unsupported version", []string{"import", "--input", badVersion}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, fakeOpener(&fakeSnapshotStore{}), "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestOpenBackupServiceRejectsMemoryStore(t *testing.T) {
	t.Setenv("DB_TYPE", "memory")

	_, _, err := openBackupService(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_TYPE=memory")
}

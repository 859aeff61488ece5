package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codespark/internal/catalog"
	"codespark/internal/models"
	"codespark/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySnapshots struct {
	snapshots []models.ProgressSnapshot
	cleared   bool
}

func (m *memorySnapshots) ListSnapshots(ctx context.Context) ([]models.ProgressSnapshot, error) {
	return m.snapshots, nil
}

func (m *memorySnapshots) ImportSnapshots(ctx context.Context, snapshots []models.ProgressSnapshot, clear bool) error {
	if clear {
		m.snapshots = nil
		m.cleared = true
	}
	m.snapshots = append(m.snapshots, snapshots...)
	return nil
}

func sampleSnapshot(t *testing.T, sessionID string) models.ProgressSnapshot {
	t.Helper()
	s := progress.New("brave-otter", testNow)
	_, err := s.CompleteLesson(catalog.Default(), catalog.LessonHello, models.LessonStats{}, testNow)
	require.NoError(t, err)
	s.RecordResult(catalog.ChallengeAutomation, "x = 1", models.SimulationResult{ChallengeID: catalog.ChallengeAutomation, Time: 75}, testNow)
	return s.Snapshot(sessionID)
}

func TestBackupExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := &memorySnapshots{snapshots: []models.ProgressSnapshot{sampleSnapshot(t, "s1"), sampleSnapshot(t, "s2")}}

	exporter := NewBackupService(source, "sqlite")
	exporter.now = func() time.Time { return testNow }

	var buf bytes.Buffer
	count, err := exporter.ExportToWriter(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "1.0", raw["version"])
	assert.Equal(t, "sqlite", raw["databaseType"])

	target := &memorySnapshots{snapshots: []models.ProgressSnapshot{{SessionID: "old"}}}
	imported, err := NewBackupService(target, "postgres").ImportFromReader(ctx, &buf, true)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.True(t, target.cleared)
	assert.Equal(t, source.snapshots, target.snapshots)
}

func TestBackupExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	count, err := NewBackupService(&memorySnapshots{}, "sqlite").ExportToWriter(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), `"snapshots": []`)
}

func TestBackupImportRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"wrong version", `{"version":"9.9","snapshots":[]}`},
		{"missing session id", `{"version":"1.0","snapshots":[{"handle":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &memorySnapshots{}
			_, err := NewBackupService(target, "sqlite").ImportFromReader(context.Background(), strings.NewReader(tt.input), false)
			assert.Error(t, err)
			assert.Empty(t, target.snapshots)
		})
	}
}

func TestBackupFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.json")
	source := &memorySnapshots{snapshots: []models.ProgressSnapshot{sampleSnapshot(t, "s1")}}

	count, err := NewBackupService(source, "sqlite").Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	target := &memorySnapshots{}
	count, err = NewBackupService(target, "sqlite").Import(ctx, path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "s1", target.snapshots[0].SessionID)
}

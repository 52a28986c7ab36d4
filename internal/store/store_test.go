package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	st := New(
		filepath.Join(dir, "tickets.json"),
		filepath.Join(dir, "archive_tickets.json"),
		filepath.Join(dir, "backups"),
		zap.NewNop(),
	)
	return st, dir
}

func TestLoadMissingFileCreatesEmptySnapshot(t *testing.T) {
	st, dir := newTestStore(t)

	entries := st.Load()
	assert.Empty(t, entries)

	raw, err := os.ReadFile(filepath.Join(dir, "tickets.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)

	ticket := domain.NewTicket("Station", "<@&1>", "Husten", "Jane", "0152", "")
	ticket.ScheduleAppointment("31.05.2025", "18:00")
	require.NoError(t, st.Save([]Entry{{ID: "chan-1", Data: *ticket}}))

	entries := st.Load()
	require.Len(t, entries, 1)
	assert.Equal(t, "chan-1", entries[0].ID)
	assert.Equal(t, "Jane", entries[0].Data.Subject)
	require.NotNil(t, entries[0].Data.AppointmentDate)
	assert.Equal(t, "31.05.2025", *entries[0].Data.AppointmentDate)
}

func TestLoadCorruptedFileBacksUpAndResets(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", "{nope"},
		{"not an array", `{"id": "x"}`},
		{"entry missing id", `[{"data": {"subject": "Jane"}}]`},
		{"entry missing data", `[{"id": "chan-1"}]`},
		{"entry null data", `[{"id": "chan-1", "data": null}]`},
		{"entry data not an object", `[{"id": "chan-1", "data": 7}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, dir := newTestStore(t)
			ticketsPath := filepath.Join(dir, "tickets.json")
			require.NoError(t, os.WriteFile(ticketsPath, []byte(tt.raw), 0o644))

			entries := st.Load()
			assert.Empty(t, entries)

			// Live file is reset to an empty array.
			raw, err := os.ReadFile(ticketsPath)
			require.NoError(t, err)
			assert.JSONEq(t, "[]", string(raw))

			// Raw bytes survive in the backup directory.
			backups, err := os.ReadDir(filepath.Join(dir, "backups"))
			require.NoError(t, err)
			require.Len(t, backups, 1)
			assert.Contains(t, backups[0].Name(), "corrupted_tickets")

			saved, err := os.ReadFile(filepath.Join(dir, "backups", backups[0].Name()))
			require.NoError(t, err)
			assert.Equal(t, tt.raw, string(saved))
		})
	}
}

func TestBackupSnapshot(t *testing.T) {
	st, dir := newTestStore(t)
	require.NoError(t, st.Save([]Entry{{ID: "chan-1", Data: *domain.NewTicket("Station", "", "Husten", "Jane", "", "")}}))

	require.NoError(t, st.BackupSnapshot())

	backups, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestArchiveAppends(t *testing.T) {
	st, dir := newTestStore(t)

	first := domain.NewTicket("Station", "", "Husten", "Jane", "", "")
	second := domain.NewTicket("Psychologie", "", "Angst", "John", "", "")
	require.NoError(t, st.Archive("chan-1", *first))
	require.NoError(t, st.Archive("chan-2", *second))

	raw, err := os.ReadFile(filepath.Join(dir, "archive_tickets.json"))
	require.NoError(t, err)

	var archived []ArchiveEntry
	require.NoError(t, json.Unmarshal(raw, &archived))
	require.Len(t, archived, 2)
	assert.Equal(t, "chan-1", archived[0].ID)
	assert.Equal(t, "John", archived[1].Data.Subject)
	assert.False(t, archived[1].ArchivedAt.IsZero())
}

func TestArchiveReplacesMalformedFile(t *testing.T) {
	st, dir := newTestStore(t)
	archivePath := filepath.Join(dir, "archive_tickets.json")
	require.NoError(t, os.WriteFile(archivePath, []byte("garbage"), 0o644))

	require.NoError(t, st.Archive("chan-1", *domain.NewTicket("Station", "", "Husten", "Jane", "", "")))

	var archived []ArchiveEntry
	raw, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &archived))
	assert.Len(t, archived, 1)
}

// Package store persists the ticket registry as a JSON snapshot file.
// A malformed file is never fatal: the raw bytes are backed up and the
// live file is reset to an empty array.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
)

// Entry is one persisted (channel id, ticket) pair.
type Entry struct {
	ID   string        `json:"id"`
	Data domain.Ticket `json:"data"`
}

// Store reads and writes the tickets snapshot and the deletion archive.
type Store struct {
	mu          sync.Mutex
	ticketsPath string
	archivePath string
	backupDir   string
	logger      *zap.Logger
	now         func() time.Time
}

// New constructs a Store over the configured file locations.
func New(ticketsPath, archivePath, backupDir string, logger *zap.Logger) *Store {
	return &Store{
		ticketsPath: ticketsPath,
		archivePath: archivePath,
		backupDir:   backupDir,
		logger:      logger,
		now:         time.Now,
	}
}

// Load reads the snapshot. Corruption (invalid JSON, non-array, entries
// missing id or data) backs up the raw bytes and resets the file; a
// missing file is created empty. Load never fails.
func (s *Store) Load() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.ticketsPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("tickets file missing, creating empty snapshot",
				zap.String("path", s.ticketsPath))
			s.writeSnapshot([]Entry{})
			return []Entry{}
		}
		s.logger.Error("failed to read tickets file", zap.Error(err))
		return []Entry{}
	}

	if strings.TrimSpace(string(raw)) == "" {
		s.logger.Warn("tickets file empty, backing up and resetting",
			zap.String("path", s.ticketsPath))
		s.backupCorrupted(raw)
		s.writeSnapshot([]Entry{})
		return []Entry{}
	}

	// Decode in two steps so a missing data object is distinguishable
	// from an empty ticket.
	var rawEntries []struct {
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &rawEntries); err != nil {
		s.logger.Warn("tickets file corrupted, backing up and resetting",
			zap.String("path", s.ticketsPath), zap.Error(err))
		s.backupCorrupted(raw)
		s.writeSnapshot([]Entry{})
		return []Entry{}
	}

	entries := make([]Entry, 0, len(rawEntries))
	for _, rawEntry := range rawEntries {
		if rawEntry.ID == "" || len(rawEntry.Data) == 0 || string(rawEntry.Data) == "null" {
			s.logger.Warn("tickets file entry missing id or data, backing up and resetting",
				zap.String("path", s.ticketsPath))
			s.backupCorrupted(raw)
			s.writeSnapshot([]Entry{})
			return []Entry{}
		}
		var ticket domain.Ticket
		if err := json.Unmarshal(rawEntry.Data, &ticket); err != nil {
			s.logger.Warn("tickets file entry unreadable, backing up and resetting",
				zap.String("path", s.ticketsPath), zap.Error(err))
			s.backupCorrupted(raw)
			s.writeSnapshot([]Entry{})
			return []Entry{}
		}
		entries = append(entries, Entry{ID: rawEntry.ID, Data: ticket})
	}

	s.logger.Info("tickets loaded", zap.Int("count", len(entries)))
	return entries
}

// Save rewrites the whole snapshot. Concurrent saves interleave with
// last-write-wins for the entire file; acceptable at expected scale and
// documented rather than guarded.
func (s *Store) Save(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSnapshot(entries)
}

// BackupSnapshot copies the current healthy snapshot into the backup
// directory. Used by the periodic backup job.
func (s *Store) BackupSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.ticketsPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("tickets_%s.json", s.timestampSlug())
	return os.WriteFile(filepath.Join(s.backupDir, name), raw, 0o644)
}

func (s *Store) writeSnapshot(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.ticketsPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(s.ticketsPath, raw, 0o644); err != nil {
		s.logger.Error("failed to save tickets", zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) backupCorrupted(raw []byte) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		s.logger.Error("failed to create backup dir", zap.Error(err))
		return
	}
	base := strings.TrimSuffix(filepath.Base(s.ticketsPath), ".json")
	name := fmt.Sprintf("corrupted_%s_%s.json", base, s.timestampSlug())
	path := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		s.logger.Error("failed to back up corrupted file", zap.Error(err))
		return
	}
	s.logger.Info("corrupted file backed up", zap.String("backup", path))
}

func (s *Store) timestampSlug() string {
	ts := s.now().UTC().Format(time.RFC3339)
	ts = strings.ReplaceAll(ts, ":", "-")
	return strings.ReplaceAll(ts, ".", "-")
}

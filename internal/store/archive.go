package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
)

// ArchiveEntry is one deleted ticket snapshot, append-only.
type ArchiveEntry struct {
	ID         string        `json:"id"`
	Data       domain.Ticket `json:"data"`
	ArchivedAt time.Time     `json:"archivedAt"`
}

// Archive appends the ticket to the deletion archive. A malformed
// archive file is replaced rather than treated as fatal.
func (s *Store) Archive(id string, ticket domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var archived []ArchiveEntry
	if raw, err := os.ReadFile(s.archivePath); err == nil {
		if err := json.Unmarshal(raw, &archived); err != nil {
			s.logger.Warn("archive file malformed, starting fresh",
				zap.String("path", s.archivePath), zap.Error(err))
			archived = nil
		}
	}

	archived = append(archived, ArchiveEntry{
		ID:         id,
		Data:       ticket,
		ArchivedAt: s.now().UTC(),
	})

	raw, err := json.MarshalIndent(archived, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.archivePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.archivePath, raw, 0o644)
}

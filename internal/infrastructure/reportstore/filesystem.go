package reportstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

// FilesystemStore writes report documents to a local directory and serves
// their location as a URL under a configured base. Stands in for a blob
// bucket in single-node deployments.
type FilesystemStore struct {
	dir     string
	baseURL string
	clock   func() time.Time
}

var _ ports.ReportStore = (*FilesystemStore)(nil)

// NewFilesystemStore wires output directory and public base URL.
func NewFilesystemStore(dir, baseURL string) *FilesystemStore {
	return &FilesystemStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), clock: time.Now}
}

// WithClock overrides the naming clock; used by tests.
func (s *FilesystemStore) WithClock(clock func() time.Time) *FilesystemStore {
	s.clock = clock
	return s
}

// SaveWeeklyReport serializes the document under a name derived from the
// generation date and returns the file name as the location key.
func (s *FilesystemStore) SaveWeeklyReport(_ context.Context, doc domain.ReportDocument) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	key := fmt.Sprintf("relatorio-%s.json", s.clock().Format(time.DateOnly))
	if err := os.WriteFile(filepath.Join(s.dir, key), payload, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", key, err)
	}

	return key, nil
}

// GetLocationURL resolves a retrievable URL for a stored report.
func (s *FilesystemStore) GetLocationURL(locationKey string) string {
	return s.baseURL + "/" + locationKey
}

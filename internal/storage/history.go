package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PromptRecord is one generation request and its outcome.
type PromptRecord struct {
	Body      string    `json:"body"`
	Model     string    `json:"model"`
	Outcome   string    `json:"outcome"` // "code" or "error"
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore keeps the prompt history in a local JSON file.
type HistoryStore struct {
	mu  sync.Mutex
	dir string
}

// NewHistoryStore creates a history store at the given directory.
func NewHistoryStore(dir string) *HistoryStore {
	return &HistoryStore{dir: dir}
}

func (s *HistoryStore) filePath() string {
	return filepath.Join(s.dir, "history.json")
}

// Append adds a record to the history.
func (s *HistoryStore) Append(rec PromptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readUnsafe()
	if err != nil {
		records = nil // Start fresh if file is corrupted
	}

	rec.CreatedAt = time.Now()
	records = append(records, rec)

	return s.writeUnsafe(records)
}

// List returns all records in the history.
func (s *HistoryStore) List() ([]PromptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readUnsafe()
}

// Recent returns the last N records.
func (s *HistoryStore) Recent(n int) ([]PromptRecord, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}

	if len(records) <= n {
		return records, nil
	}
	return records[len(records)-n:], nil
}

// Clear removes all records.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeUnsafe(nil)
}

func (s *HistoryStore) readUnsafe() ([]PromptRecord, error) {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var records []PromptRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return records, nil
}

func (s *HistoryStore) writeUnsafe(records []PromptRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	return os.WriteFile(s.filePath(), data, 0o644)
}

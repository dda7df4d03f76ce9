package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rlourenco/bicicletario/internal/filex"
	"github.com/rlourenco/bicicletario/internal/models"
)

// FileStore keeps the entry list as a single JSON document on disk. Writes
// are atomic (temp file + rename) so a crash mid-save never leaves a
// truncated file behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) SaveEntries(ctx context.Context, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	if err := filex.WriteFileAtomic(s.path, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// LoadEntries reads the stored list. A missing file is not an error; it
// means a fresh install and yields an empty list.
func (s *FileStore) LoadEntries(ctx context.Context) ([]models.Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Entry{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", s.path, err)
	}
	return entries, nil
}

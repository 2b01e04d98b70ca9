package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ledwall/pkg/errors"
)

// FileStore is a file-based project store for CLI use.
// Projects are stored as <id>.json files in a data directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store rooted at baseDir, creating it if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "project directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create project dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) projectPath(id string) (string, error) {
	// IDs are UUIDs; anything else could escape the directory.
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.New(errors.ErrCodeProjectNotFound, "project not found: %s", id)
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.projectPath(id)
	if err != nil {
		return nil, err
	}
	return readProject(path)
}

func readProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeProjectNotFound, "project not found: %s", filepath.Base(path))
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read project file")
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse project %s", filepath.Base(path))
	}
	return &p, nil
}

func (s *FileStore) List(ctx context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list()
}

func (s *FileStore) list() ([]*Project, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read project dir")
	}
	var out []*Project
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		p, err := readProject(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			// unreadable files are skipped
			continue
		}
		out = append(out, p)
	}
	sortByName(out)
	return out, nil
}

func (s *FileStore) Save(ctx context.Context, p *Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal project")
	}

	path, err := s.projectPath(p.ID)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write project file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStorage, err, "write project file")
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.projectPath(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.New(errors.ErrCodeProjectNotFound, "project not found: %s", id)
	}
	all, err := s.list()
	if err != nil {
		return err
	}
	if len(all) <= 1 {
		return errors.New(errors.ErrCodeLastEntry, "cannot delete the last project")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove project file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for project files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SavedJob is a posting the user chose to keep.
type SavedJob struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Posting
}

// Store persists saved jobs keyed by (title, company). Saving an existing
// key updates the entry and keeps its identifier.
type Store interface {
	List(ctx context.Context) ([]*SavedJob, error)
	Add(ctx context.Context, p *Posting) (string, error)
	Remove(ctx context.Context, title, company string) (bool, error)
	Close() error
}

var ErrInvalidPosting = errors.New("posting needs a title and a company")

// FileStore keeps saved jobs in a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type savedJobsFile struct {
	Items []*SavedJob `json:"items"`
}

// NewFileStore returns a store backed by path. The file is created on the
// first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) List(_ context.Context) ([]*SavedJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}
	return f.Items, nil
}

func (s *FileStore) Add(_ context.Context, p *Posting) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return "", err
	}

	key := p.Key()
	for _, saved := range f.Items {
		if saved.Key() == key {
			saved.Posting = *p
			saved.Title, saved.Company = key.Title, key.Company
			return saved.ID, s.write(f)
		}
	}

	saved := &SavedJob{
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
		Posting: *p,
	}
	saved.Title, saved.Company = key.Title, key.Company
	f.Items = append(f.Items, saved)

	return saved.ID, s.write(f)
}

func (s *FileStore) Remove(_ context.Context, title, company string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return false, err
	}

	key := NewKey(title, company)
	kept := f.Items[:0]
	removed := false
	for _, saved := range f.Items {
		if saved.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, saved)
	}
	if !removed {
		return false, nil
	}

	f.Items = kept
	return true, s.write(f)
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (*savedJobsFile, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &savedJobsFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open saved jobs: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return &savedJobsFile{}, nil
	}

	var f savedJobsFile
	if err := json.NewDecoder(file).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode saved jobs %q: %w", s.path, err)
	}
	return &f, nil
}

// write replaces the file through a temporary file in the same directory so
// a failed write leaves the previous list intact.
func (s *FileStore) write(f *savedJobsFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode saved jobs: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create saved jobs dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".saved-jobs-*.json")
	if err != nil {
		return fmt.Errorf("create saved jobs file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write saved jobs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write saved jobs: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write saved jobs: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace saved jobs: %w", err)
	}
	return nil
}

func validate(p *Posting) error {
	if p == nil {
		return ErrInvalidPosting
	}
	k := p.Key()
	if k.Title == "" || k.Company == "" {
		return ErrInvalidPosting
	}
	return nil
}

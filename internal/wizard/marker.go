package wizard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// MarkerCache remembers locally that a user chose to skip password setup.
// The server flag is authoritative; the marker only carries the choice until
// the next profile fetch, so a failed server write does not trap the user.
type MarkerCache interface {
	Has(userID uint, email string) bool
	Set(userID uint, email string) error
	Clear(userID uint, email string) error
}

func markerKeys(userID uint, email string) []string {
	var keys []string
	if userID != 0 {
		keys = append(keys, fmt.Sprintf("id:%d", userID))
	}
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		keys = append(keys, "email:"+e)
	}
	return keys
}

// MemoryMarkerCache keeps markers for the life of the process.
type MemoryMarkerCache struct {
	mu      sync.Mutex
	markers map[string]time.Time
}

func NewMemoryMarkerCache() *MemoryMarkerCache {
	return &MemoryMarkerCache{markers: make(map[string]time.Time)}
}

func (m *MemoryMarkerCache) Has(userID uint, email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range markerKeys(userID, email) {
		if _, ok := m.markers[k]; ok {
			return true
		}
	}
	return false
}

func (m *MemoryMarkerCache) Set(userID uint, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range markerKeys(userID, email) {
		m.markers[k] = time.Now()
	}
	return nil
}

func (m *MemoryMarkerCache) Clear(userID uint, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range markerKeys(userID, email) {
		delete(m.markers, k)
	}
	return nil
}

// markerFile is the on-disk layout of FileMarkerStore.
type markerFile struct {
	PasswordSkipped map[string]time.Time `yaml:"password_skipped"`
}

// FileMarkerStore persists markers in a YAML file for the terminal client.
type FileMarkerStore struct {
	mu   sync.Mutex
	path string
}

// NewFileMarkerStore stores markers at path. The file is created on first write.
func NewFileMarkerStore(path string) *FileMarkerStore {
	return &FileMarkerStore{path: path}
}

// DefaultMarkerPath is the marker file under the user config directory.
func DefaultMarkerPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jobportal", "wizard.yml"), nil
}

func (s *FileMarkerStore) Has(userID uint, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return false
	}
	for _, k := range markerKeys(userID, email) {
		if _, ok := f.PasswordSkipped[k]; ok {
			return true
		}
	}
	return false
}

func (s *FileMarkerStore) Set(userID uint, email string) error {
	return s.update(func(f *markerFile) {
		for _, k := range markerKeys(userID, email) {
			f.PasswordSkipped[k] = time.Now().UTC()
		}
	})
}

func (s *FileMarkerStore) Clear(userID uint, email string) error {
	return s.update(func(f *markerFile) {
		for _, k := range markerKeys(userID, email) {
			delete(f.PasswordSkipped, k)
		}
	})
}

func (s *FileMarkerStore) update(fn func(*markerFile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	fn(f)

	raw, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return writeFileAtomic(s.path, raw)
}

// writeFileAtomic replaces path through a uniquely named temp file in the same
// directory, so concurrent writers never share a temp file.
func writeFileAtomic(path string, raw []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

func (s *FileMarkerStore) load() (*markerFile, error) {
	f := &markerFile{}
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(raw, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.path, err)
		}
	}
	if f.PasswordSkipped == nil {
		f.PasswordSkipped = make(map[string]time.Time)
	}
	return f, nil
}

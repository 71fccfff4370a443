package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// KV is the string key-value store that checklist state persists in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// MemoryKV is an in-process KV.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// stateDocument is the on-disk layout of a FileKV.
type stateDocument struct {
	Version   int               `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	Values    map[string]string `json:"values"`
}

// ErrCorruptState is returned by FileKV reads when the document cannot be parsed.
var ErrCorruptState = errors.New("state document is corrupt")

// FileKV stores all keys in one JSON document. Every Set is a
// read-modify-write of the whole document, so writers in other processes
// only lose a key when they race on that same key.
type FileKV struct {
	mu          sync.Mutex
	fs          afero.Fs
	path        string
	lock        *flock.Flock
	retryConfig retry.Config
}

type FileKVOption func(*FileKV)

// WithFileLock serializes writes across processes with an flock on lockPath.
func WithFileLock(lockPath string) FileKVOption {
	return func(s *FileKV) {
		s.lock = flock.New(lockPath)
	}
}

func NewFileKV(fs afero.Fs, path string, opts ...FileKVOption) *FileKV {
	s := &FileKV{
		fs:   fs,
		path: path,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document location.
func (s *FileKV) Path() string {
	return s.path
}

func (s *FileKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// Set writes key. A corrupt document is replaced rather than repaired.
func (s *FileKV) Set(key, value string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock != nil {
		if err := s.fs.MkdirAll(filepath.Dir(s.lock.Path()), 0700); err != nil {
			return fmt.Errorf("create lock directory: %w", err)
		}
		if err := s.lock.Lock(); err != nil {
			return fmt.Errorf("lock %s: %w", s.lock.Path(), err)
		}
		defer func() {
			if uerr := s.lock.Unlock(); uerr != nil && err == nil {
				err = fmt.Errorf("unlock %s: %w", s.lock.Path(), uerr)
			}
		}()
	}

	doc, err := s.load()
	if errors.Is(err, ErrCorruptState) {
		doc = &stateDocument{Values: make(map[string]string)}
	} else if err != nil {
		return err
	}

	doc.Values[key] = value
	doc.Version++
	doc.UpdatedAt = time.Now().UTC()

	return s.write(doc)
}

func (s *FileKV) load() (*stateDocument, error) {
	retryer := retry.New[[]byte](s.retryConfig)

	data, err := retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		data, err := afero.ReadFile(s.fs, s.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read state file: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	doc := &stateDocument{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
		}
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	return doc, nil
}

func (s *FileKV) write(doc *stateDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state: %w", err)
	}
	return nil
}

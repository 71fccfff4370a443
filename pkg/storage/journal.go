package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Journal entry types.
const (
	EntryTaskCompleted         = "task.completed"
	EntryTaskReopened          = "task.reopened"
	EntryFeedRefreshed         = "feed.refreshed"
	EntryAchievementCelebrated = "achievement.celebrate"
	EntryLanguageChanged       = "language.changed"
)

// Entry is one line of the activity journal.
type Entry struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Group     string            `json:"group,omitempty"`
	TaskID    string            `json:"task_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Journal is an append-only JSON Lines log of user activity.
type Journal struct {
	mu   sync.RWMutex
	fs   afero.Fs
	path string
}

// NewJournal creates a journal at path. The parent directory is created on
// first write.
func NewJournal(fs afero.Fs, path string) *Journal {
	return &Journal{fs: fs, path: path}
}

// Append adds an entry, filling in ID and Timestamp when unset.
func (j *Journal) Append(e *Entry) (err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	if err := j.fs.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := j.fs.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close journal: %w", cerr)
		}
	}()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// LoadAll returns all entries in write order.
func (j *Journal) LoadAll() ([]*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	f, err := j.fs.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var result []*Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", err)
		}
		result = append(result, &e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return result, nil
}

// LoadSince returns entries recorded after since.
func (j *Journal) LoadSince(since time.Time) ([]*Entry, error) {
	all, err := j.LoadAll()
	if err != nil {
		return nil, err
	}
	var result []*Entry
	for _, e := range all {
		if e.Timestamp.After(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

// Tail returns the last n entries.
func (j *Journal) Tail(n int) ([]*Entry, error) {
	all, err := j.LoadAll()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

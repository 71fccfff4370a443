package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const EngageDir = ".engage"
const StateFile = "state.json"
const StateLockFile = "state.lock"
const JournalFile = "journal.jsonl"
const ConfigFile = "config.yaml"
const DeadLetterFile = "webhook_deadletters.jsonl"

// FilesystemRepository locates workspace files under root/.engage.
type FilesystemRepository struct {
	fs   afero.Fs
	root string
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return NewFilesystemRepositoryFs(afero.NewOsFs(), root)
}

// NewFilesystemRepositoryFs is NewFilesystemRepository on an explicit
// filesystem, typically afero.NewMemMapFs() in tests.
func NewFilesystemRepositoryFs(fs afero.Fs, root string) *FilesystemRepository {
	return &FilesystemRepository{fs: fs, root: root}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// Fs returns the filesystem the repository writes to.
func (r *FilesystemRepository) Fs() afero.Fs {
	return r.fs
}

// ResolvePath ensures the path is within the .engage directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, EngageDir)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, EngageDir)
	if err := r.fs.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", EngageDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := r.fs.Stat(filepath.Join(r.root, EngageDir))
	return err == nil
}

// OpenState returns the key-value store backed by .engage/state.json.
// Cross-process locking is enabled on the OS filesystem only.
func (r *FilesystemRepository) OpenState() (*FileKV, error) {
	path, err := r.ResolvePath(StateFile)
	if err != nil {
		return nil, err
	}

	var opts []FileKVOption
	if _, ok := r.fs.(*afero.OsFs); ok {
		lockPath, err := r.ResolvePath(StateLockFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFileLock(lockPath))
	}
	return NewFileKV(r.fs, path, opts...), nil
}

// OpenJournal returns the activity journal at .engage/journal.jsonl.
func (r *FilesystemRepository) OpenJournal() (*Journal, error) {
	path, err := r.ResolvePath(JournalFile)
	if err != nil {
		return nil, err
	}
	return NewJournal(r.fs, path), nil
}

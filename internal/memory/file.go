package memory

import (
	"context"
	"os"
	"path/filepath"

	"SignalSentinel/internal/model"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// FileStore keeps the memory in a JSON object file mapping pair to signal.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Name() string { return "file" }

// Load reads the memory file. A missing file is an empty memory. An unreadable
// or corrupt file also yields an empty memory, along with a PersistenceError.
func (s *FileStore) Load(_ context.Context) (map[string]model.SignalKind, error) {
	last := make(map[string]model.SignalKind)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return last, nil
		}
		return last, &model.PersistenceError{Op: "load", Err: err}
	}

	var raw map[string]string
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return last, &model.PersistenceError{Op: "load", Err: errors.Wrapf(err, "decode %s", s.Path)}
	}
	for pair, v := range raw {
		kind := model.SignalKind(v)
		if !kind.Valid() {
			continue
		}
		last[pair] = kind
	}
	return last, nil
}

// Save writes the memory to a temp file and renames it over Path.
func (s *FileStore) Save(_ context.Context, last map[string]model.SignalKind) error {
	data, err := sonic.ConfigStd.MarshalIndent(last, "", "  ")
	if err != nil {
		return &model.PersistenceError{Op: "save", Err: err}
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &model.PersistenceError{Op: "save", Err: err}
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return &model.PersistenceError{Op: "save", Err: err}
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return &model.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

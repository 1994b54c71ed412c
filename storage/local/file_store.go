package local

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

const fileName = "storage.json"

// FileStore keeps every key in a single JSON object on disk.
// Each write rewrites the file atomically (temp file + rename). Changes made by other
// processes are picked up through a file watcher.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	values  map[string]string
	closed  bool
	written []byte // last content written by this store
	watcher *fsnotify.Watcher
	logger  core.Logger
}

// NewFileStore opens (or creates) the store under dir.
// A corrupt storage file is treated as empty.
func NewFileStore(dir string, logger core.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}

	s := &FileStore{
		path:   filepath.Join(dir, fileName),
		values: make(map[string]string),
		logger: logger,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("local storage: could not create watcher", err)
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		logger.Warn("local storage: could not watch dir", err)
		watcher.Close()
		return s, nil
	}
	s.watcher = watcher
	go s.watchLoop()

	return s, nil
}

func (s *FileStore) Path() string { return s.path }

// Reload re-reads the storage file. Content identical to the last write of this store
// is skipped, so the watcher does not reload the store's own renames.
func (s *FileStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "reading local storage")
	}
	if s.written != nil && bytes.Equal(data, s.written) {
		return nil
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		s.logger.Warn("local storage: corrupt file, ignoring it", map[string]interface{}{"path": s.path, "error": err.Error()})
		return nil
	}
	s.values = values
	return nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	prev, had := s.values[key]
	s.values[key] = value
	if err := s.writeAtomic(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	removed := make(map[string]string)
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			removed[k] = v
			delete(s.values, k)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.writeAtomic(); err != nil {
		for k, v := range removed {
			s.values[k] = v
		}
		return err
	}
	return nil
}

// Close stops the file watcher. Later calls fail with ErrClosed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// caller holds s.mu
func (s *FileStore) writeAtomic() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding local storage")
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return errors.Wrap(err, "writing local storage")
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return errors.Wrap(err, "writing local storage")
	}
	s.written = data
	return nil
}

func (s *FileStore) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name == s.path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				if err := s.Reload(); err != nil && err != ErrClosed {
					s.logger.Warn("local storage: failed to reload", err)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("local storage: watcher error", err)
		}
	}
}

var _ Store = (*FileStore)(nil)

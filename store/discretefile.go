package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dailyyoga/cachekit/logger"
	"go.uber.org/zap"
)

// fileRecord is the on-disk envelope. The key rides along with the value
// so a persistent store can rebuild its index from directory contents.
type fileRecord[K comparable, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// DiscreteFileStore keeps one JSON file per entry under a directory. File
// names are derived from a hash of the key, so any JSON-encodable key
// works regardless of filesystem naming rules.
//
// Like MemoryStore it carries no synchronization of its own.
type DiscreteFileStore[K comparable, V any] struct {
	dir    string
	index  map[K]string
	logger logger.Logger
}

// NewVolatileFileStore creates a file store that starts empty: any files
// left in dir by a previous run are removed.
func NewVolatileFileStore[K comparable, V any](dir string, log logger.Logger) (*DiscreteFileStore[K, V], error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, ErrStoreDirectory(err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ErrStoreDirectory(err)
	}
	return &DiscreteFileStore[K, V]{
		dir:    dir,
		index:  make(map[K]string),
		logger: log,
	}, nil
}

// NewPersistentFileStore creates a file store that rehydrates from dir:
// every readable entry file left by a previous run is indexed. Unreadable
// or corrupt files are logged and skipped.
func NewPersistentFileStore[K comparable, V any](dir string, log logger.Logger) (*DiscreteFileStore[K, V], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ErrStoreDirectory(err)
	}

	s := &DiscreteFileStore[K, V]{
		dir:    dir,
		index:  make(map[K]string),
		logger: log,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ErrStoreDirectory(err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("cache file unreadable", zap.String("path", path), zap.Error(err))
			continue
		}
		var rec fileRecord[K, V]
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Warn("cache file corrupt", zap.String("path", path), zap.Error(err))
			continue
		}
		s.index[rec.Key] = path
	}
	return s, nil
}

func (s *DiscreteFileStore[K, V]) pathFor(key K) (string, error) {
	raw, err := json.Marshal(key)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json"), nil
}

// Get reads the value for key from its entry file
func (s *DiscreteFileStore[K, V]) Get(key K) (V, bool) {
	var zero V
	path, ok := s.index[key]
	if !ok {
		return zero, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("cache file unreadable", zap.String("path", path), zap.Error(err))
		return zero, false
	}
	var rec fileRecord[K, V]
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Warn("cache file corrupt", zap.String("path", path), zap.Error(err))
		return zero, false
	}
	return rec.Value, true
}

// Set writes the value for key to its entry file
func (s *DiscreteFileStore[K, V]) Set(key K, value V) {
	path, err := s.pathFor(key)
	if err != nil {
		s.logger.Warn("cache key encode failed", zap.Error(err))
		return
	}
	raw, err := json.Marshal(fileRecord[K, V]{Key: key, Value: value})
	if err != nil {
		s.logger.Warn("cache value encode failed", zap.String("path", path), zap.Error(err))
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		s.logger.Warn("cache file write failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.index[key] = path
}

// Delete removes the entry file for key and reports whether one existed
func (s *DiscreteFileStore[K, V]) Delete(key K) bool {
	path, ok := s.index[key]
	if !ok {
		return false
	}
	delete(s.index, key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("cache file remove failed", zap.String("path", path), zap.Error(err))
	}
	return true
}

// Flush removes all entry files
func (s *DiscreteFileStore[K, V]) Flush() {
	for key, path := range s.index {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("cache file remove failed", zap.String("path", path), zap.Error(err))
		}
		delete(s.index, key)
	}
}

package hydrate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dailyyoga/cachekit/logger"
)

func newTestLogger(t *testing.T) logger.Logger {
	log, err := logger.New(&logger.Config{
		Level:    "debug",
		Encoding: "console",
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

// mapSource serves values from an in-memory table and counts retrieves
type mapSource struct {
	mu        sync.Mutex
	data      map[string]string
	validFn   func(key, value string) bool
	retrieves atomic.Int64
}

func newMapSource(data map[string]string) *mapSource {
	if data == nil {
		data = make(map[string]string)
	}
	return &mapSource{data: data}
}

func (s *mapSource) Retrieve(ctx context.Context, key string) (string, bool) {
	s.retrieves.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *mapSource) IsValid(key, value string) bool {
	if s.validFn == nil {
		return true
	}
	return s.validFn(key, value)
}

func (s *mapSource) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *mapSource) forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// hintedSource additionally records the hint passed to each optimized fetch
type hintedSource struct {
	mapSource
	hintMu sync.Mutex
	hints  []string
}

func newHintedSource(data map[string]string) *hintedSource {
	s := &hintedSource{}
	s.data = data
	return s
}

func (s *hintedSource) RetrieveWithHint(ctx context.Context, key, current string) (string, bool) {
	s.hintMu.Lock()
	s.hints = append(s.hints, current)
	s.hintMu.Unlock()
	return s.Retrieve(ctx, key)
}

func (s *hintedSource) recordedHints() []string {
	s.hintMu.Lock()
	defer s.hintMu.Unlock()
	return append([]string(nil), s.hints...)
}

// gatedSource blocks background fetches until released, so tests can stage
// work between the start of a retrieve and its commit. Foreground fetches
// complete immediately.
type gatedSource struct {
	started     chan struct{}
	release     chan struct{}
	startedOnce sync.Once
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *gatedSource) Retrieve(ctx context.Context, key string) (string, bool) {
	return "initial", true
}

func (s *gatedSource) IsValid(key, value string) bool {
	return true
}

func (s *gatedSource) RetrieveWithHint(ctx context.Context, key, current string) (string, bool) {
	s.startedOnce.Do(func() { close(s.started) })
	<-s.release
	return "refreshed", true
}

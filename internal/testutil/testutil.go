// Package testutil provides shared helpers for the test suites.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/ctxlog"
)

// Context returns a context carrying a quiet logger, satisfying the ctxlog
// contract without polluting test output.
func Context(t *testing.T) context.Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// MemSink is an in-memory artifact sink recording everything registered.
type MemSink struct {
	mu        sync.Mutex
	Artifacts map[string][]byte
}

// NewMemSink returns an empty sink.
func NewMemSink() *MemSink {
	return &MemSink{Artifacts: make(map[string][]byte)}
}

// RegisterArtifact stores the artifact content under its name.
func (s *MemSink) RegisterArtifact(name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Artifacts[name] = append([]byte(nil), content...)
	return nil
}

// Get returns the recorded content for name.
func (s *MemSink) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.Artifacts[name]
	return content, ok
}

// SingleChunkCompilation builds the smallest interesting compilation: one
// named chunk with one output file, registered against a MemSink.
func SingleChunkCompilation(name, file string) (*build.Compilation, *MemSink) {
	sink := NewMemSink()
	return &build.Compilation{
		OutputDir: "/dist",
		Chunks:    []build.Chunk{{Name: name, Files: []string{file}, Initial: true}},
		Assets:    []build.Asset{{Name: file, Chunks: []string{name}}},
		Sink:      sink,
	}, sink
}

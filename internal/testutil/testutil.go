// Package testutil holds helpers shared by package tests: a registry with
// every core kind, loggers that capture output, an observer that records
// cascades, and RAW fixture files.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/specialistvlad/rawgridgo/modules"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug-level text logger that writes
// to the returned buffer. Set RAWGRID_TEST_LOGS=true to echo it on cleanup.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("RAWGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// Registry returns a validated registry holding every core kind.
func Registry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, m := range modules.Core() {
		m.Register(r)
	}
	require.NoError(t, r.ValidateRegistry(context.Background()))
	return r
}

// WriteRaw writes a width×height RAW file filled with v into a fresh temp
// directory and returns its path.
func WriteRaw(t *testing.T, width, height int, v byte) string {
	t.Helper()
	return WriteRawBytes(t, bytes.Repeat([]byte{v}, width*height))
}

// WriteRawBytes writes data as a RAW file into a fresh temp directory.
func WriteRawBytes(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.raw")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

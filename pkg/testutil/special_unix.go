//go:build unix

package testutil

import (
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

// ShortTempDir returns a temporary directory with a short path. Unix
// socket addresses are limited to about 100 bytes, which t.TempDir can
// exceed for long test names.
func ShortTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "dl")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

// MakeFIFO creates a named pipe and its parent directories
func MakeFIFO(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, syscall.Mkfifo(path, 0600))
}

// ListenUnix binds a unix socket at path for the rest of the test
func ListenUnix(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	l, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
}

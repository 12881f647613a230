package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Entry describes one path inside a snapshot
type Entry struct {
	Mode    fs.FileMode
	Content string
	Target  string
}

// Snapshot maps paths relative to the snapshot root to their description
type Snapshot map[string]Entry

// TakeSnapshot walks root without following symlinks
func TakeSnapshot(t *testing.T, root string) Snapshot {
	t.Helper()

	snap := Snapshot{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := os.Lstat(path)
		if err != nil {
			return err
		}

		entry := Entry{Mode: info.Mode()}
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			entry.Target, err = os.Readlink(path)
		case info.Mode().IsRegular():
			var data []byte
			data, err = os.ReadFile(path)
			entry.Content = string(data)
		}
		if err != nil {
			return err
		}
		snap[rel] = entry
		return nil
	})
	require.NoError(t, err)
	return snap
}

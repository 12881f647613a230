package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestEnvironment provides an isolated home and dotfiles repository
type TestEnvironment struct {
	Root         string
	HomeDir      string
	DotfilesRoot string
	FS           types.FS

	t *testing.T
}

// NewTestEnvironment creates the directories and points HOME, DOTFILES_ROOT
// and the XDG variables at them
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	env := &TestEnvironment{
		Root:         root,
		HomeDir:      filepath.Join(root, "home"),
		DotfilesRoot: filepath.Join(root, "dotfiles"),
		FS:           filesystem.NewOS(),
		t:            t,
	}

	require.NoError(t, os.MkdirAll(env.HomeDir, 0755))
	require.NoError(t, os.MkdirAll(env.DotfilesRoot, 0755))

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("DOTFILES_ROOT", env.DotfilesRoot)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg", "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "xdg", "state"))

	return env
}

// Resource builds a managed resource from paths relative to home and repo
func (e *TestEnvironment) Resource(name, liveRel, repoRel string) types.ManagedResource {
	return types.ManagedResource{
		Name:     name,
		LivePath: filepath.Join(e.HomeDir, liveRel),
		RepoPath: filepath.Join(e.DotfilesRoot, repoRel),
	}
}

// WriteFile creates a file and its parent directories
func (e *TestEnvironment) WriteFile(path, content string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
}

// Symlink creates a symlink and its parent directories
func (e *TestEnvironment) Symlink(target, link string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(filepath.Dir(link), 0755))
	require.NoError(e.t, os.Symlink(target, link))
}

// ReadFile returns the content at path, following symlinks
func (e *TestEnvironment) ReadFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(e.t, err)
	return string(data)
}

// AssertSymlink checks that link is a symlink whose literal target is want
func (e *TestEnvironment) AssertSymlink(link, want string) {
	e.t.Helper()
	info, err := os.Lstat(link)
	require.NoError(e.t, err)
	require.NotZero(e.t, info.Mode()&os.ModeSymlink, "%s should be a symlink", link)
	got, err := os.Readlink(link)
	require.NoError(e.t, err)
	require.Equal(e.t, want, got)
}

// AssertNotExists checks that nothing, not even a dangling link, is at path
func (e *TestEnvironment) AssertNotExists(path string) {
	e.t.Helper()
	_, err := os.Lstat(path)
	require.True(e.t, os.IsNotExist(err), "%s should not exist", path)
}

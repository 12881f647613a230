// cmd/dotlink/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Isolated environment, /bin/sh
// PURPOSE: Drive the CLI end to end against a temporary home and repository

package dotlink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeManifest(env *testutil.TestEnvironment, body string) {
	env.WriteFile(filepath.Join(env.DotfilesRoot, "dotlink.toml"), body)
}

const twoResources = `
[output]
format = "text"

[[resources]]
name = "zshrc"
live = "~/.zshrc"
repo = "zsh/zshrc"

[[resources]]
name = "gitconfig"
live = "~/.gitconfig"
repo = "git/gitconfig"
`

func TestLinkCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)
	env.WriteFile(filepath.Join(env.HomeDir, ".zshrc"), "export EDITOR=vim")
	env.WriteFile(filepath.Join(env.DotfilesRoot, "git", "gitconfig"), "[user]")

	out, err := run(t, "link")
	require.NoError(t, err)

	assert.Contains(t, out, "zshrc (migrate-and-link)")
	assert.Contains(t, out, "gitconfig (create-link)")
	env.AssertSymlink(filepath.Join(env.HomeDir, ".zshrc"), filepath.Join(env.DotfilesRoot, "zsh", "zshrc"))
	env.AssertSymlink(filepath.Join(env.HomeDir, ".gitconfig"), filepath.Join(env.DotfilesRoot, "git", "gitconfig"))

	out, err = run(t, "link")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "already correctly symlinked"))
}

func TestLinkCmd_DryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)
	live := filepath.Join(env.HomeDir, ".zshrc")
	env.WriteFile(live, "export EDITOR=vim")
	before := testutil.TakeSnapshot(t, env.HomeDir)

	out, err := run(t, "--dry-run", "link", "zshrc")
	require.NoError(t, err)

	assert.Contains(t, out, "[DRY RUN] zshrc (migrate-and-link)")
	assert.NotContains(t, out, "gitconfig")
	assert.Equal(t, before, testutil.TakeSnapshot(t, env.HomeDir))
}

func TestLinkCmd_UnknownResource(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)

	_, err := run(t, "link", "nope")
	assert.Error(t, err)
}

func TestLinkCmd_FailOnError(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)
	env.Symlink("/nonexistent/zshrc", filepath.Join(env.HomeDir, ".zshrc"))

	out, err := run(t, "link", "zshrc")
	require.NoError(t, err)
	assert.Contains(t, out, "conflict")

	_, err = run(t, "--fail-on-error", "link", "zshrc")
	assert.Error(t, err)
}

func TestStatusCmd_JSON(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)
	env.WriteFile(filepath.Join(env.DotfilesRoot, "git", "gitconfig"), "[user]")

	out, err := run(t, "status", "--format", "json")
	require.NoError(t, err)

	var rows []statusRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "neither-exists", rows[0].State)
	assert.Equal(t, "repo-only", rows[1].State)
	assert.Equal(t, "create-link", rows[1].Action)

	assert.Empty(t, rows[1].Guard)

	// status never changes anything
	_, statErr := os.Lstat(filepath.Join(env.HomeDir, ".gitconfig"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStatusCmd_NamesGuard(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)
	env.Symlink("/nonexistent/zshrc", filepath.Join(env.HomeDir, ".zshrc"))

	out, err := run(t, "status", "zshrc", "--format", "json")
	require.NoError(t, err)

	var rows []statusRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "symlink-elsewhere", rows[0].State)
	assert.Equal(t, "conflict", rows[0].Action)
	assert.Equal(t, "dangling-relink", rows[0].Guard)
	assert.Contains(t, rows[0].Reason, "dangling link")

	out, err = run(t, "status", "zshrc")
	require.NoError(t, err)
	assert.Contains(t, out, "conflict (dangling-relink)")
}

func TestSyncCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	installed := filepath.Join(env.Root, "installed.txt")
	listFile := filepath.Join(env.DotfilesRoot, "ext.txt")
	env.WriteFile(listFile, "a.one\nb.two\n")
	env.WriteFile(installed, "b.two\n")

	writeManifest(env, fmt.Sprintf(`
[output]
format = "text"

[[sync]]
name = "ext"
repo_file = "ext.txt"
list = ["cat", %q]
install = ["sh", "-c", "echo \"$1\" >> %s", "sh"]
`, installed, installed))

	out, err := run(t, "sync", "--direction", "to-live")
	require.NoError(t, err)
	assert.Contains(t, out, "installed a.one")
	assert.Equal(t, "b.two\na.one\n", env.ReadFile(installed))

	env.WriteFile(installed, "b.two\na.one\nc.three\n")
	out, err = run(t, "sync", "ext", "--direction", "to-repo")
	require.NoError(t, err)
	assert.Contains(t, out, "installed c.three")
	assert.Equal(t, "a.one\nb.two\nc.three\n", env.ReadFile(listFile))
}

func TestSyncCmd_FailOnErrorCountsEachFailureOnce(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	installed := filepath.Join(env.Root, "installed.txt")
	env.WriteFile(filepath.Join(env.DotfilesRoot, "ext.txt"), "a.one\n")
	env.WriteFile(installed, "")

	writeManifest(env, fmt.Sprintf(`
[output]
format = "text"

[[sync]]
name = "ext"
repo_file = "ext.txt"
list = ["cat", %q]
install = ["sh", "-c", "exit 1", "sh"]
directions = ["to-live"]
`, installed))

	_, err := run(t, "--fail-on-error", "sync")
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf(MsgErrFailures, 1), err.Error())
}

func TestSyncCmd_BadDirection(t *testing.T) {
	testutil.NewTestEnvironment(t)
	_, err := run(t, "sync", "--direction", "sideways")
	assert.Error(t, err)
}

func TestUpCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)
	env.WriteFile(filepath.Join(env.HomeDir, ".gitconfig"), "[user]")

	out, err := run(t, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Up")
	env.AssertSymlink(filepath.Join(env.HomeDir, ".gitconfig"), filepath.Join(env.DotfilesRoot, "git", "gitconfig"))
}

func TestBackupsCmd(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	writeManifest(env, twoResources)
	env.WriteFile(filepath.Join(env.HomeDir, ".zshrc"), "old")
	env.WriteFile(filepath.Join(env.DotfilesRoot, "zsh", "zshrc"), "new")

	_, err := run(t, "link", "zshrc")
	require.NoError(t, err)

	out, err := run(t, "backups", "zshrc")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(env.HomeDir, ".zshrc.backup_"))

	out, err = run(t, "backups", "gitconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "no backups")
}

func TestStatesCmd(t *testing.T) {
	testutil.NewTestEnvironment(t)
	out, err := run(t, "states")
	require.NoError(t, err)
	for _, s := range []string{"symlink-correct", "both-diverged", "migrate-and-link", "conflict",
		"dangling-relink", "DANGLING_RELINK", "path-overlap", "backup-then-link"} {
		assert.Contains(t, out, s)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out, err := run(t, "config", "init")
	require.NoError(t, err)
	manifest := filepath.Join(env.DotfilesRoot, "dotlink.toml")
	assert.Contains(t, out, manifest)
	assert.FileExists(t, manifest)

	_, err = run(t, "config", "init")
	assert.Error(t, err)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "vscode-extensions")
	assert.Contains(t, out, "# manifest: "+manifest)
}

func TestVersionCmd(t *testing.T) {
	testutil.NewTestEnvironment(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dotlink version dev")
}

func TestManCmd(t *testing.T) {
	testutil.NewTestEnvironment(t)
	out, err := run(t, "man")
	require.NoError(t, err)
	assert.Contains(t, out, "DOTLINK")
}

func TestHelpTopics(t *testing.T) {
	testutil.NewTestEnvironment(t)
	out, err := run(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "manifest")
	assert.Contains(t, out, "--dry-run")
}

func TestNoCommand(t *testing.T) {
	testutil.NewTestEnvironment(t)
	_, err := run(t)
	assert.Error(t, err)
}

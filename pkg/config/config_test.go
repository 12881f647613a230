// pkg/config/config_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Isolated environment (HOME, XDG dirs, DOTFILES_ROOT)
// PURPOSE: Layered loading, validation, resolution and generation

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/setdiff"
	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `
[[resources]]
name = "zshrc"
live = "~/.zshrc"
repo = "zsh/zshrc"

[[resources]]
name = "nvim"
live = "~/.config/nvim"
repo = "nvim"

[[sync]]
name = "vscode"
repo_file = "vscode/extensions.txt"
list = ["code", "--list-extensions"]
install = ["code", "--install-extension"]
`

func TestLoad_Defaults(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, env.DotfilesRoot, cfg.DotfilesRoot)
	assert.Equal(t, "auto", cfg.Output.Format)
	assert.False(t, cfg.Output.NoColor)
	assert.Empty(t, cfg.Resources)
	assert.Empty(t, cfg.ManifestPath)
}

func TestLoad_Manifest(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(filepath.Join(env.DotfilesRoot, "dotlink.toml"), manifest)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.DotfilesRoot, "dotlink.toml"), cfg.ManifestPath)
	require.Len(t, cfg.Resources, 2)
	assert.Equal(t, config.ResourceConfig{Name: "zshrc", Live: "~/.zshrc", Repo: "zsh/zshrc"}, cfg.Resources[0])
	require.Len(t, cfg.Sync, 1)
	assert.Equal(t, []string{"code", "--install-extension"}, cfg.Sync[0].Install)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLManifest(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(filepath.Join(env.DotfilesRoot, "dotlink.yaml"), `
output:
  format: json
resources:
  - name: tmux
    live: ~/.tmux.conf
    repo: tmux/tmux.conf
`)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	require.Len(t, cfg.Resources, 1)
	assert.Equal(t, "tmux", cfg.Resources[0].Name)
}

func TestLoad_Precedence(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	userConfig := filepath.Join(env.Root, "xdg", "config", "dotlink", "config.toml")
	env.WriteFile(userConfig, "[output]\nformat = \"text\"\nno_color = true\n")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)

	env.WriteFile(filepath.Join(env.DotfilesRoot, "dotlink.toml"), "[output]\nformat = \"yaml\"\n")
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)

	t.Setenv("DOTLINK_OUTPUT_FORMAT", "json")
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadWithOverrides(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(filepath.Join(env.DotfilesRoot, "dotlink.toml"), "[output]\nformat = \"yaml\"\n")
	t.Setenv("DOTLINK_OUTPUT_FORMAT", "json")

	cfg, err := config.LoadWithOverrides("", map[string]interface{}{
		"output.format":   "text",
		"output.no_color": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)
}

func TestLoad_ExplicitRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	other := filepath.Join(env.Root, "other")
	env.WriteFile(filepath.Join(other, ".dotlink.toml"), manifest)

	cfg, err := config.Load(other)
	require.NoError(t, err)
	assert.Equal(t, other, cfg.DotfilesRoot)
	assert.Len(t, cfg.Resources, 2)
}

func TestLoad_ParseError(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteFile(filepath.Join(env.DotfilesRoot, "dotlink.toml"), "[[resources]\nname=")

	_, err := config.Load("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{
		Output: config.OutputConfig{Format: "xml"},
		Resources: []config.ResourceConfig{
			{Name: "a", Live: "~/.a", Repo: "a"},
			{Name: "a", Live: "~/.a", Repo: ""},
			{Name: "c", Live: "", Repo: "c"},
		},
		Sync: []config.SyncConfig{
			{Name: "ext", RepoFile: "ext.txt", List: []string{"code", "--list-extensions"}, Directions: []string{"sideways"}},
			{Name: "ext2", RepoFile: "ext.txt", List: []string{"code"}, Directions: []string{"to-live"}},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

	problems, ok := errors.GetErrorDetails(err)["problems"].([]string)
	require.True(t, ok)
	assert.Len(t, problems, 7)
	assert.Contains(t, err.Error(), "output.format")
	assert.Contains(t, err.Error(), "already managed")
	assert.Contains(t, err.Error(), "repo is empty")
	assert.Contains(t, err.Error(), "live is empty")
	assert.Contains(t, err.Error(), "name already used")
	assert.Contains(t, err.Error(), "sideways")
	assert.Contains(t, err.Error(), "install command is required")
}

func TestValidate_OverlappingPaths(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := &config.Config{
		DotfilesRoot: env.DotfilesRoot,
		Output:       config.OutputConfig{Format: "auto"},
		Resources: []config.ResourceConfig{
			{Name: "same", Live: filepath.Join(env.DotfilesRoot, "zshrc"), Repo: "zshrc"},
			{Name: "repo-inside-live", Live: env.DotfilesRoot, Repo: "nvim"},
			{Name: "live-inside-repo", Live: "~/.config/nvim", Repo: env.HomeDir},
			{Name: "fine", Live: "~/.zshrc", Repo: "zsh/zshrc"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	problems, ok := errors.GetErrorDetails(err)["problems"].([]string)
	require.True(t, ok)
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], "(same)")
	assert.Contains(t, problems[1], "(repo-inside-live)")
	assert.Contains(t, problems[2], "(live-inside-repo)")
	for _, p := range problems {
		assert.Contains(t, p, "overlap")
	}
}

func TestResolve(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := &config.Config{
		DotfilesRoot: env.DotfilesRoot,
		Resources: []config.ResourceConfig{
			{Name: "zshrc", Live: "~/.zshrc", Repo: "zsh/zshrc"},
			{Name: "abs", Live: "/etc/thing", Repo: "/srv/thing"},
		},
	}

	resources, err := cfg.Resolve()
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, filepath.Join(env.HomeDir, ".zshrc"), resources[0].LivePath)
	assert.Equal(t, filepath.Join(env.DotfilesRoot, "zsh", "zshrc"), resources[0].RepoPath)
	assert.Equal(t, "/srv/thing", resources[1].RepoPath)

	selected, err := cfg.Select([]string{"abs"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "abs", selected[0].Name)

	_, err = cfg.Select([]string{"missing"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestJobs(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := &config.Config{
		DotfilesRoot: env.DotfilesRoot,
		Sync: []config.SyncConfig{
			{Name: "vscode", RepoFile: "ext.txt", List: []string{"code", "--list-extensions"}, Install: []string{"code", "--install-extension"}},
			{Name: "record-only", RepoFile: "other.txt", List: []string{"tool", "list"}, Directions: []string{"to-repo"}},
		},
	}
	both := []setdiff.Direction{setdiff.ToLive, setdiff.ToRepo}

	jobs, err := cfg.Jobs(env.FS, nil, both)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "vscode to-live", jobs[0].Subject())
	assert.Equal(t, "vscode to-repo", jobs[1].Subject())
	assert.Equal(t, "record-only to-repo", jobs[2].Subject())

	jobs, err = cfg.Jobs(env.FS, []string{"record-only"}, []setdiff.Direction{setdiff.ToLive})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = cfg.Jobs(env.FS, []string{"nope"}, both)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestGenerate(t *testing.T) {
	data, err := config.Generate()
	require.NoError(t, err)
	assert.Contains(t, string(data), "# dotlink manifest")
	assert.Contains(t, string(data), "[[resources]]")

	path := filepath.Join(t.TempDir(), "dotlink.toml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Starter().Resources, cfg.Resources)
	assert.Equal(t, config.Starter().Sync, cfg.Sync)
	require.NoError(t, cfg.Validate())
}

package config

import (
	"bytes"

	"github.com/arthur-debert/dotlink/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
)

const manifestHeader = `# dotlink manifest
#
# Each [[resources]] entry keeps "live" (where the application reads it)
# symlinked to "repo" (relative to this repository). Existing live
# content is moved into the repository on first run; anything replaced
# later is backed up next to it as <live>.backup_<timestamp>.
#
# Each [[sync]] entry keeps an identifier list file in the repository in
# step with an external CLI, in the enabled directions (to-live, to-repo).

`

// Starter returns the configuration written by `dotlink config init`
func Starter() *Config {
	return &Config{
		Output: OutputConfig{Format: "auto"},
		Resources: []ResourceConfig{
			{Name: "zshrc", Live: "~/.zshrc", Repo: "zsh/zshrc"},
			{Name: "gitconfig", Live: "~/.gitconfig", Repo: "git/gitconfig"},
			{Name: "vscode-settings", Live: "~/.config/Code/User/settings.json", Repo: "vscode/settings.json"},
		},
		Sync: []SyncConfig{
			{
				Name:     "vscode-extensions",
				RepoFile: "vscode/extensions.txt",
				List:     []string{"code", "--list-extensions"},
				Install:  []string{"code", "--install-extension"},
			},
		},
	}
}

// Generate renders a starter manifest
func Generate() ([]byte, error) {
	body, err := Starter().TOML()
	if err != nil {
		return nil, err
	}
	return append([]byte(manifestHeader), body...), nil
}

// TOML encodes the configuration
func (c *Config) TOML() ([]byte, error) {
	var buf bytes.Buffer
	enc := gotoml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}

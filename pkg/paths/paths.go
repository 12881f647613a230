// Package paths provides centralized path handling for dotlink.
// It resolves the dotfiles root, expands home-relative paths and
// locates XDG base directories for configuration and logs.
package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotlink/pkg/errors"
)

// Environment variable names
const (
	// EnvDotfilesRoot is the primary environment variable for the repository location
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvConfigDir overrides the XDG config directory for dotlink
	EnvConfigDir = "DOTLINK_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under XDG base directories
	AppDirName = "dotlink"

	// UserConfigFile is the per-user configuration file name
	UserConfigFile = "config.toml"
)

// ManifestFiles are the repository manifest names, in lookup order
var ManifestFiles = []string{"dotlink.toml", ".dotlink.toml", "dotlink.yaml", "dotlink.yml"}

// Root is a resolved dotfiles root
type Root struct {
	Path string
	// UsedFallback is set when neither the environment nor git gave a root
	UsedFallback bool
}

// FindDotfilesRoot determines the dotfiles root using the following priority:
//  1. the explicit value (a --dotfiles-root flag)
//  2. DOTFILES_ROOT environment variable
//  3. git repository root of the working directory
//  4. current working directory
func FindDotfilesRoot(explicit string) (Root, error) {
	if explicit != "" {
		return absRoot(ExpandHome(explicit), false)
	}

	if root := os.Getenv(EnvDotfilesRoot); root != "" {
		return absRoot(ExpandHome(root), false)
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return absRoot(gitRoot, false)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return Root{}, errors.Wrapf(err, errors.ErrNotFound, "failed to get current directory")
	}
	return absRoot(cwd, true)
}

func absRoot(path string, fallback bool) (Root, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Root{}, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for dotfiles root")
	}
	return Root{Path: abs, UsedFallback: fallback}, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// HomeDir returns the user's home, preferring HOME for testability
func HomeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// ExpandHome expands a leading ~ or ~/ to the user's home directory.
// ~user forms are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir := HomeDir()
	if homeDir == "" {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// ResolveRepoPath makes a repository path absolute by joining relative
// values onto the dotfiles root
func ResolveRepoPath(root, repoPath string) string {
	expanded := ExpandHome(repoPath)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded)
	}
	return filepath.Join(root, expanded)
}

// ResolveLivePath expands home and makes the live path absolute
func ResolveLivePath(livePath string) (string, error) {
	abs, err := filepath.Abs(ExpandHome(livePath))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid live path %q", livePath)
	}
	return abs, nil
}

// ConfigDir returns the dotlink directory under XDG_CONFIG_HOME
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// UserConfigPath returns the per-user config file location
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), UserConfigFile)
}

// FindManifest returns the first manifest file present in root, or ""
func FindManifest(root string) string {
	for _, name := range ManifestFiles {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Overlap reports whether a and b are the same path or one contains the
// other. Both are compared after filepath.Clean.
func Overlap(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	return within(a, b) || within(b, a)
}

func within(child, parent string) bool {
	if parent == string(filepath.Separator) {
		return strings.HasPrefix(child, parent)
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

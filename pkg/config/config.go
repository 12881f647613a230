package config

// Config is the merged configuration
type Config struct {
	DotfilesRoot string           `koanf:"dotfiles_root" toml:"dotfiles_root,omitempty"`
	Output       OutputConfig     `koanf:"output" toml:"output"`
	Resources    []ResourceConfig `koanf:"resources" toml:"resources"`
	Sync         []SyncConfig     `koanf:"sync" toml:"sync,omitempty"`

	// ManifestPath is the repository manifest that was loaded, if any
	ManifestPath string `koanf:"-" toml:"-"`
	// RootFallback is set when the root is the working directory because
	// nothing else located it
	RootFallback bool `koanf:"-" toml:"-"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"`
	NoColor bool   `koanf:"no_color" toml:"no_color"`
}

// ResourceConfig declares one managed resource. Live may start with ~;
// a relative Repo is joined onto the dotfiles root.
type ResourceConfig struct {
	Name string `koanf:"name" toml:"name"`
	Live string `koanf:"live" toml:"live"`
	Repo string `koanf:"repo" toml:"repo"`
}

// SyncConfig declares a set-diff job between an identifier file in the
// repository and an external CLI
type SyncConfig struct {
	Name string `koanf:"name" toml:"name"`
	// RepoFile holds one identifier per line, relative to the dotfiles root
	RepoFile string `koanf:"repo_file" toml:"repo_file"`
	// List prints the installed identifiers, one per line
	List []string `koanf:"list" toml:"list"`
	// Install is run with the identifier appended
	Install []string `koanf:"install" toml:"install,omitempty"`
	// Directions enabled for this job; empty means both
	Directions []string `koanf:"directions" toml:"directions,omitempty"`
}

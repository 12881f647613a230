package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "DOTLINK_"

// Load merges every configuration layer. explicitRoot is the
// --dotfiles-root flag value and may be empty.
func Load(explicitRoot string) (*Config, error) {
	return LoadWithOverrides(explicitRoot, nil)
}

// LoadWithOverrides is Load with a final layer of dotted keys, such as
// {"output.format": "json"} from command-line flags
func LoadWithOverrides(explicitRoot string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Per-user config
	userPath := paths.UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load user config from %s", userPath)
		}
		logger.Debug().Str("path", userPath).Msg("loaded user config")
	}

	// Environment is read now so DOTLINK_DOTFILES_ROOT can locate the
	// manifest, and merged last so it wins over it
	envK := koanf.New(".")
	if err := envK.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 3. Repository manifest
	root, err := paths.FindDotfilesRoot(rootHint(explicitRoot, envK, k))
	if err != nil {
		return nil, err
	}
	manifest := paths.FindManifest(root.Path)
	if manifest != "" {
		if err := k.Load(file.Provider(manifest), parserFor(manifest)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load manifest from %s", manifest)
		}
		logger.Debug().Str("path", manifest).Msg("loaded manifest")
	}

	// 4. Environment
	if err := k.Merge(envK); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to merge env vars")
	}

	// 5. Flags
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	cfg.DotfilesRoot = root.Path
	cfg.ManifestPath = manifest
	cfg.RootFallback = root.UsedFallback

	logger.Debug().
		Str("root", cfg.DotfilesRoot).
		Bool("rootFallback", root.UsedFallback).
		Int("resources", len(cfg.Resources)).
		Int("sync", len(cfg.Sync)).
		Msg("configuration loaded")
	return cfg, nil
}

// LoadFile reads a single manifest on top of the defaults, without the
// user or environment layers
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s", path)
	}
	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	cfg.ManifestPath = path
	if cfg.DotfilesRoot == "" {
		cfg.DotfilesRoot = filepath.Dir(path)
	}
	return cfg, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// rootHint returns the root to pass to FindDotfilesRoot. The flag wins,
// then DOTFILES_ROOT (handled by FindDotfilesRoot itself), then the
// configured dotfiles_root.
func rootHint(explicit string, envK, k *koanf.Koanf) string {
	if explicit != "" || os.Getenv(paths.EnvDotfilesRoot) != "" {
		return explicit
	}
	if v := envK.String("dotfiles_root"); v != "" {
		return v
	}
	return k.String("dotfiles_root")
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	}
	return toml.Parser()
}

// envKey maps DOTLINK_OUTPUT_NO_COLOR to output.no_color and
// DOTLINK_DOTFILES_ROOT to dotfiles_root
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "output_"); ok {
		return "output." + rest
	}
	return key
}

package dotlink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}
	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigShowCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := paths.FindDotfilesRoot(opts.dotfilesRoot)
			if err != nil {
				return err
			}
			target := filepath.Join(root.Path, paths.ManifestFiles[0])
			if existing := paths.FindManifest(root.Path); existing != "" && !force {
				return fmt.Errorf(MsgErrManifestExists, existing)
			}

			data, err := config.Generate()
			if err != nil {
				return err
			}
			if opts.dryRun {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(target, data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgManifestCreated, target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

func newConfigShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.dotfilesRoot)
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			if cfg.ManifestPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# manifest: %s\n", cfg.ManifestPath)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

package dotlink

import (
	"context"
	"fmt"
	"os"

	"github.com/arthur-debert/dotlink/internal/version"
	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/reconcile"
	"github.com/arthur-debert/dotlink/pkg/report"
	"github.com/arthur-debert/dotlink/pkg/setdiff"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/arthur-debert/dotlink/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// loadConfig loads and validates the configuration for a command
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(opts.dotfilesRoot, opts.overrides())
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	if cfg.RootFallback {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, cfg.DotfilesRoot)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("dotfiles_root", cfg.DotfilesRoot).
		Str("manifest", cfg.ManifestPath).
		Bool("dry_run", opts.dryRun).
		Msg("Configuration ready")
	return cfg, nil
}

// outputFormat resolves the configured format; auto becomes plain text
// when the output is not a file
func outputFormat(cmd *cobra.Command, cfg *config.Config) (ui.Format, error) {
	f, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return ui.FormatText, err
	}
	out, isFile := cmd.OutOrStdout().(*os.File)
	if f == ui.FormatAuto && !isFile {
		return ui.FormatText, nil
	}
	return ui.Resolve(f, out, cfg.Output.NoColor), nil
}

// finish renders the log and applies --fail-on-error
func finish(cmd *cobra.Command, opts *options, cfg *config.Config, title string, l *report.Log) error {
	format, err := outputFormat(cmd, cfg)
	if err != nil {
		return err
	}
	s := l.Summarize()
	if err := report.Render(cmd.OutOrStdout(), title, s, format); err != nil {
		return err
	}
	if opts.failOnError && s.HasFailures() {
		return fmt.Errorf(MsgErrFailures, s.Failed)
	}
	return nil
}

func runLink(ctx context.Context, fsys types.FS, resources []types.ManagedResource, l *report.Log) {
	reconcile.New(fsys, l).ReconcileAll(ctx, resources)
}

func runSync(ctx context.Context, jobs []setdiff.Job, l *report.Log) {
	for _, job := range jobs {
		if ctx.Err() != nil {
			l.Warn("sync", "", "canceled before "+job.Subject(), ctx.Err())
			return
		}
		setdiff.RunJob(ctx, job, l, l.DryRun())
	}
}

// resourceNamesCompletion completes declared resource names
func resourceNamesCompletion(opts *options) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(opts.dotfilesRoot)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		used := map[string]bool{}
		for _, a := range args {
			used[a] = true
		}
		var names []string
		for _, r := range cfg.Resources {
			if r.Name != "" && !used[r.Name] {
				names = append(names, r.Name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func newLinkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:               "link [resources...]",
		Short:             MsgLinkShort,
		Long:              MsgLinkLong,
		Example:           MsgLinkExample,
		GroupID:           "core",
		ValidArgsFunction: resourceNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			resources, err := cfg.Select(args)
			if err != nil {
				return err
			}
			if len(resources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoResources)
				return nil
			}

			l := report.NewLog(opts.dryRun)
			runLink(cmd.Context(), filesystem.NewOS(), resources, l)
			return finish(cmd, opts, cfg, MsgTitleLink, l)
		},
	}
}

func newSyncCmd(opts *options) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:     "sync [jobs...]",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Example: MsgSyncExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := parseDirections(direction)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			jobs, err := cfg.Jobs(filesystem.NewOS(), args, dirs)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoJobs)
				return nil
			}

			l := report.NewLog(opts.dryRun)
			runSync(cmd.Context(), jobs, l)
			return finish(cmd, opts, cfg, MsgTitleSync, l)
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "both", MsgFlagDirection)
	return cmd
}

func parseDirections(s string) ([]setdiff.Direction, error) {
	if s == "" || s == "both" {
		return []setdiff.Direction{setdiff.ToLive, setdiff.ToRepo}, nil
	}
	d, err := setdiff.ParseDirection(s)
	if err != nil {
		return nil, err
	}
	return []setdiff.Direction{d}, nil
}

func newUpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "up",
		Short:   MsgUpShort,
		Long:    MsgUpLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			fsys := filesystem.NewOS()
			resources, err := cfg.Resolve()
			if err != nil {
				return err
			}
			jobs, err := cfg.Jobs(fsys, nil, []setdiff.Direction{setdiff.ToLive, setdiff.ToRepo})
			if err != nil {
				return err
			}

			l := report.NewLog(opts.dryRun)
			runLink(cmd.Context(), fsys, resources, l)
			runSync(cmd.Context(), jobs, l)
			return finish(cmd, opts, cfg, MsgTitleUp, l)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "DOTLINK",
				Section: "1",
				Source:  "dotlink " + version.Version,
				Manual:  "dotlink manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

package dotlink

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/backup"
	"github.com/arthur-debert/dotlink/pkg/cobrax/topics"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/inspect"
	"github.com/arthur-debert/dotlink/pkg/reconcile"
	"github.com/arthur-debert/dotlink/pkg/style"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/arthur-debert/dotlink/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// statusRow is one resource in `dotlink status`
type statusRow struct {
	Name       string `json:"name" yaml:"name"`
	Live       string `json:"live" yaml:"live"`
	Repo       string `json:"repo" yaml:"repo"`
	State      string `json:"state" yaml:"state"`
	Action     string `json:"action" yaml:"action"`
	LinkTarget string `json:"link_target,omitempty" yaml:"link_target,omitempty"`
	Guard      string `json:"guard,omitempty" yaml:"guard,omitempty"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// actionLabel names the guard behind a conflict
func (r statusRow) actionLabel() string {
	if r.Guard != "" {
		return r.Action + " (" + r.Guard + ")"
	}
	return r.Action
}

func collectStatus(fsys types.FS, resources []types.ManagedResource) []statusRow {
	rows := make([]statusRow, 0, len(resources))
	for _, res := range resources {
		row := statusRow{Name: res.Label(), Live: res.LivePath, Repo: res.RepoPath}
		in, err := inspect.Classify(fsys, res)
		if err != nil {
			row.State = "error"
			row.Error = err.Error()
			rows = append(rows, row)
			continue
		}
		d := reconcile.Decide(in)
		row.State = in.State.String()
		row.Action = d.Action.String()
		row.LinkTarget = in.LinkTarget
		if d.Action == types.ActionConflict {
			row.Guard = d.Guard
			row.Reason = d.Reason
		}
		rows = append(rows, row)
	}
	return rows
}

func renderStatus(w io.Writer, rows []statusRow, format ui.Format) error {
	switch format {
	case ui.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case ui.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case ui.FormatTerminal:
		data := pterm.TableData{{"Resource", "State", "Action", "Live"}}
		for _, r := range rows {
			state := r.State
			switch r.Action {
			case "skip":
				state = style.SuccessStyle.Render(state)
			case "conflict", "":
				state = style.ErrorStyle.Render(state)
			default:
				state = style.WarningStyle.Render(state)
			}
			data = append(data, []string{r.Name, state, r.actionLabel(), style.PathStyle.Render(r.Live)})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, style.TitleStyle.Render(MsgTitleStatus)+"\n"+table)
		return err
	default:
		var b strings.Builder
		fmt.Fprintf(&b, MsgStatusLine, MsgStatusLineHeader, "STATE", "ACTION")
		for _, r := range rows {
			action := r.actionLabel()
			if r.Error != "" {
				action = r.Error
			}
			fmt.Fprintf(&b, MsgStatusLine, r.Name, r.State, action)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:               "status [resources...]",
		Short:             MsgStatusShort,
		Long:              MsgStatusLong,
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
			format, err := outputFormat(cmd, cfg)
			if err != nil {
				return err
			}
			return renderStatus(cmd.OutOrStdout(), collectStatus(filesystem.NewOS(), resources), format)
		},
	}
}

func newBackupsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:               "backups [resources...]",
		Short:             MsgBackupsShort,
		Long:              MsgBackupsLong,
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

			out := cmd.OutOrStdout()
			for _, res := range resources {
				found, err := backup.List(res.LivePath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s (%s)\n", res.Label(), res.LivePath)
				if len(found) == 0 {
					fmt.Fprintln(out, MsgNoBackups)
					continue
				}
				for _, path := range found {
					fmt.Fprintf(out, "  %s\n", path)
				}
			}
			return nil
		},
	}
}

// statesMarkdown documents the dispatch table
func statesMarkdown() string {
	var b strings.Builder
	b.WriteString(MsgStatesHeader + "\n\n")
	b.WriteString("| State | Action | Why |\n|---|---|---|\n")
	for _, r := range reconcile.Rules {
		fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", r.State, r.Action, r.Rationale)
	}
	b.WriteString("\n" + MsgStatesGuards + "\n\n")
	b.WriteString("| Guard | State | Instead of | Why |\n|---|---|---|---|\n")
	for _, g := range reconcile.Guards {
		state := "any"
		if g.State != types.StateUnknown {
			state = "`" + g.State.String() + "`"
		}
		fmt.Fprintf(&b, "| `%s` | %s | `%s` | %s Reported as `%s` with code `%s`. |\n",
			g.Name, state, g.Instead, g.Rationale, types.ActionConflict, g.Code)
	}
	return b.String()
}

func newStatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "states",
		Short:   MsgStatesShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			md := statesMarkdown()
			if _, isFile := cmd.OutOrStdout().(interface{ Fd() uintptr }); !isFile || opts.noColor || opts.format == "text" {
				_, err := io.WriteString(cmd.OutOrStdout(), md)
				return err
			}
			rendered, err := topics.RenderMarkdown(md, "auto", 0)
			if err != nil {
				rendered = md
			}
			_, err = io.WriteString(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

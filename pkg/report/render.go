package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/style"
	"github.com/arthur-debert/dotlink/pkg/ui"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

var plainGlyphs = map[Status]string{
	StatusSuccess: "✓",
	StatusSkipped: "-",
	StatusInfo:    "•",
	StatusWarning: "!",
	StatusFailed:  "✗",
}

// Render writes the summary in the given format. FormatAuto must be
// resolved by the caller (see ui.Resolve); it renders as plain text here.
func Render(w io.Writer, title string, s Summary, format ui.Format) error {
	switch format {
	case ui.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case ui.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case ui.FormatTerminal:
		return renderTerminal(w, title, s)
	default:
		return renderText(w, title, s)
	}
}

func headerText(title string, s Summary) string {
	if s.DryRun {
		return title + " (dry run)"
	}
	return title
}

func renderText(w io.Writer, title string, s Summary) error {
	var b strings.Builder
	b.WriteString(headerText(title, s) + "\n")
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "  %s %s\n", plainGlyphs[e.Status], e.Line())
	}
	b.WriteString(SummaryLine(s) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func renderTerminal(w io.Writer, title string, s Summary) error {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render(headerText(title, s)) + "\n\n")

	for _, e := range s.Entries {
		line := e.Line()
		if e.DryRun {
			line = style.DryRunStyle.Render(DryRunPrefix) + strings.TrimPrefix(line, DryRunPrefix)
		}
		b.WriteString(style.Indent(style.Indicator(style.Status(e.Status))+" "+line, 1) + "\n")
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"succeeded", "skipped", "warnings", "failed", "installed", "install failed"},
		{
			style.StatusStyle(style.StatusSuccess).Sprint(strconv.Itoa(s.Succeeded)),
			style.StatusStyle(style.StatusSkipped).Sprint(strconv.Itoa(s.Skipped)),
			style.StatusStyle(style.StatusWarning).Sprint(strconv.Itoa(s.Warnings)),
			style.StatusStyle(style.StatusFailed).Sprint(strconv.Itoa(s.Failed)),
			style.StatusStyle(style.StatusSuccess).Sprint(strconv.Itoa(s.Installed)),
			style.StatusStyle(style.StatusFailed).Sprint(strconv.Itoa(s.InstallFailed)),
		},
	}).Srender()
	if err != nil {
		return err
	}
	b.WriteString("\n" + table + "\n")

	_, err = io.WriteString(w, b.String())
	return err
}

// SummaryLine is the one-line aggregate used by the text renderer
func SummaryLine(s Summary) string {
	line := fmt.Sprintf("%d succeeded, %d skipped, %d warnings, %d failed",
		s.Succeeded, s.Skipped, s.Warnings, s.Failed)
	if s.Installed > 0 || s.InstallFailed > 0 {
		line += fmt.Sprintf("; %d installed, %d install failures", s.Installed, s.InstallFailed)
	}
	return line
}

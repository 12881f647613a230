package style

import (
	"github.com/pterm/pterm"
)

// Status is the visual class of a report line
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusInfo    Status = "info"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// StatusStyle returns the pterm style used for a status label in tables
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusWarning:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case StatusInfo:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Indicator returns the lipgloss-styled glyph for a status
func Indicator(status Status) string {
	switch status {
	case StatusSuccess:
		return SuccessIndicator
	case StatusFailed:
		return ErrorIndicator
	case StatusWarning:
		return WarningIndicator
	case StatusInfo:
		return InfoIndicator
	default:
		return SkipIndicator
	}
}

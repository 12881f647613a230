// Package report accumulates the outcome of every attempted action in a
// run and renders a summary. A Log is an explicit value threaded through
// the engine; there is no process-wide state.
package report

import (
	"fmt"
	"strings"
)

// DryRunPrefix marks entries that describe what would have happened
const DryRunPrefix = "[DRY RUN] "

// Status classifies an entry
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusInfo    Status = "info"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Entry is one line of the report
type Entry struct {
	Status  Status `json:"status" yaml:"status"`
	Subject string `json:"subject" yaml:"subject"`
	Action  string `json:"action,omitempty" yaml:"action,omitempty"`
	Message string `json:"message" yaml:"message"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// Line renders the entry as a human-readable description
func (e Entry) Line() string {
	var b strings.Builder
	if e.DryRun {
		b.WriteString(DryRunPrefix)
	}
	b.WriteString(e.Subject)
	if e.Action != "" {
		fmt.Fprintf(&b, " (%s)", e.Action)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Error != "" {
		b.WriteString(": ")
		b.WriteString(e.Error)
	}
	return b.String()
}

// Log is an append-only accumulator
type Log struct {
	dryRun        bool
	entries       []Entry
	installed     int
	installFailed int
}

// NewLog returns an empty log. Every entry recorded through it carries the
// dry-run marker when dryRun is set.
func NewLog(dryRun bool) *Log {
	return &Log{dryRun: dryRun}
}

// DryRun reports whether the log belongs to a preview run
func (l *Log) DryRun() bool {
	return l.dryRun
}

// Record appends an entry
func (l *Log) Record(e Entry) {
	e.DryRun = e.DryRun || l.dryRun
	l.entries = append(l.entries, e)
}

// Success records a completed action
func (l *Log) Success(subject, action, message string) {
	l.Record(Entry{Status: StatusSuccess, Subject: subject, Action: action, Message: message})
}

// Skip records a no-op
func (l *Log) Skip(subject, action, message string) {
	l.Record(Entry{Status: StatusSkipped, Subject: subject, Action: action, Message: message})
}

// Info records an informational line
func (l *Log) Info(subject, message string) {
	l.Record(Entry{Status: StatusInfo, Subject: subject, Message: message})
}

// Warn records a recoverable problem
func (l *Log) Warn(subject, action, message string, err error) {
	l.Record(Entry{Status: StatusWarning, Subject: subject, Action: action, Message: message, Error: errString(err)})
}

// Fail records a failed action
func (l *Log) Fail(subject, action, message string, err error) {
	l.Record(Entry{Status: StatusFailed, Subject: subject, Action: action, Message: message, Error: errString(err)})
}

// CountInstall tallies one set-diff install attempt
func (l *Log) CountInstall(ok bool) {
	if ok {
		l.installed++
	} else {
		l.installFailed++
	}
}

// Entries returns a copy of the recorded entries in order
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Summarize aggregates the log
func (l *Log) Summarize() Summary {
	s := Summary{
		Entries:       l.Entries(),
		Installed:     l.installed,
		InstallFailed: l.installFailed,
		DryRun:        l.dryRun,
	}
	for _, e := range l.entries {
		switch e.Status {
		case StatusSuccess:
			s.Succeeded++
		case StatusSkipped:
			s.Skipped++
		case StatusWarning:
			s.Warnings++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// Summary is the rendered form of a run
type Summary struct {
	Entries       []Entry `json:"entries" yaml:"entries"`
	Succeeded     int     `json:"succeeded" yaml:"succeeded"`
	Skipped       int     `json:"skipped" yaml:"skipped"`
	Warnings      int     `json:"warnings" yaml:"warnings"`
	Failed        int     `json:"failed" yaml:"failed"`
	Installed     int     `json:"installed" yaml:"installed"`
	InstallFailed int     `json:"install_failed" yaml:"install_failed"`
	DryRun        bool    `json:"dry_run" yaml:"dry_run"`
}

// HasFailures reports whether anything failed outright
func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.InstallFailed > 0
}

// Lines returns every entry's description in order
func (s Summary) Lines() []string {
	lines := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		lines = append(lines, e.Line())
	}
	return lines
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

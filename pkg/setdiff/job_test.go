// pkg/setdiff/job_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: report.Log
// PURPOSE: RunJob lists, installs and reports, including dry runs

package setdiff_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/report"
	"github.com/arthur-debert/dotlink/pkg/setdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func static(ids ...string) setdiff.Lister {
	return func(context.Context) ([]string, error) { return ids, nil }
}

func TestParseDirection(t *testing.T) {
	d, err := setdiff.ParseDirection("to-live")
	require.NoError(t, err)
	assert.Equal(t, setdiff.ToLive, d)

	_, err = setdiff.ParseDirection("sideways")
	assert.Error(t, err)
}

func TestRunJob(t *testing.T) {
	rec := &recorder{fail: map[string]bool{"a": true}}
	job := setdiff.Job{
		Name:      "vscode",
		Direction: setdiff.ToLive,
		Source:    static("a", "b", "c"),
		Target:    static("b"),
		Install:   rec.install,
	}
	log := report.NewLog(false)

	result := setdiff.RunJob(context.Background(), job, log, false)

	assert.Equal(t, []string{"c"}, result.Installed)
	assert.Equal(t, []string{"a"}, result.Failed)

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, report.StatusFailed, entries[0].Status)
	assert.Equal(t, "vscode to-live", entries[0].Subject)
	assert.Contains(t, entries[0].Message, "a")
	assert.Equal(t, report.StatusSuccess, entries[1].Status)
	assert.Contains(t, entries[1].Message, "c")

	s := log.Summarize()
	assert.Equal(t, 1, s.Installed)
	assert.Equal(t, 1, s.InstallFailed)
	assert.True(t, s.HasFailures())
}

func TestRunJob_InSync(t *testing.T) {
	rec := &recorder{}
	job := setdiff.Job{Name: "vscode", Source: static("a"), Target: static("a"), Install: rec.install}
	log := report.NewLog(false)

	setdiff.RunJob(context.Background(), job, log, false)

	require.Len(t, log.Entries(), 1)
	assert.Equal(t, report.StatusSkipped, log.Entries()[0].Status)
}

func TestRunJob_DryRunInstallsNothing(t *testing.T) {
	rec := &recorder{}
	job := setdiff.Job{Name: "vscode", Direction: setdiff.ToRepo, Source: static("a", "b"), Target: static(), Install: rec.install}
	log := report.NewLog(true)

	result := setdiff.RunJob(context.Background(), job, log, true)

	assert.Empty(t, rec.calls)
	assert.Empty(t, result.Installed)
	entries := log.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.DryRun)
		assert.Contains(t, e.Line(), report.DryRunPrefix)
	}

	// Same messages and tallies as a real run, apart from the marker
	executed := report.NewLog(false)
	setdiff.RunJob(context.Background(), job, executed, false)
	realEntries := executed.Entries()
	require.Len(t, realEntries, 2)
	for i := range entries {
		assert.Equal(t, report.DryRunPrefix+realEntries[i].Line(), entries[i].Line())
	}
	assert.Equal(t, executed.Summarize().Installed, log.Summarize().Installed)
	assert.Equal(t, 2, log.Summarize().Installed)
}

func TestRunJob_ListFailure(t *testing.T) {
	rec := &recorder{}
	job := setdiff.Job{
		Name:    "vscode",
		Source:  static("a"),
		Target:  func(context.Context) ([]string, error) { return nil, fmt.Errorf("code: not found") },
		Install: rec.install,
	}
	log := report.NewLog(false)

	setdiff.RunJob(context.Background(), job, log, false)

	assert.Empty(t, rec.calls)
	require.Len(t, log.Entries(), 1)
	assert.Equal(t, report.StatusFailed, log.Entries()[0].Status)
	assert.Contains(t, log.Entries()[0].Error, "LIST_FAILED")
}

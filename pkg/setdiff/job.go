package setdiff

import (
	"context"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/report"
)

// Direction names which side of a job is the source
type Direction string

const (
	// ToLive installs repository ids into the live application
	ToLive Direction = "to-live"
	// ToRepo records live ids in the repository
	ToRepo Direction = "to-repo"
)

// ParseDirection validates a direction name
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case ToLive, ToRepo:
		return Direction(s), nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown direction %q (want %s or %s)", s, ToLive, ToRepo)
}

// Job is one directional synchronization
type Job struct {
	Name      string
	Direction Direction
	Source    Lister
	Target    Lister
	Install   Installer
}

// Subject is the report label of the job
func (j Job) Subject() string {
	if j.Direction == "" {
		return j.Name
	}
	return j.Name + " " + string(j.Direction)
}

// RunJob lists both sides fresh, installs what is missing and records
// every step in log. Under dryRun the missing ids are only reported, with
// the same messages and tallies as a real run.
// Listing failures are reported and end the job; they are not returned.
func RunJob(ctx context.Context, job Job, log *report.Log, dryRun bool) Result {
	subject := job.Subject()

	source, err := job.Source(ctx)
	if err != nil {
		err = errors.Wrapf(err, errors.ErrListFailed, "cannot list source of %s", job.Name)
		log.Fail(subject, "list", "cannot list source", err)
		return Result{Errors: map[string]error{}}
	}
	target, err := job.Target(ctx)
	if err != nil {
		err = errors.Wrapf(err, errors.ErrListFailed, "cannot list target of %s", job.Name)
		log.Fail(subject, "list", "cannot list target", err)
		return Result{Errors: map[string]error{}}
	}

	if dryRun {
		missing := Difference(source, target)
		if len(missing) == 0 {
			log.Record(report.Entry{Status: report.StatusSkipped, Subject: subject, Action: "install",
				Message: "already in sync", DryRun: true})
		}
		// Tallied as if installed so a preview summary matches the real run
		for _, id := range missing {
			log.Record(report.Entry{Status: report.StatusSuccess, Subject: subject, Action: "install",
				Message: "installed " + id, DryRun: true})
			log.CountInstall(true)
		}
		return Result{Errors: map[string]error{}}
	}

	result := Sync(ctx, source, target, job.Install)
	if len(result.Installed) == 0 && len(result.Failed) == 0 {
		log.Skip(subject, "install", "already in sync")
		return result
	}

	// Report in the order ids were attempted
	failed := make(map[string]bool, len(result.Failed))
	for _, id := range result.Failed {
		failed[id] = true
	}
	for _, id := range Difference(source, target) {
		if failed[id] {
			log.Fail(subject, "install", "failed to install "+id, result.Errors[id])
			log.CountInstall(false)
			continue
		}
		log.Success(subject, "install", "installed "+id)
		log.CountInstall(true)
	}
	return result
}

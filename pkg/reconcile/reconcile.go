// Package reconcile drives each managed resource toward the linked state:
// the live path is a symlink whose target is the repository path.
//
// Every run re-inspects the filesystem; nothing is cached between runs.
// Resources are handled one at a time and independently, and failures
// become report entries instead of errors.
package reconcile

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"syscall"
	"time"

	"github.com/arthur-debert/dotlink/pkg/backup"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/inspect"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/report"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/rs/zerolog"
)

// Outcome is what happened to one resource
type Outcome struct {
	Resource types.ManagedResource
	State    types.ResourceState
	Action   types.ActionKind
	// Completed is true when the action finished (or would have, in a dry run)
	Completed  bool
	BackupPath string
	Err        error
}

// Reconciler executes decisions against an FS
type Reconciler struct {
	FS     types.FS
	Backup *backup.Service
	Log    *report.Log
	DryRun bool

	logger zerolog.Logger
}

// New returns a Reconciler with a wall-clock backup service. It previews
// instead of acting when log was created for a dry run.
func New(fsys types.FS, log *report.Log) *Reconciler {
	return &Reconciler{
		FS:     fsys,
		Backup: backup.New(fsys),
		Log:    log,
		DryRun: log.DryRun(),
		logger: logging.GetLogger("reconcile"),
	}
}

// ReconcileAll handles resources in order. Cancellation is checked between
// resources only.
func (r *Reconciler) ReconcileAll(ctx context.Context, resources []types.ManagedResource) []Outcome {
	defer logging.LogOperationStart(r.logger, "reconcile-all")()

	outcomes := make([]Outcome, 0, len(resources))
	for i, res := range resources {
		if err := ctx.Err(); err != nil {
			r.Log.Warn("run", "", fmt.Sprintf("canceled with %d resources not processed", len(resources)-i),
				errors.Wrap(err, errors.ErrCanceled, "canceled"))
			break
		}
		outcomes = append(outcomes, r.Reconcile(ctx, res))
	}
	return outcomes
}

// Reconcile classifies one resource, selects its action and performs it,
// or only records it when DryRun is set. It always appends exactly one
// entry to the log.
func (r *Reconciler) Reconcile(ctx context.Context, res types.ManagedResource) Outcome {
	logger := r.logger.With().
		Str("resource", res.Label()).
		Bool("dryRun", r.DryRun).
		Logger()
	subject := res.Label()

	inspection, err := inspect.Classify(r.FS, res)
	if err != nil {
		logger.Error().Err(err).Msg("inspection failed")
		r.record(report.Entry{Status: report.StatusFailed, Subject: subject, Action: "inspect",
			Message: "cannot inspect resource, left untouched", Error: err.Error()})
		return Outcome{Resource: res, Action: types.ActionConflict, Err: err}
	}

	decision := Decide(inspection)
	out := Outcome{Resource: res, State: decision.State, Action: decision.Action}
	action := decision.Action.String()

	logger.Debug().
		Str("state", decision.State.String()).
		Str("action", action).
		Msg("decided")

	switch decision.Action {
	case types.ActionSkip:
		out.Completed = true
		if decision.State == types.StateNeitherExists {
			r.record(report.Entry{Status: report.StatusInfo, Subject: subject, Action: action,
				Message: "neither live nor repository path exists"})
		} else {
			r.record(report.Entry{Status: report.StatusSkipped, Subject: subject, Action: action,
				Message: "already correctly symlinked to " + res.RepoPath})
		}
		return out

	case types.ActionConflict:
		conflict := errors.New(decision.Code, decision.Reason).
			WithDetail("state", decision.State.String())
		if decision.Guard != "" {
			conflict.WithDetail("guard", decision.Guard)
		}
		out.Err = conflict
		logger.Warn().Err(out.Err).Msg("conflict, leaving resource untouched")
		r.record(report.Entry{Status: report.StatusFailed, Subject: subject, Action: action,
			Message: conflictMessage(decision), Error: out.Err.Error()})
		return out

	case types.ActionCreateLink:
		out.Err = r.createLink(res)
		return r.finish(logger, out, "linked "+res.LivePath+" -> "+res.RepoPath)

	case types.ActionMigrateAndLink:
		return r.migrateAndLink(logger, out)

	case types.ActionBackupThenLink:
		return r.backupThenLink(logger, out, inspection.LiveKind)
	}

	out.Err = errors.Newf(errors.ErrAmbiguousState, "unhandled action %s", action)
	r.record(report.Entry{Status: report.StatusFailed, Subject: subject, Action: action,
		Message: "unhandled action, left untouched", Error: out.Err.Error()})
	return out
}

// createLink ensures the live parent exists and creates the symlink
func (r *Reconciler) createLink(res types.ManagedResource) error {
	if r.DryRun {
		return nil
	}
	if err := r.FS.MkdirAll(filepath.Dir(res.LivePath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrLinkCreationFailed, "cannot create %s", filepath.Dir(res.LivePath))
	}
	if err := r.FS.Symlink(res.RepoPath, res.LivePath); err != nil {
		return errors.Wrapf(err, errors.ErrLinkCreationFailed, "cannot link %s", res.LivePath)
	}
	return nil
}

// migrateAndLink moves live content into the repository, then links back.
// If the move succeeds and linking fails the resource is left RepoOnly,
// which the next run repairs.
func (r *Reconciler) migrateAndLink(logger zerolog.Logger, out Outcome) Outcome {
	res := out.Resource
	subject := res.Label()
	action := out.Action.String()

	if !r.DryRun {
		if err := r.FS.MkdirAll(filepath.Dir(res.RepoPath), 0755); err != nil {
			out.Err = errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(res.RepoPath))
			logger.Error().Err(out.Err).Msg("migrate failed")
			r.record(report.Entry{Status: report.StatusFailed, Subject: subject, Action: action,
				Message: "cannot prepare repository location, left untouched", Error: out.Err.Error()})
			return out
		}
		if err := r.move(res.LivePath, res.RepoPath); err != nil {
			out.Err = err
			logger.Error().Err(err).Msg("move failed")
			message := "cannot move into repository, left untouched"
			if errors.IsErrorCode(err, errors.ErrMovePartial) {
				message = "copied into repository at " + res.RepoPath + " but the original at " +
					res.LivePath + " is still partly in place; rerun to back it up and link"
			}
			r.record(report.Entry{Status: report.StatusFailed, Subject: subject, Action: action,
				Message: message, Error: err.Error()})
			return out
		}
		logger.Info().Str("from", res.LivePath).Str("to", res.RepoPath).Msg("moved live content into repository")
	}

	out.Err = r.createLink(res)
	return r.finish(logger, out, "moved "+res.LivePath+" into repository at "+res.RepoPath+" and linked back")
}

// backupThenLink protects the live path, removes it, and links. A failed
// backup aborts before anything is removed.
func (r *Reconciler) backupThenLink(logger zerolog.Logger, out Outcome, liveKind types.PathKind) Outcome {
	res := out.Resource
	subject := res.Label()
	action := out.Action.String()

	if r.DryRun {
		name, err := r.Backup.Preview(res.LivePath)
		if err != nil {
			name = backup.NameFor(res.LivePath, time.Now())
		}
		out.BackupPath = name
	} else {
		result, err := r.Backup.Backup(res.LivePath)
		if err != nil {
			out.Err = err
			logger.Error().Err(err).Msg("backup failed, leaving live path untouched")
			r.record(report.Entry{Status: report.StatusFailed, Subject: subject, Action: action,
				Message: "backup failed, left untouched", Error: err.Error()})
			return out
		}
		out.BackupPath = result.Path

		if err := r.removeLive(res.LivePath, liveKind); err != nil {
			out.Err = err
			logger.Error().Err(err).Str("backup", out.BackupPath).Msg("remove failed")
			r.record(report.Entry{Status: report.StatusFailed, Subject: subject, Action: action,
				Message: "cannot remove live path; backup kept at " + out.BackupPath, Error: err.Error()})
			return out
		}
	}

	out.Err = r.createLink(res)
	return r.finish(logger, out,
		"backed up "+res.LivePath+" to "+out.BackupPath+" and linked to "+res.RepoPath)
}

// removeLive never recurses through a symlink: only a real directory is
// removed recursively
func (r *Reconciler) removeLive(path string, kind types.PathKind) error {
	var err error
	if kind == types.KindDirectory {
		err = r.FS.RemoveAll(path)
	} else {
		err = r.FS.Remove(path)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrRemoveFailed, "cannot remove %s", path)
	}
	return nil
}

// move renames src to dst, copying across filesystems when needed
func (r *Reconciler) move(src, dst string) error {
	err := r.FS.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, syscall.EXDEV) {
		return errors.Wrapf(err, errors.ErrMoveFailed, "cannot move %s to %s", src, dst)
	}

	if err := backup.CopyTree(r.FS, src, dst); err != nil {
		_ = r.FS.RemoveAll(dst)
		return errors.Wrapf(err, errors.ErrMoveFailed, "cannot copy %s to %s", src, dst)
	}
	if err := r.FS.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrMovePartial, "copied %s to %s but cannot remove the original", src, dst).
			WithDetail("copy", dst)
	}
	return nil
}

// finish records the result of the final linking step. A link failure is
// a warning: the resource is in a state the next run recovers from.
func (r *Reconciler) finish(logger zerolog.Logger, out Outcome, message string) Outcome {
	subject := out.Resource.Label()
	action := out.Action.String()

	if out.Err != nil {
		logger.Warn().Err(out.Err).Msg("link creation failed")
		r.record(report.Entry{Status: report.StatusWarning, Subject: subject, Action: action,
			Message: "link not created; rerun to finish", Error: out.Err.Error()})
		return out
	}

	out.Completed = true
	if !r.DryRun {
		logger.Info().Str("action", action).Msg(message)
	}
	r.record(report.Entry{Status: report.StatusSuccess, Subject: subject, Action: action, Message: message})
	return out
}

func conflictMessage(d Decision) string {
	if d.Guard != "" {
		return "conflict (" + d.Guard + "), left untouched"
	}
	return "conflict, left untouched"
}

func (r *Reconciler) record(e report.Entry) {
	e.DryRun = r.DryRun
	r.Log.Record(e)
}

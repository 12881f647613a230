// Package setdiff keeps an unordered collection of identifiers in sync
// from a source to a target. Only missing items are installed; nothing is
// ever removed from the target.
package setdiff

import (
	"context"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
)

// Lister returns the current identifiers of one side
type Lister func(ctx context.Context) ([]string, error)

// Installer adds one identifier to the target
type Installer func(ctx context.Context, id string) error

// Result holds the per-id outcome of a Sync
type Result struct {
	Installed []string
	Failed    []string
	Errors    map[string]error
}

// Difference returns the ids in source that are not in target, in the
// order they first appear in source, without duplicates
func Difference(source, target []string) []string {
	present := make(map[string]struct{}, len(target))
	for _, id := range target {
		present[id] = struct{}{}
	}

	var missing []string
	for _, id := range source {
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing
}

// Sync installs every id of source missing from target, one at a time.
// A failed install is recorded and the loop moves on; successful installs
// are never undone. Cancellation is checked between ids and the remaining
// ids are reported as failed.
func Sync(ctx context.Context, source, target []string, install Installer) Result {
	logger := logging.GetLogger("setdiff")
	missing := Difference(source, target)
	result := Result{Errors: map[string]error{}}

	logger.Debug().Int("source", len(source)).Int("target", len(target)).Int("missing", len(missing)).Msg("computed difference")

	for _, id := range missing {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, id)
			result.Errors[id] = errors.Wrap(err, errors.ErrCanceled, "canceled before install")
			continue
		}

		if err := install(ctx, id); err != nil {
			if !errors.IsErrorCode(err, errors.ErrInstallFailed) {
				err = errors.Wrapf(err, errors.ErrInstallFailed, "cannot install %s", id)
			}
			logger.Warn().Err(err).Str("id", id).Msg("install failed")
			result.Failed = append(result.Failed, id)
			result.Errors[id] = err
			continue
		}

		logger.Info().Str("id", id).Msg("installed")
		result.Installed = append(result.Installed, id)
	}
	return result
}

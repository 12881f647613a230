// Package inspect classifies the on-disk relationship between a live path
// and its repository path. It never mutates the filesystem.
package inspect

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Classify inspects resource and returns its state.
//
// A live symlink is compared to the repo path by exact string equality on
// the literal link target. A link that reaches the same file through a
// different path string is SymlinkElsewhere.
func Classify(fsys types.FS, resource types.ManagedResource) (types.Inspection, error) {
	logger := logging.GetLogger("inspect").With().
		Str("live", resource.LivePath).
		Str("repo", resource.RepoPath).
		Logger()

	result := types.Inspection{Resource: resource}

	liveKind, err := kindOf(fsys.Lstat, resource.LivePath)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrInspectFailed, "cannot inspect live path %s", resource.LivePath)
	}
	result.LiveKind = liveKind

	repoKind, err := kindOf(fsys.Stat, resource.RepoPath)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrInspectFailed, "cannot inspect repo path %s", resource.RepoPath)
	}
	result.RepoKind = repoKind

	if liveKind == types.KindSymlink {
		target, err := fsys.Readlink(resource.LivePath)
		if err != nil {
			return result, errors.Wrapf(err, errors.ErrInspectFailed, "cannot read link %s", resource.LivePath)
		}
		result.LinkTarget = target
	}

	result.State = stateFor(result)

	logger.Trace().
		Str("state", result.State.String()).
		Str("liveKind", liveKind.String()).
		Str("repoKind", repoKind.String()).
		Str("linkTarget", result.LinkTarget).
		Msg("classified resource")

	return result, nil
}

func stateFor(in types.Inspection) types.ResourceState {
	if in.LiveKind == types.KindSymlink {
		if in.LinkTarget == in.Resource.RepoPath {
			return types.StateSymlinkCorrect
		}
		return types.StateSymlinkElsewhere
	}

	liveExists := in.LiveKind.Exists()
	repoExists := in.RepoKind.Exists()
	switch {
	case liveExists && repoExists:
		return types.StateBothDiverged
	case liveExists:
		return types.StateLiveOnly
	case repoExists:
		return types.StateRepoOnly
	default:
		return types.StateNeitherExists
	}
}

// kindOf reports what is at path using the given stat function.
// Not-exist is KindAbsent, not an error.
func kindOf(stat func(string) (fs.FileInfo, error), path string) (types.PathKind, error) {
	info, err := stat(path)
	if err != nil {
		if os.IsNotExist(err) || isNotDir(err) {
			return types.KindAbsent, nil
		}
		return types.KindAbsent, err
	}
	return KindOfInfo(info), nil
}

// KindOfInfo maps file info to a PathKind
func KindOfInfo(info fs.FileInfo) types.PathKind {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return types.KindSymlink
	case info.IsDir():
		return types.KindDirectory
	default:
		return types.KindFile
	}
}

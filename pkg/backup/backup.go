// Package backup makes timestamped, non-destructive copies of a path
// before the engine removes or overwrites it. Backups are never managed,
// rotated or deleted by dotlink; that is left to the user.
package backup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/inspect"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	// Marker separates the original path from the timestamp
	Marker = ".backup_"

	// TimestampFormat is YYYYMMDD_HHMMSS
	TimestampFormat = "20060102_150405"

	maxCollisions = 1000
)

// Result describes a backup attempt. Created is false when there was
// nothing to protect.
type Result struct {
	Path    string
	Created bool
}

// Service creates backups through an FS
type Service struct {
	FS    types.FS
	Clock func() time.Time
}

// New returns a Service using the wall clock
func New(fsys types.FS) *Service {
	return &Service{FS: fsys, Clock: time.Now}
}

// NameFor returns the backup path for path at time t, without collision handling
func NameFor(path string, t time.Time) string {
	return path + Marker + t.Format(TimestampFormat)
}

// Backup copies path to a timestamp-suffixed sibling. It is a no-op when
// path does not exist. Symlinks are copied as symlinks with the same
// literal target; directories are copied recursively.
func (s *Service) Backup(path string) (Result, error) {
	logger := logging.GetLogger("backup").With().Str("path", path).Logger()

	if _, err := s.FS.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Msg("nothing to back up")
			return Result{}, nil
		}
		return Result{}, errors.Wrapf(err, errors.ErrBackupFailed, "cannot stat %s", path)
	}

	dest, err := s.freeName(path)
	if err != nil {
		return Result{}, err
	}

	if err := CopyTree(s.FS, path, dest); err != nil {
		if cleanupErr := s.FS.RemoveAll(dest); cleanupErr != nil {
			logger.Warn().Err(cleanupErr).Str("backup", dest).Msg("failed to remove partial backup")
		}
		return Result{}, errors.Wrapf(err, errors.ErrBackupFailed, "cannot back up %s", path).
			WithDetail("backup", dest)
	}

	logger.Info().Str("backup", dest).Msg("created backup")
	return Result{Path: dest, Created: true}, nil
}

// freeName picks the timestamped name, appending _1, _2, ... when a backup
// with the same second already exists
func (s *Service) freeName(path string) (string, error) {
	base := NameFor(path, s.now())
	candidate := base
	for i := 1; i <= maxCollisions; i++ {
		_, err := s.FS.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot check backup name %s", candidate)
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
	return "", errors.Newf(errors.ErrBackupFailed, "too many backups of %s within one second", path)
}

// Preview returns the path Backup would use for path right now. It only
// reads the filesystem.
func (s *Service) Preview(path string) (string, error) {
	return s.freeName(path)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// CopyTree copies src to dst without following symlinks. Regular files
// keep their permission bits; directories are copied recursively.
//
// Named pipes, sockets and device files are never opened: reading a pipe
// blocks until a writer shows up. Inside a directory they are skipped with
// a warning. When src itself is one, CopyTree fails with ErrSpecialFile.
func CopyTree(fsys types.FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return err
	}
	if isSpecial(info) {
		return errors.Newf(errors.ErrSpecialFile, "%s is a %s and cannot be copied", src, specialKind(info)).
			WithDetail("path", src)
	}
	return copyTree(fsys, src, dst, info)
}

func copyTree(fsys types.FS, src, dst string, info fs.FileInfo) error {
	switch inspect.KindOfInfo(info) {
	case types.KindSymlink:
		target, err := fsys.Readlink(src)
		if err != nil {
			return err
		}
		return fsys.Symlink(target, dst)

	case types.KindDirectory:
		if err := fsys.MkdirAll(dst, 0700); err != nil {
			return err
		}
		entries, err := fsys.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			from := filepath.Join(src, entry.Name())
			child, err := fsys.Lstat(from)
			if err != nil {
				return err
			}
			if isSpecial(child) {
				logger := logging.GetLogger("backup")
				logger.Warn().
					Str("path", from).
					Str("type", specialKind(child)).
					Msg("skipping special file")
				continue
			}
			if err := copyTree(fsys, from, filepath.Join(dst, entry.Name()), child); err != nil {
				return err
			}
		}
		return fsys.Chmod(dst, info.Mode().Perm())

	default:
		data, err := fsys.ReadFile(src)
		if err != nil {
			return err
		}
		if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
			return err
		}
		return fsys.Chmod(dst, info.Mode().Perm())
	}
}

// isSpecial is true for anything that is not a regular file, a directory
// or a symlink
func isSpecial(info fs.FileInfo) bool {
	return info.Mode()&(fs.ModeNamedPipe|fs.ModeSocket|fs.ModeDevice|fs.ModeCharDevice|fs.ModeIrregular) != 0
}

func specialKind(info fs.FileInfo) string {
	mode := info.Mode()
	switch {
	case mode&fs.ModeNamedPipe != 0:
		return "named pipe"
	case mode&fs.ModeSocket != 0:
		return "socket"
	case mode&(fs.ModeDevice|fs.ModeCharDevice) != 0:
		return "device"
	default:
		return "irregular file"
	}
}

// List returns the existing backups of path, oldest first
func List(path string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(escapeMeta(path) + Marker + "*")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot list backups of %s", path)
	}
	sort.Strings(matches)
	return matches, nil
}

func escapeMeta(path string) string {
	var b strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

package inspect

import (
	stderrors "errors"
	"syscall"
)

// isNotDir covers paths whose parent is a regular file, which stat reports
// as ENOTDIR rather than ENOENT. Nothing can exist there either.
func isNotDir(err error) bool {
	return stderrors.Is(err, syscall.ENOTDIR)
}

package extensions

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/setdiff"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// FileLister reads identifiers from path. A missing file is an empty list.
func FileLister(fsys types.FS, path string) setdiff.Lister {
	return func(context.Context) ([]string, error) {
		data, err := fsys.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, errors.Wrapf(err, errors.ErrListFailed, "cannot read %s", path)
		}
		return ParseIDs(data), nil
	}
}

// FileAppender records an identifier by appending it to path, creating
// the file and its parents when needed. An id already listed is left alone.
func FileAppender(fsys types.FS, path string) setdiff.Installer {
	return func(_ context.Context, id string) error {
		id = strings.TrimSpace(id)
		if id == "" {
			return errors.New(errors.ErrInstallFailed, "empty identifier")
		}

		data, err := fsys.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrInstallFailed, "cannot read %s", path)
		}
		for _, existing := range ParseIDs(data) {
			if existing == id {
				return nil
			}
		}

		if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrInstallFailed, "cannot create %s", filepath.Dir(path))
		}

		content := string(data)
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += id + "\n"

		if err := fsys.WriteFile(path, []byte(content), 0644); err != nil {
			return errors.Wrapf(err, errors.ErrInstallFailed, "cannot write %s", path)
		}
		return nil
	}
}

// Package extensions provides the Listers and Installers used by set-diff
// jobs: an external CLI (for example `code --list-extensions`) on the live
// side and a plain identifier file on the repository side.
package extensions

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/setdiff"
)

// CommandLister runs argv and returns one identifier per output line
func CommandLister(argv []string) setdiff.Lister {
	return func(ctx context.Context) ([]string, error) {
		if len(argv) == 0 {
			return nil, errors.New(errors.ErrInvalidInput, "empty list command")
		}
		logger := logging.GetLogger("extensions").With().Strs("argv", argv).Logger()

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			logger.Debug().Str("stderr", stderr.String()).Msg("list command failed")
			return nil, errors.Wrapf(err, errors.ErrListFailed, "%s failed", strings.Join(argv, " ")).
				WithDetail("stderr", strings.TrimSpace(stderr.String()))
		}

		ids := ParseIDs(stdout.Bytes())
		logger.Debug().Int("count", len(ids)).Msg("listed identifiers")
		return ids, nil
	}
}

// CommandInstaller runs argv with the identifier appended. A non-zero
// exit is an InstallFailed error carrying the command's stderr.
func CommandInstaller(argv []string) setdiff.Installer {
	return func(ctx context.Context, id string) error {
		if len(argv) == 0 {
			return errors.New(errors.ErrInvalidInput, "empty install command")
		}
		args := append(append([]string(nil), argv[1:]...), id)

		var stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, argv[0], args...)
		cmd.Stderr = &stderr

		logger := logging.GetLogger("extensions")
		logger.Info().
			Str("command", argv[0]).
			Strs("args", args).
			Msg("Executing command")

		if err := cmd.Run(); err != nil {
			return errors.Wrapf(err, errors.ErrInstallFailed, "cannot install %s", id).
				WithDetail("stderr", strings.TrimSpace(stderr.String()))
		}
		return nil
	}
}

// ParseIDs splits data into trimmed identifiers, one per line. Blank lines
// and lines starting with # are ignored.
func ParseIDs(data []byte) []string {
	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

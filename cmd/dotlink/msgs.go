package dotlink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep dotfiles symlinked to your repository without losing data"
	MsgLinkShort       = "Converge managed resources onto the repository"
	MsgStatusShort     = "Show the state of every managed resource"
	MsgSyncShort       = "Sync identifier lists such as editor extensions"
	MsgUpShort         = "Link everything, then sync everything"
	MsgBackupsShort    = "List backups made next to managed paths"
	MsgStatesShort     = "Explain resource states and the action taken for each"
	MsgConfigShort     = "Inspect or create configuration"
	MsgConfigInitShort = "Write a starter dotlink.toml into the dotfiles root"
	MsgConfigShowShort = "Print the merged configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Report titles
	MsgTitleLink   = "Link"
	MsgTitleSync   = "Sync"
	MsgTitleUp     = "Up"
	MsgTitleStatus = "Status"

	// Status messages
	MsgNoResources      = "No resources declared. Run `dotlink config init` to create a manifest."
	MsgNoJobs           = "No sync jobs to run."
	MsgNoBackups        = "  no backups"
	MsgManifestCreated  = "Created %s\n"
	MsgVersionFormat    = "dotlink version %s\n  commit: %s\n  built:  %s\n"
	MsgStatusLine       = "%-20s %-18s %s\n"
	MsgStatusLineHeader = "RESOURCE"
	MsgStatesGuards     = "These checks run before the table and override it. A guarded resource is reported as a conflict and left untouched."

	// Error messages
	MsgErrLoadConfig     = "failed to load configuration: %w"
	MsgErrManifestExists = "%s already exists"
	MsgErrFailures       = "%d action(s) failed"
	MsgErrNoCommand      = "no command specified"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun       = "Preview changes without executing them"
	MsgFlagDotfilesRoot = "Dotfiles repository root (default: $DOTFILES_ROOT, then the git root)"
	MsgFlagFormat       = "Output format: auto, term, text, json, yaml"
	MsgFlagNoColor      = "Disable colored output"
	MsgFlagFailOnError  = "Exit with status 1 when any action fails"
	MsgFlagDirection    = "Sync direction: to-live, to-repo or both"
	MsgFlagForce        = "Overwrite an existing manifest"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimRight(msgLinkExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/sync-example.txt
	msgSyncExampleRaw string
	MsgSyncExample    = strings.TrimRight(msgSyncExampleRaw, "\n")

	//go:embed msgs/up-long.txt
	msgUpLongRaw string
	MsgUpLong    = strings.TrimSpace(msgUpLongRaw)

	//go:embed msgs/backups-long.txt
	msgBackupsLongRaw string
	MsgBackupsLong    = strings.TrimSpace(msgBackupsLongRaw)

	//go:embed msgs/states-header.md
	msgStatesHeaderRaw string
	MsgStatesHeader    = strings.TrimSpace(msgStatesHeaderRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)

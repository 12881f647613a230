package types

// ActionKind is the reconciliation step selected for a resource state
type ActionKind int

const (
	ActionSkip ActionKind = iota
	ActionCreateLink
	ActionMigrateAndLink
	ActionBackupThenLink
	ActionConflict
)

// String returns a string representation of ActionKind
func (a ActionKind) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionCreateLink:
		return "create-link"
	case ActionMigrateAndLink:
		return "migrate-and-link"
	case ActionBackupThenLink:
		return "backup-then-link"
	case ActionConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Mutates reports whether executing the action touches the filesystem
func (a ActionKind) Mutates() bool {
	switch a {
	case ActionCreateLink, ActionMigrateAndLink, ActionBackupThenLink:
		return true
	default:
		return false
	}
}

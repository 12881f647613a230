package types

// PathKind is what a single path is at inspection time
type PathKind int

const (
	KindAbsent PathKind = iota
	KindFile
	KindDirectory
	KindSymlink
)

// String returns a string representation of PathKind
func (k PathKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Exists reports whether something is present at the path
func (k PathKind) Exists() bool {
	return k != KindAbsent
}

// ResourceState is the classified relationship between a live path and its
// repository path. It is computed on every run and never stored.
type ResourceState int

const (
	// StateUnknown is the zero value and never produced by classification
	StateUnknown ResourceState = iota
	// StateSymlinkCorrect: live is a symlink whose literal target equals the repo path
	StateSymlinkCorrect
	// StateSymlinkElsewhere: live is a symlink with any other target
	StateSymlinkElsewhere
	// StateRepoOnly: repo exists, live does not
	StateRepoOnly
	// StateLiveOnly: live exists and is not a symlink, repo does not
	StateLiveOnly
	// StateBothDiverged: both exist and live is not a symlink
	StateBothDiverged
	// StateNeitherExists: nothing on either side
	StateNeitherExists
)

// AllStates lists every state classification can produce, in dispatch order
var AllStates = []ResourceState{
	StateSymlinkCorrect,
	StateSymlinkElsewhere,
	StateRepoOnly,
	StateLiveOnly,
	StateBothDiverged,
	StateNeitherExists,
}

// String returns a string representation of ResourceState
func (s ResourceState) String() string {
	switch s {
	case StateSymlinkCorrect:
		return "symlink-correct"
	case StateSymlinkElsewhere:
		return "symlink-elsewhere"
	case StateRepoOnly:
		return "repo-only"
	case StateLiveOnly:
		return "live-only"
	case StateBothDiverged:
		return "both-diverged"
	case StateNeitherExists:
		return "neither-exists"
	default:
		return "unknown"
	}
}

// Inspection is the result of classifying one resource
type Inspection struct {
	Resource ManagedResource
	State    ResourceState
	LiveKind PathKind
	RepoKind PathKind
	// LinkTarget is the literal symlink target when LiveKind is KindSymlink
	LinkTarget string
}

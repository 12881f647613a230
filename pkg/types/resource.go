package types

// ManagedResource identifies one file-or-directory pair under management.
// Both paths are absolute once configuration has been resolved.
type ManagedResource struct {
	// Name is a short label used in reports, e.g. "zshrc"
	Name string
	// LivePath is the location the owning application reads
	LivePath string
	// RepoPath is the canonical copy inside the dotfiles repository
	RepoPath string
}

// Label returns the name, or the live path when no name was given
func (r ManagedResource) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.LivePath
}

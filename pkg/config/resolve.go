package config

import (
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/extensions"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/setdiff"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Resolve turns the declared resources into absolute ManagedResources,
// keeping the declared order
func (c *Config) Resolve() ([]types.ManagedResource, error) {
	out := make([]types.ManagedResource, 0, len(c.Resources))
	for _, r := range c.Resources {
		live, err := paths.ResolveLivePath(r.Live)
		if err != nil {
			return nil, err
		}
		out = append(out, types.ManagedResource{
			Name:     r.Name,
			LivePath: live,
			RepoPath: paths.ResolveRepoPath(c.DotfilesRoot, r.Repo),
		})
	}
	return out, nil
}

// Select resolves the resources whose names are given, in the given
// order. No names selects everything.
func (c *Config) Select(names []string) ([]types.ManagedResource, error) {
	all, err := c.Resolve()
	if err != nil || len(names) == 0 {
		return all, err
	}

	byName := make(map[string]types.ManagedResource, len(all))
	for _, r := range all {
		byName[r.Name] = r
	}
	out := make([]types.ManagedResource, 0, len(names))
	for _, n := range names {
		r, ok := byName[n]
		if !ok {
			return nil, errors.Newf(errors.ErrNotFound, "no resource named %q", n)
		}
		out = append(out, r)
	}
	return out, nil
}

// Jobs builds the set-diff jobs for the named sync entries (all when
// names is empty), restricted to the wanted directions. A direction not
// enabled for an entry is skipped.
func (c *Config) Jobs(fsys types.FS, names []string, want []setdiff.Direction) ([]setdiff.Job, error) {
	selected := c.Sync
	if len(names) > 0 {
		selected = nil
		for _, n := range names {
			s, ok := c.syncNamed(n)
			if !ok {
				return nil, errors.Newf(errors.ErrNotFound, "no sync job named %q", n)
			}
			selected = append(selected, s)
		}
	}

	var jobs []setdiff.Job
	for _, s := range selected {
		enabled, err := s.EnabledDirections()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "sync %s", s.Name)
		}
		repoFile := paths.ResolveRepoPath(c.DotfilesRoot, s.RepoFile)
		for _, d := range want {
			if !containsDirection(enabled, d) {
				continue
			}
			job := setdiff.Job{Name: s.Name, Direction: d}
			switch d {
			case setdiff.ToLive:
				job.Source = extensions.FileLister(fsys, repoFile)
				job.Target = extensions.CommandLister(s.List)
				job.Install = extensions.CommandInstaller(s.Install)
			case setdiff.ToRepo:
				job.Source = extensions.CommandLister(s.List)
				job.Target = extensions.FileLister(fsys, repoFile)
				job.Install = extensions.FileAppender(fsys, repoFile)
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (c *Config) syncNamed(name string) (SyncConfig, bool) {
	for _, s := range c.Sync {
		if s.Name == name {
			return s, true
		}
	}
	return SyncConfig{}, false
}

func containsDirection(dirs []setdiff.Direction, d setdiff.Direction) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}

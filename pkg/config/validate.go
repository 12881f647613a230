package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/setdiff"
	"github.com/arthur-debert/dotlink/pkg/ui"
)

// Validate reports every problem found, not just the first
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, err := ui.ParseFormat(c.Output.Format); err != nil {
		add("output.format: %v", err)
	}

	names := map[string]int{}
	lives := map[string]int{}
	for i, r := range c.Resources {
		where := fmt.Sprintf("resources[%d]", i)
		if r.Name != "" {
			where = fmt.Sprintf("resources[%d] (%s)", i, r.Name)
			if j, dup := names[r.Name]; dup {
				add("%s: name already used by resources[%d]", where, j)
			}
			names[r.Name] = i
		}
		if strings.TrimSpace(r.Live) == "" {
			add("%s: live is empty", where)
		} else {
			live := filepath.Clean(paths.ExpandHome(r.Live))
			if j, dup := lives[live]; dup {
				add("%s: live path %s already managed by resources[%d]", where, r.Live, j)
			}
			lives[live] = i
		}
		if strings.TrimSpace(r.Repo) == "" {
			add("%s: repo is empty", where)
		} else if strings.TrimSpace(r.Live) != "" {
			live, err := paths.ResolveLivePath(r.Live)
			repo := paths.ResolveRepoPath(c.DotfilesRoot, r.Repo)
			if err != nil {
				add("%s: %v", where, err)
			} else if paths.Overlap(live, repo) {
				add("%s: live path %s and repo path %s overlap", where, live, repo)
			}
		}
	}

	jobs := map[string]bool{}
	for i, s := range c.Sync {
		where := fmt.Sprintf("sync[%d]", i)
		if s.Name == "" {
			add("%s: name is empty", where)
		} else {
			where = fmt.Sprintf("sync[%d] (%s)", i, s.Name)
			if jobs[s.Name] {
				add("%s: duplicate name", where)
			}
			jobs[s.Name] = true
		}
		if strings.TrimSpace(s.RepoFile) == "" {
			add("%s: repo_file is empty", where)
		}
		if len(s.List) == 0 {
			add("%s: list command is empty", where)
		}
		dirs, err := s.EnabledDirections()
		if err != nil {
			add("%s: %v", where, err)
		}
		for _, d := range dirs {
			if d == setdiff.ToLive && len(s.Install) == 0 {
				add("%s: install command is required for %s", where, setdiff.ToLive)
			}
		}
	}

	if len(problems) > 0 {
		return errors.Newf(errors.ErrConfigValid, "invalid configuration:\n  %s", strings.Join(problems, "\n  ")).
			WithDetail("problems", problems)
	}
	return nil
}

// EnabledDirections parses Directions; empty means both
func (s SyncConfig) EnabledDirections() ([]setdiff.Direction, error) {
	if len(s.Directions) == 0 {
		return []setdiff.Direction{setdiff.ToLive, setdiff.ToRepo}, nil
	}
	dirs := make([]setdiff.Direction, 0, len(s.Directions))
	for _, raw := range s.Directions {
		d, err := setdiff.ParseDirection(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

package reconcile

import (
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Rule maps one resource state to the action taken for it
type Rule struct {
	State     types.ResourceState
	Action    types.ActionKind
	Rationale string
}

// Rules is the dispatch table. Every state in types.AllStates has exactly
// one rule; TestRulesAreTotal enforces it.
var Rules = []Rule{
	{types.StateSymlinkCorrect, types.ActionSkip, "Already converged; nothing to do."},
	{types.StateRepoOnly, types.ActionCreateLink, "Nothing live to lose; link to the repository copy."},
	{types.StateLiveOnly, types.ActionMigrateAndLink, "First adoption: move live content into the repository, then link back."},
	{types.StateBothDiverged, types.ActionBackupThenLink, "Live content may differ from the repository; back it up before replacing it."},
	{types.StateSymlinkElsewhere, types.ActionBackupThenLink, "The existing link is not trusted; back it up, then relink."},
	{types.StateNeitherExists, types.ActionSkip, "Nothing on either side; reported for information."},
}

var ruleByState = func() map[types.ResourceState]Rule {
	m := make(map[types.ResourceState]Rule, len(Rules))
	for _, r := range Rules {
		m[r.State] = r
	}
	return m
}()

// Guard overrides the table for inspections where following the rule would
// destroy the repository copy or leave a broken link. A guarded resource is
// a Conflict: reported and left untouched.
type Guard struct {
	Name string
	// State is the state the guard narrows; StateUnknown means any state
	State types.ResourceState
	// Instead is the action the table would have chosen
	Instead   string
	Code      errors.ErrorCode
	Rationale string

	applies func(types.Inspection) bool
}

// Guards are checked in order before the table
var Guards = []Guard{
	{
		Name:      "path-overlap",
		State:     types.StateUnknown,
		Instead:   "any",
		Code:      errors.ErrPathOverlap,
		Rationale: "The live and repository paths are the same or nested; linking one to the other would replace the repository copy.",
		applies: func(in types.Inspection) bool {
			r := in.Resource
			return r.LivePath != "" && r.RepoPath != "" && paths.Overlap(r.LivePath, r.RepoPath)
		},
	},
	{
		Name:      "dangling-relink",
		State:     types.StateSymlinkElsewhere,
		Instead:   types.ActionBackupThenLink.String(),
		Code:      errors.ErrDanglingRelink,
		Rationale: "The link points elsewhere and the repository copy is missing; relinking would leave a dangling link.",
		applies: func(in types.Inspection) bool {
			return in.State == types.StateSymlinkElsewhere && !in.RepoKind.Exists()
		},
	},
}

// Decision is the selected action for an inspection
type Decision struct {
	State  types.ResourceState
	Action types.ActionKind
	Reason string
	// Guard names the guard that overrode the table, if any
	Guard string
	// Code classifies a Conflict
	Code errors.ErrorCode
}

// Decide selects the action for an inspection. It is pure.
//
// Guards come first, then the table. Any state without a rule is a
// Conflict with ErrAmbiguousState.
func Decide(in types.Inspection) Decision {
	for _, g := range Guards {
		if g.applies(in) {
			return Decision{
				State:  in.State,
				Action: types.ActionConflict,
				Reason: g.Rationale,
				Guard:  g.Name,
				Code:   g.Code,
			}
		}
	}

	rule, ok := ruleByState[in.State]
	if !ok {
		return Decision{
			State:  in.State,
			Action: types.ActionConflict,
			Reason: "no rule for state " + in.State.String(),
			Code:   errors.ErrAmbiguousState,
		}
	}
	return Decision{State: in.State, Action: rule.Action, Reason: rule.Rationale}
}

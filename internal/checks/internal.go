package checks

import "strings"

// NoUnstagedChanges is the name of the guard run before fixing in place.
const NoUnstagedChanges = "internal.no_unstaged_changes"

// noUnstagedChanges refuses to modify a working tree with unstaged
// changes, so that every fix can be reviewed with git diff.
type noUnstagedChanges struct{ *Base }

func (r *noUnstagedChanges) Validate() bool {
	changes := r.Repo().UnstagedChanges
	if len(changes) == 0 {
		return true
	}
	r.Logf("Unstaged changes in: %s", strings.Join(changes, ", "))
	return false
}

func (r *noUnstagedChanges) Fix() bool {
	if satisfied(r) {
		return true
	}
	r.Log("The fix cannot be applied in place. Please commit or stash your changes. STOP.")
	return false
}

// NewUnstagedChangesGuard builds the internal.no_unstaged_changes guard.
func NewUnstagedChangesGuard(env Env) (Rule, error) {
	return Construct(env, NoUnstagedChanges, func(b *Base) Rule {
		return &noUnstagedChanges{b}
	})
}

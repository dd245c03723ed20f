// Package checks implements the rules of the Beman Standard and the
// registry that maps catalogue names to them.
package checks

import (
	"errors"

	"github.com/bemanproject/beman-tidy/internal/console"
	"github.com/bemanproject/beman-tidy/internal/repo"
	"github.com/bemanproject/beman-tidy/internal/standard"
)

var (
	// ErrConfig reports a rule that cannot be built from the catalogue or
	// the repository context.
	ErrConfig = errors.New("check configuration error")
	// ErrUnnamedCheck reports a rule type with no registered name.
	ErrUnnamedCheck = errors.New("check has no registered name")
)

// Rule is one check of the standard.
//
// The engine calls ShouldSkip first. A skipped rule never has PreValidate,
// Validate or Fix called. Otherwise the rule passes when PreValidate and
// Validate both hold, or, in fix mode, when Fix succeeds.
type Rule interface {
	Core() *Base
	// ShouldSkip reports that the rule cannot be evaluated at all.
	ShouldSkip() bool
	// PreValidate checks the preconditions of Validate.
	PreValidate() bool
	// Validate reports whether the repository complies. It must not
	// modify anything.
	Validate() bool
	// Fix brings the repository into compliance. It returns true when the
	// repository already complies and false when the target state cannot
	// be determined.
	Fix() bool
}

// Env is what every rule is constructed from.
type Env struct {
	Repo      *repo.Info
	Catalogue *standard.Catalogue
	// Console receives rule log lines. Nil discards them.
	Console *console.Console
}

// Factory builds a rule around a prepared Base.
type Factory func(*Base) Rule

// Construct builds a rule under an explicit name. Names with the
// internal prefix do not need a catalogue entry.
func Construct(env Env, name string, factory Factory) (Rule, error) {
	if name == "" {
		return nil, ErrUnnamedCheck
	}
	b, err := newBase(env, name)
	if err != nil {
		return nil, err
	}
	r := factory(b)
	// Logging is still off here, so ShouldSkip stays quiet.
	if r.ShouldSkip() {
		b.level = LevelSkipped
	}
	return r, nil
}

// Package pipeline runs a list of checks against a repository and counts
// their outcomes.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bemanproject/beman-tidy/internal/checks"
	"github.com/bemanproject/beman-tidy/internal/console"
	"github.com/bemanproject/beman-tidy/internal/logging"
	"github.com/bemanproject/beman-tidy/internal/standard"
)

// Options select the run mode.
type Options struct {
	// FixInplace lets failing checks repair the repository.
	FixInplace bool
	// Verbose prints progress lines and each check's own messages.
	Verbose bool
	// RequireAll treats every Recommendation as a Requirement.
	RequireAll bool
}

// GuardFactory builds the check that must pass before fixing in place.
type GuardFactory func(checks.Env) (checks.Rule, error)

// Engine runs checks through their lifecycle and counts the outcomes.
type Engine struct {
	registry *checks.Registry
	env      checks.Env
	opts     Options
	out      *console.Console
	logger   *zap.SugaredLogger
	guard    GuardFactory
}

// New returns an engine building rules from registry against env. A nil
// logger discards debug output. The guard is internal.no_unstaged_changes
// unless WithGuard replaces it.
func New(registry *checks.Registry, env checks.Env, opts Options, logger *zap.SugaredLogger) *Engine {
	out := env.Console
	if out == nil {
		out = console.Discard()
	}
	return &Engine{
		registry: registry,
		env:      env,
		opts:     opts,
		out:      out,
		logger:   logging.OrNop(logger),
		guard:    checks.NewUnstagedChangesGuard,
	}
}

// WithGuard replaces the fix-in-place guard.
func (e *Engine) WithGuard(g GuardFactory) *Engine {
	e.guard = g
	return e
}

// Run executes names in order. Names without an implementation are
// ignored; a name listed twice runs twice. In fix mode the guard runs
// first and an *AbortError is returned if it fails.
func (e *Engine) Run(names []string) (*Result, error) {
	res := newResult(e.opts.RequireAll)
	e.progress("beman-tidy pipeline started ...\n\n")

	if e.opts.FixInplace {
		guard, err := e.guard(e.env)
		if err != nil {
			return nil, err
		}
		if e.runCheck(guard, true).Outcome != Passed {
			return nil, &AbortError{Check: guard.Core().Name(), Changes: e.env.Repo.UnstagedChanges}
		}
	}

	for _, name := range names {
		if !e.registry.Has(name) {
			e.logger.Debugw("check not implemented", "check", name)
			continue
		}
		rule, err := e.registry.New(name, e.env)
		if err != nil {
			return nil, fmt.Errorf("instantiating %s: %w", name, err)
		}
		res.record(e.runCheck(rule, e.opts.Verbose))
	}

	e.countCatalogue(res)
	e.progress("\nbeman-tidy pipeline finished.\n\n")
	return res, nil
}

func (e *Engine) runCheck(rule checks.Rule, logEnabled bool) CheckResult {
	b := rule.Core()
	if e.opts.RequireAll && b.Severity() == standard.Recommendation {
		b.PromoteToRequirement()
	}
	cr := CheckResult{Name: b.Name(), Severity: b.Severity()}
	e.logger.Debugw("running check", "check", cr.Name, "severity", cr.Severity)

	if rule.ShouldSkip() {
		e.progress("Running check [%s][%s] ... \n", cr.Severity, cr.Name)
		b.SetLogging(logEnabled)
		rule.ShouldSkip()
		e.progress("Running check [%s][%s] ... %s\n\n", cr.Severity, cr.Name, e.out.Paint(console.Gray, string(Skipped)))
		cr.Outcome = Skipped
		return cr
	}

	e.progress("Running check [%s][%s] ... \n", cr.Severity, cr.Name)
	b.SetLogging(logEnabled)
	if (rule.PreValidate() && rule.Validate()) || (e.opts.FixInplace && rule.Fix()) {
		cr.Outcome = Passed
		e.progress("\tcheck [%s][%s] ... %s\n\n", cr.Severity, cr.Name, e.out.Paint(console.Green, string(Passed)))
	} else {
		cr.Outcome = Failed
		e.progress("\tcheck [%s][%s] ... %s\n\n", cr.Severity, cr.Name, e.out.Paint(console.Red, string(Failed)))
	}
	return cr
}

func (e *Engine) countCatalogue(res *Result) {
	cat := e.env.Catalogue
	if cat == nil {
		return
	}
	for _, name := range cat.Names() {
		d, _ := cat.Get(name)
		sev := d.Severity
		if e.opts.RequireAll {
			sev = standard.Requirement
		}
		res.Total[sev]++
		if e.registry.Has(name) {
			res.Implemented[sev]++
		} else {
			res.NotImplemented[sev]++
		}
	}
}

func (e *Engine) progress(format string, args ...any) {
	if e.opts.Verbose {
		e.out.Printf(format, args...)
	}
}

package pipeline

import (
	"fmt"
	"strings"

	"github.com/bemanproject/beman-tidy/internal/standard"
)

// Outcome is the result of running one check.
type Outcome string

const (
	Passed  Outcome = "passed"
	Failed  Outcome = "failed"
	Skipped Outcome = "skipped"
)

// Counter counts checks per severity.
type Counter map[standard.Severity]int

func (c Counter) Requirement() int    { return c[standard.Requirement] }
func (c Counter) Recommendation() int { return c[standard.Recommendation] }
func (c Counter) Total() int          { return c.Requirement() + c.Recommendation() }

// CheckResult records one executed check. Severity is the effective one,
// after any promotion.
type CheckResult struct {
	Name     string            `json:"name"`
	Severity standard.Severity `json:"severity"`
	Outcome  Outcome           `json:"outcome"`
}

// Result is the outcome of a pipeline run.
type Result struct {
	Checks []CheckResult

	Passed  Counter
	Failed  Counter
	Skipped Counter

	// Catalogue-wide counts. With RequireAll every check counts as a
	// Requirement.
	Total          Counter
	Implemented    Counter
	NotImplemented Counter

	RequireAll bool
}

func newResult(requireAll bool) *Result {
	return &Result{
		Passed:         Counter{},
		Failed:         Counter{},
		Skipped:        Counter{},
		Total:          Counter{},
		Implemented:    Counter{},
		NotImplemented: Counter{},
		RequireAll:     requireAll,
	}
}

func (r *Result) record(cr CheckResult) {
	r.Checks = append(r.Checks, cr)
	switch cr.Outcome {
	case Passed:
		r.Passed[cr.Severity]++
	case Failed:
		r.Failed[cr.Severity]++
	case Skipped:
		r.Skipped[cr.Severity]++
	}
}

// AbortError stops a fix-in-place run before any check modifies the
// working tree.
type AbortError struct {
	Check   string
	Changes []string
}

func (e *AbortError) Error() string {
	if len(e.Changes) == 0 {
		return fmt.Sprintf("%s failed: refusing to fix in place", e.Check)
	}
	return fmt.Sprintf("%s failed: refusing to fix in place with unstaged changes in %s",
		e.Check, strings.Join(e.Changes, ", "))
}

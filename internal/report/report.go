// Package report turns pipeline counts into the summary and coverage
// block, the exit code and the machine-readable outputs.
package report

import (
	"fmt"
	"math"

	"github.com/bemanproject/beman-tidy/internal/console"
	"github.com/bemanproject/beman-tidy/internal/pipeline"
	"github.com/bemanproject/beman-tidy/internal/standard"
)

// MaxExitCode caps the failure count below the statuses the command line
// uses for an aborted run or a configuration error.
const MaxExitCode = 123

// Line is one coverage figure. Passed counts passed and skipped checks.
type Line struct {
	Percent     float64 `json:"percent"`
	Passed      int     `json:"passed"`
	Implemented int     `json:"implemented"`
}

// Coverage holds the figures of a run by severity and in total.
type Coverage struct {
	Requirement    Line `json:"requirement"`
	Recommendation Line `json:"recommendation"`
	Total          Line `json:"total"`
	RequireAll     bool `json:"require_all"`
}

// Compute derives coverage from res. With requireAll the engine has
// already counted every check as a Requirement, so the recommendation
// figure is always zero.
func Compute(res *pipeline.Result, requireAll bool) Coverage {
	req := standard.Requirement
	rec := standard.Recommendation

	cov := Coverage{RequireAll: requireAll}
	if requireAll {
		cov.Requirement = line(res.Passed.Total()+res.Skipped.Total(), res.Implemented.Total())
	} else {
		cov.Requirement = line(res.Passed[req]+res.Skipped[req], res.Implemented[req])
		cov.Recommendation = line(res.Passed[rec]+res.Skipped[rec], res.Implemented[rec])
	}
	cov.Total = line(
		res.Passed.Total()+res.Skipped.Total(),
		cov.Requirement.Implemented+cov.Recommendation.Implemented,
	)
	return cov
}

func line(passed, implemented int) Line {
	return Line{Percent: percent(passed, implemented), Passed: passed, Implemented: implemented}
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round2(float64(n) / float64(d) * 100)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// ExitCode is the number of failed Requirement checks, plus failed
// Recommendations when they were promoted, capped at MaxExitCode.
func ExitCode(res *pipeline.Result, requireAll bool) int {
	n := res.Failed.Requirement()
	if requireAll {
		n += res.Failed.Recommendation()
	}
	return min(n, MaxExitCode)
}

// Band is the display colour of a coverage percentage.
func Band(p float64) string {
	switch p {
	case 100:
		return console.Green
	case 0:
		return console.Red
	}
	return console.Yellow
}

// Print writes the summary and coverage block. It is printed regardless
// of verbosity.
func Print(out *console.Console, res *pipeline.Result, cov Coverage) {
	for _, sev := range standard.Severities {
		out.Printf("Summary %14s: %s, %s, %s  %d checks not implemented.\n",
			sev,
			out.Paint(console.Green, fmt.Sprintf(" %d checks passed", res.Passed[sev])),
			out.Paint(console.Red, fmt.Sprintf("%d checks failed", res.Failed[sev])),
			out.Paint(console.Gray, fmt.Sprintf("%d checks skipped,", res.Skipped[sev])),
			res.NotImplemented[sev],
		)
	}

	recColor := Band(cov.Recommendation.Percent)
	if cov.RequireAll {
		recColor = console.Gray
	}
	out.Println()
	printLine(out, Band(cov.Requirement.Percent), "Requirement", cov.Requirement)
	printLine(out, recColor, "Recommendation", cov.Recommendation)
	printLine(out, Band(cov.Total.Percent), "TOTAL", cov.Total)
}

func printLine(out *console.Console, color, label string, l Line) {
	out.Println(out.Paint(color, fmt.Sprintf("Coverage %14s: %6.2f%% (%d/%d checks passed).",
		label, l.Percent, l.Passed, l.Implemented)))
}

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bemanproject/beman-tidy/internal/pipeline"
	"github.com/bemanproject/beman-tidy/internal/repo"
	"github.com/bemanproject/beman-tidy/internal/standard"
)

// Counts are the per-severity totals of one run.
type Counts struct {
	Passed         int `json:"passed"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
	NotImplemented int `json:"not_implemented"`
}

// Report is the JSON form of a run.
type Report struct {
	RunID      string                       `json:"run_id"`
	Time       time.Time                    `json:"time"`
	Repository string                       `json:"repository"`
	GitHub     string                       `json:"github,omitempty"`
	Commit     string                       `json:"commit,omitempty"`
	FixInplace bool                         `json:"fix_inplace"`
	Checks     []pipeline.CheckResult       `json:"checks"`
	Summary    map[standard.Severity]Counts `json:"summary"`
	Coverage   Coverage                     `json:"coverage"`
	ExitCode   int                          `json:"exit_code"`
}

// NewReport assembles the report of a run with a fresh run ID.
func NewReport(info *repo.Info, fixInplace bool, res *pipeline.Result, cov Coverage) *Report {
	r := &Report{
		RunID:      uuid.NewString(),
		Time:       time.Now().UTC(),
		Repository: info.Name,
		GitHub:     info.GitHubSlug(),
		Commit:     info.Commit,
		FixInplace: fixInplace,
		Checks:     res.Checks,
		Summary:    make(map[standard.Severity]Counts, len(standard.Severities)),
		Coverage:   cov,
		ExitCode:   ExitCode(res, cov.RequireAll),
	}
	if r.Checks == nil {
		r.Checks = []pipeline.CheckResult{}
	}
	for _, sev := range standard.Severities {
		r.Summary[sev] = Counts{
			Passed:         res.Passed[sev],
			Failed:         res.Failed[sev],
			Skipped:        res.Skipped[sev],
			NotImplemented: res.NotImplemented[sev],
		}
	}
	return r
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteMetrics writes r to path in the Prometheus textfile format, for
// a node exporter textfile collector.
func (r *Report) WriteMetrics(path string) error {
	reg := prometheus.NewRegistry()
	checks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "beman_tidy_checks",
		Help: "Number of Beman Standard checks by severity and outcome.",
	}, []string{"severity", "outcome"})
	coverage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "beman_tidy_coverage_percent",
		Help: "Percentage of implemented checks that passed or were skipped.",
	}, []string{"scope"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "beman_tidy_last_run_timestamp_seconds",
		Help:        "Unix time of the run.",
		ConstLabels: prometheus.Labels{"repository": r.Repository},
	})
	reg.MustRegister(checks, coverage, lastRun)

	for _, sev := range standard.Severities {
		c := r.Summary[sev]
		s := string(sev)
		checks.WithLabelValues(s, string(pipeline.Passed)).Set(float64(c.Passed))
		checks.WithLabelValues(s, string(pipeline.Failed)).Set(float64(c.Failed))
		checks.WithLabelValues(s, string(pipeline.Skipped)).Set(float64(c.Skipped))
		checks.WithLabelValues(s, "not_implemented").Set(float64(c.NotImplemented))
	}
	coverage.WithLabelValues("requirement").Set(r.Coverage.Requirement.Percent)
	coverage.WithLabelValues("recommendation").Set(r.Coverage.Recommendation.Percent)
	coverage.WithLabelValues("total").Set(r.Coverage.Total.Percent)
	lastRun.Set(float64(r.Time.Unix()))

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/bemanproject/beman-tidy/internal/checks"
	"github.com/bemanproject/beman-tidy/internal/config"
	"github.com/bemanproject/beman-tidy/internal/console"
	"github.com/bemanproject/beman-tidy/internal/logging"
	"github.com/bemanproject/beman-tidy/internal/pipeline"
	"github.com/bemanproject/beman-tidy/internal/report"
	"github.com/bemanproject/beman-tidy/internal/repo"
	"github.com/bemanproject/beman-tidy/internal/standard"
)

type options struct {
	standard    string
	config      string
	debug       bool
	requireAll  bool
	verbose     bool
	checks      []string
	format      string
	metricsFile string
	fixInplace  bool

	// userConfig overrides the user config location in tests.
	userConfig string
}

// session is a resolved run: repository, config, catalogue and registry.
type session struct {
	info     *repo.Info
	cfg      *config.Config
	cat      *standard.Catalogue
	registry *checks.Registry
	only     []string
	logger   *zap.SugaredLogger
}

func (o *options) newLogger() (*zap.SugaredLogger, error) {
	logger, err := logging.New(o.debug)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

func (o *options) resolve(ctx context.Context, path string) (*session, error) {
	logger, err := o.newLogger()
	if err != nil {
		return nil, err
	}

	info, err := repo.Discover(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Debugw("discovered repository",
		"name", info.Name, "top_level", info.TopLevel,
		"default_branch", info.DefaultBranch, "unstaged", len(info.UnstagedChanges))

	cfg, err := o.loadConfig(logger, info.TopLevel)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalogue(logger, cfg.Standard)
	if err != nil {
		return nil, err
	}

	return &session{
		info:     info,
		cfg:      cfg,
		cat:      cat,
		registry: checks.Default(),
		only:     o.checkNames(),
		logger:   logger,
	}, nil
}

// loadConfig merges the config files under topLevel with the flags.
func (o *options) loadConfig(logger *zap.SugaredLogger, topLevel string) (*config.Config, error) {
	loader := config.NewLoader(logger)
	if o.userConfig != "" {
		loader.WithUserPath(o.userConfig)
	}
	cfg, err := loader.Load(topLevel, o.config)
	if err != nil {
		return nil, err
	}
	cfg.Merge(&config.Config{
		Standard:    o.standard,
		RequireAll:  o.requireAll,
		Verbose:     o.verbose,
		Format:      o.format,
		MetricsFile: o.metricsFile,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) checkNames() []string {
	var names []string
	for _, n := range o.checks {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func loadCatalogue(logger *zap.SugaredLogger, path string) (*standard.Catalogue, error) {
	if path == "" {
		logger.Debugw("using embedded catalogue")
		return standard.Default()
	}
	logger.Debugw("loading catalogue", "path", path)
	return standard.LoadFile(path)
}

// names is the ordered list of checks to run.
func (s *session) names() []string {
	names := s.only
	if len(names) == 0 {
		names = s.cat.Names()
	}
	var out []string
	for _, n := range names {
		if s.cfg.Excluded(n) {
			s.logger.Debugw("check excluded by config", "check", n)
			continue
		}
		out = append(out, n)
	}
	return out
}

// lint runs the pipeline once and reports. It returns the exit status.
func (s *session) lint(stdout, stderr io.Writer, fixInplace bool) (int, error) {
	out := newConsole(stdout)
	if s.cfg.Format == config.FormatJSON {
		// stdout carries only the JSON document.
		out = newConsole(stderr)
	}

	env := checks.Env{Repo: s.info, Catalogue: s.cat, Console: out}
	engine := pipeline.New(s.registry, env, pipeline.Options{
		FixInplace: fixInplace,
		Verbose:    s.cfg.Verbose,
		RequireAll: s.cfg.RequireAll,
	}, s.logger)

	res, err := engine.Run(s.names())
	if err != nil {
		var abort *pipeline.AbortError
		if errors.As(err, &abort) {
			return exitAbort, err
		}
		return exitConfig, err
	}

	cov := report.Compute(res, s.cfg.RequireAll)
	rep := report.NewReport(s.info, fixInplace, res, cov)
	switch s.cfg.Format {
	case config.FormatJSON:
		if err := rep.WriteJSON(stdout); err != nil {
			return exitConfig, err
		}
	default:
		report.Print(out, res, cov)
	}

	if s.cfg.MetricsFile != "" {
		if err := rep.WriteMetrics(s.cfg.MetricsFile); err != nil {
			return exitConfig, err
		}
		s.logger.Debugw("wrote metrics", "path", s.cfg.MetricsFile)
	}
	return report.ExitCode(res, s.cfg.RequireAll), nil
}

// newConsole colours w only when it is a terminal.
func newConsole(w io.Writer) *console.Console {
	if f, ok := w.(*os.File); ok {
		return console.New(w, console.IsTerminal(f))
	}
	return console.New(w, false)
}

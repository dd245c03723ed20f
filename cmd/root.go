// Package cmd is the beman-tidy command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Exit statuses other than the failure count, which report.MaxExitCode
// keeps below them.
const (
	exitAbort  = 124
	exitConfig = 125
)

// exitError carries a process exit status. A nil err means the status is
// the result itself and nothing more needs printing.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the command line and exits the process.
func Execute() {
	os.Exit(exitCode(NewRootCommand().Execute(), os.Stderr))
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitConfig
}

// NewRootCommand builds beman-tidy with its subcommands. Running it
// without a subcommand lints a repository.
func NewRootCommand() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "beman-tidy [repo-path]",
		Short: "Check a repository against the Beman Standard",
		Long: `beman-tidy checks a C++ library repository against the Beman Standard:
top-level files, directory layout, README sections and badges, license text,
repository naming and release metadata. Some findings can be fixed in place.

The exit status is the number of failed Requirement checks (plus failed
Recommendation checks with --require-all), capped at 123. It is 124 when
--fix-inplace is refused and 125 on configuration errors.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.resolve(cmd.Context(), repoArg(args))
			if err != nil {
				return &exitError{code: exitConfig, err: err}
			}
			defer func() { _ = s.logger.Sync() }()

			code, err := s.lint(cmd.OutOrStdout(), cmd.ErrOrStderr(), o.fixInplace)
			if err != nil || code != 0 {
				return &exitError{code: code, err: err}
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.standard, "standard", "", "Beman Standard catalogue file (default: embedded)")
	pf.StringVar(&o.config, "config", "", "beman-tidy config file")
	pf.BoolVar(&o.debug, "debug", false, "log diagnostics to stderr")
	pf.BoolVar(&o.requireAll, "require-all", false, "treat every Recommendation as a Requirement")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "print every check and its findings")
	pf.StringSliceVar(&o.checks, "checks", nil, "comma-separated checks to run (default: all)")
	pf.StringVar(&o.format, "format", "", "output format: text or json")
	pf.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	cmd.Flags().BoolVar(&o.fixInplace, "fix-inplace", false, "fix failing checks in place where possible")

	cmd.AddCommand(newListCommand(o), newWatchCommand(o), newVersionCommand())
	return cmd
}

func repoArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

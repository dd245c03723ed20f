package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bemanproject/beman-tidy/internal/checks"
	"github.com/bemanproject/beman-tidy/internal/console"
	"github.com/bemanproject/beman-tidy/internal/repo"
)

func newListCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list [repo-path]",
		Short: "List the checks of the Beman Standard",
		Long: `List every check in the catalogue with its severity and whether
beman-tidy implements it. Inside a repository its .beman-tidy.yaml is honoured.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := o.newLogger()
			if err != nil {
				return &exitError{code: exitConfig, err: err}
			}
			defer func() { _ = logger.Sync() }()

			// Outside a repository only the user config applies.
			topLevel := ""
			if info, err := repo.Discover(cmd.Context(), repoArg(args)); err == nil {
				topLevel = info.TopLevel
			} else {
				logger.Debugw("listing outside a repository", "error", err)
			}

			cfg, err := o.loadConfig(logger, topLevel)
			if err != nil {
				return &exitError{code: exitConfig, err: err}
			}
			cat, err := loadCatalogue(logger, cfg.Standard)
			if err != nil {
				return &exitError{code: exitConfig, err: err}
			}

			out := newConsole(cmd.OutOrStdout())
			reg := checks.Default()
			for _, name := range cat.Names() {
				d, _ := cat.Get(name)
				status := out.Paint(console.Green, "implemented")
				if !reg.Has(name) {
					status = out.Paint(console.Gray, "not implemented")
				}
				if cfg.Excluded(name) {
					status += out.Paint(console.Yellow, " (excluded)")
				}
				out.Printf("%-15s %-40s %s\n", d.Severity, name, status)
			}
			out.Printf("\n%d checks, %d implemented.\n", cat.Len(), implemented(reg, cat.Names()))
			return nil
		},
	}
}

func implemented(reg *checks.Registry, names []string) int {
	n := 0
	for _, name := range names {
		if reg.Has(name) {
			n++
		}
	}
	return n
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "beman-tidy version %s\n", Version)
		},
	}
}

// Version is set at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

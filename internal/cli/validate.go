package cli

import (
	"fmt"

	"github.com/example/sigma-report/internal/collector"
	"github.com/example/sigma-report/internal/config"
	"github.com/example/sigma-report/internal/sigma"
	"github.com/spf13/cobra"
)

type ruleCheck struct {
	Path   string
	Status string // "✓" or "✗"
	Detail string
	Error  error
}

func newValidateCmd(loader *config.Loader, rootOpts *rootOptions) *cobra.Command {
	flags := &runtimeFlagSet{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse every rule without writing a report",
		Long: `The validate subcommand runs the same discovery and parsing as an export
and prints one line per rule file, so a broken rule can be found before exporting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(flags.toOverrides(cmd))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if err := cfg.ValidateInput(); err != nil {
				return usageFailure(cmd, err)
			}

			checks, err := runRuleChecks(cfg)
			if err != nil {
				return err
			}
			printValidateReport(cmd, checks, rootOpts.Quiet)

			failed := 0
			for _, check := range checks {
				if check.Error != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rules failed to parse", failed, len(checks))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ All %d rules parsed.\n", len(checks))
			return nil
		},
	}

	bindInputFlags(cmd, flags)

	return cmd
}

// runRuleChecks parses every discovered rule. Parse failures are recorded per
// rule; only a discovery failure aborts the run.
func runRuleChecks(cfg config.RuntimeConfig) ([]ruleCheck, error) {
	checks := []ruleCheck{}
	for path, err := range collector.Rules(cfg.InputDir, cfg.Pattern) {
		if err != nil {
			return nil, err
		}

		rec, err := sigma.Load(path, true)
		if err != nil {
			checks = append(checks, ruleCheck{Path: path, Status: "✗", Detail: "Parse failed", Error: err})
			continue
		}

		detail := rec.Name
		if detail == "" {
			detail = "(untitled)"
		}
		checks = append(checks, ruleCheck{Path: path, Status: "✓", Detail: detail})
	}
	return checks, nil
}

// printValidateReport writes one line per rule. Quiet mode only prints failures.
func printValidateReport(cmd *cobra.Command, checks []ruleCheck, quiet bool) {
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Validating rules...")
	}

	for _, check := range checks {
		if quiet && check.Error == nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", check.Status, check.Path, check.Detail)
		if check.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "   Error: %v\n", check.Error)
		}
	}
}

package cli

import (
	"errors"

	"github.com/example/sigma-report/internal/config"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes returned by ExitCode.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case config.IsUsageError(err):
		return ExitUsage
	default:
		return ExitError
	}
}

type rootOptions struct {
	ConfigPath string
	Quiet      bool
}

func newRootCmd() *cobra.Command {
	loader := &config.Loader{ConfigPath: config.DefaultConfigPath}
	rootOpts := &rootOptions{}
	flags := &runtimeFlagSet{}

	rootCmd := &cobra.Command{
		Use:   "sigma-report",
		Short: "Export detection information from Sigma formatted rule files to a spreadsheet",
		Long: `sigma-report walks a directory of Sigma rules and writes one spreadsheet row per rule
with its platform, severity, name, description, false positives and reference links.
Pass --logic to also export the full detection block.`,
		Example:       "  sigma-report -i ./rules -o detections.xlsx --logic",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(flags.toOverrides(cmd))
			if err != nil {
				return err
			}
			return runExport(cmd, cfg, newEmitter(cmd, rootOpts))
		},
	}
	rootCmd.SetVersionTemplate("sigma-report version {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageFailure(cmd, config.Usagef("%v", err))
	})

	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", config.DefaultConfigPath, "Path to sigma-report.yml (optional)")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.Quiet, "quiet", "q", false, "Suppress NDJSON progress events")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if rootOpts.ConfigPath != "" {
			loader.ConfigPath = rootOpts.ConfigPath
		}
	}

	bindRuntimeFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newValidateCmd(loader, rootOpts),
	)

	return rootCmd
}

// usageFailure prints the command usage for configuration errors so the
// user sees the expected flags next to the message.
func usageFailure(cmd *cobra.Command, err error) error {
	var ue *config.UsageError
	if errors.As(err, &ue) {
		cmd.PrintErrln(cmd.UsageString())
	}
	return err
}

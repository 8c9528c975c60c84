package cli

import (
	"github.com/example/sigma-report/internal/config"
	"github.com/spf13/cobra"
)

// runtimeFlagSet tracks export flags before they are converted into config overrides.
type runtimeFlagSet struct {
	input       string
	output      string
	logic       bool
	pattern     string
	format      string
	summaryFile string
}

// bindInputFlags registers the flags needed to locate the rule library.
func bindInputFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Directory path to active detections (required)")
	cmd.Flags().StringVar(&flags.pattern, "pattern", "", "Glob for rule file names (default \"*.yml\")")
}

func bindRuntimeFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	bindInputFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Path to output spreadsheet file (required)")
	cmd.Flags().BoolVarP(&flags.logic, "logic", "l", false, "Include the full detection logic column")
	cmd.Flags().StringVar(&flags.format, "format", "", "Report format: xlsx or csv (default inferred from --output)")
	cmd.Flags().StringVar(&flags.summaryFile, "summary-file", "", "Optional summary JSON output path")
}

// toOverrides only carries flags the user set, so config file and env values survive.
func (f runtimeFlagSet) toOverrides(cmd *cobra.Command) config.Overrides {
	ov := config.Overrides{}
	if cmd.Flags().Changed("input") {
		ov.InputDir = f.input
	}

	if cmd.Flags().Changed("output") {
		ov.OutputFile = f.output
	}

	if cmd.Flags().Changed("logic") {
		ov.Logic = &f.logic
	}

	if cmd.Flags().Changed("pattern") {
		ov.Pattern = f.pattern
	}

	if cmd.Flags().Changed("format") {
		ov.Format = f.format
	}

	if cmd.Flags().Changed("summary-file") {
		ov.SummaryFile = f.summaryFile
	}

	return ov
}

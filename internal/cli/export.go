package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/example/sigma-report/internal/collector"
	"github.com/example/sigma-report/internal/config"
	"github.com/example/sigma-report/internal/events"
	"github.com/example/sigma-report/internal/report"
	"github.com/example/sigma-report/internal/sigma"
	"github.com/spf13/cobra"
)

func newEmitter(cmd *cobra.Command, opts *rootOptions) *events.Emitter {
	if opts.Quiet {
		return events.NewEmitter(nil)
	}
	return events.NewEmitter(cmd.OutOrStdout())
}

// runExport validates cfg, normalizes every rule under the input directory
// and writes the report. Nothing is written unless every rule parses.
func runExport(cmd *cobra.Command, cfg config.RuntimeConfig, emitter *events.Emitter) error {
	if err := cfg.Validate(); err != nil {
		return usageFailure(cmd, err)
	}

	cfg, err := cfg.Resolve()
	if err != nil {
		return err
	}

	format := cfg.Format
	if format == "" {
		format = report.FormatForPath(cfg.OutputFile)
	}
	writer, err := report.DefaultRegistry.Writer(format)
	if err != nil {
		return usageFailure(cmd, config.Usagef("%v", err))
	}
	if err := writer.CheckPath(cfg.OutputFile); err != nil {
		return usageFailure(cmd, config.Usagef("%v", err))
	}

	if err := emitter.Emit(events.Event{Type: events.TypeExportStart, Message: "Starting export", Fields: map[string]interface{}{"input": cfg.InputDir, "pattern": cfg.Pattern, "logic": cfg.Logic}}); err != nil {
		return err
	}

	records, err := collectRecords(cfg, emitter)
	if err != nil {
		return err
	}

	table := report.Build(records, cfg.Logic)
	for _, cell := range report.LongCells(table, writer.CellLimit()) {
		if err := emitter.Emit(events.Event{Type: events.TypeCellTruncated, Message: "Cell exceeds the format limit and will be cut", Fields: map[string]interface{}{"row": cell.Row, "column": cell.Column, "length": cell.Length, "limit": writer.CellLimit()}}); err != nil {
			return err
		}
	}
	if err := writer.Write(cfg.OutputFile, table); err != nil {
		return err
	}

	if err := emitter.Emit(events.Event{Type: events.TypeReportWritten, Fields: map[string]interface{}{"path": cfg.OutputFile, "format": writer.Format(), "rows": len(table.Rows)}}); err != nil {
		return err
	}

	if cfg.SummaryFile != "" {
		if err := writeSummary(cfg.SummaryFile, cfg, writer.Format(), table); err != nil {
			return err
		}
		if err := emitter.Emit(events.Event{Type: events.TypeSummaryWritten, Fields: map[string]interface{}{"path": cfg.SummaryFile}}); err != nil {
			return err
		}
	}

	return emitter.Emit(events.Event{Type: events.TypeExportFinished, Message: "Export complete", Fields: map[string]interface{}{"rules": len(records)}})
}

// collectRecords reads rules one at a time in discovery order and stops at
// the first failure.
func collectRecords(cfg config.RuntimeConfig, emitter *events.Emitter) ([]sigma.Record, error) {
	var records []sigma.Record
	for path, err := range collector.Rules(cfg.InputDir, cfg.Pattern) {
		if err != nil {
			return nil, err
		}

		rec, err := sigma.Load(path, cfg.Logic)
		if err != nil {
			return nil, err
		}

		if err := emitter.RuleParsed(path, rec.Name); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeSummary(path string, cfg config.RuntimeConfig, format string, table report.Table) error {
	summary := map[string]interface{}{
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
		"input":       cfg.InputDir,
		"output":      cfg.OutputFile,
		"format":      format,
		"logic":       cfg.Logic,
		"columns":     table.Header,
		"rules":       len(table.Rows),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}

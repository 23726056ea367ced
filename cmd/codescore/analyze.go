package main

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/codescore/internal/analyzer"
)

type analyzeFlags struct {
	root *rootFlags

	format         string
	out            string
	profile        string
	analyzerName   string
	semgrepBin     string
	semgrepConfigs []string
	failUnder      float64
	hasFailUnder   bool
	redact         bool
	hasRedact      bool
	historyDSN     string

	// analyzer and log replace the configured ones when set.
	analyzer analyzer.Analyzer
	log      *zap.SugaredLogger
}

func newAnalyzeCmd(rf *rootFlags) *cobra.Command {
	f := &analyzeFlags{root: rf}

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Analyze a source tree and produce a quality report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.hasFailUnder = cmd.Flags().Changed("fail-under")
			f.hasRedact = cmd.Flags().Changed("redact")
			return runAnalyze(cmd.Context(), args[0], f, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "", "Output format: json, markdown (md), or text")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.profile, "profile", "", "Language profile name, profile YAML path, or auto")
	flags.StringVar(&f.analyzerName, "analyzer", "", "Analyzer: semgrep or file:<semgrep-report.json>")
	flags.StringVar(&f.semgrepBin, "semgrep-bin", "", "Path to the semgrep executable")
	flags.StringSliceVar(&f.semgrepConfigs, "semgrep-config", nil, "Semgrep rule configs (may be repeated)")
	flags.Float64Var(&f.failUnder, "fail-under", 0, "Exit 2 if the quality score is below this value")
	flags.BoolVar(&f.redact, "redact", true, "Redact secrets in finding text")
	flags.StringVar(&f.historyDSN, "history-dsn", "", "Record the run in this history database (sqlite path or postgres DSN)")

	return cmd
}

// overrides maps set flags onto config keys.
func (f *analyzeFlags) overrides() map[string]string {
	o := map[string]string{
		"format":         f.format,
		"profile":        f.profile,
		"analyzer":       f.analyzerName,
		"semgrep.binary": f.semgrepBin,
		"history.dsn":    f.historyDSN,
	}
	if len(f.semgrepConfigs) > 0 {
		o["semgrep.configs"] = strings.Join(f.semgrepConfigs, ",")
	}
	if f.hasFailUnder {
		o["fail_under"] = strconv.FormatFloat(f.failUnder, 'f', -1, 64)
	}
	if f.hasRedact {
		o["redact"] = strconv.FormatBool(f.redact)
	}
	return o
}

func runAnalyze(ctx context.Context, dir string, f *analyzeFlags, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := f.root.loadConfig(f.overrides())
	if err != nil {
		return err
	}

	log := f.log
	if log == nil {
		if log, err = f.root.logger(); err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
	}

	p, err := newPipeline(cfg, log, f.analyzer)
	if err != nil {
		return err
	}
	defer p.Close()

	rep, err := p.run(ctx, dir)
	if err != nil {
		return err
	}

	data, err := renderReport(rep, cfg.Format)
	if err != nil {
		return err
	}
	if f.out != "" {
		log.Infow("writing report", "path", f.out)
	}
	if err := writeOutput(w, f.out, data); err != nil {
		return err
	}

	return checkFailUnder(rep, cfg.FailUnder)
}

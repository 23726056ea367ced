package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/codescore/internal/analyzer"
	"github.com/dshills/codescore/internal/codebase"
	"github.com/dshills/codescore/internal/config"
	"github.com/dshills/codescore/internal/history"
	"github.com/dshills/codescore/internal/redact"
	"github.com/dshills/codescore/internal/render"
	"github.com/dshills/codescore/internal/schema"
	"github.com/dshills/codescore/internal/score"
)

// pipeline runs one analysis: scan, analyze, redact, score, validate, and
// record. It is shared by `analyze` and `serve`.
type pipeline struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	analyzer analyzer.Analyzer
	store    *history.Store // nil when history is disabled
}

// newPipeline resolves the analyzer from cfg unless one is given and opens
// the history store when a DSN is configured.
func newPipeline(cfg config.Config, log *zap.SugaredLogger, a analyzer.Analyzer) (*pipeline, error) {
	if a == nil {
		var err error
		a, err = analyzer.Resolve(cfg.Analyzer, analyzer.Options{
			SemgrepBinary:  cfg.Semgrep.Binary,
			SemgrepConfigs: cfg.Semgrep.Configs,
		})
		if err != nil {
			return nil, exitError(3, "invalid analyzer: %v", err)
		}
	}
	p := &pipeline{cfg: cfg, log: log, analyzer: a}
	if cfg.History.DSN != "" {
		store, err := history.Open(cfg.History.DSN)
		if err != nil {
			return nil, exitError(3, "failed to open history: %v", err)
		}
		p.store = store
	}
	return p, nil
}

func (p *pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// run analyzes dir and returns a validated report.
func (p *pipeline) run(ctx context.Context, dir string) (*score.Report, error) {
	start := time.Now()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, exitError(3, "invalid directory %s: %v", dir, err)
	}

	// 1. Resolve profile
	p.log.Infow("resolving profile", "profile", p.cfg.Profile, "dir", abs)
	prof, det, err := codebase.ResolveProfile(ctx, p.cfg.Profile, abs)
	if err != nil {
		return nil, exitError(3, "failed to resolve profile: %v", err)
	}
	if det != nil {
		p.log.Infow("detected language", "language", det.Language,
			"confidence", det.Confidence, "files", det.TotalFiles)
	}

	// 2. Measure codebase
	snap, err := codebase.Scan(ctx, abs, prof)
	if err != nil {
		return nil, exitError(3, "failed to scan %s: %v", abs, err)
	}
	for _, f := range snap.Unreadable {
		p.log.Warnw("unreadable source file", "path", f)
	}
	p.log.Infow("scanned codebase", "lines", snap.TotalLines,
		"source_files", snap.SourceFiles, "test_files", snap.TestFiles,
		"undocumented", len(snap.Undocumented))

	// 3. Run analyzer
	p.log.Infow("running analyzer", "analyzer", p.analyzer.Name())
	findings, err := p.analyzer.Analyze(ctx, abs)
	if err != nil {
		return nil, exitError(4, "analyzer %s failed: %v", p.analyzer.Name(), err)
	}
	if findings == nil {
		findings = []score.Finding{}
	}
	p.log.Infow("analyzer finished", "findings", len(findings))

	// 4. Redact
	if p.cfg.Redact {
		p.log.Debugw("redacting finding text")
		findings = redact.Findings(findings)
	}

	// 5. Score
	metrics := snap.Metrics()
	res := score.Evaluate(findings, &metrics)
	if res.Failed() {
		return nil, exitError(5, "scoring failed: %s", res.Error)
	}

	rep := &score.Report{
		Tool:    "codescore",
		Version: version,
		Input: score.Input{
			Directory: abs,
			Language:  prof.Name,
			Profile:   p.cfg.Profile,
			Analyzer:  p.analyzer.Name(),
		},
		Counts:  score.Classify(findings),
		Metrics: metrics,
		Result:  res,
		Meta: score.Meta{
			Findings:   len(findings),
			DurationMs: time.Since(start).Milliseconds(),
			Redacted:   p.cfg.Redact,
		},
	}

	// 6. Validate
	if errs := schema.Validate(rep); len(errs) > 0 {
		for _, e := range errs {
			p.log.Errorw("report validation", "error", e.Error())
		}
		return nil, exitError(5, "report failed validation: %s", errs[0])
	}

	// 7. Record
	if p.store != nil {
		p.record(ctx, rep)
	}
	return rep, nil
}

// record stores the report and logs the change from the previous run. History
// failures never fail the analysis.
func (p *pipeline) record(ctx context.Context, rep *score.Report) {
	prev, err := p.store.Previous(ctx, rep.Input.Directory)
	switch {
	case err == nil:
		p.log.Infow("score change", "previous", prev.QualityScore,
			"current", rep.Result.QualityScore,
			"delta", rep.Result.QualityScore-prev.QualityScore)
	case !errors.Is(err, history.ErrNoHistory):
		p.log.Warnw("failed to read history", "error", err)
	}
	if _, err := p.store.Record(ctx, rep); err != nil {
		p.log.Warnw("failed to record history", "error", err)
	}
}

// renderReport formats a report for output.
func renderReport(r *score.Report, format string) ([]byte, error) {
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal output: %w", err)
		}
		return append(data, '\n'), nil
	case config.FormatMarkdown, config.FormatMD:
		return []byte(render.Markdown(r)), nil
	case config.FormatText:
		return []byte(render.Text(r)), nil
	}
	return nil, exitError(3, "unknown format: %s", format)
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// checkFailUnder returns an exit-code-2 error when the score is below a
// positive threshold.
func checkFailUnder(r *score.Report, threshold float64) error {
	if threshold > 0 && r.Result.QualityScore < threshold {
		return exitError(2, "quality score %.2f is below --fail-under %.2f", r.Result.QualityScore, threshold)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codescore/internal/schema"
	"github.com/dshills/codescore/internal/score"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <report.json>",
		Short: "Check a saved JSON report for structural and arithmetic consistency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0], cmd.OutOrStdout())
		},
	}
}

func runVerify(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return exitError(3, "failed to read report: %v", err)
	}
	var r score.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return exitError(5, "report is not valid JSON: %v", err)
	}

	errs := schema.Validate(&r)
	if len(errs) == 0 {
		fmt.Fprintf(w, "%s: ok (score %.2f)\n", path, r.Result.QualityScore)
		return nil
	}
	for _, e := range errs {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return exitError(5, "%s: %d validation errors", path, len(errs))
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codescore/internal/score"
)

// scoreRequest is the engine input accepted by `score` and the HTTP score
// endpoint.
type scoreRequest struct {
	Findings []score.Finding `json:"findings"`
	Metrics  *score.Metrics  `json:"metrics"`
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [input.json]",
		Short: "Score a {findings, metrics} JSON document without scanning",
		Long: "Score reads a JSON document with \"findings\" and \"metrics\" keys from a file,\n" +
			"or from stdin when the argument is omitted or \"-\", and prints the engine result.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runScore(path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runScore(path string, stdin io.Reader, w io.Writer) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return exitError(3, "failed to read input: %v", err)
	}

	var req scoreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return exitError(3, "failed to parse input as JSON: %v", err)
	}

	res := score.Evaluate(req.Findings, req.Metrics)
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return err
	}
	if res.Failed() {
		return exitError(3, "%s", res.Error)
	}
	return nil
}

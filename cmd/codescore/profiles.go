package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/codescore/internal/codebase"
	"github.com/dshills/codescore/internal/profile"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [dir]",
		Short: "List built-in language profiles, or detect the language of dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runDetect(cmd.Context(), args[0], cmd.OutOrStdout())
			}
			return runProfiles(cmd.OutOrStdout())
		},
	}
}

func runProfiles(w io.Writer) error {
	profiles, err := profile.All()
	if err != nil {
		return err
	}
	for _, p := range profiles {
		fmt.Fprintln(w, profile.FormatSummary(p))
	}
	return nil
}

func runDetect(ctx context.Context, dir string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	det, err := codebase.DetectLanguage(ctx, dir)
	if err != nil {
		return exitError(3, "%v", err)
	}
	fmt.Fprintf(w, "language: %s (%.0f%% of %d files)\n", det.Language, det.Confidence*100, det.TotalFiles)

	langs := make([]string, 0, len(det.FileCounts))
	for l := range det.FileCounts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if det.FileCounts[langs[i]] != det.FileCounts[langs[j]] {
			return det.FileCounts[langs[i]] > det.FileCounts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	for _, l := range langs {
		fmt.Fprintf(w, "  %-11s %d\n", l, det.FileCounts[l])
	}
	return nil
}

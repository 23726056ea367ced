package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/codescore/internal/history"
)

type historyFlags struct {
	root  *rootFlags
	dsn   string
	limit int
}

func newHistoryCmd(rf *rootFlags) *cobra.Command {
	f := &historyFlags{root: rf}
	cmd := &cobra.Command{
		Use:   "history [dir]",
		Short: "List recorded score runs, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runHistory(cmd.Context(), dir, f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&f.dsn, "history-dsn", "", "History database (sqlite path or postgres DSN)")
	cmd.Flags().IntVar(&f.limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func runHistory(ctx context.Context, dir string, f *historyFlags, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := f.root.loadConfig(map[string]string{"history.dsn": f.dsn})
	if err != nil {
		return err
	}
	if cfg.History.DSN == "" {
		return exitError(3, "history is disabled: set history.dsn or pass --history-dsn")
	}
	if dir != "" {
		if dir, err = filepath.Abs(dir); err != nil {
			return exitError(3, "invalid directory: %v", err)
		}
	}

	store, err := history.Open(cfg.History.DSN)
	if err != nil {
		return exitError(3, "failed to open history: %v", err)
	}
	defer store.Close()

	runs, err := store.List(ctx, dir, f.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSCORE\tGRADE\tDELTA\tE/W/I\tDIRECTORY")
	for i, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\t%d/%d/%d\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.QualityScore, r.Grade,
			delta(runs, i), r.Errors, r.Warnings, r.Infos, r.Directory)
	}
	return tw.Flush()
}

// delta formats the change from the next older listed run of the same
// directory.
func delta(runs []history.Run, i int) string {
	for j := i + 1; j < len(runs); j++ {
		if runs[j].Directory == runs[i].Directory {
			return fmt.Sprintf("%+.2f", runs[i].QualityScore-runs[j].QualityScore)
		}
	}
	return "-"
}

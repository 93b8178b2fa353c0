package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdist/pkg/pipeline"
	"github.com/matzehuels/seqdist/pkg/seqio"
)

// batchCommand creates the batch command for TOML job files.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		workers     int
		interactive bool
		asJSON      bool
		noCache     bool
		refresh     bool
	)

	cmd := &cobra.Command{
		Use:   "batch [jobs.toml]",
		Short: "Measure every pair of a job file concurrently",
		Long: `Measure every pair of a TOML job file. Pairs run concurrently with at most
--workers computations in flight; results keep the order of the file.

  kind = "text"        # default for pairs without their own kind
  strategy = "sort"    # optional
  workers = 8          # optional, overridden by --workers

  [[pair]]
  name = "greeting"
  a = "hello"
  b = "olleh"

  [[pair]]
  kind = "ints"
  a = [3, 1, 2]
  b = [1, 2, 3]

The command fails when any pair fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := seqio.ImportJobs(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg.Batch.Workers
				if jobs.Workers > 0 {
					workers = jobs.Workers
				}
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close(ctx)

			opts := c.options()
			opts.Refresh = refresh

			items, err := c.runBatch(ctx, runner, jobs.Pairs, opts, workers, !asJSON && !interactive)
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				if err := writeJSON(cmd.OutOrStdout(), batchJSON(items)); err != nil {
					return err
				}
			case interactive:
				if _, err := tea.NewProgram(NewResultListModel(items), tea.WithContext(ctx)).Run(); err != nil {
					return fmt.Errorf("result browser: %w", err)
				}
			default:
				writeBatchTable(cmd.OutOrStdout(), items)
			}

			if failed := countFailed(items); failed > 0 {
				return fmt.Errorf("%d of %d pairs failed", failed, len(items))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", pipeline.DefaultWorkers, "maximum concurrent computations")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse results in an interactive table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runBatch runs the pairs. With showProgress a spinner on stderr counts the
// finished pairs.
func (c *CLI) runBatch(ctx context.Context, runner *pipeline.Runner, pairs []seqio.Pair, opts pipeline.Options, workers int, showProgress bool) ([]pipeline.BatchItem, error) {
	if !showProgress {
		return runner.Batch(ctx, pairs, opts, workers)
	}

	prog := newProgress(loggerFromContext(ctx))
	tally := &batchTally{total: len(pairs)}
	sp := startSpinner(ctx, os.Stderr, tally.status())
	items, err := runner.BatchFunc(ctx, pairs, opts, workers, func(it pipeline.BatchItem) {
		sp.SetMessage(tally.add(it))
	})
	if err != nil {
		sp.Fail("Batch cancelled after " + tally.status())
		return nil, err
	}
	sp.Stop()
	prog.done(tally.status(), "workers", workers)
	return items, nil
}

func countFailed(items []pipeline.BatchItem) int {
	n := 0
	for _, it := range items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

type batchEntryJSON struct {
	Name   string           `json:"name"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func batchJSON(items []pipeline.BatchItem) []batchEntryJSON {
	out := make([]batchEntryJSON, len(items))
	for i, it := range items {
		out[i] = batchEntryJSON{Name: it.Name, Result: it.Result}
		if it.Err != nil {
			out[i].Error = it.Err.Error()
		}
	}
	return out
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdist/pkg/kendall"
	"github.com/matzehuels/seqdist/pkg/pipeline"
	"github.com/matzehuels/seqdist/pkg/seqio"
)

// pairFlags are the input flags shared by distance and visualize.
type pairFlags struct {
	kind     string
	strategy string
	file     string
}

func (f *pairFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "element kind: text, strings, ints, floats, bools, bytes")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "relabeling strategy: hash, sort")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the pair from a JSON file ('-' for stdin)")

	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(pipeline.Kinds, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(
		[]string{kendall.StrategyNameHash, kendall.StrategyNameSort}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagFilename("file", "json")
}

// pair builds the input pair from args or the pair file. Explicit flags
// override the kind and strategy of a file.
func (f *pairFlags) pair(cmd *cobra.Command, args []string) (seqio.Pair, error) {
	var p seqio.Pair
	switch {
	case f.file != "" && len(args) > 0:
		return p, fmt.Errorf("give either two sequences or --file, not both")
	case f.file == "-":
		read, err := seqio.ReadPair(cmd.InOrStdin())
		if err != nil {
			return p, err
		}
		p = *read
	case f.file != "":
		read, err := seqio.ImportPair(f.file)
		if err != nil {
			return p, err
		}
		p = *read
	case len(args) == 2:
		p = seqio.Pair{A: seqio.Text(args[0]), B: seqio.Text(args[1])}
	default:
		return p, fmt.Errorf("expected two sequences, got %d", len(args))
	}
	if f.kind != "" {
		p.Kind = f.kind
	}
	if f.strategy != "" {
		p.Strategy = f.strategy
	}
	return p, nil
}

// distanceCommand creates the distance command.
func (c *CLI) distanceCommand() *cobra.Command {
	var (
		input   pairFlags
		explain bool
		asJSON  bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "distance [A B]",
		Short: "Measure the Kendall tau distance between two sequences",
		Long: `Measure the minimum number of adjacent swaps that turn sequence A into
sequence B. Both must have the same length and hold the same elements.

Text is compared character by character. For the list kinds (strings, ints,
floats, bools) A and B are comma separated:

  seqdist distance abcdaabb dcbababa
  seqdist distance --kind ints 3,1,2 1,2,3
  seqdist distance --file pair.json --explain`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := input.pair(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close(ctx)

			opts := c.options()
			opts.Refresh = refresh

			if explain {
				ex, err := runner.Explain(ctx, pair, opts)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), explainJSON(ex))
				}
				writeExplanation(cmd.OutOrStdout(), ex)
				return nil
			}

			res, err := runner.Compute(ctx, pair, opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printResult(res)
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().BoolVar(&explain, "explain", false, "show the correspondence between positions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

type explanationJSON struct {
	Distance   int      `json:"distance"`
	LabelCount int      `json:"label_count"`
	Mapping    []int    `json:"mapping"`
	A          []string `json:"a"`
	B          []string `json:"b"`
}

func explainJSON(ex *pipeline.Explanation) explanationJSON {
	return explanationJSON{
		Distance:   ex.Match.Distance,
		LabelCount: ex.Match.LabelCount,
		Mapping:    ex.Match.Mapping,
		A:          ex.LabelsA,
		B:          ex.LabelsB,
	}
}

// writeExplanation prints the distance followed by one row per position of
// A and the position of B it is matched with.
func writeExplanation(w io.Writer, ex *pipeline.Explanation) {
	m := ex.Match
	rows := make([][]string, m.Len())
	for p, q := range m.Mapping {
		rows[p] = []string{strconv.Itoa(p), ex.LabelsA[p], iconArrow, strconv.Itoa(q), ex.LabelsB[q]}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("A pos", "A", "", "B pos", "B").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintf(w, "%s %s\n", StyleTitle.Render("distance"), StyleNumber.Render(strconv.Itoa(m.Distance)))
	fmt.Fprintf(w, "%s\n", StyleDim.Render(fmt.Sprintf("%d distinct elements, n = %d", m.LabelCount, m.Len())))
	fmt.Fprintln(w, t.Render())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

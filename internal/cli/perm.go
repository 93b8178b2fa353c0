package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdist/pkg/pipeline"
	"github.com/matzehuels/seqdist/pkg/seqio"
)

// permCommand creates the perm command.
func (c *CLI) permCommand() *cobra.Command {
	var (
		weights    string
		normalized bool
		asJSON     bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "perm P1 P2",
		Short: "Kendall tau distance between two permutations",
		Long: `Kendall tau distance between two permutations of 0..n-1, given as comma
separated lists. With --weights every discordant pair (i, j) costs w_i * w_j.

  seqdist perm 0,1,2,3 3,1,2,0
  seqdist perm 0,1,2 2,1,0 --weights 1,2,3 --normalized`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := permRequest(args[0], args[1], weights)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close(ctx)

			res, err := runner.Permutation(ctx, req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			value := res.Distance
			if normalized {
				value = res.Normalized
			}
			label := "kendall tau"
			if res.Weighted {
				label = "weighted kendall tau"
			}
			printSuccess("%s %s", label, StyleNumber.Render(strconv.FormatFloat(value, 'g', -1, 64)))
			printStats(res.Length, res.Normalized, res.Cached)
			return nil
		},
	}

	cmd.Flags().StringVar(&weights, "weights", "", "comma separated element weights")
	cmd.Flags().BoolVar(&normalized, "normalized", false, "print the distance scaled to [0, 1]")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// permRequest parses comma separated permutations and weights.
func permRequest(p1, p2, weights string) (pipeline.PermRequest, error) {
	var req pipeline.PermRequest
	var err error
	if req.P1, err = seqio.ParseInts(seqio.ListOf(seqio.SplitList(p1)).Items); err != nil {
		return req, fmt.Errorf("P1: %w", err)
	}
	if req.P2, err = seqio.ParseInts(seqio.ListOf(seqio.SplitList(p2)).Items); err != nil {
		return req, fmt.Errorf("P2: %w", err)
	}
	if weights != "" {
		if req.Weights, err = seqio.ParseFloats(seqio.ListOf(seqio.SplitList(weights)).Items); err != nil {
			return req, fmt.Errorf("weights: %w", err)
		}
	}
	return req, nil
}

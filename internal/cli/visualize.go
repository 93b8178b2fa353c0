package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdist/pkg/pipeline"
	"github.com/matzehuels/seqdist/pkg/render"
	"github.com/matzehuels/seqdist/pkg/seqio"
)

// visualizeCommand creates the visualize command for correspondence diagrams.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		input  pairFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "visualize [A B]",
		Short: "Render the correspondence between two sequences",
		Long: `Render the correspondence between two sequences as a diagram.

A is drawn on top and B below, with one edge from every position of A to
the position of B it is matched with. Each crossing of two edges is one
adjacent swap, so the number of crossings equals the distance.

Without --output, DOT and SVG are written to stdout.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			if !render.ValidFormats[format] {
				return fmt.Errorf("unknown format %q (want svg, png or dot)", format)
			}
			if output == "" && format == render.FormatPNG {
				return fmt.Errorf("png output needs --output")
			}
			pair, err := input.pair(cmd, args)
			if err != nil {
				return err
			}
			return c.runVisualize(cmd, pair, format, output)
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&format, "format", "", "output format: svg (default), png, dot")

	return cmd
}

// runVisualize computes the correspondence and writes the diagram.
func (c *CLI) runVisualize(cmd *cobra.Command, pair seqio.Pair, format, output string) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, true, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	ex, err := runner.Explain(ctx, pair, c.options())
	if err != nil {
		return err
	}

	data, err := renderExplanation(ctx, format, ex)
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered distance %d", ex.Match.Distance)
	printFile(output)
	return nil
}

func renderExplanation(ctx context.Context, format string, ex *pipeline.Explanation) ([]byte, error) {
	if format == render.FormatSVG || format == render.FormatPNG {
		sp := startSpinner(ctx, os.Stderr, "Rendering "+format+"...")
		defer sp.Stop()
	}
	return render.Render(ctx, format, ex.Match, ex.LabelsA, ex.LabelsB)
}

// formatFromPath infers the format from an output file extension.
func formatFromPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".dot"), strings.HasSuffix(path, ".gv"):
		return render.FormatDOT
	case strings.HasSuffix(path, ".png"):
		return render.FormatPNG
	default:
		return render.FormatSVG
	}
}

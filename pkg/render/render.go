package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/kendall"
)

// Format constants for output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// palette colors edges by label, cycling when there are more labels.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

// DOT returns a Graphviz DOT document for the correspondence diagram of m.
// labelsA and labelsB give the node text for each position; missing entries
// fall back to the position index. The slices are not modified.
func DOT(m *kendall.Match, labelsA, labelsB []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Correspondence {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("  ranksep=1.2;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("n = %d, distance = %d", m.Len(), m.Distance))
	buf.WriteString("  labelloc=b;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"SF Mono, Menlo, monospace\", fontsize=14];\n")
	buf.WriteString("  edge [arrowhead=none, penwidth=1.5];\n\n")

	writeRow(&buf, "a", m.Len(), labelsA)
	writeRow(&buf, "b", m.Len(), labelsB)

	for p, q := range m.Mapping {
		color := palette[0]
		if p < len(m.Labels) {
			color = palette[m.Labels[p].A%len(palette)]
		}
		fmt.Fprintf(&buf, "  a%d -> b%d [color=%q];\n", p, q, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeRow emits one rank of nodes held in order by invisible edges.
func writeRow(buf *bytes.Buffer, prefix string, n int, labels []string) {
	buf.WriteString("  { rank=same;\n")
	for i := 0; i < n; i++ {
		label := strconv.Itoa(i)
		if i < len(labels) {
			label = labels[i]
		}
		fmt.Fprintf(buf, "    %s%d [label=%q, tooltip=%q];\n", prefix, i, label, fmt.Sprintf("%s[%d]", prefix, i))
	}
	if n > 1 {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = prefix + strconv.Itoa(i)
		}
		fmt.Fprintf(buf, "    %s [style=invis];\n", strings.Join(ids, " -> "))
	}
	buf.WriteString("  }\n")
}

// SVG renders the diagram of m as an SVG document.
func SVG(ctx context.Context, m *kendall.Match, labelsA, labelsB []string) ([]byte, error) {
	out, err := renderDOT(ctx, DOT(m, labelsA, labelsB), graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// PNG renders the diagram of m as a PNG image.
func PNG(ctx context.Context, m *kendall.Match, labelsA, labelsB []string) ([]byte, error) {
	return renderDOT(ctx, DOT(m, labelsA, labelsB), graphviz.PNG)
}

// Render produces the diagram in format, one of the Format constants.
func Render(ctx context.Context, format string, m *kendall.Match, labelsA, labelsB []string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(DOT(m, labelsA, labelsB)), nil
	case FormatSVG:
		return SVG(ctx, m, labelsA, labelsB)
	case FormatPNG:
		return PNG(ctx, m, labelsA, labelsB)
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg or png)", format)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox
// starts at the origin, so the document scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

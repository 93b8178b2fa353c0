// Package render draws correspondence diagrams for distance computations.
//
// # Overview
//
// A correspondence diagram has two rows of nodes: the elements of the first
// sequence on top and the elements of the second below, each in sequence
// order. One edge joins every position p of the first sequence to the
// position Mapping[p] it is paired with in the second. Two edges cross
// exactly when their positions form an inversion of the mapping, so the
// number of crossings in the drawing equals the distance.
//
// Edges are colored by label, which makes it easy to see how repeated
// values are paired in left-to-right order.
//
// # Usage
//
//	ex, _ := runner.Explain(ctx, pair, opts)
//	dot := render.DOT(ex.Match, ex.LabelsA, ex.LabelsB)
//	svg, err := render.SVG(ctx, ex.Match, ex.LabelsA, ex.LabelsB)
//
// SVG and PNG output go through Graphviz via github.com/goccy/go-graphviz,
// which needs no system installation.
package render

// Package perm provides permutation helpers and Kendall tau distances for
// permutations.
//
// A permutation of length n here is a []int holding each of 0..n-1 exactly
// once. For such inputs the general sequence distance of package kendall
// and [KendallTau] agree; KendallTau skips relabeling and counts with a
// Fenwick tree, and a [Workspace] lets hot loops reuse its buffers.
//
// [WeightedKendallTau] generalizes the count so that each discordant pair
// of elements x, y costs weights[x]*weights[y].
//
// Helpers [Seq], [Factorial] and [Generate] build identity permutations and
// enumerate permutation spaces for exhaustive tests.
package perm

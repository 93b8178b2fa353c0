package kendall

// CountInversions returns the number of index pairs (p, q) with p < q and
// s[p] > s[q]. For a permutation this is the minimum number of adjacent
// swaps that sort it. Equal values never count as an inversion.
//
// CountInversions runs a merge sort in O(n log n) time with O(n) extra
// space and does not modify s.
func CountInversions(s []int) int {
	if len(s) < 2 {
		return 0
	}
	work := make([]int, len(s))
	copy(work, s)
	return countInversions(work)
}

// countInversions counts the inversions of work and leaves it sorted.
func countInversions(work []int) int {
	if len(work) < 2 {
		return 0
	}
	scratch := make([]int, len(work))
	copy(scratch, work)
	return mergeCount(work, scratch)
}

// mergeCount sorts the values of src into dst and returns the number of
// inversions among them. Both slices must hold the same values on entry;
// src is used as scratch. The roles of the two buffers alternate between
// recursion levels so each level merges without copying.
func mergeCount(dst, src []int) int {
	n := len(src)
	if n < 2 {
		return 0
	}
	h := n / 2
	count := mergeCount(src[:h], dst[:h]) + mergeCount(src[h:], dst[h:])
	return count + merge(dst, src[:h], src[h:])
}

// merge merges the sorted halves left and right into dst, counting pairs
// where an element of right precedes a larger element of left.
func merge(dst, left, right []int) int {
	count := 0
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			dst[k] = left[i]
			i++
		} else {
			// right[j] is smaller than every remaining left element
			dst[k] = right[j]
			j++
			count += len(left) - i
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
	return count
}

package corpus

import "sort"

// DefaultSampleCap bounds how many frames of one folder are uploaded.
const DefaultSampleCap = 50

// SampleIndices picks at most cap evenly spaced indices across a sequence of
// n items, always including the first and last when thinning happens. The
// result is ascending, preserving original relative order. When n fits under
// the cap every index is returned.
func SampleIndices(n, cap int) []int {
	if cap <= 0 {
		cap = DefaultSampleCap
	}
	if n <= 0 {
		return nil
	}
	if n <= cap || cap == 1 {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		if cap == 1 && n > 1 {
			return indices[:1]
		}
		return indices
	}

	indices := make([]int, 0, cap)
	for i := 0; i < cap; i++ {
		indices = append(indices, (n-1)*i/(cap-1))
	}
	sort.Ints(indices)
	return indices
}

// sampleStrings applies SampleIndices to a slice of ordered items.
func sampleStrings(items []string, cap int) []string {
	indices := SampleIndices(len(items), cap)
	if len(indices) == len(items) {
		return items
	}
	sampled := make([]string, 0, len(indices))
	for _, i := range indices {
		sampled = append(sampled, items[i])
	}
	return sampled
}

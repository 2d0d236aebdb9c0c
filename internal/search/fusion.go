package search

import "sort"

// epsilon guards min-max normalization against a zero-range score array.
const epsilon = 1e-8

// Normalize min-max scales scores into [0,1]. A degenerate array whose range
// does not exceed epsilon collapses to all ones, turning every record into a
// tie rather than amplifying noise.
func Normalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if max-min <= epsilon {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, s := range scores {
		out[i] = (s - min) / (max - min + epsilon)
	}
	return out
}

// Fuse linearly combines independently normalized dense and sparse scores.
// sparseWeight is the configured weight in [0,1]; both inputs must be indexed
// identically by record.
func Fuse(dense, sparse []float64, sparseWeight float64) []float64 {
	dn := Normalize(dense)
	sn := Normalize(sparse)
	out := make([]float64, len(dn))
	for i := range out {
		out[i] = (1-sparseWeight)*dn[i] + sparseWeight*sn[i]
	}
	return out
}

// Rank returns record indices ordered by descending combined score. Ties
// keep the original record order.
func Rank(combined []float64) []int {
	idx := make([]int, len(combined))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return combined[idx[a]] > combined[idx[b]]
	})
	return idx
}

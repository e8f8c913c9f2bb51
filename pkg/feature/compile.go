package feature

import "sort"

// Compile computes the weighted linear combination of a row's normalized
// columns: sum of weight[f] * row["<f>_norm"], rounded to 3 decimals.
//
// Weights are calibrated constants and need not sum to 1. A feature whose
// normalized column is absent contributes nothing; the caller decides
// whether that absence is acceptable. Iteration is ordered so the rounded
// sum is identical across runs.
func Compile(row Row, weights map[string]float64) float64 {
	names := make([]string, 0, len(weights))
	for f := range weights {
		names = append(names, f)
	}
	sort.Strings(names)

	sum := 0.0
	for _, f := range names {
		if v, ok := row.Value(f + NormSuffix); ok {
			sum += weights[f] * v
		}
	}
	return Round3(sum)
}

// CompileRaw is Compile over raw (not *_norm) columns. Used for title
// scores, where weighted counts are summed first and the composite is
// normalized afterwards across all clubs. A missing column counts as zero.
func CompileRaw(row Row, weights map[string]float64) float64 {
	names := make([]string, 0, len(weights))
	for f := range weights {
		names = append(names, f)
	}
	sort.Strings(names)

	sum := 0.0
	for _, f := range names {
		if v, ok := row.Value(f); ok {
			sum += weights[f] * v
		}
	}
	return Round3(sum)
}

// Package feature implements the numeric primitives behind club feature
// computation: min-max normalization, multi-season aggregation, weighted
// score compilation and the ticket availability estimate.
package feature

import "math"

// NormSuffix is appended to a column name to hold its normalized value.
const NormSuffix = "_norm"

// Row is one club's named numeric columns within a batch. A column absent
// from Cols means the value is missing for that club, which is different
// from a value of zero.
type Row struct {
	ClubKey  string
	ClubName string
	Cols     map[string]float64
}

// Value returns the named column and whether it is present.
func (r Row) Value(col string) (float64, bool) {
	v, ok := r.Cols[col]
	return v, ok
}

// Set stores a column value, allocating the map on first use.
func (r *Row) Set(col string, v float64) {
	if r.Cols == nil {
		r.Cols = make(map[string]float64)
	}
	r.Cols[col] = v
}

// ColumnSpec names a column to normalize. Reverse marks indicators where a
// lower raw value is better (possession conceded, goals conceded), so the
// scaled value is inverted.
type ColumnSpec struct {
	Name    string `yaml:"name"`
	Reverse bool   `yaml:"reverse"`
}

// Normalize min-max scales each specified column across all rows and writes
// the result into "<col>_norm" on every row that carries the raw value.
//
// When every present value is identical the column has no discriminating
// signal and all rows get the neutral midpoint 0.5. A column with no present
// values at all produces no normalized column, so absence propagates instead
// of being defaulted. Results are rounded to 3 decimals.
func Normalize(rows []Row, specs []ColumnSpec) {
	for _, spec := range specs {
		normalizeColumn(rows, spec)
	}
}

func normalizeColumn(rows []Row, spec ColumnSpec) {
	min, max := math.Inf(1), math.Inf(-1)
	present := 0
	for i := range rows {
		v, ok := rows[i].Value(spec.Name)
		if !ok {
			continue
		}
		present++
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if present == 0 {
		return
	}

	norm := spec.Name + NormSuffix
	for i := range rows {
		v, ok := rows[i].Value(spec.Name)
		if !ok {
			continue
		}
		if max == min {
			rows[i].Set(norm, 0.5)
			continue
		}
		scaled := (v - min) / (max - min)
		if spec.Reverse {
			scaled = 1 - scaled
		}
		rows[i].Set(norm, Round3(scaled))
	}
}

// Round3 rounds to 3 decimal places so recomputed features stay stable
// across runs.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

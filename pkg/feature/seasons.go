package feature

import "math"

// Reduction selects how per-season values collapse into one longitudinal
// score.
type Reduction int

const (
	// ReduceMean averages over seasons the club actually has data for.
	// Used for form-style metrics where a missing season carries no
	// information.
	ReduceMean Reduction = iota
	// ReduceSum adds seasons up, counting a missing season as zero.
	// Used for cumulative event counts where absence means "no events
	// that season".
	ReduceSum
)

// SeasonTable holds one season's values for a single metric, keyed by the
// stable club identifier. Display names change between seasons; ClubKey
// does not, so it is the only join key used here.
type SeasonTable struct {
	Season int
	Rows   []MetricRow
}

// MetricRow is one club's raw metric value in one season. Value may be NaN
// when the club appears in the roster without a usable figure.
type MetricRow struct {
	ClubKey  string
	ClubName string
	Value    float64
}

// Aggregate is the reduced longitudinal value for one club.
type Aggregate struct {
	ClubKey  string
	ClubName string
	Value    float64
	Seasons  int  // seasons that contributed a value
	OK       bool // false when no season carried a value under ReduceMean
}

// ReduceSeasons merges per-season tables, most recent first, and reduces
// each club's values to one number.
//
// The first table is the anchor: its roster decides which clubs appear in
// the output (and in what order), so clubs that left the league are dropped
// even when history for them exists. Older seasons are left-joined on the
// club key; a club missing from an older season contributes an absent value
// there, not a zero, and the reduction decides what absence means.
func ReduceSeasons(seasons []SeasonTable, mode Reduction) []Aggregate {
	if len(seasons) == 0 {
		return nil
	}

	past := make([]map[string]float64, 0, len(seasons)-1)
	for _, s := range seasons[1:] {
		byKey := make(map[string]float64, len(s.Rows))
		for _, r := range s.Rows {
			byKey[r.ClubKey] = r.Value
		}
		past = append(past, byKey)
	}

	out := make([]Aggregate, 0, len(seasons[0].Rows))
	for _, anchor := range seasons[0].Rows {
		values := make([]float64, 0, len(seasons))
		count := 0

		add := func(v float64, ok bool) {
			if !ok || math.IsNaN(v) {
				values = append(values, math.NaN())
				return
			}
			values = append(values, v)
			count++
		}

		add(anchor.Value, true)
		for _, byKey := range past {
			v, ok := byKey[anchor.ClubKey]
			add(v, ok)
		}

		agg := Aggregate{
			ClubKey:  anchor.ClubKey,
			ClubName: anchor.ClubName,
			Seasons:  count,
		}
		switch mode {
		case ReduceSum:
			sum := 0.0
			for _, v := range values {
				if !math.IsNaN(v) {
					sum += v
				}
			}
			agg.Value = sum
			agg.OK = true
		default: // ReduceMean
			if count == 0 {
				agg.Value = math.NaN()
				agg.OK = false
			} else {
				sum := 0.0
				for _, v := range values {
					if !math.IsNaN(v) {
						sum += v
					}
				}
				agg.Value = Round3(sum / float64(count))
				agg.OK = true
			}
		}
		out = append(out, agg)
	}
	return out
}

package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile_WeightedSum(t *testing.T) {
	row := Row{Cols: map[string]float64{
		"shots_norm":       1.0,
		"goals_scored_norm": 0.5,
	}}
	weights := map[string]float64{"shots": 0.2, "goals_scored": 0.4}

	assert.Equal(t, 0.4, Compile(row, weights))
}

func TestCompile_MissingColumnContributesZero(t *testing.T) {
	row := Row{Cols: map[string]float64{"shots_norm": 1.0}}
	weights := map[string]float64{"shots": 0.2, "blocks": 0.8}

	assert.Equal(t, 0.2, Compile(row, weights))
}

func TestCompile_Rounding(t *testing.T) {
	row := Row{Cols: map[string]float64{"a_norm": 0.333, "b_norm": 0.333}}
	got := Compile(row, map[string]float64{"a": 0.5, "b": 0.5})
	assert.Equal(t, 0.333, got)
}

func TestCompileRaw_UsesRawColumns(t *testing.T) {
	row := Row{Cols: map[string]float64{
		"win_league1":     2,
		"win_national_cup": 1,
	}}
	weights := map[string]float64{
		"win_league1":      1.0,
		"win_national_cup": 0.75,
		"win_league_cup":   0.75, // absent on this club
	}

	assert.Equal(t, 2.75, CompileRaw(row, weights))
}

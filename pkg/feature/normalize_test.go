package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rowsWith(col string, values ...float64) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{ClubKey: string(rune('a' + i)), Cols: map[string]float64{col: v}}
	}
	return rows
}

func TestNormalize_Bounds(t *testing.T) {
	rows := rowsWith("shots", 10, 25, 40, 55)
	Normalize(rows, []ColumnSpec{{Name: "shots"}})

	low, ok := rows[0].Value("shots_norm")
	assert.True(t, ok)
	assert.Equal(t, 0.0, low, "min raw value maps to 0")

	high, _ := rows[3].Value("shots_norm")
	assert.Equal(t, 1.0, high, "max raw value maps to 1")

	for _, r := range rows {
		v, _ := r.Value("shots_norm")
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNormalize_UniformColumnIsNeutral(t *testing.T) {
	rows := rowsWith("goals", 7, 7, 7)
	Normalize(rows, []ColumnSpec{{Name: "goals"}})

	for _, r := range rows {
		v, ok := r.Value("goals_norm")
		assert.True(t, ok)
		assert.Equal(t, 0.5, v, "zero variance means no signal, not division by zero")
	}
}

func TestNormalize_ReverseMirrorsForward(t *testing.T) {
	raw := []float64{30, 42, 51, 68}
	forward := rowsWith("m", raw...)
	reversed := rowsWith("m", raw...)

	Normalize(forward, []ColumnSpec{{Name: "m"}})
	Normalize(reversed, []ColumnSpec{{Name: "m", Reverse: true}})

	for i := range raw {
		f, _ := forward[i].Value("m_norm")
		r, _ := reversed[i].Value("m_norm")
		assert.InDelta(t, 1-f, r, 1e-9)
	}
}

func TestNormalize_AbsentColumnStaysAbsent(t *testing.T) {
	rows := []Row{
		{ClubKey: "a", Cols: map[string]float64{}},
		{ClubKey: "b", Cols: map[string]float64{}},
	}
	Normalize(rows, []ColumnSpec{{Name: "blocks"}})

	for _, r := range rows {
		_, ok := r.Value("blocks_norm")
		assert.False(t, ok, "no raw values must not invent a normalized column")
	}
}

func TestNormalize_MissingRowSkipped(t *testing.T) {
	rows := []Row{
		{ClubKey: "a", Cols: map[string]float64{"p": 1}},
		{ClubKey: "b", Cols: map[string]float64{}},
		{ClubKey: "c", Cols: map[string]float64{"p": 3}},
	}
	Normalize(rows, []ColumnSpec{{Name: "p"}})

	_, ok := rows[1].Value("p_norm")
	assert.False(t, ok, "club without a raw value gets no normalized value")

	v, _ := rows[2].Value("p_norm")
	assert.Equal(t, 1.0, v)
}

func TestNormalize_Rounding(t *testing.T) {
	rows := rowsWith("x", 0, 1, 3)
	Normalize(rows, []ColumnSpec{{Name: "x"}})

	v, _ := rows[1].Value("x_norm")
	assert.Equal(t, 0.333, v)
}

package scoring

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m, err := ValidateSchema(Table{
			Header: []string{"Fund", "R1", "R2"},
			Rows:   [][]string{{"M1", " 0.5", "1e3"}, {"M2", "-2", "7"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Fund", m.IDColumn)
		assert.Equal(t, []string{"R1", "R2"}, m.Criteria)
		assert.Equal(t, []float64{0.5, 1000}, m.Rows[0].Values)
		assert.Equal(t, []string{" 0.5", "1e3"}, m.Rows[0].Cells)
		assert.Equal(t, 2, m.NumCriteria())
	})

	tests := []struct {
		name   string
		table  Table
		column string
		reason string
	}{
		{
			name:   "too few columns",
			table:  Table{Header: []string{"id", "x"}, Rows: [][]string{{"A", "1"}, {"B", "2"}}},
			reason: "too few columns",
		},
		{
			name:   "non-numeric cell",
			table:  Table{Header: []string{"id", "x", "y"}, Rows: [][]string{{"A", "1", "2"}, {"B", "high", "3"}}},
			column: "x",
			reason: "non-numeric column",
		},
		{
			name:   "first failing column wins",
			table:  Table{Header: []string{"id", "x", "y"}, Rows: [][]string{{"A", "1", "?"}, {"B", "n/a", "3"}}},
			column: "x",
			reason: "non-numeric column",
		},
		{
			name:   "nan literal",
			table:  Table{Header: []string{"id", "x", "y"}, Rows: [][]string{{"A", "1", "NaN"}, {"B", "2", "3"}}},
			column: "y",
			reason: "non-numeric column",
		},
		{
			name:   "empty cell",
			table:  Table{Header: []string{"id", "x", "y"}, Rows: [][]string{{"A", "1", ""}, {"B", "2", "3"}}},
			column: "y",
			reason: "non-numeric column",
		},
		{
			name:   "unnamed column",
			table:  Table{Header: []string{"id", "x", ""}, Rows: [][]string{{"A", "1", "inf"}, {"B", "2", "3"}}},
			column: "#3",
			reason: "non-numeric column",
		},
		{
			name:   "ragged row",
			table:  Table{Header: []string{"id", "x", "y"}, Rows: [][]string{{"A", "1", "2"}, {"B", "2"}}},
			reason: "row 2 has 2 cells",
		},
		{
			name:   "no rows",
			table:  Table{Header: []string{"id", "x", "y"}},
			reason: "no alternatives",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSchema(tt.table)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
			assert.NotErrorIs(t, err, ErrParameter)

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, KindSchema, e.Kind)
			assert.Equal(t, tt.column, e.Column)
			assert.Contains(t, e.Error(), tt.reason)
		})
	}
}

func TestParseParameters(t *testing.T) {
	t.Run("valid with whitespace", func(t *testing.T) {
		w, imp, err := ParseParameters(" 1, 2.5 ,0.25", "+ , -,+", 3)
		require.NoError(t, err)
		assert.Equal(t, WeightVector{1, 2.5, 0.25}, w)
		assert.Equal(t, ImpactVector{Maximize, Minimize, Maximize}, imp)
		assert.Equal(t, "1,2.5,0.25", w.String())
		assert.Equal(t, "+,-,+", imp.String())
		assert.InDelta(t, 3.75, w.Sum(), 1e-12)
	})

	tests := []struct {
		name     string
		weights  string
		impacts  string
		criteria int
		reason   string
	}{
		{"count mismatch", "1,1", "+,+,-", 3, "must equal number of impacts"},
		{"count mismatch beats bad symbol", "1,1", "+,*,-", 3, "must equal number of impacts"},
		{"double plus", "1,1,1", "+,++,-", 3, "impacts must be + or -"},
		{"star", "1,1,1", "+,*,-", 3, "impacts must be + or -"},
		{"empty impact", "1,1,1", "+,,-", 3, "impacts must be + or -"},
		{"empty impacts string", "", "", 1, "impacts must be + or -"},
		{"word impact", "1,1,1", "+,max,-", 3, "impacts must be + or -"},
		{"bad symbol beats bad weight", "1,x,1", "+,*,-", 3, "impacts must be + or -"},
		{"non-numeric weight", "1,x,1", "+,+,-", 3, "weights must be numeric"},
		{"nan weight", "1,NaN,1", "+,+,-", 3, "weights must be numeric"},
		{"bad weight beats column count", "1,x", "+,-", 3, "weights must be numeric"},
		{"column count", "1,1", "+,-", 3, "must match number of criterion columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseParameters(tt.weights, tt.impacts, tt.criteria)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParameter)
			assert.Equal(t, KindParameter, KindOf(err))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestParseImpactStrict(t *testing.T) {
	for _, tok := range []string{"++", "*", "", "--", "plus", "+-", "P"} {
		_, err := ParseImpact(tok)
		assert.ErrorIs(t, err, ErrParameter, "token %q", tok)
	}
	imp, err := ParseImpact(" - ")
	require.NoError(t, err)
	assert.Equal(t, Minimize, imp)
}

func TestImpactJSON(t *testing.T) {
	var iv ImpactVector
	require.NoError(t, json.Unmarshal([]byte(`["+","-"]`), &iv))
	assert.Equal(t, ImpactVector{Maximize, Minimize}, iv)

	out, err := json.Marshal(iv)
	require.NoError(t, err)
	assert.JSONEq(t, `["+","-"]`, string(out))

	err = json.Unmarshal([]byte(`["+","++"]`), &iv)
	assert.ErrorIs(t, err, ErrParameter)
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

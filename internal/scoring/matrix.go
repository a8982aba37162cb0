package scoring

import (
	"math"
	"strconv"
	"strings"
)

// Table is raw tabular input: a header row and string cells, as read from a
// CSV upload or a request body. Column 0 holds the alternative identifier.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Alternative is one row of a DecisionMatrix.
type Alternative struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`

	// Cells keeps the criterion cells as they appeared in the input so
	// writers can echo them verbatim. Nil for structured input.
	Cells []string `json:"-"`
}

// DecisionMatrix is the validated numeric form of a Table.
type DecisionMatrix struct {
	IDColumn string        `json:"id_column"`
	Criteria []string      `json:"criteria"`
	Rows     []Alternative `json:"rows"`
}

// NumCriteria returns the number of criterion columns.
func (m DecisionMatrix) NumCriteria() int {
	if len(m.Criteria) > 0 {
		return len(m.Criteria)
	}
	if len(m.Rows) > 0 {
		return len(m.Rows[0].Values)
	}
	return 0
}

// Matrix is a dense row-major block of criterion values.
type Matrix [][]float64

// Values copies the numeric block of m.
func (m DecisionMatrix) Values() Matrix {
	out := make(Matrix, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = append([]float64(nil), r.Values...)
	}
	return out
}

// column returns a fresh copy of column j.
func (m Matrix) column(j int) []float64 {
	col := make([]float64, len(m))
	for i := range m {
		col[i] = m[i][j]
	}
	return col
}

const minColumns = 3

// ValidateSchema checks the shape and type constraints of raw input and
// converts it to a DecisionMatrix. A single non-numeric cell invalidates its
// whole column.
func ValidateSchema(t Table) (DecisionMatrix, error) {
	if len(t.Header) < minColumns {
		return DecisionMatrix{}, schemaError("", "too few columns: need an identifier column and at least 2 criteria, got %d columns", len(t.Header))
	}
	if len(t.Rows) == 0 {
		return DecisionMatrix{}, schemaError("", "no alternatives: input has a header but no rows")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return DecisionMatrix{}, schemaError("", "row %d has %d cells, header has %d", i+1, len(row), len(t.Header))
		}
	}

	criteria := make([]string, len(t.Header)-1)
	copy(criteria, t.Header[1:])

	rows := make([]Alternative, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = Alternative{
			ID:     row[0],
			Values: make([]float64, len(criteria)),
			Cells:  append([]string(nil), row[1:]...),
		}
	}

	// Column-major: the first failing column is reported.
	for j := range criteria {
		for i, row := range t.Rows {
			v, ok := parseFinite(row[j+1])
			if !ok {
				return DecisionMatrix{}, schemaError(columnName(criteria[j], j+1), "non-numeric column: cell %q in row %d is not a number", row[j+1], i+1)
			}
			rows[i].Values[j] = v
		}
	}

	return DecisionMatrix{IDColumn: t.Header[0], Criteria: criteria, Rows: rows}, nil
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func columnName(name string, pos int) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return "#" + strconv.Itoa(pos+1)
}

// validateShape checks a structured DecisionMatrix that did not come through
// ValidateSchema.
func validateShape(m DecisionMatrix) error {
	if len(m.Rows) == 0 {
		return schemaError("", "no alternatives")
	}
	n := m.NumCriteria()
	if n < minColumns-1 {
		return schemaError("", "too few columns: need at least 2 criteria, got %d", n)
	}
	if len(m.Criteria) > 0 && len(m.Criteria) != n {
		return schemaError("", "criteria names (%d) do not match criterion count (%d)", len(m.Criteria), n)
	}
	for _, r := range m.Rows {
		if len(r.Values) != n {
			return schemaError("", "alternative %q has %d values, expected %d", r.ID, len(r.Values), n)
		}
		for j, v := range r.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return schemaError(m.criterionName(j), "non-numeric column: alternative %q has a non-finite value", r.ID)
			}
		}
	}
	return nil
}

func (m DecisionMatrix) criterionName(j int) string {
	if j < len(m.Criteria) {
		return columnName(m.Criteria[j], j+1)
	}
	return "#" + strconv.Itoa(j+2)
}

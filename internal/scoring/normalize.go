package scoring

import "math"

// Normalize rescales each criterion column to unit Euclidean norm and returns
// the column norms alongside the normalized copy.
//
// A column whose norm is zero or whose values are all identical is reported
// as a degenerate column.
func Normalize(m DecisionMatrix) (Matrix, []float64, error) {
	values := m.Values()
	cols := m.NumCriteria()
	norms := make([]float64, cols)

	scale := make([]float64, cols)
	scaled := make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := values.column(j)
		// Scale by the largest magnitude before squaring, as math.Hypot does,
		// so neither overflow nor underflow loses the column.
		var maxAbs float64
		for _, v := range col {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
		if maxAbs == 0 {
			return nil, nil, &Error{Kind: KindDegenerateColumn, Reason: "column norm is zero", Column: m.criterionName(j)}
		}
		if isConstant(col) {
			return nil, nil, &Error{Kind: KindDegenerateColumn, Reason: "all values are identical (zero variance)", Column: m.criterionName(j)}
		}
		var sumSq float64
		for _, v := range col {
			r := v / maxAbs
			sumSq += r * r
		}
		scale[j] = maxAbs
		scaled[j] = math.Sqrt(sumSq)
		norms[j] = maxAbs * scaled[j]
	}

	out := make(Matrix, len(values))
	for i, row := range values {
		out[i] = make([]float64, cols)
		for j, v := range row {
			out[i][j] = (v / scale[j]) / scaled[j]
		}
	}
	return out, norms, nil
}

// ApplyWeights multiplies every normalized column by its weight. The caller
// guarantees len(w) equals the column count.
func ApplyWeights(normalized Matrix, w WeightVector) Matrix {
	out := make(Matrix, len(normalized))
	for i, row := range normalized {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v * w[j]
		}
	}
	return out
}

func isConstant(col []float64) bool {
	for _, v := range col[1:] {
		if v != col[0] {
			return false
		}
	}
	return true
}

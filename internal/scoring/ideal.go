package scoring

import (
	"math"
	"strconv"
)

// IdealPoint holds the per-criterion reference points. Best is always the most
// preferred value for the criterion's direction, Worst the least.
type IdealPoint struct {
	Best  []float64 `json:"best"`
	Worst []float64 `json:"worst"`
}

// ResolveIdealPoint derives the ideal-best and ideal-worst vectors from the
// weighted matrix. For a Maximize criterion best is the column max and worst
// the column min; for Minimize the two are swapped.
func ResolveIdealPoint(weighted Matrix, impacts ImpactVector) IdealPoint {
	ip := IdealPoint{
		Best:  make([]float64, len(impacts)),
		Worst: make([]float64, len(impacts)),
	}
	for j, imp := range impacts {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := range weighted {
			v := weighted[i][j]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if imp == Minimize {
			ip.Best[j], ip.Worst[j] = lo, hi
		} else {
			ip.Best[j], ip.Worst[j] = hi, lo
		}
	}
	return ip
}

// Distances returns the Euclidean distance of every row to the ideal-best and
// ideal-worst points.
//
//	S+ = sqrt(sum_j (v_ij - best_j)^2)
//	S- = sqrt(sum_j (v_ij - worst_j)^2)
func Distances(weighted Matrix, ip IdealPoint) (toBest, toWorst []float64) {
	toBest = make([]float64, len(weighted))
	toWorst = make([]float64, len(weighted))
	for i, row := range weighted {
		var sb, sw float64
		for j, v := range row {
			db := v - ip.Best[j]
			dw := v - ip.Worst[j]
			sb += db * db
			sw += dw * dw
		}
		toBest[i] = math.Sqrt(sb)
		toWorst[i] = math.Sqrt(sw)
	}
	return toBest, toWorst
}

// Closeness computes C_i = S-_i / (S+_i + S-_i). ids labels rows for error
// reporting. A row at zero distance from both ideal points is degenerate.
func Closeness(toBest, toWorst []float64, ids []string) ([]float64, error) {
	scores := make([]float64, len(toBest))
	for i := range toBest {
		denom := toBest[i] + toWorst[i]
		if denom == 0 {
			return nil, &Error{
				Kind:   KindDegenerateRow,
				Reason: "alternative coincides with both ideal points, closeness is undefined",
				Row:    rowLabel(ids, i),
			}
		}
		scores[i] = toWorst[i] / denom
	}
	return scores, nil
}

func rowLabel(ids []string, i int) string {
	if i < len(ids) && ids[i] != "" {
		return ids[i]
	}
	return "#" + strconv.Itoa(i+1)
}

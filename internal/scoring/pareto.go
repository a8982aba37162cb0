package scoring

// ComputeFrontier returns the row indexes of the Pareto-optimal alternatives,
// in input order. An alternative is dominated if another one is at least as
// good on every criterion (respecting each criterion's direction) and strictly
// better on at least one.
// O(n^2 * c) dominance check, fine for decision-matrix sizes.
func ComputeFrontier(m DecisionMatrix, impacts ImpactVector) []int {
	frontier := make([]int, 0, len(m.Rows))
	for i := range m.Rows {
		dominated := false
		for j := range m.Rows {
			if i == j {
				continue
			}
			if dominates(m.Rows[j].Values, m.Rows[i].Values, impacts) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, i)
		}
	}
	return frontier
}

// dominates returns true if a dominates b.
func dominates(a, b []float64, impacts ImpactVector) bool {
	strictly := false
	for k, imp := range impacts {
		x, y := a[k], b[k]
		if imp == Minimize {
			x, y = -x, -y
		}
		if x < y {
			return false
		}
		if x > y {
			strictly = true
		}
	}
	return strictly
}

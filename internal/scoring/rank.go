package scoring

import "sort"

// tieTolerance is the absolute score difference under which two alternatives
// share a rank.
const tieTolerance = 1e-12

// DenseRank assigns ranks by descending score: the highest score gets rank 1,
// equal scores share a rank, and the next distinct score gets the next integer
// with no gaps. The result is aligned with the input order.
func DenseRank(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranks := make([]int, len(scores))
	rank := 0
	prev := 0.0
	for k, idx := range order {
		if k == 0 || prev-scores[idx] > tieTolerance {
			rank++
			prev = scores[idx]
		}
		ranks[idx] = rank
	}
	return ranks
}

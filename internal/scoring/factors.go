package scoring

// CriterionResult captures one criterion's contribution to an alternative's score.
type CriterionResult struct {
	Name       string  `json:"name"`
	Impact     Impact  `json:"impact"`
	Raw        float64 `json:"raw"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Best       float64 `json:"ideal_best"`
	Worst      float64 `json:"ideal_worst"`

	// Squared deviations; their sums are the squared distances.
	DevBest  float64 `json:"dev_best"`
	DevWorst float64 `json:"dev_worst"`
	Reason   string  `json:"reason"`
}

// AlternativeBreakdown is the scoring breakdown for one alternative.
type AlternativeBreakdown struct {
	ID        string            `json:"id"`
	Score     float64           `json:"score"`
	Rank      int               `json:"rank"`
	DistBest  float64           `json:"dist_best"`
	DistWorst float64           `json:"dist_worst"`
	Frontier  bool              `json:"pareto_optimal"`
	Criteria  []CriterionResult `json:"criteria"`
}

// Explanation is the full breakdown of a run.
type Explanation struct {
	Result       Result                 `json:"result"`
	Frontier     []string               `json:"pareto_frontier"`
	Alternatives []AlternativeBreakdown `json:"alternatives"`
}

// Explain computes the ranking and a per-criterion breakdown for every
// alternative.
func Explain(m DecisionMatrix, w WeightVector, imp ImpactVector) (Explanation, error) {
	res, err := Compute(m, w, imp)
	if err != nil {
		return Explanation{}, err
	}

	frontier := ComputeFrontier(m, imp)
	onFrontier := make(map[int]bool, len(frontier))
	ids := make([]string, len(frontier))
	for k, i := range frontier {
		onFrontier[i] = true
		ids[k] = m.Rows[i].ID
	}

	alts := make([]AlternativeBreakdown, len(res.Rows))
	for i, row := range res.Rows {
		crit := make([]CriterionResult, len(res.Criteria))
		for j := range crit {
			v := res.weighted[i][j]
			db := v - res.Ideal.Best[j]
			dw := v - res.Ideal.Worst[j]
			crit[j] = CriterionResult{
				Name:       res.Criteria[j],
				Impact:     imp[j],
				Raw:        row.Values[j],
				Normalized: res.normalized[i][j],
				Weight:     w[j],
				Weighted:   v,
				Best:       res.Ideal.Best[j],
				Worst:      res.Ideal.Worst[j],
				DevBest:    db * db,
				DevWorst:   dw * dw,
				Reason:     criterionReason(v, res.Ideal.Best[j], res.Ideal.Worst[j]),
			}
		}
		alts[i] = AlternativeBreakdown{
			ID:        row.ID,
			Score:     row.Score,
			Rank:      row.Rank,
			DistBest:  res.toBest[i],
			DistWorst: res.toWorst[i],
			Frontier:  onFrontier[i],
			Criteria:  crit,
		}
	}

	return Explanation{Result: res, Frontier: ids, Alternatives: alts}, nil
}

func criterionReason(v, best, worst float64) string {
	switch v {
	case best:
		return "at ideal best"
	case worst:
		return "at ideal worst"
	}
	return "between ideal points"
}

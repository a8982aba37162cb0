package scoring

import (
	"log/slog"
	"time"
)

// ScoreRow is the output for one alternative.
type ScoreRow struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
	Cells  []string  `json:"-"`
	Score  float64   `json:"score"`
	Rank   int       `json:"rank"`
}

// Result captures the complete output of one TOPSIS run. Rows keep the input
// order; Rank carries the ordering.
type Result struct {
	IDColumn string       `json:"id_column"`
	Criteria []string     `json:"criteria"`
	Weights  WeightVector `json:"weights"`
	Impacts  ImpactVector `json:"impacts"`
	Norms    []float64    `json:"norms"`
	Ideal    IdealPoint   `json:"ideal"`
	Rows     []ScoreRow   `json:"rows"`

	weighted   Matrix
	normalized Matrix
	toBest     []float64
	toWorst    []float64
}

// Best returns the rank-1 rows.
func (r Result) Best() []ScoreRow {
	var out []ScoreRow
	for _, row := range r.Rows {
		if row.Rank == 1 {
			out = append(out, row)
		}
	}
	return out
}

// Compute runs stages 3–7 of the pipeline on a structured matrix. Shape and
// parameters are checked first so structured callers get the same error kinds
// as string-driven ones.
func Compute(m DecisionMatrix, w WeightVector, imp ImpactVector) (Result, error) {
	if err := validateShape(m); err != nil {
		return Result{}, err
	}
	if err := ValidateParameters(w, imp, m.NumCriteria()); err != nil {
		return Result{}, err
	}

	normalized, norms, err := Normalize(m)
	if err != nil {
		return Result{}, err
	}
	weighted := ApplyWeights(normalized, w)
	ideal := ResolveIdealPoint(weighted, imp)
	toBest, toWorst := Distances(weighted, ideal)

	ids := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		ids[i] = r.ID
	}
	scores, err := Closeness(toBest, toWorst, ids)
	if err != nil {
		return Result{}, err
	}
	ranks := DenseRank(scores)

	rows := make([]ScoreRow, len(m.Rows))
	for i, alt := range m.Rows {
		rows[i] = ScoreRow{
			ID:     alt.ID,
			Values: append([]float64(nil), alt.Values...),
			Cells:  alt.Cells,
			Score:  scores[i],
			Rank:   ranks[i],
		}
	}

	return Result{
		IDColumn:   m.IDColumn,
		Criteria:   criteriaNames(m),
		Weights:    append(WeightVector(nil), w...),
		Impacts:    append(ImpactVector(nil), imp...),
		Norms:      norms,
		Ideal:      ideal,
		Rows:       rows,
		weighted:   weighted,
		normalized: normalized,
		toBest:     toBest,
		toWorst:    toWorst,
	}, nil
}

func criteriaNames(m DecisionMatrix) []string {
	names := make([]string, m.NumCriteria())
	for j := range names {
		names[j] = m.criterionName(j)
	}
	return names
}

// Recorder receives one observation per pipeline run. kind is empty on success.
type Recorder interface {
	ObserveRun(kind ErrorKind, alternatives, criteria int, elapsed time.Duration)
}

// Scorer runs the full string-driven pipeline for collaborators. It holds only
// immutable configuration and is safe for concurrent use.
type Scorer struct {
	logger   *slog.Logger
	recorder Recorder
}

// NewScorer creates a Scorer. recorder may be nil.
func NewScorer(logger *slog.Logger, recorder Recorder) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{logger: logger, recorder: recorder}
}

// Run validates raw input and computes the ranking: schema, then parameters,
// then the numeric stages.
func (s *Scorer) Run(t Table, weights, impacts string) (Result, error) {
	start := time.Now()

	m, err := ValidateSchema(t)
	if err != nil {
		return Result{}, s.fail(err, len(t.Rows), len(t.Header)-1, start)
	}
	w, imp, err := ParseParameters(weights, impacts, m.NumCriteria())
	if err != nil {
		return Result{}, s.fail(err, len(m.Rows), m.NumCriteria(), start)
	}
	return s.ComputeMatrix(m, w, imp, start)
}

// ComputeMatrix is Compute with logging and metrics. start may be zero.
func (s *Scorer) ComputeMatrix(m DecisionMatrix, w WeightVector, imp ImpactVector, start time.Time) (Result, error) {
	if start.IsZero() {
		start = time.Now()
	}
	res, err := Compute(m, w, imp)
	if err != nil {
		return Result{}, s.fail(err, len(m.Rows), m.NumCriteria(), start)
	}

	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveRun("", len(res.Rows), len(res.Criteria), elapsed)
	}
	s.logger.Debug("topsis run completed",
		"alternatives", len(res.Rows),
		"criteria", len(res.Criteria),
		"weights", w.String(),
		"impacts", imp.String(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

// Explain is Run followed by the per-criterion breakdown.
func (s *Scorer) Explain(t Table, weights, impacts string) (Explanation, error) {
	start := time.Now()

	m, err := ValidateSchema(t)
	if err != nil {
		return Explanation{}, s.fail(err, len(t.Rows), len(t.Header)-1, start)
	}
	w, imp, err := ParseParameters(weights, impacts, m.NumCriteria())
	if err != nil {
		return Explanation{}, s.fail(err, len(m.Rows), m.NumCriteria(), start)
	}
	ex, err := Explain(m, w, imp)
	if err != nil {
		return Explanation{}, s.fail(err, len(m.Rows), m.NumCriteria(), start)
	}
	if s.recorder != nil {
		s.recorder.ObserveRun("", len(m.Rows), m.NumCriteria(), time.Since(start))
	}
	return ex, nil
}

func (s *Scorer) fail(err error, alternatives, criteria int, start time.Time) error {
	kind := KindOf(err)
	if s.recorder != nil {
		s.recorder.ObserveRun(kind, alternatives, max(criteria, 0), time.Since(start))
	}
	s.logger.Info("topsis run rejected", "kind", string(kind), "error", err)
	return err
}

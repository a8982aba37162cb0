// Package table reads decision matrices from CSV and writes ranked results back.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
)

// Output column names appended to the input columns.
const (
	ScoreColumn = "Topsis Score"
	RankColumn  = "Rank"
)

var (
	ErrEmpty        = errors.New("table: input is empty")
	ErrFileNotFound = errors.New("table: file not found")
)

// Read parses CSV input. The first record is the header. Cells are trimmed and
// records may have differing lengths; shape checks belong to the schema
// validator.
func Read(r io.Reader) (scoring.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return scoring.Table{}, fmt.Errorf("unable to read CSV: %w", err)
	}
	if len(records) == 0 {
		return scoring.Table{}, ErrEmpty
	}

	t := scoring.Table{Header: trimAll(records[0])}
	// Strip a UTF-8 BOM left by spreadsheet exports.
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, trimAll(rec))
	}
	return t, nil
}

// ReadFile reads a CSV file from disk.
func ReadFile(path string) (scoring.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scoring.Table{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return scoring.Table{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write emits the result as CSV: the identifier column, every criterion
// column, then the score and rank. Criterion cells that came from a table are
// echoed verbatim. precision is the number of decimals for the score; -1
// selects the shortest representation that round-trips.
func Write(w io.Writer, res scoring.Result, precision int) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(res.Criteria)+3)
	header = append(header, res.IDColumn)
	header = append(header, res.Criteria...)
	header = append(header, ScoreColumn, RankColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range res.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, row.ID)
		if len(row.Cells) == len(row.Values) {
			rec = append(rec, row.Cells...)
		} else {
			for _, v := range row.Values {
				rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		rec = append(rec, FormatScore(row.Score, precision), strconv.Itoa(row.Rank))
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the result CSV to path, replacing any existing file.
func WriteFile(path string, res scoring.Result, precision int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Write(f, res, precision); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatScore renders a closeness score with the given number of decimals.
func FormatScore(score float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(score, 'f', -1, 64)
	}
	return strconv.FormatFloat(score, 'f', precision, 64)
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
)

// writeJSON encodes v before writing the status so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		json.NewEncoder(&buf).Encode(errorResponse{Error: "encode response: " + err.Error()})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Column string `json:"column,omitempty"`
	Row    string `json:"alternative,omitempty"`
	RunID  string `json:"run_id,omitempty"`
}

// writeError maps pipeline errors to 422 and everything else to 500.
func writeError(w http.ResponseWriter, runID string, err error) {
	var se *scoring.Error
	if errors.As(err, &se) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  se.Reason,
			Kind:   string(se.Kind),
			Column: se.Column,
			Row:    se.Row,
			RunID:  runID,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), RunID: runID})
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/mailer"
	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
	"github.com/MikeSquared-Agency/Topsis/internal/table"
)

const (
	resultFilename  = "result.csv"
	deliveryChannel = "mail"
	eventSource     = "api"
	publishTimeout  = 5 * time.Second
)

// DeliveryRecorder counts result deliveries.
type DeliveryRecorder interface {
	ObserveDelivery(channel string, err error)
}

type TopsisHandler struct {
	scorer     *scoring.Scorer
	hermes     hermes.Client
	mailer     mailer.Sender
	deliveries DeliveryRecorder
	precision  int
	maxUpload  int64
	subject    string
	logger     *slog.Logger
}

func NewTopsisHandler(s *scoring.Scorer, h hermes.Client, m mailer.Sender, rec DeliveryRecorder, cfg *config.Config, logger *slog.Logger) *TopsisHandler {
	return &TopsisHandler{
		scorer:     s,
		hermes:     h,
		mailer:     m,
		deliveries: rec,
		precision:  cfg.Output.Precision,
		maxUpload:  cfg.Server.MaxUploadBytes,
		subject:    cfg.Mail.Subject,
		logger:     logger,
	}
}

// RunRequest is the JSON form of a ranking request. Multipart uploads carry
// the same fields as form values plus a "file" part holding the CSV.
type RunRequest struct {
	Header  []string `json:"header"`
	Rows    [][]cell `json:"rows"`
	Weights string   `json:"weights"`
	Impacts string   `json:"impacts"`
	Email   string   `json:"email,omitempty"`
}

// cell accepts a JSON string or number and keeps its literal text.
type cell string

func (c *cell) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = cell(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cell must be a string or a number, got %s", data)
	}
	*c = cell(n.String())
	return nil
}

func (req RunRequest) table() scoring.Table {
	rows := make([][]string, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = make([]string, len(r))
		for j, c := range r {
			rows[i][j] = string(c)
		}
	}
	return scoring.Table{Header: req.Header, Rows: rows}
}

type runInput struct {
	table   scoring.Table
	weights string
	impacts string
	email   string
}

type RankResponse struct {
	RunID string `json:"run_id"`
	scoring.Result
}

type ExplainResponse struct {
	RunID string `json:"run_id"`
	scoring.Explanation
}

type sentResponse struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
	To     string `json:"to"`
}

// Rank runs the pipeline on an uploaded table.
// POST /api/v1/topsis
func (h *TopsisHandler) Rank(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()

	in, err := h.decode(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), RunID: runID})
		return
	}
	if in.email != "" {
		if !mailer.ValidateAddress(in.email) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid email format", RunID: runID})
			return
		}
		if h.mailer == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: mailer.ErrNotConfigured.Error(), RunID: runID})
			return
		}
	}

	start := time.Now()
	res, err := h.scorer.Run(in.table, in.weights, in.impacts)
	if err != nil {
		h.publishFailed(r.Context(), runID, err)
		writeError(w, runID, err)
		return
	}
	h.publishCompleted(r.Context(), runID, res, time.Since(start))

	if in.email != "" {
		h.deliver(w, r, runID, in.email, res)
		return
	}

	if wantsCSV(r) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": resultFilename}))
		w.Header().Set("X-Run-ID", runID)
		w.WriteHeader(http.StatusOK)
		if err := table.Write(w, res, h.precision); err != nil {
			h.logger.Error("write csv response", "run_id", runID, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, RankResponse{RunID: runID, Result: res})
}

// Explain returns the per-criterion breakdown of a run.
// POST /api/v1/topsis/explain
func (h *TopsisHandler) Explain(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()

	in, err := h.decode(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), RunID: runID})
		return
	}

	ex, err := h.scorer.Explain(in.table, in.weights, in.impacts)
	if err != nil {
		writeError(w, runID, err)
		return
	}
	writeJSON(w, http.StatusOK, ExplainResponse{RunID: runID, Explanation: ex})
}

func (h *TopsisHandler) deliver(w http.ResponseWriter, r *http.Request, runID, to string, res scoring.Result) {
	var buf bytes.Buffer
	if err := table.Write(&buf, res, h.precision); err != nil {
		writeError(w, runID, err)
		return
	}

	err := h.mailer.Send(r.Context(), mailer.ResultMessage(to, h.subject, resultFilename, buf.Bytes()))
	if h.deliveries != nil {
		h.deliveries.ObserveDelivery(deliveryChannel, err)
	}
	if err != nil {
		h.logger.Error("result delivery failed", "run_id", runID, "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, mailer.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Error: "result delivery failed", RunID: runID})
		return
	}

	h.publish(r.Context(), hermes.SubjectRunDelivered(runID), hermes.RunDeliveredEvent{
		RunID:     runID,
		Channel:   deliveryChannel,
		Recipient: to,
		Timestamp: time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, sentResponse{Status: "sent", RunID: runID, To: to})
}

func (h *TopsisHandler) decode(w http.ResponseWriter, r *http.Request) (runInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return h.decodeMultipart(r)
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return runInput{}, fmt.Errorf("invalid request body: %w", err)
	}
	return runInput{
		table:   req.table(),
		weights: req.Weights,
		impacts: req.Impacts,
		email:   strings.TrimSpace(req.Email),
	}, nil
}

func (h *TopsisHandler) decodeMultipart(r *http.Request) (runInput, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return runInput{}, fmt.Errorf("invalid multipart form: %w", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return runInput{}, errors.New("missing file upload")
	}
	defer file.Close()

	t, err := table.Read(file)
	if err != nil {
		return runInput{}, err
	}
	return runInput{
		table:   t,
		weights: r.FormValue("weights"),
		impacts: r.FormValue("impacts"),
		email:   strings.TrimSpace(r.FormValue("email")),
	}, nil
}

func wantsCSV(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}

func (h *TopsisHandler) publishCompleted(ctx context.Context, runID string, res scoring.Result, elapsed time.Duration) {
	best := res.Best()
	ids := make([]string, len(best))
	for i, row := range best {
		ids[i] = row.ID
	}
	h.publish(ctx, hermes.SubjectRunCompleted(runID), hermes.RunCompletedEvent{
		RunID:        runID,
		Source:       eventSource,
		Alternatives: len(res.Rows),
		Criteria:     len(res.Criteria),
		Weights:      res.Weights.String(),
		Impacts:      res.Impacts.String(),
		Best:         ids,
		DurationMs:   elapsed.Milliseconds(),
		Timestamp:    time.Now().UTC(),
	})
}

func (h *TopsisHandler) publishFailed(ctx context.Context, runID string, err error) {
	h.publish(ctx, hermes.SubjectRunFailed(runID), hermes.RunFailedEvent{
		RunID:     runID,
		Source:    eventSource,
		Kind:      string(scoring.KindOf(err)),
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	})
}

// publish is best effort; event failures never fail a request.
func (h *TopsisHandler) publish(ctx context.Context, subject string, data interface{}) {
	if h.hermes == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.hermes.Publish(ctx, subject, data); err != nil {
		h.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

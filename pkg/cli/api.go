package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/data"
	"github.com/mchmarny/hiscore/pkg/score"
	"github.com/mchmarny/hiscore/pkg/sheet"
	"github.com/mchmarny/hiscore/pkg/tools"
)

const (
	maxUploadBytes = 32 << 20
	uploadField    = "file"
)

// scoreRequest is the body of the score and report endpoints.
type scoreRequest struct {
	CSV       string          `json:"csv"`
	Model     json.RawMessage `json:"model,omitempty"`
	Candidate string          `json:"candidate,omitempty"`
	Date      string          `json:"date,omitempty"`
	Save      bool            `json:"save,omitempty"`
}

// convertResponse is the body returned by the convert endpoint.
type convertResponse struct {
	Source    string     `json:"source"`
	Candidate string     `json:"candidate"`
	Kind      sheet.Kind `json:"kind"`
	Sheet     string     `json:"sheet,omitempty"`
	Answers   int        `json:"answers"`
	File      string     `json:"file"`
	CSV       string     `json:"csv"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryParamInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func taxonomyAPIHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tools.Catalog())
}

func convertAPIHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	f, h, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("multipart field %q required", uploadField))
		return
	}
	defer f.Close()

	res, err := sheet.Ingest(h.Filename, f)
	if err != nil {
		slog.Debug("convert failed", "file", h.Filename, "error", err)
		writeError(w, ingestStatus(err), err.Error())
		return
	}

	if c := strings.TrimSpace(r.FormValue("candidate")); c != "" {
		res.Candidate = c
	}

	writeJSON(w, http.StatusOK, &convertResponse{
		Source:    res.Source,
		Candidate: res.Candidate,
		Kind:      res.Kind,
		Sheet:     res.Sheet,
		Answers:   len(res.Pairs),
		File:      res.FileName(),
		CSV:       res.CSV(),
	})
}

func ingestStatus(err error) int {
	switch {
	case errors.Is(err, sheet.ErrAnalysisSheet),
		errors.Is(err, sheet.ErrNoUsableRows),
		errors.Is(err, sheet.ErrEmptyWorkbook):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sheet.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

// evaluate decodes the request and scores it. It writes the error response
// and returns false when the request can not be scored.
func (a *apiServer) evaluate(w http.ResponseWriter, r *http.Request) (*scoreRequest, *score.Result, bool) {
	var req scoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, nil, false
	}

	answers := answer.Decode(req.CSV)
	if len(answers) == 0 {
		writeError(w, http.StatusBadRequest, "csv has no answers")
		return nil, nil, false
	}

	m := a.model
	if len(req.Model) > 0 && string(req.Model) != "null" {
		m = score.LoadModel(req.Model)
	}
	if m.IsEmpty() {
		slog.Warn("scoring without a weight model", "candidate", req.Candidate)
	}

	res := score.Evaluate(answers, m)
	res.Candidate = strings.TrimSpace(req.Candidate)
	return &req, res, true
}

func (a *apiServer) scoreAPIHandler(w http.ResponseWriter, r *http.Request) {
	req, res, ok := a.evaluate(w, r)
	if !ok {
		return
	}

	out := &ScoreResult{Result: *res}
	if !req.Save {
		writeJSON(w, http.StatusOK, out)
		return
	}

	if res.Candidate == "" {
		writeError(w, http.StatusBadRequest, "candidate required to save")
		return
	}
	date, err := assessmentDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ref := a.modelRef
	if len(req.Model) > 0 {
		ref = "inline"
	}
	src := &sheet.Result{
		Source:    "api",
		Candidate: res.Candidate,
		Kind:      sheet.KindProcessed,
		Pairs:     answer.DecodePairs(req.CSV),
	}
	as := toAssessment(src, res, ref, date)
	if err := data.SaveAssessment(r.Context(), a.db, as); err != nil {
		slog.Error("failed to save assessment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save assessment")
		return
	}

	out.ID = as.ID
	out.Source = src.Source
	writeJSON(w, http.StatusCreated, out)
}

func (a *apiServer) reportAPIHandler(w http.ResponseWriter, r *http.Request) {
	_, res, ok := a.evaluate(w, r)
	if !ok {
		return
	}
	writeReport(w, res.Scores, sheet.ProcessedFileName(res.Candidate))
}

func writeReport(w http.ResponseWriter, board score.ScoreBoard, name string) {
	name = strings.TrimSuffix(strings.TrimPrefix(name, processedPrefix), ".csv")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report_"+name+".csv"))
	if err := score.WriteReport(w, board); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

func (a *apiServer) listAssessmentsAPIHandler(w http.ResponseWriter, r *http.Request) {
	list, err := data.ListAssessments(r.Context(), a.db,
		r.URL.Query().Get("like"),
		queryParamInt(r, "limit", data.DefaultListLimit))
	if err != nil {
		slog.Error("failed to list assessments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assessments")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *apiServer) getAssessment(w http.ResponseWriter, r *http.Request) (*data.Assessment, bool) {
	id := chi.URLParam(r, "id")
	as, err := data.GetAssessment(r.Context(), a.db, id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("assessment %s not found", id))
			return nil, false
		}
		slog.Error("failed to get assessment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get assessment")
		return nil, false
	}
	return as, true
}

func (a *apiServer) getAssessmentAPIHandler(w http.ResponseWriter, r *http.Request) {
	as, ok := a.getAssessment(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, historyDetail(as))
}

func (a *apiServer) assessmentReportAPIHandler(w http.ResponseWriter, r *http.Request) {
	as, ok := a.getAssessment(w, r)
	if !ok {
		return
	}
	writeReport(w, boardFromAssessment(as), sheet.ProcessedFileName(as.Candidate))
}

func (a *apiServer) deleteAssessmentAPIHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := data.DeleteAssessment(r.Context(), a.db, id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("assessment %s not found", id))
			return
		}
		slog.Error("failed to delete assessment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete assessment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

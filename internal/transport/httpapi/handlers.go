package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/usecase"
)

// API exposes the core use cases over HTTP.
type API struct {
	ingestion *usecase.Ingestion
	reporter  *usecase.Reporter
	logger    *slog.Logger
}

// NewAPI wires the use cases into the handler set.
func NewAPI(ingestion *usecase.Ingestion, reporter *usecase.Reporter, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{ingestion: ingestion, reporter: reporter, logger: logger}
}

// submitPayload accepts both English and Portuguese field names; the core
// only ever sees the normalized ones.
type submitPayload struct {
	Description *string `json:"description"`
	Descricao   *string `json:"descricao"`
	Score       *int    `json:"score"`
	Nota        *int    `json:"nota"`
	Urgency     *string `json:"urgency"`
	Urgencia    *string `json:"urgencia"`
}

func (p submitPayload) normalize() usecase.SubmitRequest {
	req := usecase.SubmitRequest{}

	if p.Description != nil {
		req.Description = *p.Description
	} else if p.Descricao != nil {
		req.Description = *p.Descricao
	}

	if p.Score != nil {
		req.Score = p.Score
	} else if p.Nota != nil {
		req.Score = p.Nota
	}

	if p.Urgency != nil {
		req.Urgency = *p.Urgency
	} else if p.Urgencia != nil {
		req.Urgency = *p.Urgencia
	}

	return req
}

type submitResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
}

func (a *API) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	resp, err := a.ingestion.Submit(r.Context(), payload.normalize())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		ID:          resp.ID,
		Description: resp.Description,
		Score:       resp.Score,
		CreatedAt:   resp.CreatedAt,
		Status:      resp.Status,
	})
}

type weeklyReportResponse struct {
	PeriodStart     time.Time      `json:"period_start"`
	PeriodEnd       time.Time      `json:"period_end"`
	TotalCount      int            `json:"total_count"`
	AverageScore    float64        `json:"average_score"`
	CountsByDay     map[string]int `json:"counts_by_day"`
	CountsByUrgency map[string]int `json:"counts_by_urgency"`
	StorageLocation string         `json:"storage_location,omitempty"`
}

func (a *API) generateWeeklyReport(w http.ResponseWriter, r *http.Request) {
	report, err := a.reporter.GenerateWeeklyReport(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	byUrgency := make(map[string]int, len(report.CountsByUrgency))
	for urgency, count := range report.CountsByUrgency {
		byUrgency[string(urgency)] = count
	}

	writeJSON(w, http.StatusOK, weeklyReportResponse{
		PeriodStart:     report.PeriodStart,
		PeriodEnd:       report.PeriodEnd,
		TotalCount:      report.TotalCount,
		AverageScore:    report.AverageScore,
		CountsByDay:     report.CountsByDay,
		CountsByUrgency: byUrgency,
		StorageLocation: report.StorageLocation,
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}

	var persistence *domain.PersistenceError
	if errors.As(err, &persistence) {
		a.logger.Error("persistence failure", "error", err)
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	a.logger.Error("unexpected failure", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

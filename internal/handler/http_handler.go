package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/uxbench/uxbench/internal/average"
	"github.com/uxbench/uxbench/internal/enricher"
	"github.com/uxbench/uxbench/internal/feed"
	"github.com/uxbench/uxbench/internal/processor"
	"github.com/uxbench/uxbench/internal/report"
)

const defaultAverageRuns = 3

// Recorder is the session engine behind the HTTP surface.
type Recorder interface {
	Start(ctx context.Context, meta report.Metadata) (string, error)
	Stop(ctx context.Context) (*report.Report, error)
	Process(ctx context.Context, raw map[string]interface{}) error
	Stats(ctx context.Context) (feed.Snapshot, bool, error)
}

// ReportHistory lists recently finalized reports.
type ReportHistory interface {
	RecentReports(ctx context.Context, n int64) ([]*report.Report, error)
}

type HTTPHandler struct {
	recorder Recorder
	history  ReportHistory
}

func NewHTTPHandler(r Recorder, h ReportHistory) *HTTPHandler {
	return &HTTPHandler{
		recorder: r,
		history:  h,
	}
}

// Routes builds the router.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(CORSMiddleware)

	r.Get("/health", HealthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/session/start", h.HandleStart)
		r.Post("/session/stop", h.HandleStop)
		r.Post("/events", h.HandleEvents)
		r.Get("/stats", h.HandleStats)
		r.Get("/reports/average", h.HandleAverage)
	})
	return r
}

type StartRequest struct {
	RecordingName string `json:"recording_name"`
	Product       string `json:"product"`
	Task          string `json:"task"`
	URL           string `json:"url"`
	Browser       string `json:"browser"`
	SourceVersion string `json:"source_version"`
	Operator      string `json:"operator"`
}

type StartResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

type EventBatchRequest struct {
	Events []map[string]interface{} `json:"events"`
}

type EventResponse struct {
	Success       bool     `json:"success"`
	AcceptedCount int      `json:"accepted_count"`
	RejectedCount int      `json:"rejected_count"`
	Errors        []string `json:"errors,omitempty"`
}

type StatsResponse struct {
	Recording bool          `json:"recording"`
	Stats     feed.Snapshot `json:"stats"`
}

func (h *HTTPHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	meta := enricher.Enrich(report.Metadata{
		RecordingName: req.RecordingName,
		Product:       req.Product,
		Task:          req.Task,
		URL:           req.URL,
		Browser:       req.Browser,
		SourceVersion: req.SourceVersion,
		Operator:      req.Operator,
	}, r.Header.Get("User-Agent"))

	sessionID, err := h.recorder.Start(r.Context(), meta)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().
		Str("session_id", sessionID).
		Str("device_type", enricher.DeviceType(r.Header.Get("User-Agent"))).
		Msg("Session start requested")
	writeJSON(w, http.StatusOK, StartResponse{Success: true, SessionID: sessionID})
}

func (h *HTTPHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	final, err := h.recorder.Stop(r.Context())
	if err != nil {
		if errors.Is(err, processor.ErrPersistence) && final != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"message": err.Error(),
				"report":  final,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if final == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, final)
}

func (h *HTTPHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	var req EventBatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	accepted := 0
	rejected := 0
	var errs []string

	for _, event := range req.Events {
		if err := h.recorder.Process(r.Context(), event); err != nil {
			rejected++
			errs = append(errs, err.Error())
			log.Warn().Err(err).Msg("Rejected event")
			continue
		}
		accepted++
	}

	writeJSON(w, http.StatusOK, EventResponse{
		Success:       rejected == 0,
		AcceptedCount: accepted,
		RejectedCount: rejected,
		Errors:        errs,
	})
}

func (h *HTTPHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	snap, recording, err := h.recorder.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Recording: recording, Stats: snap})
}

func (h *HTTPHandler) HandleAverage(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "Report history not configured")
		return
	}

	runs := defaultAverageRuns
	if v := r.URL.Query().Get("runs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "runs must be a positive integer")
			return
		}
		runs = n
	}

	reports, err := h.history.RecentReports(r.Context(), int64(runs))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	merged, err := average.Reports(reports)
	if errors.Is(err, average.ErrNoValidReports) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

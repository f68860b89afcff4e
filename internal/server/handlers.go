package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/pipeline"
	"github.com/theirongolddev/salesboard/internal/report"
	"github.com/theirongolddev/salesboard/internal/session"
)

type ctxKey int

const storeKey ctxKey = iota

// Handler returns the HTTP API router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/weeks", s.handleListWeeks)
			r.Post("/weeks", s.handleCloneWeek)
			r.Put("/current", s.handleSelectWeek)
			r.Get("/history", s.handleHistory)

			r.Route("/weeks/{week}", func(r chi.Router) {
				r.Get("/", s.handleGetLedger)
				r.Put("/target", s.handleSetTarget)
				r.Put("/channels/{channel}/percentage", s.handleSetPercentage)
				r.Put("/channels/{channel}/actuals", s.handleSetActual)
				r.Post("/reset", s.handleReset)
				r.Get("/metrics", s.handleMetrics)
				r.Get("/export/metrics.csv", s.handleExport(report.KindMetrics))
				r.Get("/export/channels.csv", s.handleExport(report.KindChannels))
			})
		})
	})

	return r
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Service) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, ok := s.lookup(chi.URLParam(r, "sid"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), storeKey, st)))
	})
}

func storeFrom(r *http.Request) *session.Store {
	return r.Context().Value(storeKey).(*session.Store)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps session and model sentinels to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownWeek), errors.Is(err, model.ErrUnknownChannel):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrUnknownField), errors.Is(err, session.ErrInvalidSnapshot):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

type createSessionResponse struct {
	SessionID   string `json:"session_id"`
	CurrentWeek string `json:"current_week"`
}

func (s *Service) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id, st := s.CreateSession()
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id, CurrentWeek: st.CurrentWeek()})
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.CloseSession(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

type weeksResponse struct {
	Weeks   []string `json:"weeks"`
	Current string   `json:"current"`
}

func (s *Service) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	st := storeFrom(r)
	writeJSON(w, http.StatusOK, weeksResponse{Weeks: st.Weeks(), Current: st.CurrentWeek()})
}

type cloneRequest struct {
	SourceWeekID string `json:"source_week_id"`
}

type cloneResponse struct {
	WeekID  string `json:"week_id"`
	Created bool   `json:"created"`
}

func (s *Service) handleCloneWeek(w http.ResponseWriter, r *http.Request) {
	var req cloneRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st := storeFrom(r)
	if req.SourceWeekID == "" {
		req.SourceWeekID = st.CurrentWeek()
	}

	id, created, err := st.CloneWeek(req.SourceWeekID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, cloneResponse{WeekID: id, Created: created})
}

type selectRequest struct {
	WeekID string `json:"week_id"`
}

func (s *Service) handleSelectWeek(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st := storeFrom(r)
	if err := st.Select(req.WeekID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weeksResponse{Weeks: st.Weeks(), Current: st.CurrentWeek()})
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, storeFrom(r).History())
}

func (s *Service) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	l, err := storeFrom(r).Ledger(chi.URLParam(r, "week"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type targetRequest struct {
	WeeklyTarget *float64 `json:"weekly_target"`
}

func (s *Service) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := decodeBody(r, &req); err != nil || req.WeeklyTarget == nil {
		writeError(w, http.StatusBadRequest, "weekly_target is required")
		return
	}
	st, week := storeFrom(r), chi.URLParam(r, "week")
	if err := st.SetWeeklyTarget(week, *req.WeeklyTarget); err != nil {
		writeStoreError(w, err)
		return
	}
	s.respondLedger(w, st, week)
}

type percentageRequest struct {
	Percentage *float64 `json:"percentage"`
}

type percentageResponse struct {
	Ledger       model.Ledger       `json:"ledger"`
	Distribution model.Distribution `json:"distribution"`
	Warning      string             `json:"warning,omitempty"`
}

func (s *Service) handleSetPercentage(w http.ResponseWriter, r *http.Request) {
	ch, err := model.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	var req percentageRequest
	if err := decodeBody(r, &req); err != nil || req.Percentage == nil {
		writeError(w, http.StatusBadRequest, "percentage is required")
		return
	}

	st, week := storeFrom(r), chi.URLParam(r, "week")
	d, err := st.SetChannelPercentage(week, ch, *req.Percentage)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	l, err := st.Ledger(week)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, percentageResponse{Ledger: l, Distribution: d, Warning: d.Warning()})
}

type actualRequest struct {
	Field string   `json:"field"`
	Value *float64 `json:"value"`
}

func (s *Service) handleSetActual(w http.ResponseWriter, r *http.Request) {
	ch, err := model.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	var req actualRequest
	if err := decodeBody(r, &req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "field and value are required")
		return
	}
	f, err := model.ParseField(req.Field)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	st, week := storeFrom(r), chi.URLParam(r, "week")
	if err := st.SetActual(week, ch, f, *req.Value); err != nil {
		writeStoreError(w, err)
		return
	}
	s.respondLedger(w, st, week)
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	st, week := storeFrom(r), chi.URLParam(r, "week")
	if err := st.ResetActuals(week); err != nil {
		writeStoreError(w, err)
		return
	}
	s.respondLedger(w, st, week)
}

func (s *Service) respondLedger(w http.ResponseWriter, st *session.Store, week string) {
	l, err := st.Ledger(week)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type metricsResponse struct {
	model.MetricsView
	Warning  string                 `json:"warning,omitempty"`
	RankROI  []model.ChannelMetrics `json:"rank_by_roi"`
	Currency string                 `json:"currency"`
}

func (s *Service) handleMetrics(w http.ResponseWriter, r *http.Request) {
	view, err := storeFrom(r).Metrics(chi.URLParam(r, "week"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{
		MetricsView: view,
		Warning:     view.Distribution.Warning(),
		RankROI:     pipeline.RankByROI(view),
		Currency:    s.cfg.Formatter.Symbol,
	})
}

func (s *Service) handleExport(kind report.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := storeFrom(r).Metrics(chi.URLParam(r, "week"))
		if err != nil {
			writeStoreError(w, err)
			return
		}

		name := report.MetricsFilename(view.WeekID)
		if kind == report.KindChannels {
			name = report.ChannelsFilename(view.WeekID)
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if err := report.Export(w, kind, view, s.cfg.Formatter); err != nil {
			s.log.Error("export failed", "kind", kind, "week_id", view.WeekID, "error", err)
		}
	}
}

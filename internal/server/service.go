// Package server hosts weekly ledger sessions behind an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/session"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	SessionTTL   time.Duration
	EventsBuffer int
	// Defaults seeds new sessions; nil uses the model defaults.
	Defaults     *session.Defaults
	Formatter    cli.Formatter
	Logger       *slog.Logger

	// Now overrides the clock for week ids and idle tracking.
	Now func() time.Time
}

// Summary is a compact view of one week for status and event payloads.
type Summary struct {
	WeekID         string  `json:"week_id"`
	Target         float64 `json:"target"`
	ActualSales    float64 `json:"actual_sales"`
	AmountSpent    float64 `json:"amount_spent"`
	OverallROI     float64 `json:"overall_roi"`
	AchievementPct float64 `json:"achievement_pct"`
}

// Delta captures the change in a week's totals caused by one mutation.
type Delta struct {
	Target         float64 `json:"target"`
	ActualSales    float64 `json:"actual_sales"`
	AmountSpent    float64 `json:"amount_spent"`
	AchievementPct float64 `json:"achievement_pct"`
}

func (d Delta) isZero() bool {
	return d.Target == 0 &&
		d.ActualSales == 0 &&
		d.AmountSpent == 0 &&
		d.AchievementPct == 0
}

// Event is emitted for session lifecycle changes and ledger mutations.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id,omitempty"`
	Change    *session.Change `json:"change,omitempty"`
	Summary   *Summary        `json:"summary,omitempty"`
	Delta     *Delta          `json:"delta,omitempty"`
}

// Event types outside the ledger change kinds.
const (
	EventSessionCreated = "session_created"
	EventSessionClosed  = "session_closed"
	EventSessionEvicted = "session_evicted"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Addr            string    `json:"addr"`
	Sessions        int       `json:"sessions"`
	SessionTTLSec   int       `json:"session_ttl_sec"`
	Evictions       int64     `json:"evictions"`
	LastEvictionAt  time.Time `json:"last_eviction_at,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

type hostedSession struct {
	store     *session.Store
	createdAt time.Time
	lastSeen  time.Time
	summaries map[string]Summary
}

// Service provides the session registry and HTTP API.
type Service struct {
	cfg Config
	log *slog.Logger

	mu             sync.RWMutex
	startedAt      time.Time
	sessions       map[string]*hostedSession
	evictions      int64
	lastEvictionAt time.Time
	nextEventID    int64
	events         []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Formatter.Symbol == "" {
		cfg.Formatter = cli.DefaultFormatter()
	}
	if cfg.Defaults == nil {
		cfg.Defaults = &session.Defaults{WeeklyTarget: model.DefaultWeeklyTarget}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		log:       logger,
		startedAt: cfg.Now(),
		sessions:  make(map[string]*hostedSession),
		subs:      make(map[int]chan Event),
	}
}

// Run serves the API and evicts idle sessions until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("server listening", "addr", s.cfg.Addr, "session_ttl", s.cfg.SessionTTL)

	ticker := time.NewTicker(evictionInterval(s.cfg.SessionTTL))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.log.Info("server shutting down")
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			if n := s.evictIdle(); n > 0 {
				s.log.Info("evicted idle sessions", "count", n)
			}
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

func evictionInterval(ttl time.Duration) time.Duration {
	iv := ttl / 2
	if iv > time.Minute {
		iv = time.Minute
	}
	if iv < time.Second {
		iv = time.Second
	}
	return iv
}

// CreateSession starts a new session seeded with the current calendar week.
func (s *Service) CreateSession() (string, *session.Store) {
	id := uuid.NewString()
	var st *session.Store
	st = session.New(
		session.WithClock(s.cfg.Now),
		session.WithDefaults(*s.cfg.Defaults),
		session.WithOnChange(func(c session.Change) { s.onChange(id, st, c) }),
	)

	now := s.cfg.Now()
	s.mu.Lock()
	s.sessions[id] = &hostedSession{
		store:     st,
		createdAt: now,
		lastSeen:  now,
		summaries: make(map[string]Summary),
	}
	s.mu.Unlock()

	s.publish(Event{Type: EventSessionCreated, SessionID: id})
	s.log.Debug("session created", "session_id", id, "week_id", st.CurrentWeek())
	return id, st
}

// CloseSession drops a session. It reports whether the session existed.
func (s *Service) CloseSession(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.publish(Event{Type: EventSessionClosed, SessionID: id})
	}
	return ok
}

// lookup returns the session store and marks it as recently used.
func (s *Service) lookup(id string) (*session.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hs, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	hs.lastSeen = s.cfg.Now()
	return hs.store, true
}

func (s *Service) evictIdle() int {
	now := s.cfg.Now()
	cutoff := now.Add(-s.cfg.SessionTTL)

	var evicted []string
	s.mu.Lock()
	for id, hs := range s.sessions {
		if hs.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	if len(evicted) > 0 {
		s.evictions += int64(len(evicted))
		s.lastEvictionAt = now
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.publish(Event{Type: EventSessionEvicted, SessionID: id})
	}
	return len(evicted)
}

func (s *Service) onChange(id string, st *session.Store, c session.Change) {
	view, err := st.Metrics(c.WeekID)
	if err != nil {
		s.log.Warn("change for unknown week", "session_id", id, "week_id", c.WeekID, "error", err)
		return
	}
	curr := summaryFromView(view)

	s.mu.Lock()
	var prev Summary
	var hadPrev bool
	if hs, ok := s.sessions[id]; ok {
		prev, hadPrev = hs.summaries[c.WeekID]
		hs.summaries[c.WeekID] = curr
	}
	s.mu.Unlock()

	ev := Event{
		Type:      string(c.Kind),
		SessionID: id,
		Change:    &c,
		Summary:   &curr,
	}
	if hadPrev {
		if d := diffSummaries(prev, curr); !d.isZero() {
			ev.Delta = &d
		}
	}
	s.publish(ev)
}

func summaryFromView(v model.MetricsView) Summary {
	return Summary{
		WeekID:         v.WeekID,
		Target:         v.WeeklyTarget,
		ActualSales:    v.TotalActualSales,
		AmountSpent:    v.TotalAmountSpent,
		OverallROI:     v.OverallROI,
		AchievementPct: v.TargetAchievementPct,
	}
}

func diffSummaries(prev, curr Summary) Delta {
	return Delta{
		Target:         curr.Target - prev.Target,
		ActualSales:    curr.ActualSales - prev.ActualSales,
		AmountSpent:    curr.AmountSpent - prev.AmountSpent,
		AchievementPct: curr.AchievementPct - prev.AchievementPct,
	}
}

func (s *Service) publish(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.cfg.Now()
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		Sessions:        len(s.sessions),
		SessionTTLSec:   int(s.cfg.SessionTTL.Seconds()),
		Evictions:       s.evictions,
		LastEvictionAt:  s.lastEvictionAt,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

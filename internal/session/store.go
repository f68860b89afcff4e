// Package session holds the weekly ledgers of one dashboard session.
package session

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/pipeline"
)

var (
	// ErrUnknownWeek is returned when a week id is not tracked by the store.
	ErrUnknownWeek = errors.New("unknown week")
	// ErrInvalidSnapshot is returned by Restore for malformed snapshots.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// ChangeKind identifies the mutation reported to an OnChange hook.
type ChangeKind string

const (
	ChangeSelect     ChangeKind = "select"
	ChangeClone      ChangeKind = "clone"
	ChangeTarget     ChangeKind = "target"
	ChangePercentage ChangeKind = "percentage"
	ChangeActual     ChangeKind = "actual"
	ChangeReset      ChangeKind = "reset"
	ChangeRestore    ChangeKind = "restore"
)

// Change describes one successful mutation.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	WeekID  string     `json:"week_id"`
	Channel string     `json:"channel,omitempty"`
	Field   string     `json:"field,omitempty"`
	Value   float64    `json:"value,omitempty"`
}

// Defaults configures the ledger seeded for a fresh week.
type Defaults struct {
	WeeklyTarget float64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to derive new week ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaults overrides the default ledger configuration.
func WithDefaults(d Defaults) Option {
	return func(s *Store) { s.defaults = d }
}

// WithOnChange registers a hook called after every successful mutation.
// The hook runs outside the store lock.
func WithOnChange(fn func(Change)) Option {
	return func(s *Store) { s.onChange = fn }
}

// Store maps week ids to ledgers and tracks the selected week.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	ledgers  map[string]*model.Ledger
	current  string
	now      func() time.Time
	defaults Defaults
	onChange func(Change)
}

// New returns a store seeded with a default ledger for the current calendar week.
func New(opts ...Option) *Store {
	s := &Store{
		ledgers:  make(map[string]*model.Ledger),
		now:      time.Now,
		defaults: Defaults{WeeklyTarget: model.DefaultWeeklyTarget},
	}
	for _, opt := range opts {
		opt(s)
	}

	id := model.WeekID(s.now())
	l := model.NewLedger(id, clampNonNegative(s.defaults.WeeklyTarget))
	s.ledgers[id] = &l
	s.current = id
	return s
}

// Weeks returns every tracked week id, newest first.
func (s *Store) Weeks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedWeeksLocked()
}

func (s *Store) sortedWeeksLocked() []string {
	ids := make([]string, 0, len(s.ledgers))
	for id := range s.ledgers {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids
}

// CurrentWeek returns the selected week id.
func (s *Store) CurrentWeek() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Select makes weekID the current week.
func (s *Store) Select(weekID string) error {
	s.mu.Lock()
	if _, ok := s.ledgers[weekID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("select %q: %w", weekID, ErrUnknownWeek)
	}
	s.current = weekID
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSelect, WeekID: weekID})
	return nil
}

// Ledger returns a copy of the ledger for weekID.
func (s *Store) Ledger(weekID string) (model.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[weekID]
	if !ok {
		return model.Ledger{}, fmt.Errorf("ledger %q: %w", weekID, ErrUnknownWeek)
	}
	return *l, nil
}

// Current returns a copy of the selected week's ledger.
func (s *Store) Current() model.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ledgers[s.current]
}

// CloneWeek copies the configuration of sourceWeekID into the calendar week of
// now. When that week already exists nothing changes and created is false.
// A newly created week becomes current.
func (s *Store) CloneWeek(sourceWeekID string) (weekID string, created bool, err error) {
	s.mu.Lock()
	src, ok := s.ledgers[sourceWeekID]
	if !ok {
		s.mu.Unlock()
		return "", false, fmt.Errorf("clone %q: %w", sourceWeekID, ErrUnknownWeek)
	}
	weekID = model.WeekID(s.now())
	if _, exists := s.ledgers[weekID]; exists {
		s.mu.Unlock()
		return weekID, false, nil
	}
	c := src.CloneInto(weekID)
	s.ledgers[weekID] = &c
	s.current = weekID
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeClone, WeekID: weekID})
	return weekID, true, nil
}

// SetWeeklyTarget sets a week's target. Negative values are clamped to 0.
func (s *Store) SetWeeklyTarget(weekID string, target float64) error {
	target = clampNonNegative(target)
	err := s.update(weekID, func(l *model.Ledger) {
		l.SetWeeklyTarget(target)
	})
	if err != nil {
		return fmt.Errorf("set target: %w", err)
	}
	s.notify(Change{Kind: ChangeTarget, WeekID: weekID, Value: target})
	return nil
}

// SetChannelPercentage sets one channel's share, clamped to [0, 100], and
// reports the resulting distribution.
func (s *Store) SetChannelPercentage(weekID string, ch model.Channel, pct float64) (model.Distribution, error) {
	if !ch.Valid() {
		return model.Distribution{}, fmt.Errorf("set percentage: %w", model.ErrUnknownChannel)
	}
	pct = math.Min(clampNonNegative(pct), 100)
	var d model.Distribution
	err := s.update(weekID, func(l *model.Ledger) {
		d = l.SetChannelPercentage(ch, pct)
	})
	if err != nil {
		return model.Distribution{}, fmt.Errorf("set percentage: %w", err)
	}
	s.notify(Change{Kind: ChangePercentage, WeekID: weekID, Channel: ch.Key(), Value: pct})
	return d, nil
}

// SetActual writes one actual field. Negative values are clamped to 0.
func (s *Store) SetActual(weekID string, ch model.Channel, f model.Field, v float64) error {
	if !ch.Valid() {
		return fmt.Errorf("set actual: %w", model.ErrUnknownChannel)
	}
	if f.Key() == "" {
		return fmt.Errorf("set actual: %w", model.ErrUnknownField)
	}
	v = clampNonNegative(v)
	err := s.update(weekID, func(l *model.Ledger) {
		l.SetActual(ch, f, v)
	})
	if err != nil {
		return fmt.Errorf("set actual: %w", err)
	}
	s.notify(Change{Kind: ChangeActual, WeekID: weekID, Channel: ch.Key(), Field: f.Key(), Value: v})
	return nil
}

// ResetActuals zeroes the actuals of one week.
func (s *Store) ResetActuals(weekID string) error {
	if err := s.update(weekID, (*model.Ledger).ResetActuals); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.notify(Change{Kind: ChangeReset, WeekID: weekID})
	return nil
}

// Metrics computes the metrics view for weekID.
func (s *Store) Metrics(weekID string) (model.MetricsView, error) {
	l, err := s.Ledger(weekID)
	if err != nil {
		return model.MetricsView{}, err
	}
	return pipeline.ComputeMetrics(l), nil
}

// History returns one trend point per tracked week, oldest first.
func (s *Store) History() []model.WeekPoint {
	return pipeline.History(s.Snapshot().Ledgers)
}

// Snapshot returns a detached copy of every ledger, newest first.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.Snapshot{Current: s.current}
	for _, id := range s.sortedWeeksLocked() {
		snap.Ledgers = append(snap.Ledgers, *s.ledgers[id])
	}
	return snap
}

// Restore replaces the store contents with snap.
func (s *Store) Restore(snap model.Snapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	ledgers := make(map[string]*model.Ledger, len(snap.Ledgers))
	for i := range snap.Ledgers {
		l := snap.Ledgers[i]
		ledgers[l.WeekID] = &l
	}

	s.mu.Lock()
	s.ledgers = ledgers
	s.current = snap.Current
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeRestore, WeekID: snap.Current})
	return nil
}

func validateSnapshot(snap model.Snapshot) error {
	if len(snap.Ledgers) == 0 {
		return fmt.Errorf("%w: no ledgers", ErrInvalidSnapshot)
	}
	seen := make(map[string]bool, len(snap.Ledgers))
	for _, l := range snap.Ledgers {
		if !model.ValidWeekID(l.WeekID) {
			return fmt.Errorf("%w: bad week id %q", ErrInvalidSnapshot, l.WeekID)
		}
		if seen[l.WeekID] {
			return fmt.Errorf("%w: duplicate week %q", ErrInvalidSnapshot, l.WeekID)
		}
		for i, r := range l.Channels {
			if r.Channel != model.Channel(i) {
				return fmt.Errorf("%w: week %q channel %d out of order", ErrInvalidSnapshot, l.WeekID, i)
			}
		}
		seen[l.WeekID] = true
	}
	if !seen[snap.Current] {
		return fmt.Errorf("%w: current week %q not in snapshot", ErrInvalidSnapshot, snap.Current)
	}
	return nil
}

func (s *Store) update(weekID string, fn func(*model.Ledger)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[weekID]
	if !ok {
		return fmt.Errorf("week %q: %w", weekID, ErrUnknownWeek)
	}
	fn(l)
	return nil
}

func (s *Store) notify(c Change) {
	if s.onChange != nil {
		s.onChange(c)
	}
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

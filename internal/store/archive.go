// Package store provides a SQLite archive for explicitly saved session snapshots.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/salesboard/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Archive holds at most one saved session snapshot.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// Exists reports whether an archive file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Open opens or creates the archive database at the given path.
func Open(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Archive{db: db, now: time.Now}, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveSnapshot replaces the archive contents with snap in one transaction.
func (a *Archive) SaveSnapshot(snap model.Snapshot) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// week_channels rows go with their week via ON DELETE CASCADE.
	if _, err := tx.Exec("DELETE FROM weeks"); err != nil {
		return fmt.Errorf("clearing weeks: %w", err)
	}

	weekStmt, err := tx.Prepare("INSERT INTO weeks (week_id, weekly_target) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing week insert: %w", err)
	}
	defer func() { _ = weekStmt.Close() }()

	chanStmt, err := tx.Prepare(`INSERT INTO week_channels
		(week_id, channel, position, target_percentage, weekly_target,
		 amount_spent, actual_sales, site_visits, calls_made)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing channel insert: %w", err)
	}
	defer func() { _ = chanStmt.Close() }()

	for _, l := range snap.Ledgers {
		if _, err := weekStmt.Exec(l.WeekID, l.WeeklyTarget); err != nil {
			return fmt.Errorf("saving week %s: %w", l.WeekID, err)
		}
		for _, r := range l.Channels {
			_, err := chanStmt.Exec(l.WeekID, r.Channel.Key(), int(r.Channel),
				r.TargetPercentage, r.WeeklyTarget, r.AmountSpent, r.ActualSales,
				r.SiteVisits, r.CallsMade)
			if err != nil {
				return fmt.Errorf("saving week %s channel %s: %w", l.WeekID, r.Channel.Key(), err)
			}
		}
	}

	meta := map[string]string{
		metaCurrentWeek: snap.Current,
		metaSavedAt:     a.now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		_, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", k, v)
		if err != nil {
			return fmt.Errorf("saving meta %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot reads the saved snapshot. ok is false when nothing has been saved.
// Channels missing from a saved week come back with the default split and no actuals.
func (a *Archive) LoadSnapshot() (snap model.Snapshot, ok bool, err error) {
	rows, err := a.db.Query("SELECT week_id, weekly_target FROM weeks ORDER BY week_id DESC")
	if err != nil {
		return snap, false, fmt.Errorf("loading weeks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	weekIdx := make(map[string]int)
	for rows.Next() {
		var id string
		var target float64
		if err := rows.Scan(&id, &target); err != nil {
			return snap, false, err
		}
		weekIdx[id] = len(snap.Ledgers)
		snap.Ledgers = append(snap.Ledgers, model.NewLedger(id, target))
	}
	if err := rows.Err(); err != nil {
		return snap, false, err
	}
	if len(snap.Ledgers) == 0 {
		return snap, false, nil
	}

	chanRows, err := a.db.Query(`SELECT
		week_id, channel, target_percentage, weekly_target,
		amount_spent, actual_sales, site_visits, calls_made
		FROM week_channels`)
	if err != nil {
		return snap, false, fmt.Errorf("loading channels: %w", err)
	}
	defer func() { _ = chanRows.Close() }()

	for chanRows.Next() {
		var weekID, key string
		var r model.ChannelRecord
		err := chanRows.Scan(&weekID, &key, &r.TargetPercentage, &r.WeeklyTarget,
			&r.AmountSpent, &r.ActualSales, &r.SiteVisits, &r.CallsMade)
		if err != nil {
			return snap, false, err
		}
		ch, err := model.ParseChannel(key)
		if err != nil {
			return snap, false, fmt.Errorf("week %s: %w", weekID, err)
		}
		idx, found := weekIdx[weekID]
		if !found {
			continue
		}
		r.Channel = ch
		snap.Ledgers[idx].Channels[ch] = r
	}
	if err := chanRows.Err(); err != nil {
		return snap, false, err
	}

	current, found, err := a.meta(metaCurrentWeek)
	if err != nil {
		return snap, false, err
	}
	if !found {
		current = snap.Ledgers[0].WeekID
	}
	snap.Current = current

	return snap, true, nil
}

// SavedAt returns when the snapshot was last saved.
func (a *Archive) SavedAt() (time.Time, bool, error) {
	v, found, err := a.meta(metaSavedAt)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing saved_at: %w", err)
	}
	return t, true, nil
}

// WeekCount returns the number of archived weeks.
func (a *Archive) WeekCount() (int, error) {
	var count int
	err := a.db.QueryRow("SELECT COUNT(*) FROM weeks").Scan(&count)
	return count, err
}

func (a *Archive) meta(key string) (string, bool, error) {
	var v string
	err := a.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading meta %s: %w", key, err)
	}
	return v, true, nil
}

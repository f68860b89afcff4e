package tui

import (
	"fmt"
	"time"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/report"
	"github.com/theirongolddev/salesboard/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// restoredMsg carries the archive contents loaded at startup.
type restoredMsg struct {
	snap    model.Snapshot
	ok      bool
	savedAt time.Time
	err     error
}

// savedMsg is sent when an archive save finishes.
type savedMsg struct {
	path  string
	weeks int
	at    time.Time
	err   error
}

// exportedMsg is sent when a CSV export finishes.
type exportedMsg struct {
	paths []string
	err   error
}

type clearStatusMsg struct{ seq int }

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// restoreCmd loads the archive at path. A missing file is not an error.
func restoreCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" || !store.Exists(path) {
			return restoredMsg{}
		}
		archive, err := store.Open(path)
		if err != nil {
			return restoredMsg{err: err}
		}
		defer func() { _ = archive.Close() }()

		snap, ok, err := archive.LoadSnapshot()
		if err != nil {
			return restoredMsg{err: fmt.Errorf("loading snapshot: %w", err)}
		}
		savedAt, _, _ := archive.SavedAt()
		return restoredMsg{snap: snap, ok: ok, savedAt: savedAt}
	}
}

// saveCmd writes snap to the archive at path.
func saveCmd(path string, snap model.Snapshot) tea.Cmd {
	return func() tea.Msg {
		archive, err := store.Open(path)
		if err != nil {
			return savedMsg{err: err}
		}
		defer func() { _ = archive.Close() }()

		if err := archive.SaveSnapshot(snap); err != nil {
			return savedMsg{err: err}
		}
		savedAt, _, _ := archive.SavedAt()
		return savedMsg{path: path, weeks: len(snap.Ledgers), at: savedAt}
	}
}

// exportCmd writes both CSV reports for view into dir.
func exportCmd(dir string, view model.MetricsView, f cli.Formatter) tea.Cmd {
	return func() tea.Msg {
		paths, err := report.ExportAll(dir, view, f)
		return exportedMsg{paths: paths, err: err}
	}
}

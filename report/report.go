// Package report renders the failure artifacts of a test run as a single HTML page.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/artifact"
	"github.com/networkteam/shopcheck/session"
)

// Entry is one failed test. Screenshot and diagnostics are paired by file name.
type Entry struct {
	Name string
	Time time.Time

	Screenshot     *artifact.Artifact
	ScreenshotData []byte

	DiagnosticsFile *artifact.Artifact
	Diagnostics     *session.Diagnostics
	// DiagnosticsJSON is the file content, also kept when it cannot be decoded.
	DiagnosticsJSON string
	// Err describes why the diagnostics could not be read.
	Err string
}

// Test returns the test name, falling back to the file name.
func (e Entry) Test() string {
	if e.Diagnostics != nil && e.Diagnostics.Test != "" {
		return e.Diagnostics.Test
	}
	return e.Name
}

type Report struct {
	Dir       string
	Generated time.Time
	Entries   []Entry
}

type Summary struct {
	Failures        int
	Screenshots     int
	ConsoleErrors   int
	FailedResponses int
}

func (r *Report) Summary() Summary {
	s := Summary{Failures: len(r.Entries)}
	for _, e := range r.Entries {
		if e.Screenshot != nil {
			s.Screenshots++
		}
		if e.Diagnostics != nil {
			s.ConsoleErrors += e.Diagnostics.ConsoleErrors
			s.FailedResponses += e.Diagnostics.FailedResponses
		}
	}
	return s
}

// Since drops entries captured before t.
func (r *Report) Since(t time.Time) {
	r.Entries = lo.Filter(r.Entries, func(e Entry, _ int) bool {
		return !e.Time.Before(t)
	})
}

// Build reads all screenshots and diagnostics of store, newest first.
func Build(store *artifact.Store) (*Report, error) {
	screenshots, err := store.Screenshots()
	if err != nil {
		return nil, err
	}
	diagnostics, err := store.Diagnostics()
	if err != nil {
		return nil, err
	}

	entries := map[string]*Entry{}
	entry := func(a artifact.Artifact) *Entry {
		e, ok := entries[a.Name]
		if !ok {
			e = &Entry{Name: a.Name, Time: a.ModTime}
			entries[a.Name] = e
		}
		return e
	}

	for _, a := range screenshots {
		data, err := store.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("reading screenshot: %w", err)
		}
		e := entry(a)
		e.Screenshot = &a
		e.ScreenshotData = data
	}
	for _, a := range diagnostics {
		data, err := store.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("reading diagnostics: %w", err)
		}
		e := entry(a)
		e.DiagnosticsFile = &a
		e.DiagnosticsJSON = string(data)

		var diag session.Diagnostics
		if err := json.Unmarshal(data, &diag); err != nil {
			e.Err = fmt.Sprintf("invalid diagnostics: %v", err)
			continue
		}
		e.Diagnostics = &diag
		if !diag.CapturedAt.IsZero() {
			e.Time = diag.CapturedAt
		}
	}

	r := &Report{
		Dir:       store.Dir(),
		Generated: time.Now(),
		Entries: lo.Map(lo.Values(entries), func(e *Entry, _ int) Entry {
			return *e
		}),
	}
	sort.Slice(r.Entries, func(i, j int) bool {
		a, b := r.Entries[i], r.Entries[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.After(b.Time)
		}
		return a.Name > b.Name
	})
	return r, nil
}

// Save renders r to report.html of store and returns its display path.
func Save(ctx context.Context, store *artifact.Store, r *Report) (string, error) {
	w, err := store.CreateReport()
	if err != nil {
		return "", err
	}
	if err := Page(r).Render(ctx, w); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("rendering report: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return store.Location(artifact.ReportFile), nil
}

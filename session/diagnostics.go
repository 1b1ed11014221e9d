package session

import (
	"time"

	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/collector"
)

// Diagnostics is stored next to the screenshot of a failed test.
type Diagnostics struct {
	Session    string    `json:"session"`
	Test       string    `json:"test"`
	Browser    string    `json:"browser"`
	Engine     string    `json:"engine"`
	URL        string    `json:"url,omitempty"`
	Title      string    `json:"title,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	CapturedAt time.Time `json:"captured_at"`
	// Screenshot is the store path of the screenshot taken along.
	Screenshot string `json:"screenshot,omitempty"`

	ConsoleErrors   int                  `json:"console_errors"`
	FailedResponses int                  `json:"failed_responses"`
	DroppedEvents   uint64               `json:"dropped_events"`
	Events          []browser.Event      `json:"events"`
	Logs            []collector.LogEntry `json:"logs"`
}

// Diagnostics snapshots the page state, buffered events and log records.
func (s *Session) Diagnostics(at time.Time) Diagnostics {
	d := Diagnostics{
		Session:         s.id.String(),
		Test:            s.name,
		Browser:         lo.CoalesceOrEmpty(s.opts.Browser.Browser, browser.Chrome),
		Engine:          lo.CoalesceOrEmpty(s.opts.Browser.Engine, browser.EnginePlaywright),
		StartedAt:       s.started,
		CapturedAt:      at,
		ConsoleErrors:   len(s.events.ConsoleErrors()),
		FailedResponses: len(s.events.FailedResponses()),
		DroppedEvents:   s.events.Dropped(),
		Events:          s.events.Events(),
		Logs:            s.logs.Entries(),
	}
	page := s.browser.Page()
	if url, err := page.URL(); err == nil {
		d.URL = url
	}
	if title, err := page.Title(); err == nil {
		d.Title = title
	}
	return d
}

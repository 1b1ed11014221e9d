package browser

import (
	"fmt"
	"time"
)

type EventKind string

const (
	EventConsole  EventKind = "console"
	EventResponse EventKind = "response"
)

// Event is a console message or a network response observed on a page.
type Event struct {
	Time time.Time `json:"time"`
	Kind EventKind `json:"kind"`

	// Console messages
	Level string `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`

	// Network responses
	Method string `json:"method,omitempty"`
	URL    string `json:"url,omitempty"`
	Status int    `json:"status,omitempty"`
}

func (e Event) String() string {
	if e.Kind == EventResponse {
		return fmt.Sprintf("%s %s -> %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("console.%s: %s", e.Level, e.Text)
}

func emit(sink func(Event), e Event) {
	if sink == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	sink(e)
}

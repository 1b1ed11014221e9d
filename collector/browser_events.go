package collector

import (
	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/browser"
)

// EventCollector buffers the console messages and network responses of a page.
// Record can be passed as browser.Options.Events.
type EventCollector struct {
	buffer *RingBuffer[browser.Event]
}

func NewEventCollector(capacity int) *EventCollector {
	return &EventCollector{
		buffer: NewRingBuffer[browser.Event](capacity),
	}
}

// Record stores e. It is called from driver goroutines.
func (c *EventCollector) Record(e browser.Event) {
	c.buffer.Add(e)
}

// Events returns all buffered events, oldest first.
func (c *EventCollector) Events() []browser.Event {
	return c.buffer.All()
}

// ConsoleErrors returns buffered console messages logged at error level.
func (c *EventCollector) ConsoleErrors() []browser.Event {
	return lo.Filter(c.buffer.All(), func(e browser.Event, _ int) bool {
		return e.Kind == browser.EventConsole && e.Level == "error"
	})
}

// FailedResponses returns buffered responses with a status of 400 or above.
func (c *EventCollector) FailedResponses() []browser.Event {
	return lo.Filter(c.buffer.All(), func(e browser.Event, _ int) bool {
		return e.Kind == browser.EventResponse && e.Status >= 400
	})
}

// Dropped returns how many events were overwritten.
func (c *EventCollector) Dropped() uint64 {
	return c.buffer.Dropped()
}

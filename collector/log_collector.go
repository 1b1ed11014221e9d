package collector

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
)

// LogEntry is the serializable form of a collected slog record.
type LogEntry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// LogCollector buffers the most recent log records of a session.
type LogCollector struct {
	buffer *RingBuffer[slog.Record]
}

func NewLogCollector(capacity int) *LogCollector {
	return &LogCollector{
		buffer: NewRingBuffer[slog.Record](capacity),
	}
}

func (c *LogCollector) Collect(record slog.Record) {
	c.buffer.Add(record)
}

// Tail returns the last n records, oldest first.
func (c *LogCollector) Tail(n int) []slog.Record {
	return c.buffer.Last(n)
}

// Entries converts all buffered records. Groups become nested maps.
func (c *LogCollector) Entries() []LogEntry {
	return lo.Map(c.buffer.All(), func(r slog.Record, _ int) LogEntry {
		e := LogEntry{
			Time:    r.Time,
			Level:   r.Level.String(),
			Message: r.Message,
		}
		if r.NumAttrs() > 0 {
			e.Attrs = map[string]any{}
			r.Attrs(func(a slog.Attr) bool {
				putAttr(e.Attrs, a)
				return true
			})
		}
		return e
	})
}

func putAttr(m map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		if err, ok := v.Any().(error); ok {
			m[a.Key] = err.Error()
			return
		}
		m[a.Key] = v.Any()
		return
	}
	group, ok := m[a.Key].(map[string]any)
	if !ok || a.Key == "" {
		group = map[string]any{}
	}
	for _, ga := range v.Group() {
		putAttr(group, ga)
	}
	if a.Key == "" {
		for k, gv := range group {
			m[k] = gv
		}
		return
	}
	m[a.Key] = group
}

type HandlerOptions struct {
	// Level is the minimum level of records to collect.
	Level slog.Leveler
}

// Handler is a slog.Handler feeding a LogCollector.
type Handler struct {
	collector *LogCollector
	options   HandlerOptions

	attrs  []slog.Attr
	groups []string
}

func NewHandler(collector *LogCollector, options HandlerOptions) *Handler {
	return &Handler{
		collector: collector,
		options:   options,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.options.Level != nil {
		threshold = h.options.Level.Level()
	}
	return level >= threshold
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	// Handler attributes go before the record attributes, so the record is rebuilt.
	rec := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	rec.AddAttrs(h.attrs...)

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})

	for i := len(h.groups) - 1; i >= 0 && len(attrs) > 0; i-- {
		attrs = []slog.Attr{slog.Group(h.groups[i], lo.ToAnySlice(attrs)...)}
	}
	rec.AddAttrs(attrs...)

	h.collector.Collect(rec)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		collector: h.collector,
		options:   h.options,
		attrs:     appendAttrsToGroup(h.groups, h.attrs, attrs...),
		groups:    h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		collector: h.collector,
		options:   h.options,
		attrs:     h.attrs,
		groups:    append(slices.Clone(h.groups), name),
	}
}

// Copied from github.com/samber/slog-mock
func appendAttrsToGroup(groups []string, actualAttrs []slog.Attr, newAttrs ...slog.Attr) []slog.Attr {
	actualAttrs = slices.Clone(actualAttrs)

	if len(groups) == 0 {
		return append(actualAttrs, newAttrs...)
	}

	for i := range actualAttrs {
		attr := actualAttrs[i]
		if attr.Key == groups[0] && attr.Value.Kind() == slog.KindGroup {
			actualAttrs[i] = slog.Group(groups[0], lo.ToAnySlice(appendAttrsToGroup(groups[1:], attr.Value.Group(), newAttrs...))...)
			return actualAttrs
		}
	}

	return append(
		actualAttrs,
		slog.Group(
			groups[0],
			lo.ToAnySlice(appendAttrsToGroup(groups[1:], []slog.Attr{}, newAttrs...))...,
		),
	)
}

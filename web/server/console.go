package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// ConsoleHandler is a slog.Handler that copies records to a render's web
// console channel and forwards them to the server log
type ConsoleHandler struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	next        slog.Handler
	attrs       []slog.Attr
}

// NewConsoleHandler creates a handler for a specific render. next may be nil.
func NewConsoleHandler(renderID string, consoleChan chan<- ConsoleMessage, next slog.Handler) *ConsoleHandler {
	return &ConsoleHandler{
		renderID:    renderID,
		consoleChan: consoleChan,
		next:        next,
	}
}

// Enabled implements slog.Handler. Everything from Info up reaches the
// console; the server log decides for itself.
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelInfo {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *ConsoleHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.next != nil && h.next.Enabled(ctx, record.Level) {
		r := record.Clone()
		r.AddAttrs(slog.String("render", h.renderID))
		if err := h.next.Handle(ctx, r); err != nil {
			return err
		}
	}

	if h.consoleChan == nil || record.Level < slog.LevelInfo {
		return nil
	}

	// Send to web console without blocking the render
	select {
	case h.consoleChan <- ConsoleMessage{
		Message:   formatRecord(record, h.attrs),
		Timestamp: record.Time,
		Level:     consoleLevel(record.Level),
	}:
	default:
		// Channel full, skip
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

// WithGroup implements slog.Handler. Groups only affect the server log.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

// formatRecord renders "message key=value ..." for the console
func formatRecord(record slog.Record, attrs []slog.Attr) string {
	var b strings.Builder
	b.WriteString(record.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Resolve())
		return true
	}
	for _, a := range attrs {
		write(a)
	}
	record.Attrs(write)
	return b.String()
}

func consoleLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

package core

import (
	"log/slog"

	"stakevest/core/events"
)

// LogEmitter writes engine events to the structured log. It is the default
// subscriber wired by the daemon; tests usually install their own collector.
type LogEmitter struct {
	log *slog.Logger
}

// NewLogEmitter builds an emitter over the provided logger, falling back to
// the process default logger when nil.
func NewLogEmitter(log *slog.Logger) *LogEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &LogEmitter{log: log}
}

// Emit implements events.Emitter.
func (l *LogEmitter) Emit(evt events.Event) {
	if l == nil || l.log == nil || evt == nil {
		return
	}
	l.log.Info("engine event", slog.String("type", evt.EventType()), slog.Any("event", evt))
}

// File: timer.go
// Title: Performance Timer
// Description: Implements a timer for measuring and logging operation
//              durations, with optional checkpoints for multi-stage
//              operations such as batch dispatches.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-18
// Modified: 2026-08-18
//
// Change History:
// - 2026-08-18 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Timer represents a performance timer for measuring operation duration
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the log level for the timer completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	if t.fields == nil {
		t.fields = make(Fields)
	}
	t.fields[key] = value
	return t
}

// StartTime returns the time the timer was started
func (t *Timer) StartTime() time.Time {
	return t.startTime
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Checkpoint logs an intermediate timing measurement
func (t *Timer) Checkpoint(name string) {
	if t.logger == nil || t.stopped {
		return
	}

	t.logger.log(t.level, t.operation+" checkpoint", nil, Fields{
		"operation":  t.operation,
		"checkpoint": name,
		"elapsed":    t.Elapsed().String(),
	})
}

// Stop stops the timer and logs the elapsed time
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}

	elapsed := t.Elapsed()
	t.stopped = true

	if t.fields == nil {
		t.fields = make(Fields)
	}
	t.fields["operation"] = t.operation
	t.fields["duration"] = elapsed.String()

	if t.logger != nil {
		t.logger.log(t.level, t.operation+" completed", nil, t.fields)
	}

	return elapsed
}

// StopWithError stops the timer and logs an error with the elapsed time
func (t *Timer) StopWithError(err error) time.Duration {
	if t.stopped {
		return 0
	}

	elapsed := t.Elapsed()
	t.stopped = true

	if t.fields == nil {
		t.fields = make(Fields)
	}
	t.fields["operation"] = t.operation
	t.fields["duration"] = elapsed.String()

	if t.logger != nil {
		t.logger.log(LevelError, t.operation+" failed", err, t.fields)
	}

	return elapsed
}

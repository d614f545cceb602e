// Package log provides structured logging capabilities for hostcmd.
//
// Package: log
// Title: hostcmd Structured Logging Framework
// Description: This package implements a structured logging system with
//              contextual fields, multiple output formats, log levels, and
//              integration with the hostcmd error handling system. It
//              includes performance timers with checkpoints used around
//              batch dispatches.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-18
// Modified: 2026-08-18
//
// Change History:
// - 2026-08-18 v0.1.0: Initial implementation
//
// Usage:
//   import hclog "github.com/msto63/hostcmd/core/log"
//
//   logger := hclog.New().
//     WithLevel(hclog.LevelInfo).
//     WithFormat(hclog.FormatJSON).
//     WithField("component", "engine")
//
//   logger.Info("batch dispatched", hclog.Fields{
//     "commands": 4,
//     "duration": elapsed,
//   })
package log

// File: doc.go
// Title: Journal Package Documentation
// Description: Package documentation for the dispatch journal.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-20
// Modified: 2026-08-20
//
// Change History:
// - 2026-08-20 v0.1.0: Initial documentation

// Package journal persists a record of every physical dispatch the
// command engine performs into a local SQLite database.
//
// The Journal type satisfies the engine's DispatchRecorder boundary, so
// wiring is a single option at engine construction:
//
//	j, err := journal.Open(journal.Options{Path: "hostcmd.db"})
//	engine, err := action.New(action.EngineOptions{
//		Executor: client,
//		Recorder: j,
//	})
//
// The engine treats recorder failures as non-fatal and only logs them;
// a broken journal never affects command execution.
package journal

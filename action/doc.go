// Package action implements the command batching and transaction engine
// for driving a descriptor-based host automation endpoint.
//
// Package: action
// Title: hostcmd Command Engine
// Description: This package provides the core coordination logic of
//              hostcmd: a reference normalizer producing the canonical
//              descriptor grammar, a batch executor with fail-fast and
//              continue-on-error aggregation policies, a transaction
//              manager that coalesces commands added over time into one
//              physical dispatch, and a property query layer built on
//              top. The host executor itself is an external boundary
//              modeled by the Executor interface; transports implement it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-19
// Modified: 2026-08-19
//
// Change History:
// - 2026-08-19 v0.1.0: Initial implementation
//
// Usage:
//   engine, err := action.New(action.EngineOptions{Executor: client})
//   id := engine.Begin(action.Options{})
//   engine.Add(id, commands, action.Options{})
//   outcome, err := engine.End(ctx, id)
package action

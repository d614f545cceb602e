// File: doc.go
// Title: WebSocket Transport Package Documentation
// Description: Package documentation for the websocket executor client.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-20
// Modified: 2026-08-20
//
// Change History:
// - 2026-08-20 v0.1.0: Initial documentation

// Package ws connects the command engine to a host automation endpoint
// over a JSON websocket protocol.
//
// Every executor call becomes one request frame carrying a fresh
// correlation id; the host answers with a response frame carrying the
// same id. Frames for different calls may interleave freely, so a
// single client serves any number of concurrent engine dispatches.
//
//	client, err := ws.Dial(ws.ClientOptions{
//		Address: "ws://127.0.0.1:9780/automation",
//	})
//	engine, err := action.New(action.EngineOptions{Executor: client})
//
// Connection loss fails all in-flight calls with a connection-closed
// error; the client does not reconnect on its own.
package ws

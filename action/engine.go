// File: engine.go
// Title: Command Engine Context
// Description: Defines the Engine, an independently constructible context
//              object owning the transaction state, the executor boundary,
//              and the optional dispatch recorder. Multiple engines can run
//              concurrently without shared state.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-19
// Modified: 2026-08-19
//
// Change History:
// - 2026-08-19 v0.1.0: Initial implementation

package action

import (
	"context"
	"sync"
	"time"

	hcerror "github.com/msto63/hostcmd/core/error"
	hclog "github.com/msto63/hostcmd/core/log"
)

// Executor is the boundary primitive provided by the host application.
// Both calls are synchronous from the caller's point of view and may
// fail outright for transport-level reasons, distinct from the
// position-aligned per-command errors of a batch.
type Executor interface {
	// ExecuteBatch performs a list of commands as one unit and returns
	// position-aligned results and per-command errors
	ExecuteBatch(ctx context.Context, commands []Command, options Options) (results []Descriptor, cmdErrs []error, err error)

	// ExecuteGet resolves a canonical reference descriptor to its value
	ExecuteGet(ctx context.Context, reference Descriptor, options Options) (Descriptor, error)
}

// DispatchRecord describes one physical dispatch for the journal
type DispatchRecord struct {
	Time        time.Time
	Kind        string // "batch" or "get"
	Commands    int
	Transaction *TxID
	Duration    time.Duration
	Err         string
}

// DispatchRecorder receives a record for every physical dispatch.
// Recorder failures never influence dispatch outcomes.
type DispatchRecorder interface {
	RecordDispatch(ctx context.Context, rec DispatchRecord) error
}

// Engine coordinates command batching, transactional grouping, and
// property queries against one host executor
type Engine struct {
	executor Executor
	logger   *hclog.Logger
	recorder DispatchRecorder

	defaultInteraction Interaction

	mutex  sync.Mutex
	nextID TxID
	active map[TxID]*txRecord
}

// EngineOptions configures engine construction
type EngineOptions struct {
	// Executor is the host boundary (required)
	Executor Executor

	// Logger for engine operations (optional, defaults to the default
	// logger)
	Logger *hclog.Logger

	// Recorder receives dispatch journal records (optional)
	Recorder DispatchRecorder

	// DefaultInteraction is applied at dispatch time when a call does
	// not set an interaction mode (default: InteractionSilent)
	DefaultInteraction Interaction
}

// New creates a new command engine
func New(opts EngineOptions) (*Engine, error) {
	if opts.Executor == nil {
		return nil, hcerror.New("Executor is required").
			WithCode(hcerror.CodeValidation).
			WithOperation("action.New")
	}

	if opts.Logger == nil {
		opts.Logger = hclog.GetDefault()
	}

	if opts.DefaultInteraction == "" {
		opts.DefaultInteraction = InteractionSilent
	}

	engine := &Engine{
		executor:           opts.Executor,
		logger:             opts.Logger.WithField("component", "hostcmd-engine"),
		recorder:           opts.Recorder,
		defaultInteraction: opts.DefaultInteraction,
		active:             make(map[TxID]*txRecord),
	}

	engine.logger.Debug("engine initialized", hclog.Fields{
		"defaultInteraction": string(opts.DefaultInteraction),
		"journaled":          opts.Recorder != nil,
	})

	return engine, nil
}

// record forwards a dispatch record to the recorder, if configured.
// Failures are logged and dropped.
func (e *Engine) record(ctx context.Context, kind string, commands int, tx *TxID, duration time.Duration, dispatchErr error) {
	if e.recorder == nil {
		return
	}

	rec := DispatchRecord{
		Time:        time.Now(),
		Kind:        kind,
		Commands:    commands,
		Transaction: tx,
		Duration:    duration,
	}
	if dispatchErr != nil {
		rec.Err = dispatchErr.Error()
	}

	if err := e.recorder.RecordDispatch(ctx, rec); err != nil {
		e.logger.WarnWithErr("dispatch journal write failed", err)
	}
}

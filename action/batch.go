// File: batch.go
// Title: Batch Executor
// Description: Implements immediate batch dispatch against the host
//              executor with the two error-aggregation policies: fail-fast
//              (default), surfacing the first failing command as an error,
//              and continue-on-error, resolving with position-aligned
//              results and per-command errors.
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

	hcerror "github.com/msto63/hostcmd/core/error"
	hclog "github.com/msto63/hostcmd/core/log"
)

// BatchPlay executes a list of commands as one physical dispatch. An
// empty list short-circuits without touching the executor. When the
// options carry a transaction id, the commands are routed into that open
// transaction instead and the outcome holds placeholder results.
func (e *Engine) BatchPlay(ctx context.Context, commands []Command, options Options) (*Outcome, error) {
	if options.Transaction != nil {
		id := *options.Transaction
		deferred := options.clone()
		deferred.Transaction = nil
		placeholders, err := e.Add(id, commands, deferred)
		if err != nil {
			return nil, err
		}
		return &Outcome{Results: placeholders}, nil
	}

	return e.dispatch(ctx, commands, options, nil)
}

// Play executes a single command and returns its result
func (e *Engine) Play(ctx context.Context, name string, descriptor Descriptor, options Options) (Descriptor, error) {
	outcome, err := e.BatchPlay(ctx, []Command{{Name: name, Descriptor: descriptor}}, options)
	if err != nil {
		return nil, err
	}
	if len(outcome.Results) == 0 {
		return nil, nil
	}
	return outcome.Results[0], nil
}

// dispatch performs the actual executor round trip for a batch. tx names
// the transaction being finalized, if any, for journaling.
func (e *Engine) dispatch(ctx context.Context, commands []Command, options Options, tx *TxID) (*Outcome, error) {
	continueOnError := options.continueOnError()

	// Empty batches never reach the executor; callers get a uniform
	// empty outcome either way
	if len(commands) == 0 {
		if continueOnError {
			return &Outcome{Results: []Descriptor{}, Errors: []error{}}, nil
		}
		return &Outcome{Results: []Descriptor{}}, nil
	}

	if options.Interaction == "" {
		options = options.clone()
		options.Interaction = e.defaultInteraction
	}

	// Canonicalize target references without mutating caller commands
	normalized := make([]Command, len(commands))
	for i, cmd := range commands {
		cmd.Descriptor = NormalizeTarget(cmd.Descriptor)
		normalized[i] = cmd
	}

	timer := e.logger.StartTimer("batch_dispatch").
		WithField("commands", len(normalized)).
		WithField("continueOnError", continueOnError)

	results, cmdErrs, err := e.executor.ExecuteBatch(ctx, normalized, options)
	e.record(ctx, "batch", len(normalized), tx, timer.Elapsed(), err)

	if err != nil {
		timer.StopWithError(err)
		return nil, hcerror.Wrap(err, "batch dispatch failed").
			WithCode(transportCode(err)).
			WithOperation("engine.BatchPlay")
	}

	if continueOnError {
		timer.Stop()
		return &Outcome{Results: results, Errors: cmdErrs}, nil
	}

	// Fail-fast: the first failing index carries the only meaningful
	// diagnostic; later entries are never inspected
	for i, cmdErr := range cmdErrs {
		if cmdErr != nil {
			failure := hcerror.Wrap(cmdErr, "command failed").
				WithCode(hcerror.CodeCommandFailed).
				WithOperation("engine.BatchPlay").
				WithDetail("index", i).
				WithDetail("command", normalized[i].Name)
			timer.StopWithError(failure)
			return nil, failure
		}
	}

	timer.Stop()
	e.logger.Debug("batch dispatched", hclog.Fields{
		"commands": len(normalized),
	})

	return &Outcome{Results: results}, nil
}

// get performs a single reference resolution round trip
func (e *Engine) get(ctx context.Context, reference Descriptor, options Options) (Descriptor, error) {
	if options.Interaction == "" {
		options = options.clone()
		options.Interaction = e.defaultInteraction
	}

	timer := e.logger.StartTimer("get_dispatch")

	result, err := e.executor.ExecuteGet(ctx, reference, options)
	e.record(ctx, "get", 1, nil, timer.Elapsed(), err)

	if err != nil {
		timer.StopWithError(err)
		return nil, hcerror.Wrap(err, "get dispatch failed").
			WithCode(transportCode(err)).
			WithOperation("engine.Get")
	}

	timer.Stop()
	return result, nil
}

// transportCode preserves a coded transport error's classification and
// defaults everything else to the transport code
func transportCode(err error) hcerror.Code {
	if code := hcerror.GetCode(err); code != hcerror.CodeUnknown {
		return code
	}
	return hcerror.CodeTransport
}

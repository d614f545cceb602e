// File: transaction.go
// Title: Transaction Manager
// Description: Implements transactional command accumulation. Commands
//              added to an open transaction are queued rather than
//              dispatched; finalizing merges the accumulated options with
//              the options declared at Begin (which always win) and
//              performs exactly one batch dispatch of the whole command
//              sequence. Transaction ids are monotonically increasing and
//              never reused.
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

// txRecord is the accumulation buffer for one open transaction. Owned
// exclusively by the engine; callers only ever see the id.
type txRecord struct {
	id          TxID
	txOptions   Options
	declared    map[string]bool
	accumulated Options
	commands    []Command
}

// Begin opens a new transaction and returns its id. Options declared
// here are exempt from conflict checking in Add and authoritative at
// End. Begin never blocks and never fails.
func (e *Engine) Begin(txOptions Options) TxID {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	id := e.nextID
	e.nextID++

	e.active[id] = &txRecord{
		id:        id,
		txOptions: txOptions.clone(),
		declared:  declaredKeys(txOptions),
	}

	e.logger.Debug("transaction opened", hclog.Fields{
		"transaction": int64(id),
	})

	return id
}

// Add queues commands into an open transaction. The per-call options are
// merged into the accumulated options; a conflict on a key not declared
// at Begin rejects the call atomically, leaving the transaction open and
// the commands unappended. The returned slice holds one placeholder per
// command, since nothing has executed yet.
func (e *Engine) Add(id TxID, commands []Command, options Options) ([]Descriptor, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	rec, ok := e.active[id]
	if !ok {
		return nil, invalidTransaction(id, "engine.Add")
	}

	if err := mergeOptions(&rec.accumulated, options, rec.declared); err != nil {
		return nil, hcerror.Wrap(err, "add rejected").
			WithOperation("engine.Add").
			WithDetail("transaction", int64(id))
	}

	rec.commands = append(rec.commands, commands...)

	e.logger.Trace("commands queued", hclog.Fields{
		"transaction": int64(id),
		"added":       len(commands),
		"queued":      len(rec.commands),
	})

	return make([]Descriptor, len(commands)), nil
}

// End finalizes a transaction: the accumulated commands are dispatched
// through the batch executor exactly once, with the Begin-time options
// overriding anything accumulated from Add calls. The id is consumed
// whether or not the dispatch succeeds; ending it again fails with
// InvalidTransaction.
func (e *Engine) End(ctx context.Context, id TxID) (*Outcome, error) {
	e.mutex.Lock()
	rec, ok := e.active[id]
	if !ok {
		e.mutex.Unlock()
		return nil, invalidTransaction(id, "engine.End")
	}
	delete(e.active, id)
	e.mutex.Unlock()

	final := rec.accumulated.clone()
	applyOverride(&final, rec.txOptions)
	// End dispatches directly; a transaction key left in the options
	// must not re-route the batch
	final.Transaction = nil

	e.logger.Debug("transaction finalized", hclog.Fields{
		"transaction": int64(id),
		"commands":    len(rec.commands),
	})

	return e.dispatch(ctx, rec.commands, final, &rec.id)
}

// ActiveTransactions returns the number of currently open transactions
func (e *Engine) ActiveTransactions() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.active)
}

// invalidTransaction builds the error for an unknown or already-closed
// transaction id
func invalidTransaction(id TxID, operation string) error {
	return hcerror.Newf("unknown or closed transaction: %d", id).
		WithCode(hcerror.CodeInvalidTransaction).
		WithOperation(operation).
		WithDetail("transaction", int64(id))
}

// File: transaction_test.go
// Title: Transaction Manager Tests
// Description: Unit tests for the begin/add/end lifecycle, option conflict
//              rejection, id consumption, and the single-dispatch guarantee.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-19
// Modified: 2026-08-19
//
// Change History:
// - 2026-08-19 v0.1.0: Initial tests

package action

import (
	"context"
	"errors"
	"testing"

	hcerror "github.com/msto63/hostcmd/core/error"
)

func TestTransactionLifecycle(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()

	id := engine.Begin(Options{})

	placeholders, err := engine.Add(id, []Command{
		{Name: "make", Descriptor: Descriptor{"_obj": "layer"}},
		{Name: "set", Descriptor: Descriptor{"_obj": "layer"}},
	}, Options{})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(placeholders) != 2 {
		t.Fatalf("placeholders = %d, want 2", len(placeholders))
	}
	for i, p := range placeholders {
		if p != nil {
			t.Errorf("placeholder %d = %v, want nil (nothing executed yet)", i, p)
		}
	}

	if batch, _ := exec.calls(); batch != 0 {
		t.Fatalf("Add must not dispatch, executor saw %d batch calls", batch)
	}

	if _, err := engine.Add(id, []Command{{Name: "delete"}}, Options{}); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	outcome, err := engine.End(ctx, id)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if len(outcome.Results) != 3 {
		t.Errorf("results = %d, want 3", len(outcome.Results))
	}

	// All accumulated commands go out in one physical dispatch
	if batch, _ := exec.calls(); batch != 1 {
		t.Errorf("executor saw %d batch calls, want 1", batch)
	}
	if len(exec.lastCommands) != 3 {
		t.Errorf("dispatched %d commands, want 3", len(exec.lastCommands))
	}
	if exec.lastCommands[0].Name != "make" || exec.lastCommands[2].Name != "delete" {
		t.Errorf("command order not preserved: %v", exec.lastCommands)
	}
}

func TestAddAfterEndFails(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	id := engine.Begin(Options{})
	if _, err := engine.End(ctx, id); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	_, err := engine.Add(id, []Command{{Name: "set"}}, Options{})
	if !hcerror.HasCode(err, hcerror.CodeInvalidTransaction) {
		t.Errorf("Add after End: code = %v, want INVALID_TRANSACTION", hcerror.GetCode(err))
	}
}

func TestDoubleEndFails(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()

	id := engine.Begin(Options{})
	if _, err := engine.End(ctx, id); err != nil {
		t.Fatalf("first End failed: %v", err)
	}

	_, err := engine.End(ctx, id)
	if !hcerror.HasCode(err, hcerror.CodeInvalidTransaction) {
		t.Errorf("second End: code = %v, want INVALID_TRANSACTION", hcerror.GetCode(err))
	}

	// Empty transaction short-circuits, failed End dispatches nothing
	if batch, _ := exec.calls(); batch != 0 {
		t.Errorf("executor saw %d batch calls, want 0", batch)
	}
}

func TestEndConsumesIDOnDispatchFailure(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()
	exec.batchErr = errors.New("connection reset")

	id := engine.Begin(Options{})
	if _, err := engine.Add(id, []Command{{Name: "set"}}, Options{}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := engine.End(ctx, id); err == nil {
		t.Fatal("End should surface the dispatch failure")
	}

	// The id is gone even though the dispatch failed
	if _, err := engine.End(ctx, id); !hcerror.HasCode(err, hcerror.CodeInvalidTransaction) {
		t.Errorf("retry End: code = %v, want INVALID_TRANSACTION", hcerror.GetCode(err))
	}
	if engine.ActiveTransactions() != 0 {
		t.Errorf("active = %d, want 0", engine.ActiveTransactions())
	}
}

func TestIDsNeverReused(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first := engine.Begin(Options{})
	if _, err := engine.End(ctx, first); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	second := engine.Begin(Options{})
	if second == first {
		t.Errorf("id %d reused after End", first)
	}
	if second != first+1 {
		t.Errorf("second id = %d, want %d", second, first+1)
	}
}

func TestConflictLeavesTransactionUsable(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()

	id := engine.Begin(Options{})

	if _, err := engine.Add(id, []Command{{Name: "make"}}, Options{
		Extra: map[string]interface{}{"historyStateInfo": "h1"},
	}); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}

	// Conflicting value on an undeclared key: atomic rejection
	_, err := engine.Add(id, []Command{{Name: "set"}, {Name: "delete"}}, Options{
		Extra: map[string]interface{}{"historyStateInfo": "h2"},
	})
	if !hcerror.HasCode(err, hcerror.CodeIncompatibleOptions) {
		t.Fatalf("code = %v, want INCOMPATIBLE_OPTIONS", hcerror.GetCode(err))
	}

	// The transaction stays open and the rejected commands were not
	// appended
	if _, err := engine.Add(id, []Command{{Name: "select"}}, Options{}); err != nil {
		t.Fatalf("Add after rejection failed: %v", err)
	}

	outcome, err := engine.End(ctx, id)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Errorf("results = %d, want 2 (make, select)", len(outcome.Results))
	}
	if len(exec.lastCommands) != 2 {
		t.Fatalf("dispatched %d commands, want 2", len(exec.lastCommands))
	}
	if exec.lastCommands[0].Name != "make" || exec.lastCommands[1].Name != "select" {
		t.Errorf("dispatched %v", exec.lastCommands)
	}
	if exec.lastOptions.Extra["historyStateInfo"] != "h1" {
		t.Errorf("surviving option = %v, want h1", exec.lastOptions.Extra["historyStateInfo"])
	}
}

func TestBeginOptionsOverrideAccumulated(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()

	id := engine.Begin(Options{
		Extra: map[string]interface{}{"historyStateInfo": "declared"},
	})

	// Declared keys are exempt from conflict checking; differing values
	// from Add are tolerated and overridden at End
	if _, err := engine.Add(id, []Command{{Name: "make"}}, Options{
		Extra: map[string]interface{}{"historyStateInfo": "accumulated"},
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := engine.End(ctx, id); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if exec.lastOptions.Extra["historyStateInfo"] != "declared" {
		t.Errorf("dispatched option = %v, want declared", exec.lastOptions.Extra["historyStateInfo"])
	}
}

func TestEmptyTransactionSkipsExecutor(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()

	id := engine.Begin(Options{})
	outcome, err := engine.End(ctx, id)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if len(outcome.Results) != 0 {
		t.Errorf("results = %d, want 0", len(outcome.Results))
	}
	if batch, _ := exec.calls(); batch != 0 {
		t.Errorf("executor saw %d batch calls, want 0", batch)
	}
}

func TestTransactionKeyNotWired(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()

	// A transaction id declared at Begin must not leak to the host or
	// re-route the final dispatch
	inner := engine.Begin(Options{})
	outer := engine.Begin(Options{Transaction: Tx(inner)})

	if _, err := engine.Add(outer, []Command{{Name: "set"}}, Options{}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := engine.End(ctx, outer); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if batch, _ := exec.calls(); batch != 1 {
		t.Fatalf("executor saw %d batch calls, want 1", batch)
	}
	if engine.ActiveTransactions() != 1 {
		t.Errorf("active = %d, want 1 (inner untouched)", engine.ActiveTransactions())
	}
	if _, has := exec.lastOptions.Wire()["transaction"]; has {
		t.Error("transaction key leaked to the host")
	}
}

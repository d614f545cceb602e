// File: batch_test.go
// Title: Batch Executor Tests
// Description: Unit tests for immediate batch dispatch covering the
//              fail-fast and continue-on-error policies, empty-batch
//              short-circuiting, interaction defaults, transaction routing,
//              and transport error classification.
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

func TestBatchPlaySuccess(t *testing.T) {
	engine, exec := newTestEngine(t)
	exec.batchResults = []Descriptor{
		{"layerID": 4},
		{"layerID": 5},
	}

	outcome, err := engine.BatchPlay(context.Background(), []Command{
		{Name: "make", Descriptor: Descriptor{"_obj": "layer"}},
		{Name: "duplicate", Descriptor: Descriptor{"_obj": "layer"}},
	}, Options{})
	if err != nil {
		t.Fatalf("BatchPlay failed: %v", err)
	}

	if len(outcome.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(outcome.Results))
	}
	if outcome.Results[0]["layerID"] != 4 {
		t.Errorf("result[0] = %v", outcome.Results[0])
	}
	if outcome.HasErrors() {
		t.Error("successful fail-fast outcome must report no errors")
	}
}

func TestBatchPlayEmptySkipsExecutor(t *testing.T) {
	engine, exec := newTestEngine(t)

	tests := []struct {
		name       string
		options    Options
		wantErrors bool
	}{
		{name: "fail-fast", options: Options{}, wantErrors: false},
		{name: "continue-on-error", options: Options{ContinueOnError: Bool(true)}, wantErrors: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := engine.BatchPlay(context.Background(), nil, tt.options)
			if err != nil {
				t.Fatalf("BatchPlay failed: %v", err)
			}
			if len(outcome.Results) != 0 {
				t.Errorf("results = %d, want 0", len(outcome.Results))
			}
			if tt.wantErrors && outcome.Errors == nil {
				t.Error("continue-on-error outcome should carry an empty error slice")
			}
		})
	}

	if batch, _ := exec.calls(); batch != 0 {
		t.Errorf("executor saw %d batch calls, want 0", batch)
	}
}

func TestBatchPlayFailFast(t *testing.T) {
	engine, exec := newTestEngine(t)
	exec.batchResults = []Descriptor{{"ok": true}, nil, nil}
	exec.batchErrs = []error{nil, errors.New("no such layer"), errors.New("later failure")}

	_, err := engine.BatchPlay(context.Background(), []Command{
		{Name: "select"},
		{Name: "delete"},
		{Name: "make"},
	}, Options{})
	if err == nil {
		t.Fatal("expected the first command failure to surface")
	}

	if !hcerror.HasCode(err, hcerror.CodeCommandFailed) {
		t.Errorf("code = %v, want COMMAND_FAILED", hcerror.GetCode(err))
	}

	var hcErr *hcerror.Error
	if !asError(err, &hcErr) {
		t.Fatal("expected *hcerror.Error")
	}
	if hcErr.Detail("index") != 1 {
		t.Errorf("index detail = %v, want 1", hcErr.Detail("index"))
	}
	if hcErr.Detail("command") != "delete" {
		t.Errorf("command detail = %v, want delete", hcErr.Detail("command"))
	}
}

func TestBatchPlayContinueOnError(t *testing.T) {
	engine, exec := newTestEngine(t)
	cmdErr := errors.New("no such layer")
	exec.batchResults = []Descriptor{{"ok": true}, nil, {"ok": true}}
	exec.batchErrs = []error{nil, cmdErr, nil}

	outcome, err := engine.BatchPlay(context.Background(), []Command{
		{Name: "select"},
		{Name: "delete"},
		{Name: "make"},
	}, Options{ContinueOnError: Bool(true)})
	if err != nil {
		t.Fatalf("continue-on-error must resolve: %v", err)
	}

	if len(outcome.Results) != 3 || len(outcome.Errors) != 3 {
		t.Fatalf("results/errors = %d/%d, want 3/3", len(outcome.Results), len(outcome.Errors))
	}
	if outcome.Errors[0] != nil || outcome.Errors[2] != nil {
		t.Error("successful positions must hold nil errors")
	}
	if outcome.Errors[1] == nil {
		t.Error("failed position must hold its error")
	}
	if !outcome.HasErrors() {
		t.Error("HasErrors should report the partial failure")
	}
	if index, first := outcome.FirstError(); index != 1 || first != cmdErr {
		t.Errorf("FirstError = (%d, %v), want (1, %v)", index, first, cmdErr)
	}
}

func TestBatchPlayDefaultsInteraction(t *testing.T) {
	engine, exec := newTestEngine(t)

	if _, err := engine.BatchPlay(context.Background(), []Command{{Name: "set"}}, Options{}); err != nil {
		t.Fatalf("BatchPlay failed: %v", err)
	}
	if exec.lastOptions.Interaction != InteractionSilent {
		t.Errorf("Interaction = %q, want silent default", exec.lastOptions.Interaction)
	}

	if _, err := engine.BatchPlay(context.Background(), []Command{{Name: "set"}}, Options{
		Interaction: InteractionDisplay,
	}); err != nil {
		t.Fatalf("BatchPlay failed: %v", err)
	}
	if exec.lastOptions.Interaction != InteractionDisplay {
		t.Errorf("Interaction = %q, explicit value must pass through", exec.lastOptions.Interaction)
	}
}

func TestBatchPlayNormalizesTargets(t *testing.T) {
	engine, exec := newTestEngine(t)

	descriptor := Descriptor{
		"_target": Class("document"),
		"value":   1,
	}

	if _, err := engine.BatchPlay(context.Background(), []Command{
		{Name: "set", Descriptor: descriptor},
	}, Options{}); err != nil {
		t.Fatalf("BatchPlay failed: %v", err)
	}

	sent := exec.lastCommands[0].Descriptor
	canonical, ok := sent["_target"].(Descriptor)
	if !ok {
		t.Fatalf("_target = %v, want canonical descriptor", sent["_target"])
	}
	if canonical["_ref"] != "document" {
		t.Errorf("canonical target = %v", canonical)
	}

	// The caller's descriptor is never mutated
	if _, isRef := descriptor["_target"].(Reference); !isRef {
		t.Error("caller descriptor was mutated")
	}
}

func TestBatchPlayRoutesIntoTransaction(t *testing.T) {
	engine, exec := newTestEngine(t)
	ctx := context.Background()

	id := engine.Begin(Options{})

	outcome, err := engine.BatchPlay(ctx, []Command{{Name: "make"}, {Name: "set"}}, Options{
		Transaction: Tx(id),
		Extra:       map[string]interface{}{"historyStateInfo": "h"},
	})
	if err != nil {
		t.Fatalf("routed BatchPlay failed: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Errorf("placeholders = %d, want 2", len(outcome.Results))
	}
	if batch, _ := exec.calls(); batch != 0 {
		t.Fatalf("routed commands must not dispatch, executor saw %d calls", batch)
	}

	if _, err := engine.End(ctx, id); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if len(exec.lastCommands) != 2 {
		t.Errorf("dispatched %d commands, want 2", len(exec.lastCommands))
	}
	if exec.lastOptions.Extra["historyStateInfo"] != "h" {
		t.Error("routed options must accumulate into the transaction")
	}
}

func TestBatchPlayRouteToUnknownTransaction(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.BatchPlay(context.Background(), []Command{{Name: "set"}}, Options{
		Transaction: Tx(99),
	})
	if !hcerror.HasCode(err, hcerror.CodeInvalidTransaction) {
		t.Errorf("code = %v, want INVALID_TRANSACTION", hcerror.GetCode(err))
	}
}

func TestBatchPlayTransportError(t *testing.T) {
	engine, exec := newTestEngine(t)
	exec.batchErr = errors.New("connection reset by peer")

	_, err := engine.BatchPlay(context.Background(), []Command{{Name: "set"}}, Options{})
	if !hcerror.HasCode(err, hcerror.CodeTransport) {
		t.Errorf("code = %v, want TRANSPORT", hcerror.GetCode(err))
	}
}

func TestBatchPlayPreservesTransportCode(t *testing.T) {
	engine, exec := newTestEngine(t)
	exec.batchErr = hcerror.New("socket closed").WithCode(hcerror.CodeConnectionClosed)

	_, err := engine.BatchPlay(context.Background(), []Command{{Name: "set"}}, Options{})
	if !hcerror.HasCode(err, hcerror.CodeConnectionClosed) {
		t.Errorf("code = %v, want CONNECTION_CLOSED preserved", hcerror.GetCode(err))
	}
}

func TestPlaySingleCommand(t *testing.T) {
	engine, exec := newTestEngine(t)
	exec.batchResults = []Descriptor{{"documentID": 12}}

	result, err := engine.Play(context.Background(), "open", Descriptor{"path": "/tmp/a.psd"}, Options{})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if result["documentID"] != 12 {
		t.Errorf("result = %v", result)
	}
	if len(exec.lastCommands) != 1 || exec.lastCommands[0].Name != "open" {
		t.Errorf("dispatched %v", exec.lastCommands)
	}
}

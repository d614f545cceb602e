// File: journal_test.go
// Title: Dispatch Journal Tests
// Description: Unit tests for journal persistence using an in-memory
//              SQLite database.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-20
// Modified: 2026-08-20
//
// Change History:
// - 2026-08-20 v0.1.0: Initial tests

package journal

import (
	"context"
	"testing"
	"time"

	"github.com/msto63/hostcmd/action"
	hcerror "github.com/msto63/hostcmd/core/error"
	hclog "github.com/msto63/hostcmd/core/log"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(Options{
		Path:   ":memory:",
		Logger: hclog.New().WithLevel(hclog.LevelFatal),
	})
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Options{})
	if err == nil {
		t.Fatal("Open without path should fail")
	}
	if !hcerror.HasCode(err, hcerror.CodeValidation) {
		t.Errorf("code = %v, want VALIDATION", hcerror.GetCode(err))
	}
}

func TestRecordAndReadBack(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	tx := action.TxID(3)
	records := []action.DispatchRecord{
		{Time: time.Now(), Kind: "batch", Commands: 4, Duration: 12 * time.Millisecond},
		{Time: time.Now(), Kind: "get", Commands: 1, Duration: 3 * time.Millisecond},
		{Time: time.Now(), Kind: "batch", Commands: 2, Transaction: &tx, Duration: 8 * time.Millisecond, Err: "connection reset"},
	}
	for _, rec := range records {
		if err := j.RecordDispatch(ctx, rec); err != nil {
			t.Fatalf("RecordDispatch failed: %v", err)
		}
	}

	entries, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	// Newest first
	newest := entries[0]
	if newest.Kind != "batch" || newest.Commands != 2 {
		t.Errorf("newest = %+v", newest)
	}
	if newest.Transaction == nil || *newest.Transaction != 3 {
		t.Errorf("transaction = %v, want 3", newest.Transaction)
	}
	if newest.Err != "connection reset" {
		t.Errorf("error = %q", newest.Err)
	}
	if newest.Duration != 8*time.Millisecond {
		t.Errorf("duration = %v, want 8ms", newest.Duration)
	}

	if entries[2].Transaction != nil {
		t.Errorf("immediate dispatch must have no transaction, got %v", entries[2].Transaction)
	}
}

func TestRecentLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := j.RecordDispatch(ctx, action.DispatchRecord{
			Time: time.Now(), Kind: "get", Commands: 1,
		}); err != nil {
			t.Fatalf("RecordDispatch failed: %v", err)
		}
	}

	entries, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
}

func TestRecentDefaultLimit(t *testing.T) {
	j := newTestJournal(t)

	entries, err := j.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0 on empty journal", len(entries))
	}
}

func TestJournalAsEngineRecorder(t *testing.T) {
	// The journal must satisfy the recorder boundary
	var _ action.DispatchRecorder = (*Journal)(nil)
}

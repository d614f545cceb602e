// File: error_test.go
// Title: Core Error Tests
// Description: Unit tests for the structured Error type covering creation,
//              wrapping, code propagation, details, and chain traversal.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-18
// Modified: 2026-08-18
//
// Change History:
// - 2026-08-18 v0.1.0: Initial tests

package error

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}

	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}

	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}

	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}

	if len(err.StackTrace()) == 0 {
		t.Error("StackTrace() should not be empty")
	}
}

func TestNewf(t *testing.T) {
	err := Newf("command %d failed", 3)

	if err.Error() != "command 3 failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "command 3 failed")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			message:  "wrapper message",
			wantMsg:  "wrapper message: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap hostcmd error preserves code",
			err:      New("dispatch failed").WithCode(CodeCommandFailed),
			message:  "wrapper message",
			wantMsg:  "wrapper message: dispatch failed",
			wantCode: CodeCommandFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.message)

			if tt.wantNil {
				if wrapped != nil {
					t.Errorf("Wrap() = %v, want nil", wrapped)
				}
				return
			}

			if wrapped == nil {
				t.Fatal("Wrap() returned nil for non-nil error")
			}

			if wrapped.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", wrapped.Error(), tt.wantMsg)
			}

			if wrapped.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", wrapped.Code(), tt.wantCode)
			}
		})
	}
}

func TestWrapPreservesDetails(t *testing.T) {
	inner := New("conflict").
		WithCode(CodeIncompatibleOptions).
		WithDetail("key", "continueOnError")

	wrapped := Wrap(inner, "add rejected")

	if wrapped.Detail("key") != "continueOnError" {
		t.Errorf("Detail(key) = %v, want %q", wrapped.Detail("key"), "continueOnError")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(cause, "context")

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var hcErr *Error
	if !errors.As(wrapped, &hcErr) {
		t.Error("errors.As should extract *Error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New("test").WithDetails(map[string]interface{}{
		"index":    2,
		"property": "bounds",
	})

	details := err.Details()
	if details["index"] != 2 {
		t.Errorf("details[index] = %v, want 2", details["index"])
	}
	if details["property"] != "bounds" {
		t.Errorf("details[property] = %v, want bounds", details["property"])
	}

	// Returned map is a copy
	details["index"] = 99
	if err.Detail("index") != 2 {
		t.Error("Details() should return a copy")
	}
}

func TestRootCause(t *testing.T) {
	root := errors.New("root")
	middle := Wrap(root, "middle")
	outer := Wrap(middle, "outer")

	if outer.RootCause() != root {
		t.Errorf("RootCause() = %v, want %v", outer.RootCause(), root)
	}
}

func TestString(t *testing.T) {
	err := New("something broke").
		WithCode(CodeTransport).
		WithOperation("ws.ExecuteBatch")

	s := err.String()
	for _, want := range []string{"something broke", "TRANSPORT", "ws.ExecuteBatch"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("json error").
		WithCode(CodeMissingProperty).
		WithDetail("property", "name")

	data, jsonErr := json.Marshal(err)
	if jsonErr != nil {
		t.Fatalf("Marshal failed: %v", jsonErr)
	}

	var decoded map[string]interface{}
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatalf("Unmarshal failed: %v", jsonErr)
	}

	if decoded["message"] != "json error" {
		t.Errorf("message = %v, want %q", decoded["message"], "json error")
	}
	if decoded["code"] != "MISSING_PROPERTY" {
		t.Errorf("code = %v, want MISSING_PROPERTY", decoded["code"])
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	err := New("tx gone").WithCode(CodeInvalidTransaction)

	if !HasCode(err, CodeInvalidTransaction) {
		t.Error("HasCode should match CodeInvalidTransaction")
	}
	if HasCode(err, CodeTransport) {
		t.Error("HasCode should not match CodeTransport")
	}
	if GetCode(err) != CodeInvalidTransaction {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), CodeInvalidTransaction)
	}

	plain := errors.New("plain")
	if HasCode(plain, CodeInvalidTransaction) {
		t.Error("HasCode should be false for standard errors")
	}
	if GetCode(plain) != CodeUnknown {
		t.Errorf("GetCode(plain) = %v, want %v", GetCode(plain), CodeUnknown)
	}
}

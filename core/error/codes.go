// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error
//              classification across hostcmd. The codes cover the engine's
//              failure taxonomy (transactions, batch dispatch, property
//              queries) plus infrastructure concerns (transport, config).
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-18
// Modified: 2026-08-18
//
// Change History:
// - 2026-08-18 v0.1.0: Initial implementation with engine error codes

package error

// Code represents a structured error code for categorizing errors
type Code string

// Error codes for the hostcmd library
const (
	// Generic codes
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL"

	// Engine codes
	CodeInvalidTransaction  Code = "INVALID_TRANSACTION"
	CodeIncompatibleOptions Code = "INCOMPATIBLE_OPTIONS"
	CodeCommandFailed       Code = "COMMAND_FAILED"
	CodeMissingProperty     Code = "MISSING_PROPERTY"

	// Transport codes
	CodeTransport        Code = "TRANSPORT"
	CodeConnectionClosed Code = "CONNECTION_CLOSED"

	// Configuration and validation
	CodeConfig     Code = "CONFIG"
	CodeValidation Code = "VALIDATION"

	// Journal codes
	CodeJournal Code = "JOURNAL"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal,
		CodeInvalidTransaction, CodeIncompatibleOptions, CodeCommandFailed, CodeMissingProperty,
		CodeTransport, CodeConnectionClosed,
		CodeConfig, CodeValidation,
		CodeJournal:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeInvalidTransaction, CodeIncompatibleOptions, CodeCommandFailed, CodeMissingProperty:
		return "engine"
	case CodeTransport, CodeConnectionClosed:
		return "transport"
	case CodeConfig, CodeValidation:
		return "configuration"
	case CodeJournal:
		return "journal"
	default:
		return "generic"
	}
}

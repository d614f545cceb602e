// File: command.go
// Title: Command and Outcome Types
// Description: Defines the opaque command record dispatched to the host
//              executor and the batch outcome shape returned by dispatches.
//              The engine never interprets command names or descriptor
//              contents; it only routes and groups them.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-19
// Modified: 2026-08-19
//
// Change History:
// - 2026-08-19 v0.1.0: Initial implementation

package action

// Descriptor is the structured payload form understood by the host
// executor. Keys and values are opaque to the engine except for the
// canonical reference grammar handled by the normalizer.
type Descriptor = map[string]interface{}

// Command is an opaque named operation destined for the host executor.
// Commands are immutable once constructed; the engine only ever replaces
// the descriptor with a canonicalized copy before dispatch.
type Command struct {
	// Name identifies the operation to the host
	Name string `json:"name"`

	// Descriptor carries the operation payload, possibly including a
	// target reference under the conventional wrapper key
	Descriptor Descriptor `json:"descriptor,omitempty"`

	// Options carries per-command host options, passed through verbatim
	Options Descriptor `json:"options,omitempty"`
}

// Outcome is the result of one batch dispatch. In continue-on-error
// mode Results and Errors are position-aligned with the submitted
// commands; in fail-fast mode Errors is nil and Results alone is
// returned (a failing command surfaces as an error instead).
type Outcome struct {
	Results []Descriptor
	Errors  []error
}

// HasErrors reports whether any per-command error was recorded
func (o *Outcome) HasErrors() bool {
	for _, err := range o.Errors {
		if err != nil {
			return true
		}
	}
	return false
}

// FirstError returns the lowest-index per-command error and its
// position, or (-1, nil) when every command succeeded
func (o *Outcome) FirstError() (int, error) {
	for i, err := range o.Errors {
		if err != nil {
			return i, err
		}
	}
	return -1, nil
}

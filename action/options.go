// File: options.go
// Title: Execution Options and Merge Rules
// Description: Defines the structured execution options applied to batch
//              dispatches and the key-by-key merge rules used when commands
//              accumulate into a transaction. Known option fields compare
//              directly; only the free-form extension map needs deep
//              equality for conflict detection.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-19
// Modified: 2026-08-19
//
// Change History:
// - 2026-08-19 v0.1.0: Initial implementation with conflict detection

package action

import (
	"reflect"

	hcerror "github.com/msto63/hostcmd/core/error"
)

// Interaction controls whether the host may present dialogs during
// command execution
type Interaction string

const (
	// InteractionSilent suppresses all host dialogs (the dispatch default)
	InteractionSilent Interaction = "silent"

	// InteractionDisplay lets the host present dialogs
	InteractionDisplay Interaction = "display"

	// InteractionDontDisplay suppresses dialogs but records dialog state
	InteractionDontDisplay Interaction = "dontDisplay"
)

// TxID identifies an open transaction. Values are unique for the
// lifetime of an Engine and are never reused.
type TxID int64

// Wire-level option key names, also used to name conflicting keys in
// IncompatibleOptions errors
const (
	optInteraction     = "interactionMode"
	optContinueOnError = "continueOnError"
	optTransaction     = "transaction"
)

// Options are the execution options applied to a dispatch. Known keys
// are structured fields; anything else travels in the free-form Extra
// map and is passed to the host verbatim.
type Options struct {
	// Interaction is the dialog interaction mode; empty means unset
	// (defaults to InteractionSilent at dispatch time)
	Interaction Interaction

	// ContinueOnError selects the error-aggregation policy; nil means
	// unset (fail-fast)
	ContinueOnError *bool

	// Transaction routes the commands into an open transaction instead
	// of dispatching them immediately; nil means immediate dispatch
	Transaction *TxID

	// Extra carries free-form host options such as history-state
	// grouping descriptors
	Extra map[string]interface{}
}

// Bool returns a pointer to the given bool for use in Options
func Bool(v bool) *bool {
	return &v
}

// Tx returns a pointer to the given transaction id for use in Options
func Tx(id TxID) *TxID {
	return &id
}

// continueOnError reports the effective error-aggregation policy
func (o Options) continueOnError() bool {
	return o.ContinueOnError != nil && *o.ContinueOnError
}

// clone returns a copy of the options with an independent Extra map
func (o Options) clone() Options {
	out := o
	if o.Extra != nil {
		out.Extra = make(map[string]interface{}, len(o.Extra))
		for k, v := range o.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Wire flattens the options into the map form sent to the host. The
// transaction key is routing state consumed by the engine and is never
// sent.
func (o Options) Wire() map[string]interface{} {
	out := make(map[string]interface{}, len(o.Extra)+2)
	for k, v := range o.Extra {
		out[k] = v
	}
	if o.Interaction != "" {
		out[optInteraction] = string(o.Interaction)
	}
	if o.ContinueOnError != nil {
		out[optContinueOnError] = *o.ContinueOnError
	}
	return out
}

// declaredKeys returns the set of option keys present in the given
// options. Keys declared at Begin are exempt from conflict checking and
// authoritative at End.
func declaredKeys(o Options) map[string]bool {
	keys := make(map[string]bool, len(o.Extra)+3)
	if o.Interaction != "" {
		keys[optInteraction] = true
	}
	if o.ContinueOnError != nil {
		keys[optContinueOnError] = true
	}
	if o.Transaction != nil {
		keys[optTransaction] = true
	}
	for k := range o.Extra {
		keys[k] = true
	}
	return keys
}

// incompatible builds the conflict error for an option key two call
// sites disagree on
func incompatible(key string) error {
	return hcerror.Newf("conflicting values for option %q within one transaction", key).
		WithCode(hcerror.CodeIncompatibleOptions).
		WithDetail("key", key)
}

// mergeOptions merges src into dst key by key. Absent keys adopt the
// incoming value; present keys keep the existing value (first writer
// wins). Differing values on a key not declared at Begin fail with
// IncompatibleOptions; dst is only mutated on success.
func mergeOptions(dst *Options, src Options, declared map[string]bool) error {
	merged := dst.clone()

	if src.Interaction != "" {
		switch {
		case merged.Interaction == "":
			merged.Interaction = src.Interaction
		case merged.Interaction != src.Interaction && !declared[optInteraction]:
			return incompatible(optInteraction)
		}
	}

	if src.ContinueOnError != nil {
		switch {
		case merged.ContinueOnError == nil:
			merged.ContinueOnError = src.ContinueOnError
		case *merged.ContinueOnError != *src.ContinueOnError && !declared[optContinueOnError]:
			return incompatible(optContinueOnError)
		}
	}

	if src.Transaction != nil {
		switch {
		case merged.Transaction == nil:
			merged.Transaction = src.Transaction
		case *merged.Transaction != *src.Transaction && !declared[optTransaction]:
			return incompatible(optTransaction)
		}
	}

	for k, v := range src.Extra {
		existing, present := merged.Extra[k]
		switch {
		case !present:
			if merged.Extra == nil {
				merged.Extra = make(map[string]interface{})
			}
			merged.Extra[k] = v
		case !reflect.DeepEqual(existing, v) && !declared[k]:
			return incompatible(k)
		}
	}

	*dst = merged
	return nil
}

// applyOverride sets every key present in src over dst. Used at End,
// where the options declared at Begin are authoritative over anything
// accumulated from Add calls.
func applyOverride(dst *Options, src Options) {
	if src.Interaction != "" {
		dst.Interaction = src.Interaction
	}
	if src.ContinueOnError != nil {
		dst.ContinueOnError = src.ContinueOnError
	}
	if src.Transaction != nil {
		dst.Transaction = src.Transaction
	}
	for k, v := range src.Extra {
		if dst.Extra == nil {
			dst.Extra = make(map[string]interface{})
		}
		dst.Extra[k] = v
	}
}

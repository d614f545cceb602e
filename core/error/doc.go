// Package error provides structured error handling for hostcmd.
//
// Package: error
// Title: hostcmd Structured Error Framework
// Description: This package implements a structured error system with error
//              codes, contextual details, operation tracking, and bounded
//              stack traces. It maintains full compatibility with Go's
//              standard error interface, errors.Is/As, and error wrapping
//              while adding the classification the engine uses to distinguish
//              transaction misuse, option conflicts, command failures, and
//              missing properties from transport-level faults.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-18
// Modified: 2026-08-18
//
// Change History:
// - 2026-08-18 v0.1.0: Initial implementation
//
// Usage:
//   import hcerror "github.com/msto63/hostcmd/core/error"
//
//   err := hcerror.New("transaction not found").
//     WithCode(hcerror.CodeInvalidTransaction).
//     WithOperation("engine.Add").
//     WithDetail("transaction", id)
//
//   if hcerror.HasCode(err, hcerror.CodeInvalidTransaction) {
//     // handle unknown transaction
//   }
package error

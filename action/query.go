// File: query.go
// Title: Property Query Layer
// Description: Convenience operations for fetching properties of host
//              entities: single gets, ranged fetches, batched multi-
//              reference fetches, tolerant optional fetches, and single-
//              round-trip multi-property fetches. Pure clients of the
//              batch executor and the reference normalizer; no additional
//              coordination state.
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
)

// PropertyQuery pairs a reference with one property to fetch from it
type PropertyQuery struct {
	Ref      Reference
	Property string
}

// RangeSpec selects a contiguous index range for ranged property
// fetches. Index defaults to 1; Count -1 (the default) means the rest of
// the range.
type RangeSpec struct {
	Index int
	Count int
}

// Get resolves a reference to its full descriptor
func (e *Engine) Get(ctx context.Context, ref Reference, options Options) (Descriptor, error) {
	return e.get(ctx, Normalize(ref), options)
}

// GetProperty fetches a single property of a reference. Fails with
// MissingProperty when the host's response lacks the requested key.
func (e *Engine) GetProperty(ctx context.Context, ref Reference, property string, options Options) (interface{}, error) {
	result, err := e.get(ctx, GetPropertyReference(ref, property), options)
	if err != nil {
		return nil, err
	}

	value, ok := result[property]
	if !ok {
		return nil, missingProperty(property, "engine.GetProperty")
	}
	return value, nil
}

// GetPropertyReference builds the canonical reference for a direct
// property get: the target elements followed by the property descriptor.
func GetPropertyReference(ref Reference, property string) Descriptor {
	items := append(canonicalElements(Normalize(ref)), Normalize(Property(property)))
	return Descriptor{keyRefList: items}
}

// SetPropertyReference builds the reversed property-then-target form
// expected by "set" style descriptor payloads.
func SetPropertyReference(ref Reference, property string) Descriptor {
	items := append([]interface{}{Normalize(Property(property))}, canonicalElements(Normalize(ref))...)
	return Descriptor{keyRefList: items}
}

// GetPropertiesRange fetches the given properties for every element of a
// contiguous index range in one round trip. Returns the per-element
// descriptors, position-aligned with the range.
func (e *Engine) GetPropertiesRange(ctx context.Context, ref Reference, rng RangeSpec, properties []string, options Options) ([]Descriptor, error) {
	index := rng.Index
	if index == 0 {
		index = 1
	}
	count := rng.Count
	if count == 0 {
		count = -1
	}

	head := Descriptor{
		keyPropertyList: stringSlice(properties),
		keyRange:        Descriptor{keyIndex: index, keyCount: count},
	}
	items := append([]interface{}{head}, canonicalElements(Normalize(ref))...)

	response, err := e.get(ctx, Descriptor{keyMultiGetRef: items}, options)
	if err != nil {
		return nil, err
	}

	list, _ := response["list"].([]interface{})
	out := make([]Descriptor, 0, len(list))
	for _, item := range list {
		if d, ok := item.(map[string]interface{}); ok {
			out = append(out, d)
		} else {
			out = append(out, nil)
		}
	}
	return out, nil
}

// BatchGetProperties fetches one property per (reference, property)
// pair as a single batched dispatch and returns the position-aligned
// values. In fail-fast mode every result must actually carry its
// requested key: a batch get can individually succeed yet come back
// without the asked-for property, so the layer post-validates and fails
// with MissingProperty naming the first offender. In continue-on-error
// mode missing or errored entries are returned as nil holes.
func (e *Engine) BatchGetProperties(ctx context.Context, queries []PropertyQuery, options Options) ([]interface{}, error) {
	commands := make([]Command, len(queries))
	for i, q := range queries {
		commands[i] = Command{
			Name:       "get",
			Descriptor: Descriptor{keyTarget: GetPropertyReference(q.Ref, q.Property)},
		}
	}

	// Property queries are always immediate round trips
	options = options.clone()
	options.Transaction = nil

	outcome, err := e.BatchPlay(ctx, commands, options)
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(queries))

	if options.continueOnError() {
		for i, q := range queries {
			if i >= len(outcome.Results) || outcome.Results[i] == nil {
				continue
			}
			if i < len(outcome.Errors) && outcome.Errors[i] != nil {
				continue
			}
			if v, ok := outcome.Results[i][q.Property]; ok {
				values[i] = v
			}
		}
		return values, nil
	}

	for i, q := range queries {
		v, ok := outcome.Results[i][q.Property]
		if !ok {
			return nil, missingProperty(q.Property, "engine.BatchGetProperties").
				WithDetail("index", i)
		}
		values[i] = v
	}
	return values, nil
}

// BatchGetOptionalProperties fetches the given properties of one
// reference, tolerating absence: the result object contains only the
// keys that were actually present, and per-property errors are silently
// dropped. The tolerant counterpart to BatchGetProperties.
func (e *Engine) BatchGetOptionalProperties(ctx context.Context, ref Reference, properties []string) (Descriptor, error) {
	commands := make([]Command, len(properties))
	for i, prop := range properties {
		commands[i] = Command{
			Name:       "get",
			Descriptor: Descriptor{keyTarget: GetPropertyReference(ref, prop)},
		}
	}

	outcome, err := e.dispatch(ctx, commands, Options{ContinueOnError: Bool(true)}, nil)
	if err != nil {
		return nil, err
	}

	out := Descriptor{}
	for i, prop := range properties {
		if i < len(outcome.Errors) && outcome.Errors[i] != nil {
			continue
		}
		if i >= len(outcome.Results) || outcome.Results[i] == nil {
			continue
		}
		if v, ok := outcome.Results[i][prop]; ok {
			out[prop] = v
		}
	}
	return out, nil
}

// MultiGetProperties fetches several properties of one reference in a
// single round trip via the multi-get reference form, then validates
// that every requested key is present.
func (e *Engine) MultiGetProperties(ctx context.Context, ref Reference, properties []string, options Options) (Descriptor, error) {
	response, err := e.get(ctx, NormalizeMultiGet(ref, properties), options)
	if err != nil {
		return nil, err
	}

	for _, prop := range properties {
		if _, ok := response[prop]; !ok {
			return nil, missingProperty(prop, "engine.MultiGetProperties")
		}
	}
	return response, nil
}

// missingProperty builds the error for a response lacking an expected
// key
func missingProperty(property, operation string) *hcerror.Error {
	return hcerror.Newf("response is missing property %q", property).
		WithCode(hcerror.CodeMissingProperty).
		WithOperation(operation).
		WithDetail("property", property)
}

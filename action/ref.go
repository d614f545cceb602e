// File: ref.go
// Title: Reference Normalizer
// Description: Defines the closed set of tagged reference variants and their
//              normalization into the canonical descriptor grammar the host
//              executor understands. References are built via explicit
//              constructor functions; normalization is a match over the
//              variant tag. Composite references are accepted innermost-first
//              and reversed to the outermost-first canonical order.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-19
// Modified: 2026-08-19
//
// Change History:
// - 2026-08-19 v0.1.0: Initial implementation with tagged reference variants

package action

// Canonical descriptor grammar keys
const (
	keyRef          = "_ref"
	keyEnum         = "_enum"
	keyValue        = "_value"
	keyID           = "_id"
	keyIndex        = "_index"
	keyName         = "_name"
	keyProperty     = "_property"
	keyRefList      = "_ref_list"
	keyMultiGetRef  = "_multiGetRef"
	keyPropertyList = "_propertyList"
	keyRange        = "_range"
	keyCount        = "_count"

	// keyTarget is the conventional wrapper key under which command
	// descriptors carry their target reference
	keyTarget = "_target"
)

// Reference is a structured pointer to a target entity of the host
// application. The set of variants is closed; values are constructed via
// Class, ID, Index, Name, Enum, Property, Path, and Raw.
type Reference interface {
	isReference()
}

type classRef struct {
	class string
}

type idRef struct {
	class string
	id    int
}

type indexRef struct {
	class string
	index int
}

type nameRef struct {
	class string
	name  string
}

type enumRef struct {
	class string
	enum  string
	value string
}

type propertyRef struct {
	property string
}

type compositeRef struct {
	refs []Reference
}

type rawRef struct {
	descriptor Descriptor
}

func (classRef) isReference()     {}
func (idRef) isReference()        {}
func (indexRef) isReference()     {}
func (nameRef) isReference()      {}
func (enumRef) isReference()      {}
func (propertyRef) isReference()  {}
func (compositeRef) isReference() {}
func (rawRef) isReference()       {}

// Class references the currently targeted instance of a class
func Class(class string) Reference {
	return classRef{class: class}
}

// ID references an instance of a class by its unique identifier
func ID(class string, id int) Reference {
	return idRef{class: class, id: id}
}

// Index references an instance of a class by its one-based index
func Index(class string, index int) Reference {
	return indexRef{class: class, index: index}
}

// Name references an instance of a class by its name
func Name(class string, name string) Reference {
	return nameRef{class: class, name: name}
}

// Enum references an instance of a class by an enumerated selector
func Enum(class, enum, value string) Reference {
	return enumRef{class: class, enum: enum, value: value}
}

// Property references a named property of the enclosing target
func Property(property string) Reference {
	return propertyRef{property: property}
}

// Path composes sub-references into one reference. Sub-references are
// given innermost-first; normalization reverses them into the canonical
// outermost-first order.
func Path(refs ...Reference) Reference {
	return compositeRef{refs: refs}
}

// Raw wraps an already-canonical reference descriptor. Normalizing a raw
// reference is a no-op, which makes normalization idempotent.
func Raw(descriptor Descriptor) Reference {
	return rawRef{descriptor: descriptor}
}

// Normalize converts a reference into its canonical descriptor form.
// It never fails: raw descriptors pass through unchanged since the host
// executor performs final validation.
func Normalize(ref Reference) Descriptor {
	switch r := ref.(type) {
	case classRef:
		return Descriptor{keyRef: r.class, keyEnum: "ordinal", keyValue: "targetEnum"}
	case idRef:
		return Descriptor{keyRef: r.class, keyID: r.id}
	case indexRef:
		return Descriptor{keyRef: r.class, keyIndex: r.index}
	case nameRef:
		return Descriptor{keyRef: r.class, keyName: r.name}
	case enumRef:
		return Descriptor{keyRef: r.class, keyEnum: r.enum, keyValue: r.value}
	case propertyRef:
		return Descriptor{keyRef: "property", keyProperty: r.property}
	case compositeRef:
		items := make([]interface{}, 0, len(r.refs))
		for i := len(r.refs) - 1; i >= 0; i-- {
			items = append(items, Normalize(r.refs[i]))
		}
		return Descriptor{keyRefList: items}
	case rawRef:
		return r.descriptor
	default:
		return nil
	}
}

// NormalizeMultiGet wraps a reference as a multi-get request for the
// given properties, fetching them in a single round trip.
func NormalizeMultiGet(ref Reference, properties []string) Descriptor {
	items := make([]interface{}, 0, len(properties)+1)
	items = append(items, Descriptor{keyPropertyList: stringSlice(properties)})
	items = append(items, canonicalElements(Normalize(ref))...)
	return Descriptor{keyMultiGetRef: items}
}

// NormalizeTarget returns a copy of a command descriptor with the
// reference carried under the conventional target wrapper key replaced by
// its canonical form. Descriptors without the wrapper key, or whose
// wrapped value is not a recognized reference shape, are returned
// unchanged.
func NormalizeTarget(descriptor Descriptor) Descriptor {
	if descriptor == nil {
		return nil
	}

	v, ok := descriptor[keyTarget]
	if !ok {
		return descriptor
	}

	var canonical interface{}
	switch t := v.(type) {
	case Reference:
		canonical = Normalize(t)
	case []Reference:
		canonical = Normalize(Path(t...))
	default:
		// Already canonical or unrecognized; the host validates
		return descriptor
	}

	out := make(Descriptor, len(descriptor))
	for k, val := range descriptor {
		out[k] = val
	}
	out[keyTarget] = canonical
	return out
}

// canonicalElements flattens a canonical reference into its ordered
// element list: composite references contribute their members, single
// references contribute themselves.
func canonicalElements(canonical Descriptor) []interface{} {
	if len(canonical) == 1 {
		if list, ok := canonical[keyRefList].([]interface{}); ok {
			return list
		}
	}
	return []interface{}{canonical}
}

// stringSlice converts a string slice to the interface form used inside
// descriptors
func stringSlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

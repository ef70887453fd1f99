package model

import (
	"go/types"
)

// TypeRef points at the type of a parameter, body or response. It is either a
// type already known from static analysis (Resolved) or a lazily resolved Link
// parsed from a comment. The variant set is closed.
type TypeRef interface {
	typeRef()
}

// JSON kinds of primitive links.
const (
	JSONInteger = "integer"
	JSONNumber  = "number"
	JSONBoolean = "boolean"
	JSONString  = "string"
)

// Resolved wraps a type obtained from the type checker.
type Resolved struct {
	Type types.Type
}

// Primitive is a well-known scalar name such as Int or String.
type Primitive struct {
	Name   string
	Kind   string
	Format string
}

// Reference names a declared type, qualified with its package path.
type Reference struct {
	Name string
}

// Array is a list of Elem.
type Array struct {
	Elem TypeRef
}

// MapOf is a string keyed map of Value.
type MapOf struct {
	Value TypeRef
}

// Optional marks Inner as nullable or not required.
type Optional struct {
	Inner TypeRef
}

func (Resolved) typeRef()  {}
func (Primitive) typeRef() {}
func (Reference) typeRef() {}
func (Array) typeRef()     {}
func (MapOf) typeRef()     {}
func (Optional) typeRef()  {}

// IsOptional reports whether t is wrapped in Optional at the outermost level.
func IsOptional(t TypeRef) bool {
	_, ok := t.(Optional)
	return ok
}

// References returns every Reference reachable inside t.
func References(t TypeRef) []Reference {
	switch v := t.(type) {
	case Reference:
		return []Reference{v}
	case Array:
		return References(v.Elem)
	case MapOf:
		return References(v.Value)
	case Optional:
		return References(v.Inner)
	}
	return nil
}

// ShortName returns the unqualified part of a qualified type name.
func ShortName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' || qualified[i] == '/' {
			return qualified[i+1:]
		}
	}
	return qualified
}

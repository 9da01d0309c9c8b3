package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Node is a read-only view over a decoded JSON value. Every accessor reports
// presence explicitly; a missing or mistyped value yields an absent Node
// instead of an error, so callers can walk optional nesting safely.
type Node struct {
	v       any
	present bool
}

// NewNode wraps a value produced by encoding/json (decoded with UseNumber).
func NewNode(v any) Node {
	return Node{v: v, present: true}
}

// Present reports whether the value exists and is not JSON null.
func (n Node) Present() bool {
	return n.present && n.v != nil
}

// Value returns the underlying decoded value.
func (n Node) Value() any {
	return n.v
}

// Get returns the named member of an object node.
func (n Node) Get(key string) Node {
	obj, ok := n.v.(map[string]any)
	if !ok {
		return Node{}
	}
	v, ok := obj[key]
	if !ok {
		return Node{}
	}
	return Node{v: v, present: true}
}

// Index returns the i-th element of an array node.
func (n Node) Index(i int) Node {
	arr, ok := n.v.([]any)
	if !ok || i < 0 || i >= len(arr) {
		return Node{}
	}
	return Node{v: arr[i], present: true}
}

// Array returns the elements of an array node.
func (n Node) Array() ([]Node, bool) {
	arr, ok := n.v.([]any)
	if !ok {
		return nil, false
	}
	nodes := make([]Node, len(arr))
	for i, v := range arr {
		nodes[i] = Node{v: v, present: true}
	}
	return nodes, true
}

// IsObject reports whether the node holds a JSON object.
func (n Node) IsObject() bool {
	_, ok := n.v.(map[string]any)
	return ok
}

// IsArray reports whether the node holds a JSON array.
func (n Node) IsArray() bool {
	_, ok := n.v.([]any)
	return ok
}

// Text returns strings verbatim and numbers in their source notation.
// Any other kind is absent.
func (n Node) Text() (string, bool) {
	switch v := n.v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// Float returns numeric nodes, and strings that parse as numbers.
func (n Node) Float() (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := n.v.(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case string:
		f, err = strconv.ParseFloat(v, 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Truthy applies JSON truthiness: null, false, 0 and "" are falsy,
// everything else (including empty objects and arrays) is truthy.
func (n Node) Truthy() bool {
	if !n.Present() {
		return false
	}
	switch v := n.v.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	}
	return true
}

// RawSitePayload is the untrusted site document as fetched.
type RawSitePayload struct {
	Root Node
}

// NewRawSitePayload wraps a decoded JSON document.
func NewRawSitePayload(v any) RawSitePayload {
	return RawSitePayload{Root: NewNode(v)}
}

// Metadata returns the top-level metadata member.
func (p RawSitePayload) Metadata() Node {
	return p.Root.Get("metadata")
}

// Items returns the top-level items member.
func (p RawSitePayload) Items() Node {
	return p.Root.Get("items")
}

// Description returns the top-level description member.
func (p RawSitePayload) Description() Node {
	return p.Root.Get("description")
}

// Package value defines a generic tagged value, the shape opaque payloads
// take on a ledger, and a recursive fuzzer for it.
package value

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
)

// Value is one of Int, Bytes, List, Map or Constr.
type Value interface {
	// String renders the value for diagnostics.
	String() string

	isValue()
}

type Int struct {
	V int
}

type Bytes struct {
	V []byte
}

type List struct {
	Items []Value
}

// Pair is one entry of a Map.
type Pair struct {
	Key   Value
	Value Value
}

// Map is an association list; key order is significant and keys may repeat.
type Map struct {
	Pairs []Pair
}

// Constr is a constructor application. Booleans are Constr 0 (false) and
// Constr 1 (true) without fields.
type Constr struct {
	Tag    int
	Fields []Value
}

func (Int) isValue()    {}
func (Bytes) isValue()  {}
func (List) isValue()   {}
func (Map) isValue()    {}
func (Constr) isValue() {}

// Bool returns the constructor encoding of b.
func Bool(b bool) Constr {
	if b {
		return Constr{Tag: 1}
	}
	return Constr{Tag: 0}
}

// AsBool reports the boolean a value encodes, if any.
func AsBool(v Value) (bool, bool) {
	c, ok := v.(Constr)
	if !ok || len(c.Fields) != 0 || c.Tag > 1 {
		return false, false
	}
	return c.Tag == 1, true
}

func (v Int) String() string { return strconv.Itoa(v.V) }

func (v Bytes) String() string { return "#" + hex.EncodeToString(v.V) }

func (v List) String() string {
	return "[" + join(v.Items) + "]"
}

func (v Map) String() string {
	parts := make([]string, len(v.Pairs))
	for i, p := range v.Pairs {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v Constr) String() string {
	return "Constr(" + strconv.Itoa(v.Tag) + ", [" + join(v.Fields) + "])"
}

func join(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Equal reports structural equality.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		b, ok := b.(Int)
		return ok && a.V == b.V
	case Bytes:
		b, ok := b.(Bytes)
		return ok && bytes.Equal(a.V, b.V)
	case List:
		b, ok := b.(List)
		return ok && equalAll(a.Items, b.Items)
	case Map:
		b, ok := b.(Map)
		if !ok || len(a.Pairs) != len(b.Pairs) {
			return false
		}
		for i := range a.Pairs {
			if !Equal(a.Pairs[i].Key, b.Pairs[i].Key) || !Equal(a.Pairs[i].Value, b.Pairs[i].Value) {
				return false
			}
		}
		return true
	case Constr:
		b, ok := b.(Constr)
		return ok && a.Tag == b.Tag && equalAll(a.Fields, b.Fields)
	default:
		return a == nil && b == nil
	}
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Depth returns the nesting depth; leaves have depth 0.
func Depth(v Value) int {
	var children []Value
	switch v := v.(type) {
	case List:
		children = v.Items
	case Constr:
		children = v.Fields
	case Map:
		for _, p := range v.Pairs {
			children = append(children, p.Key, p.Value)
		}
	default:
		return 0
	}
	if len(children) == 0 {
		return 0
	}
	deepest := 0
	for _, c := range children {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jval defines the runtime representation of JSON-shaped tree
// values, as constructed by code expanded from literals.
//
// A value is one of Null, Bool, Integer, Number, String, Array, or *Object.
// Objects are ordered: members appear in the order their keys were first
// set, and setting an existing key replaces its value without moving it.
package jval

import (
	"strconv"
	"strings"

	"github.com/creachadair/jlit"
)

// A Value is a JSON-shaped tree value.
type Value interface {
	// JSON renders the value as JSON text.
	JSON() string
}

// Null represents the null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// A Bool is a Boolean value.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// Value reports the truth value of b.
func (b Bool) Value() bool { return bool(b) }

// An Integer is a numeric value with no fractional part.
type Integer int64

// JSON satisfies the Value interface.
func (z Integer) JSON() string { return strconv.FormatInt(int64(z), 10) }

// Int64 returns z as an int64.
func (z Integer) Int64() int64 { return int64(z) }

// A Number is a floating-point numeric value.
type Number float64

// JSON satisfies the Value interface. The rendering matches the compact
// encoding used by encoding/json for float64 values.
func (n Number) JSON() string { return formatFloat(float64(n)) }

// Float64 returns n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// A String is a string value.
type String string

// JSON satisfies the Value interface. The text is escaped and quoted.
func (s String) JSON() string { return jlit.Quote(string(s)) }

// An Array is an ordered sequence of values.
type Array []Value

// NewArray constructs an Array of the given elements, in order.
// The result of an empty call is a non-nil empty Array.
func NewArray(vs ...Value) Array {
	if vs == nil {
		return Array{}
	}
	return Array(vs)
}

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// An Object is an ordered collection of key-value members.
type Object struct {
	members []Member
	index   map[string]int
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// NewObject constructs a new empty Object.
func NewObject() *Object { return &Object{} }

// Set inserts or replaces the member for key and returns o, to allow
// construction by chaining. A new key is appended after all existing
// members; an existing key keeps its original position and takes the new
// value, so the last write for a key wins.
func (o *Object) Set(key string, v Value) *Object {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return o
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
	return o
}

// Len reports the number of members of o.
func (o *Object) Len() int { return len(o.members) }

// Find returns the member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	if i, ok := o.index[key]; ok {
		return &o.members[i]
	}
	return nil
}

// Get returns the value of the member of o with the given key, if present.
func (o *Object) Get(key string) (Value, bool) {
	if m := o.Find(key); m != nil {
		return m.Value, true
	}
	return nil, false
}

// Members returns the members of o in insertion order. The caller must not
// modify the keys of the returned slice.
func (o *Object) Members() []Member { return o.members }

// JSON satisfies the Value interface.
func (o *Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(jlit.Quote(m.Key))
		sb.WriteByte(':')
		sb.WriteString(m.Value.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON implementations make every Value usable with encoding/json
// and compatible encoders.

func (Null) MarshalJSON() ([]byte, error)      { return []byte("null"), nil }
func (b Bool) MarshalJSON() ([]byte, error)    { return []byte(b.JSON()), nil }
func (z Integer) MarshalJSON() ([]byte, error) { return []byte(z.JSON()), nil }
func (n Number) MarshalJSON() ([]byte, error)  { return []byte(n.JSON()), nil }
func (s String) MarshalJSON() ([]byte, error)  { return []byte(s.JSON()), nil }
func (a Array) MarshalJSON() ([]byte, error)   { return []byte(a.JSON()), nil }
func (o *Object) MarshalJSON() ([]byte, error) { return []byte(o.JSON()), nil }

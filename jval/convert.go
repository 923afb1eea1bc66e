// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// A ConvError reports a Go value that cannot be represented as a Value.
// It is an execution-time error, distinct from the build-time syntax errors
// reported while a literal is being expanded.
type ConvError struct {
	Type   string // the Go type of the offending value
	Reason string
}

// Error satisfies the error interface.
func (e *ConvError) Error() string {
	return fmt.Sprintf("cannot convert %s: %s", e.Type, e.Reason)
}

// From converts an arbitrary Go value into a Value. Expanded literals call
// From for every spliced leaf expression. From fails fast: if v cannot be
// represented it panics with a *ConvError at the point of evaluation. Use
// TryFrom to receive the error as a result instead.
func From(v any) Value {
	w, err := TryFrom(v)
	if err != nil {
		panic(err)
	}
	return w
}

// TryFrom converts an arbitrary Go value into a Value, or reports a
// *ConvError if v cannot be represented.
//
// Booleans, strings, integers, and floating-point values map directly onto
// the corresponding variants, and a Value is returned unmodified. Anything
// else is converted through its JSON encoding, so any type accepted by a
// JSON encoder is accepted here; objects produced this way order their
// members by key, since Go maps and struct encodings carry no usable order.
//
// Unrepresentable inputs include NaN and infinite floats, uint64 values
// beyond the int64 range, strings that are not valid UTF-8, and values the
// JSON encoder rejects (channels, functions, cyclic structures).
func TryFrom(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		if !utf8.ValidString(t) {
			return nil, convErr(v, "string is not valid UTF-8")
		}
		return String(t), nil
	case int:
		return Integer(t), nil
	case int8:
		return Integer(t), nil
	case int16:
		return Integer(t), nil
	case int32:
		return Integer(t), nil
	case int64:
		return Integer(t), nil
	case uint:
		return fromUint64(uint64(t), v)
	case uint8:
		return Integer(t), nil
	case uint16:
		return Integer(t), nil
	case uint32:
		return Integer(t), nil
	case uint64:
		return fromUint64(t, v)
	case uintptr:
		return fromUint64(uint64(t), v)
	case float32:
		return fromFloat64(float64(t), v)
	case float64:
		return fromFloat64(t, v)
	case json.Number:
		return fromNumber(t, v)
	default:
		return fromEncoding(v)
	}
}

func convErr(v any, msg string, args ...any) *ConvError {
	return &ConvError{Type: fmt.Sprintf("%T", v), Reason: fmt.Sprintf(msg, args...)}
}

func fromUint64(u uint64, orig any) (Value, error) {
	if u > math.MaxInt64 {
		return nil, convErr(orig, "value %d overflows the numeric range", u)
	}
	return Integer(u), nil
}

func fromFloat64(f float64, orig any) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, convErr(orig, "value %v has no JSON representation", f)
	}
	return Number(f), nil
}

func fromNumber(n json.Number, orig any) (Value, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if z, err := n.Int64(); err == nil {
			return Integer(z), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, convErr(orig, "invalid number %q", n.String())
	}
	return fromFloat64(f, orig)
}

// fromEncoding converts v by round-tripping it through its JSON encoding.
// This accepts structs, maps, slices, pointers, and any type implementing
// json.Marshaler, with the field and omission semantics of the encoder.
func fromEncoding(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, convErr(v, "%v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, convErr(v, "invalid encoding: %v", err)
	}
	return fromDecoded(out, v)
}

func fromDecoded(v, orig any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return fromNumber(t, orig)
	case []any:
		out := make(Array, len(t))
		for i, e := range t {
			v, err := fromDecoded(e, orig)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := NewObject()
		for _, key := range keys {
			v, err := fromDecoded(t[key], orig)
			if err != nil {
				return nil, err
			}
			out.Set(key, v)
		}
		return out, nil
	default:
		return nil, convErr(orig, "unexpected decoded type %T", v)
	}
}

// formatFloat renders f the way encoding/json does, preferring the shortest
// representation that round-trips and avoiding exponent notation for
// moderate magnitudes.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	out := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		if n := len(out); n >= 4 && out[n-4] == 'e' && out[n-3] == '-' && out[n-2] == '0' {
			out[n-2] = out[n-1]
			out = out[:n-1]
		}
	}
	return string(out)
}

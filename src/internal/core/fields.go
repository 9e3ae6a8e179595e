// FILE: logfan/src/internal/core/fields.go
package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Kind discriminates the closed set of structured field value types.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindMap
	KindList
)

// Value is one structured field value. The set of shapes is closed so
// formatters can switch exhaustively instead of reflecting on any.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Map   Fields
	List  []Value
}

// Fields is the structured payload attached to a log event.
type Fields map[string]Value

func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Int(i int64) Value      { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Map(f Fields) Value     { return Value{Kind: KindMap, Map: f} }
func List(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// Convert maps an arbitrary input to a Value. Conversion is total:
// anything outside the closed set is stringified.
func Convert(v any) Value {
	switch val := v.(type) {
	case nil:
		return String("<nil>")
	case Value:
		return val
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return uintValue(uint64(val))
	case uint8:
		return Int(int64(val))
	case uint16:
		return Int(int64(val))
	case uint32:
		return Int(int64(val))
	case uint64:
		return uintValue(val)
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case time.Duration:
		return String(val.String())
	case error:
		return String(val.Error())
	case map[string]any:
		return Map(ConvertMap(val))
	case Fields:
		return Map(val)
	case []any:
		list := make([]Value, 0, len(val))
		for _, item := range val {
			list = append(list, Convert(item))
		}
		return Value{Kind: KindList, List: list}
	case []string:
		list := make([]Value, 0, len(val))
		for _, item := range val {
			list = append(list, String(item))
		}
		return Value{Kind: KindList, List: list}
	case fmt.Stringer:
		return String(val.String())
	default:
		return String(fmt.Sprintf("%v", val))
	}
}

// uintValue keeps unsigned conversion lossless: values past the int64
// range would wrap to negatives, so they are stringified instead.
func uintValue(v uint64) Value {
	if v > math.MaxInt64 {
		return String(strconv.FormatUint(v, 10))
	}
	return Int(int64(v))
}

// ConvertMap maps an arbitrary key/value bag to Fields.
func ConvertMap(m map[string]any) Fields {
	if len(m) == 0 {
		return nil
	}
	f := make(Fields, len(m))
	for k, v := range m {
		f[k] = Convert(v)
	}
	return f
}

// Interface returns the plain Go representation of the value, suitable
// for JSON marshalling.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindMap:
		return v.Map.Interface()
	case KindList:
		out := make([]any, 0, len(v.List))
		for _, item := range v.List {
			out = append(out, item.Interface())
		}
		return out
	default:
		return v.Str
	}
}

// Interface returns the fields as a plain map for JSON marshalling.
func (f Fields) Interface() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v.Interface()
	}
	return out
}

// Keys returns the field names in sorted order for deterministic
// text rendering.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy so formatter stages can extend the
// field set without mutating the original event.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

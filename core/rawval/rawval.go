package rawval

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindNull represents an absent or SQL NULL value.
	KindNull Kind = iota
	// KindInt represents an integer value.
	KindInt
	// KindBool represents a boolean value.
	KindBool
	// KindString represents a string value.
	KindString
	// KindSeq represents an ordered sequence of string tokens.
	KindSeq
)

// Value is a sealed tagged union over the raw field encodings the source
// store and the search index are known to produce: integer, boolean, string,
// sequence-of-strings, or null. Normalizers consume Values so that loose
// type handling lives in one place instead of being scattered through
// comparison logic.
type Value struct {
	kind Kind
	i    int64
	b    bool
	s    string
	seq  []string
}

// Null returns the null Value. The zero Value is also null.
func Null() Value { return Value{} }

// Int wraps an integer.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Seq wraps a sequence of string tokens.
func Seq(items []string) Value { return Value{kind: KindSeq, seq: items} }

// FromAny converts an arbitrary driver- or decoder-supplied value into a
// Value using explicit type switching. Unknown types degrade to their
// fmt representation; they never fail.
func FromAny(val any) Value {
	switch v := val.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case int:
		return Int(int64(v))
	case int64:
		return Int(v)
	case int32:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case uint:
		return Int(int64(v))
	case uint64:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint8:
		return Int(int64(v))
	case float64:
		if v == float64(int64(v)) {
			return Int(int64(v))
		}
		return String(strconv.FormatFloat(v, 'f', -1, 64))
	case float32:
		return FromAny(float64(v))
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case []byte:
		return String(string(v))
	case []string:
		return Seq(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, FromAny(item).String())
		}
		return Seq(items)
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int64 returns the integer payload. Valid only for KindInt.
func (v Value) Int64() int64 { return v.i }

// BoolVal returns the boolean payload. Valid only for KindBool.
func (v Value) BoolVal() bool { return v.b }

// String renders the value for display and loose comparison.
// Null renders as the empty string; sequences are comma-joined.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindString:
		return v.s
	case KindSeq:
		return strings.Join(v.seq, ",")
	default:
		return ""
	}
}

// Strings returns the value as a token slice. Sequences return their
// elements, null returns nil, and scalars return a single-element slice.
func (v Value) Strings() []string {
	switch v.kind {
	case KindNull:
		return nil
	case KindSeq:
		return v.seq
	default:
		return []string{v.String()}
	}
}

// First returns the first element of a sequence, or the value itself for
// scalars. Index fields such as state_name are sometimes returned as
// single-element arrays; First flattens those.
func (v Value) First() Value {
	if v.kind != KindSeq {
		return v
	}
	if len(v.seq) == 0 {
		return Null()
	}
	return String(v.seq[0])
}

// UnmarshalJSON decodes a JSON scalar or array into the matching variant.
// Integral numbers become KindInt; non-integral numbers keep their literal
// form as KindString so no precision is silently lost.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = Null()
		return nil
	}
	switch trimmed[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = FromAny(items)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if i, err := n.Int64(); err == nil {
			*v = Int(i)
		} else {
			*v = String(n.String())
		}
		return nil
	}
}

// MarshalJSON encodes the variant back to its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(v.i)
	case KindBool:
		return json.Marshal(v.b)
	case KindString:
		return json.Marshal(v.s)
	case KindSeq:
		return json.Marshal(v.seq)
	default:
		return []byte("null"), nil
	}
}

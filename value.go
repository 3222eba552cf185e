package halite

import (
	"io"
	"net/url"
	"sort"
	"strconv"
)

// Value is the closed set of datatypes accepted inside query-param, form and
// json option maps. Every consumption site (query encoding, form encoding,
// JSON serialization) switches exhaustively over these variants; there is no
// reflection-driven fallback. Values must be finite: lists and maps may nest
// but must not contain cycles.
type Value interface {
	isValue()
}

// Null is the absent-value variant. It renders as an empty string in query
// and form encodings and as JSON null.
type Null struct{}

// Bool is a boolean Value.
type Bool bool

// Int is an integer Value.
type Int int64

// Float is a floating point Value.
type Float float64

// String is a string Value.
type String string

// File is a file-handle Value, only meaningful inside form maps where it
// forces multipart encoding. Name is the filename reported to the server.
type File struct {
	Name   string
	Reader io.Reader
}

// List is an ordered collection Value. In query and form encodings the
// enclosing key is repeated once per element.
type List []Value

// Map is a string-keyed collection Value. In query and form encodings nested
// keys render in bracket notation (key[sub]=v).
type Map map[string]Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (File) isValue()   {}
func (List) isValue()   {}
func (Map) isValue()    {}

// ValueOf converts plain Go data into a Value. Supported inputs: nil, bool,
// signed/unsigned integers, float32/64, string, File, []interface{},
// map[string]interface{} and anything already a Value. Unsupported inputs
// degrade to Null; callers building option maps by hand should prefer the
// concrete variants.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int8:
		return Int(x)
	case int16:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case uint:
		return Int(x)
	case uint8:
		return Int(x)
	case uint16:
		return Int(x)
	case uint32:
		return Int(x)
	case uint64:
		return Int(x)
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	case []interface{}:
		list := make(List, 0, len(x))
		for _, item := range x {
			list = append(list, ValueOf(item))
		}
		return list
	case map[string]interface{}:
		m := make(Map, len(x))
		for k, item := range x {
			m[k] = ValueOf(item)
		}
		return m
	default:
		return Null{}
	}
}

// scalarString renders a non-collection Value for query / form encodings.
// The second result is false for List and Map, which need structural
// flattening instead.
func scalarString(v Value) (string, bool) {
	switch x := v.(type) {
	case Null:
		return "", true
	case Bool:
		return strconv.FormatBool(bool(x)), true
	case Int:
		return strconv.FormatInt(int64(x), 10), true
	case Float:
		return strconv.FormatFloat(float64(x), 'f', -1, 64), true
	case String:
		return string(x), true
	case File:
		return x.Name, true
	case List, Map:
		return "", false
	default:
		return "", false
	}
}

// appendValues flattens v into dst under key. Lists repeat the key once per
// element; nested maps render sub-keys in bracket notation.
func appendValues(dst url.Values, key string, v Value) {
	switch x := v.(type) {
	case List:
		for _, item := range x {
			appendValues(dst, key, item)
		}
	case Map:
		for _, sub := range sortedKeys(x) {
			appendValues(dst, key+"["+sub+"]", x[sub])
		}
	default:
		s, _ := scalarString(x)
		dst.Add(key, s)
	}
}

// jsonValue converts v into the representation handed to encoding/json.
func jsonValue(v Value) interface{} {
	switch x := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case File:
		// Files carry no JSON representation; the filename stands in.
		return x.Name
	case List:
		out := make([]interface{}, 0, len(x))
		for _, item := range x {
			out = append(out, jsonValue(item))
		}
		return out
	case Map:
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[k] = jsonValue(item)
		}
		return out
	default:
		return nil
	}
}

// containsFile reports whether m holds a File variant at any depth. A form
// map with files must be multipart encoded.
func containsFile(v Value) bool {
	switch x := v.(type) {
	case File:
		return true
	case List:
		for _, item := range x {
			if containsFile(item) {
				return true
			}
		}
		return false
	case Map:
		for _, item := range x {
			if containsFile(item) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// cloneValue deep-copies collection variants so merged option maps never
// alias the inputs. File readers are shared, not duplicated.
func cloneValue(v Value) Value {
	switch x := v.(type) {
	case List:
		out := make(List, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case Map:
		out := make(Map, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return x
	}
}

func sortedKeys(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

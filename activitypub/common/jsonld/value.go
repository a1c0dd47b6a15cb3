// Package jsonld normalizes the permissive value shapes JSON-LD allows
// (scalar-or-array, string-or-object) into canonical forms, and checks and
// merges the @context of federation documents.
package jsonld

import "reflect"

// Kind classifies a JSON-LD value.
type Kind uint8

const (
	// KindAbsent is a missing value or JSON null.
	KindAbsent Kind = iota
	// KindScalar is a string, number or boolean.
	KindScalar
	// KindSequence is a JSON array.
	KindSequence
	// KindNode is a JSON object.
	KindNode
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindNode:
		return "node"
	default:
		return "unknown"
	}
}

// Value is a JSON-LD value tagged with its Kind.
type Value struct {
	kind Kind
	raw  interface{}
	seq  []interface{}
	node map[string]interface{}
}

// ValueOf classifies v. It accepts the shapes produced by encoding/json as
// well as typed slices and maps with string keys.
func ValueOf(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Value{kind: KindAbsent}
	case Value:
		return t
	case string, bool, float64, float32, int, int64, int32:
		return Value{kind: KindScalar, raw: v}
	case []interface{}:
		if t == nil {
			return Value{kind: KindAbsent}
		}
		return Value{kind: KindSequence, raw: v, seq: t}
	case []string:
		seq := make([]interface{}, len(t))
		for i, s := range t {
			seq[i] = s
		}
		return Value{kind: KindSequence, raw: v, seq: seq}
	case map[string]interface{}:
		if t == nil {
			return Value{kind: KindAbsent}
		}
		return Value{kind: KindNode, raw: v, node: t}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{kind: KindAbsent}
		}
		seq := make([]interface{}, rv.Len())
		for i := range seq {
			seq[i] = rv.Index(i).Interface()
		}
		return Value{kind: KindSequence, raw: v, seq: seq}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{kind: KindScalar, raw: v}
		}
		if rv.IsNil() {
			return Value{kind: KindAbsent}
		}
		node := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			node[iter.Key().String()] = iter.Value().Interface()
		}
		return Value{kind: KindNode, raw: v, node: node}
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Value{kind: KindAbsent}
		}
	}

	return Value{kind: KindScalar, raw: v}
}

// Kind returns the classification of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Raw returns the value as it was passed to ValueOf.
func (v Value) Raw() interface{} {
	return v.raw
}

// AsString returns the value when it is a string scalar.
func (v Value) AsString() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	s, ok := v.raw.(string)
	return s, ok
}

// Sequence returns the elements of a sequence, or nil for any other kind.
func (v Value) Sequence() []interface{} {
	return v.seq
}

// Node returns the members of a node, or nil for any other kind.
func (v Value) Node() map[string]interface{} {
	return v.node
}

// Field returns member key of a node. Any other kind yields an absent value.
func (v Value) Field(key string) Value {
	if v.kind != KindNode {
		return Value{kind: KindAbsent}
	}
	return ValueOf(v.node[key])
}

// IsString reports whether the value is a string scalar.
func (v Value) IsString() bool {
	_, ok := v.AsString()
	return ok
}

package jsonld

import "reflect"

// EqualsOrIncludes reports whether needle is a member of haystack when
// haystack is a sequence, or whether the two are equal otherwise.
func EqualsOrIncludes(haystack, needle interface{}) bool {
	h := ValueOf(haystack)
	if h.Kind() == KindSequence {
		for _, elem := range h.Sequence() {
			if equal(elem, needle) {
				return true
			}
		}
		return false
	}
	return equal(haystack, needle)
}

// FirstOfValue returns the first element of a sequence, nil for an empty
// one, and v unchanged for any other kind.
func FirstOfValue(v interface{}) interface{} {
	val := ValueOf(v)
	if val.Kind() != KindSequence {
		return v
	}
	if seq := val.Sequence(); len(seq) > 0 {
		return seq[0]
	}
	return nil
}

// AsArray normalizes a scalar-or-sequence field into a sequence. Absent
// values become an empty sequence.
func AsArray(v interface{}) []interface{} {
	val := ValueOf(v)
	switch val.Kind() {
	case KindAbsent:
		return []interface{}{}
	case KindSequence:
		return val.Sequence()
	default:
		return []interface{}{val.Raw()}
	}
}

// ValueOrID returns v when it is a string, or the id of v when it is a node.
// Anything else yields the empty string.
func ValueOrID(v interface{}) string {
	val := ValueOf(v)
	switch val.Kind() {
	case KindScalar:
		s, _ := val.AsString()
		return s
	case KindNode:
		s, _ := val.Field(KeyID).AsString()
		return s
	default:
		return ""
	}
}

func equal(a, b interface{}) bool {
	if va, ok := a.(Value); ok {
		a = va.Raw()
	}
	if vb, ok := b.(Value); ok {
		b = vb.Raw()
	}
	return reflect.DeepEqual(a, b)
}

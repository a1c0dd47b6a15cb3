package jsonld

// ContextActivityStreams identifies the ActivityStreams vocabulary federation
// documents are expected to declare.
const ContextActivityStreams = "https://www.w3.org/ns/activitystreams"

// Document keys with a fixed meaning.
const (
	KeyContext = "@context"
	KeyID      = "id"
	KeyType    = "type"
)

// IsSupportedContext reports whether doc declares the ActivityStreams
// context, either as its only context or as one of several.
func IsSupportedContext(doc map[string]interface{}) bool {
	if doc == nil {
		return false
	}
	return EqualsOrIncludes(doc[KeyContext], ContextActivityStreams)
}

// MergeContext adds newContext to context. An existing sequence is appended
// to; anything else becomes the first element of a new two-element sequence.
// Duplicates are kept.
func MergeContext(context, newContext interface{}) []interface{} {
	if seq, ok := context.([]interface{}); ok {
		return append(seq, newContext)
	}
	if val := ValueOf(context); val.Kind() == KindSequence {
		return append(val.Sequence(), newContext)
	}
	return []interface{}{context, newContext}
}

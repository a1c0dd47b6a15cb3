package jsonmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/jsonld"
	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/processor"
)

// ErrNotObject is returned when a JSON payload parses but is not an object.
var ErrNotObject = errors.New("JSON document is not an object")

// signatureFields are the keys that carry a signature over the rest of the
// document.
var signatureFields = map[string]bool{
	"signature": true,
	"proof":     true,
}

// JSONMap represents a JSON-LD document as a map.
type JSONMap map[string]interface{}

// Parse decodes data strictly into a JSONMap. Trailing data after the
// top-level value is rejected, and so is any top-level value that is not an
// object.
func Parse(data []byte) (JSONMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to unmarshal JSON document: trailing data after top-level value")
	}

	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, ErrNotObject
	}
	return JSONMap(m), nil
}

// ID returns the id of the document, or the empty string when it has none.
func (m JSONMap) ID() string {
	id, _ := m[jsonld.KeyID].(string)
	return id
}

// Context returns the raw @context value of the document.
func (m JSONMap) Context() interface{} {
	return m[jsonld.KeyContext]
}

// Type returns the document types, whether declared as a string or an array.
func (m JSONMap) Type() []string {
	var types []string
	for _, t := range jsonld.AsArray(m[jsonld.KeyType]) {
		if s, ok := t.(string); ok {
			types = append(types, s)
		}
	}
	return types
}

// IsSupportedContext reports whether the document declares the ActivityStreams context.
func (m JSONMap) IsSupportedContext() bool {
	if m == nil {
		return false
	}
	return jsonld.IsSupportedContext(m)
}

// Clone returns a deep copy of the document.
func (m JSONMap) Clone() (JSONMap, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}
	var out JSONMap
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSONMap copy: %w", err)
	}
	return out, nil
}

// ToJSON serializes the JSONMap to JSON.
func (m JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}
	return data, nil
}

// CanonicalForm returns the canonical N-Quads of the document.
func (m JSONMap) CanonicalForm(opts ...processor.ProcessorOpt) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	// Round-trip so values set by callers in Go types reach the processor
	// in the shapes encoding/json produces.
	doc, err := m.Clone()
	if err != nil {
		return nil, err
	}

	canonicalDoc, err := processor.CanonicalizeDocument(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", err)
	}
	return canonicalDoc, nil
}

// Canonicalize returns the SHA-256 digest of the canonical form of the
// document. The attached signature fields are left out: "signature" holds
// a Linked Data signature and "proof" holds a FEP-8b32 integrity proof.
func (m JSONMap) Canonicalize(opts ...processor.ProcessorOpt) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	mCopy := make(JSONMap, len(m))
	for k, v := range m {
		if !signatureFields[k] {
			mCopy[k] = v
		}
	}

	canonicalDoc, err := mCopy.CanonicalForm(opts...)
	if err != nil {
		return nil, err
	}

	return processor.ComputeDigest(canonicalDoc)
}

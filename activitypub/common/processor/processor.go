// Package processor turns JSON-LD documents into canonical RDF datasets
// suitable for hashing and signing.
package processor

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/jsonld"
)

const nquadsFormat = "application/n-quads"

// ErrNilDocument is returned when there is no document to canonicalize.
var ErrNilDocument = errors.New("document is nil")

// Processor canonicalizes JSON-LD with one RDF dataset normalization
// algorithm.
type Processor struct {
	algorithm string
}

// NewProcessor returns a Processor using algorithm, or URDNA2015 when it is
// empty.
func NewProcessor(algorithm string) *Processor {
	if algorithm == "" {
		return Default()
	}
	return &Processor{algorithm: algorithm}
}

// Default returns a URDNA2015 Processor.
func Default() *Processor {
	return &Processor{algorithm: ld.AlgorithmURDNA2015}
}

// CanonicalizeDocument canonicalizes a JSON-LD document.
//
// Documents that describe the same RDF dataset produce identical output no
// matter how their keys are ordered or how their context is written.
func CanonicalizeDocument(doc map[string]interface{}, opts ...ProcessorOpt) ([]byte, error) {
	o := newProcessorOptions(opts)
	return NewProcessor(o.algorithm).canonicalize(doc, o)
}

// GetCanonicalDocument returns the canonical N-Quads of doc. The algorithm
// option is ignored in favor of the Processor's own.
func (p *Processor) GetCanonicalDocument(doc map[string]interface{}, opts ...ProcessorOpt) ([]byte, error) {
	return p.canonicalize(doc, newProcessorOptions(opts))
}

func (p *Processor) canonicalize(doc map[string]interface{}, o *processorOptions) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", ErrNilDocument)
	}

	ldOpts := ld.NewJsonLdOptions("")
	ldOpts.ProcessingMode = ld.JsonLd_1_1
	ldOpts.Algorithm = p.algorithm
	ldOpts.Format = nquadsFormat
	ldOpts.DocumentLoader = o.loader

	out, err := ld.NewJsonLdProcessor().Normalize(withContexts(doc, o.contexts), ldOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize JSON-LD document: %w", err)
	}

	nquads, ok := out.(string)
	if !ok {
		return nil, fmt.Errorf("failed to normalize JSON-LD document: unexpected result %T", out)
	}
	return []byte(nquads), nil
}

// withContexts copies the top level of doc and merges extra into the
// copy's @context. doc itself is never modified.
func withContexts(doc map[string]interface{}, extra []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	if len(extra) == 0 {
		return out
	}

	ctx := out[jsonld.KeyContext]
	if seq, ok := ctx.([]interface{}); ok {
		ctx = append([]interface{}(nil), seq...)
	}
	for _, c := range extra {
		if ctx == nil {
			ctx = c
			continue
		}
		ctx = jsonld.MergeContext(ctx, c)
	}
	out[jsonld.KeyContext] = ctx
	return out
}

// ComputeDigest computes the SHA-256 digest of the given data.
func ComputeDigest(data []byte) ([]byte, error) {
	if data == nil {
		return nil, errors.New("failed to compute digest: input data is nil")
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}

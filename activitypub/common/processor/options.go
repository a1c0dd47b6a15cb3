package processor

import "github.com/piprate/json-gold/ld"

type processorOptions struct {
	loader    ld.DocumentLoader
	contexts  []interface{}
	algorithm string
}

// ProcessorOpt configures a canonicalization.
type ProcessorOpt func(*processorOptions)

// WithDocumentLoader sets the loader used to resolve remote contexts. The
// default is a shared caching HTTP loader.
func WithDocumentLoader(loader ld.DocumentLoader) ProcessorOpt {
	return func(o *processorOptions) {
		if loader != nil {
			o.loader = loader
		}
	}
}

// WithExternalContext adds contexts to the document's @context before
// normalization. Entries may be context URLs or inline context objects.
func WithExternalContext(context ...interface{}) ProcessorOpt {
	return func(o *processorOptions) {
		o.contexts = append(o.contexts, context...)
	}
}

// WithAlgorithm picks the normalization algorithm, e.g. ld.AlgorithmURGNA2012.
func WithAlgorithm(algorithm string) ProcessorOpt {
	return func(o *processorOptions) {
		if algorithm != "" {
			o.algorithm = algorithm
		}
	}
}

func newProcessorOptions(opts []ProcessorOpt) *processorOptions {
	o := &processorOptions{
		loader:    defaultDocumentLoader,
		algorithm: ld.AlgorithmURDNA2015,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

package processor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/piprate/json-gold/ld"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// contextLoadTimeout bounds retrieval of a remote context by the default loader.
const contextLoadTimeout = 10 * time.Second

// defaultDocumentLoader is a shared caching loader to prevent repeated fetches across function calls.
var defaultDocumentLoader ld.DocumentLoader

func init() {
	defaultDocumentLoader = NewCachingHTTPLoader(nil)
}

// NewCachingHTTPLoader returns a loader that retrieves remote contexts over
// HTTP and keeps them for the lifetime of the loader. A nil client gets a
// traced client with a timeout.
func NewCachingHTTPLoader(client *http.Client) ld.DocumentLoader {
	if client == nil {
		client = &http.Client{
			Timeout:   contextLoadTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(client))
}

// StaticDocumentLoader serves contexts from memory and hands every other
// URL to the next loader, if any.
type StaticDocumentLoader struct {
	documents map[string][]byte
	next      ld.DocumentLoader
}

var _ ld.DocumentLoader = (*StaticDocumentLoader)(nil)

// NewStaticDocumentLoader builds a loader from URL to document mappings. Each
// document is the full remote document, i.e. an object holding @context.
func NewStaticDocumentLoader(documents map[string]interface{}, next ld.DocumentLoader) (*StaticDocumentLoader, error) {
	encoded := make(map[string][]byte, len(documents))
	for u, doc := range documents {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document for %s: %w", u, err)
		}
		encoded[u] = data
	}
	return &StaticDocumentLoader{documents: encoded, next: next}, nil
}

// LoadDocument returns a fresh copy of the stored document for u.
func (l *StaticDocumentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	data, ok := l.documents[u]
	if !ok {
		if l.next != nil {
			return l.next.LoadDocument(u)
		}
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Sprintf("no document available for %s", u))
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}

	return &ld.RemoteDocument{DocumentURL: u, Document: doc}, nil
}

// Package resolver fetches remote ActivityPub objects and establishes that
// they really are the resource they claim to be.
//
// A remote document's own id is untrusted input. When identity matters the
// resolver fetches the document a second time from the location named by
// its id and only accepts it if that location serves a document carrying
// the same id. A server can therefore only speak for identifiers it answers
// for itself.
//
// Every failure is reported as ErrResourceUnavailable. Network errors,
// malformed payloads and spoofing attempts are deliberately
// indistinguishable to callers.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/config"
	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/fetcher"
	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/jsonmap"
	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/schema"
)

// ErrResourceUnavailable is returned whenever a resource could not be
// fetched or could not be trusted.
var ErrResourceUnavailable = errors.New("resource unavailable or untrusted")

// DocumentFetcher retrieves a document without checking its identity.
type DocumentFetcher interface {
	FetchDocumentWithoutIDValidation(ctx context.Context, uri string) (jsonmap.JSONMap, error)
}

// Resolver resolves remote ActivityPub objects.
type Resolver struct {
	fetcher        DocumentFetcher
	logger         *slog.Logger
	validateSchema bool
	concurrency    int
}

// Opt configures a Resolver.
type Opt func(*Resolver)

// WithLogger sets the logger used to report rejected documents.
func WithLogger(l *slog.Logger) Opt {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSchemaValidation rejects documents that are not well-formed
// ActivityStreams objects.
func WithSchemaValidation() Opt {
	return func(r *Resolver) {
		r.validateSchema = true
	}
}

// WithConcurrency limits how many resolutions FetchResources runs at once.
func WithConcurrency(n int) Opt {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New creates a Resolver on top of f.
func New(f DocumentFetcher, opts ...Opt) *Resolver {
	r := &Resolver{
		fetcher:     f,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: config.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig creates a Resolver that fetches over HTTP using cfg.
func NewFromConfig(cfg config.Config, logger *slog.Logger, opts ...Opt) *Resolver {
	getter := fetcher.NewHTTPGetter(
		fetcher.WithClientTimeout(cfg.FetchTimeout),
		fetcher.WithMaxBodyBytes(cfg.MaxBodyBytes),
		fetcher.WithUserAgent(cfg.UserAgent),
	)
	f := fetcher.New(getter,
		fetcher.WithTimeout(cfg.FetchTimeout),
		fetcher.WithLogger(logger),
	)
	opts = append([]Opt{WithLogger(logger), WithConcurrency(cfg.Concurrency)}, opts...)
	return New(f, opts...)
}

// FetchResource resolves uri.
//
// Without enforceIDMatch a single fetch is made and its result returned as
// is, whatever id it declares. Use this only when the caller already trusts
// uri, for example as an opaque cache key.
//
// With enforceIDMatch the document served at uri only nominates an id. That
// id is fetched in turn and the result is accepted only if it declares
// exactly that id.
func (r *Resolver) FetchResource(ctx context.Context, uri string, enforceIDMatch bool) (jsonmap.JSONMap, error) {
	if !enforceIDMatch {
		doc, err := r.fetcher.FetchDocumentWithoutIDValidation(ctx, uri)
		if err != nil {
			return nil, ErrResourceUnavailable
		}
		return r.accept(ctx, doc)
	}

	doc, err := r.fetcher.FetchDocumentWithoutIDValidation(ctx, uri)
	if err != nil || len(doc) == 0 {
		return nil, ErrResourceUnavailable
	}

	id := doc.ID()
	if id == "" {
		r.logger.DebugContext(ctx, "document has no id", slog.String("uri", uri))
		return nil, ErrResourceUnavailable
	}

	return r.FetchResourceByID(ctx, id)
}

// FetchResourceByID fetches id, which the caller believes to be a canonical
// identifier, and accepts the result only if it declares that same id.
func (r *Resolver) FetchResourceByID(ctx context.Context, id string) (jsonmap.JSONMap, error) {
	if id == "" {
		return nil, ErrResourceUnavailable
	}

	doc, err := r.fetcher.FetchDocumentWithoutIDValidation(ctx, id)
	if err != nil || len(doc) == 0 {
		return nil, ErrResourceUnavailable
	}

	if got := doc.ID(); got != id {
		r.logger.WarnContext(ctx, "document id does not match the location it was fetched from",
			slog.String("uri", id), slog.String("id", got))
		return nil, ErrResourceUnavailable
	}

	return r.accept(ctx, doc)
}

// FetchResources resolves several URIs concurrently. The result is aligned
// with uris and holds nil where resolution failed.
func (r *Resolver) FetchResources(ctx context.Context, uris []string, enforceIDMatch bool) []jsonmap.JSONMap {
	results := make([]jsonmap.JSONMap, len(uris))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, uri := range uris {
		g.Go(func() error {
			doc, err := r.FetchResource(ctx, uri, enforceIDMatch)
			if err == nil {
				results[i] = doc
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Resolver) accept(ctx context.Context, doc jsonmap.JSONMap) (jsonmap.JSONMap, error) {
	if !r.validateSchema {
		return doc, nil
	}
	if err := schema.ValidateObject(doc); err != nil {
		r.logger.DebugContext(ctx, "document failed object validation",
			slog.String("id", doc.ID()), slog.Any("error", err))
		return nil, ErrResourceUnavailable
	}
	return doc, nil
}

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// AcceptHeader requests the ActivityPub JSON representations of a resource.
const AcceptHeader = "application/activity+json, application/ld+json"

// Defaults for HTTPGetter.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 1 << 20
	DefaultUserAgent    = "go-activitypub-sdk/1.0"
)

// ErrBodyTooLarge is returned when a response body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// Response is the part of a remote response the fetcher looks at.
type Response struct {
	StatusCode int
	Body       []byte
}

// Getter retrieves a remote resource with a single GET request.
type Getter interface {
	Get(ctx context.Context, uri string) (*Response, error)
}

// GetterFunc adapts a function to the Getter interface.
type GetterFunc func(ctx context.Context, uri string) (*Response, error)

// Get calls f(ctx, uri).
func (f GetterFunc) Get(ctx context.Context, uri string) (*Response, error) {
	return f(ctx, uri)
}

// HTTPGetter is a Getter backed by an http.Client.
type HTTPGetter struct {
	client        *http.Client
	clientTimeout time.Duration
	maxBodyBytes  int64
	userAgent     string
}

// HTTPGetterOpt configures an HTTPGetter.
type HTTPGetterOpt func(*HTTPGetter)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPGetterOpt {
	return func(g *HTTPGetter) {
		if client != nil {
			g.client = client
		}
	}
}

// WithClientTimeout sets the overall timeout of the default client. It has
// no effect on a client passed with WithHTTPClient.
func WithClientTimeout(d time.Duration) HTTPGetterOpt {
	return func(g *HTTPGetter) {
		if d > 0 {
			g.clientTimeout = d
		}
	}
}

// WithMaxBodyBytes caps the number of response bytes read.
func WithMaxBodyBytes(n int64) HTTPGetterOpt {
	return func(g *HTTPGetter) {
		if n > 0 {
			g.maxBodyBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) HTTPGetterOpt {
	return func(g *HTTPGetter) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// NewHTTPGetter creates an HTTPGetter. By default it uses a client with a
// 10 second timeout and a traced transport, and reads at most 1 MiB.
func NewHTTPGetter(opts ...HTTPGetterOpt) *HTTPGetter {
	g := &HTTPGetter{
		clientTimeout: DefaultTimeout,
		maxBodyBytes:  DefaultMaxBodyBytes,
		userAgent:     DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = &http.Client{
			Timeout:   g.clientTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return g
}

// Get performs a GET request for uri asking for ActivityPub JSON.
func (g *HTTPGetter) Get(ctx context.Context, uri string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", AcceptHeader)
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &Response{StatusCode: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > g.maxBodyBytes {
		return nil, ErrBodyTooLarge
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Package fetcher retrieves remote ActivityPub documents and parses them
// into JSON-LD documents without making any claim about their identity.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/jsonmap"
)

var (
	// ErrRequest is returned when no response could be obtained.
	ErrRequest = errors.New("request failed")
	// ErrUnexpectedStatus is returned for any status other than 200.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrMalformedBody is returned when the body is not a JSON object.
	ErrMalformedBody = errors.New("malformed response body")
)

// Fetcher retrieves documents through a Getter.
type Fetcher struct {
	getter  Getter
	timeout time.Duration
	logger  *slog.Logger
}

// Opt configures a Fetcher.
type Opt func(*Fetcher)

// WithTimeout bounds every fetch. Zero disables the per-fetch deadline.
func WithTimeout(d time.Duration) Opt {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithLogger sets the logger used to report failed fetches.
func WithLogger(l *slog.Logger) Opt {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fetcher. A nil getter is replaced with NewHTTPGetter().
func New(getter Getter, opts ...Opt) *Fetcher {
	if getter == nil {
		getter = NewHTTPGetter()
	}
	f := &Fetcher{
		getter:  getter,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchDocumentWithoutIDValidation performs a single GET for uri and parses
// the body. The document is returned as served; its id is not checked.
func (f *Fetcher) FetchDocumentWithoutIDValidation(ctx context.Context, uri string) (jsonmap.JSONMap, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	resp, err := f.getter.Get(ctx, uri)
	if err != nil {
		f.logger.DebugContext(ctx, "fetch failed", slog.String("uri", uri), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %w", ErrRequest, uri, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s: no response", ErrRequest, uri)
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.DebugContext(ctx, "fetch returned non-200 status",
			slog.String("uri", uri), slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, uri, resp.StatusCode)
	}

	doc, err := BodyToJSON(resp.Body)
	if err != nil {
		f.logger.DebugContext(ctx, "fetched body is not a JSON object",
			slog.String("uri", uri), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedBody, uri, err)
	}
	return doc, nil
}

// BodyToJSON parses a response body into a document. Raw bodies ([]byte,
// string, io.Reader) are parsed strictly; values that are already documents
// are returned unchanged.
func BodyToJSON(body interface{}) (jsonmap.JSONMap, error) {
	switch b := body.(type) {
	case jsonmap.JSONMap:
		return b, nil
	case map[string]interface{}:
		return jsonmap.JSONMap(b), nil
	case []byte:
		return jsonmap.Parse(b)
	case string:
		return jsonmap.Parse([]byte(b))
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return jsonmap.Parse(data)
	case nil:
		return nil, errors.New("body is nil")
	default:
		return nil, fmt.Errorf("unsupported body type %T", body)
	}
}

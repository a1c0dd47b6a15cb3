package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/jsonmap"
)

func TestFetchDocumentWithoutIDValidation(t *testing.T) {
	var (
		mu               sync.Mutex
		gotAccept, gotUA string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		mu.Unlock()

		switch r.URL.Path {
		case "/users/alice":
			w.Header().Set("Content-Type", "application/activity+json")
			_, _ = w.Write([]byte(`{"@context": "https://www.w3.org/ns/activitystreams", "id": "https://elsewhere.example/users/alice", "type": "Person"}`))
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/moved":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"id": "x"}`))
		case "/broken":
			_, _ = w.Write([]byte(`{"id": "x"`))
		case "/trailing":
			_, _ = w.Write([]byte(`{"id": "x"} trailing`))
		case "/html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := New(NewHTTPGetter(WithUserAgent("test-agent/1.0")))
	ctx := context.Background()

	doc, err := f.FetchDocumentWithoutIDValidation(ctx, server.URL+"/users/alice")
	require.NoError(t, err)
	assert.Equal(t, "https://elsewhere.example/users/alice", doc.ID(), "id is returned as served")
	mu.Lock()
	assert.Equal(t, AcceptHeader, gotAccept)
	assert.Equal(t, "test-agent/1.0", gotUA)
	mu.Unlock()

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "not found", path: "/missing", want: ErrUnexpectedStatus},
		{name: "gone", path: "/gone", want: ErrUnexpectedStatus},
		{name: "non-200 success status", path: "/moved", want: ErrUnexpectedStatus},
		{name: "truncated JSON", path: "/broken", want: ErrMalformedBody},
		{name: "trailing data", path: "/trailing", want: ErrMalformedBody},
		{name: "not JSON", path: "/html", want: ErrMalformedBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := f.FetchDocumentWithoutIDValidation(ctx, server.URL+tt.path)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestFetchDocumentWithoutIDValidation_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	doc, err := New(nil).FetchDocumentWithoutIDValidation(context.Background(), url+"/users/alice")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrRequest)
}

func TestFetchDocumentWithoutIDValidation_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := New(NewHTTPGetter(), WithTimeout(50*time.Millisecond))

	start := time.Now()
	doc, err := f.FetchDocumentWithoutIDValidation(context.Background(), server.URL)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrRequest)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPGetter_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "` + strings.Repeat("a", 64) + `"}`))
	}))
	defer server.Close()

	_, err := NewHTTPGetter(WithMaxBodyBytes(16)).Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	resp, err := NewHTTPGetter(WithMaxBodyBytes(1024)).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPGetter_ClientTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewHTTPGetter().client.Timeout)
	assert.Equal(t, 30*time.Second, NewHTTPGetter(WithClientTimeout(30*time.Second)).client.Timeout)
	assert.Equal(t, DefaultTimeout, NewHTTPGetter(WithClientTimeout(0)).client.Timeout)

	custom := &http.Client{Timeout: time.Second}
	g := NewHTTPGetter(WithClientTimeout(30*time.Second), WithHTTPClient(custom))
	assert.Same(t, custom, g.client)
	assert.Equal(t, time.Second, custom.Timeout, "a caller's client is left untouched")
}

func TestFetcher_UsesInjectedGetter(t *testing.T) {
	var calls []string
	getter := GetterFunc(func(_ context.Context, uri string) (*Response, error) {
		calls = append(calls, uri)
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"id": "` + uri + `"}`)}, nil
	})

	doc, err := New(getter).FetchDocumentWithoutIDValidation(context.Background(), "https://a.example/u1")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/u1", doc.ID())
	assert.Equal(t, []string{"https://a.example/u1"}, calls, "exactly one request, no retry")

	failing := GetterFunc(func(context.Context, string) (*Response, error) {
		return nil, nil
	})
	_, err = New(failing).FetchDocumentWithoutIDValidation(context.Background(), "https://a.example/u1")
	assert.ErrorIs(t, err, ErrRequest)
}

func TestFetcher_DeadlineIsApplied(t *testing.T) {
	var hasDeadline bool
	getter := GetterFunc(func(ctx context.Context, _ string) (*Response, error) {
		_, hasDeadline = ctx.Deadline()
		return &Response{StatusCode: http.StatusNotFound}, nil
	})

	_, _ = New(getter, WithTimeout(time.Second)).FetchDocumentWithoutIDValidation(context.Background(), "https://a.example/")
	assert.True(t, hasDeadline)
}

func TestBodyToJSON(t *testing.T) {
	parsed := jsonmap.JSONMap{"id": "x"}

	tests := []struct {
		name        string
		body        interface{}
		expected    jsonmap.JSONMap
		expectError bool
	}{
		{name: "bytes", body: []byte(`{"id": "x"}`), expected: parsed},
		{name: "string", body: `{"id": "x"}`, expected: parsed},
		{name: "reader", body: strings.NewReader(`{"id": "x"}`), expected: parsed},
		{name: "already parsed", body: parsed, expected: parsed},
		{name: "plain map", body: map[string]interface{}{"id": "x"}, expected: parsed},
		{name: "malformed", body: `{"id":`, expectError: true},
		{name: "array", body: `[1, 2]`, expectError: true},
		{name: "nil", body: nil, expectError: true},
		{name: "unsupported", body: 42, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BodyToJSON(tt.body)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

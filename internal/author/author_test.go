package author

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pfrederiksen/docket-watch/internal/logger"
)

func newTestResolver() *Resolver {
	return NewResolver(5*time.Second, logger.Nop())
}

func TestResolve_ExtractionStrategies(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "span author class",
			html: `<html><body><span class="author">Jane Reporter</span></body></html>`,
			want: "Jane Reporter",
		},
		{
			name: "vcard byline link",
			html: `<html><body><div class="meta__user vcard author"><a href="/staff/bob">Bob Staff</a></div></body></html>`,
			want: "Bob Staff",
		},
		{
			name: "rel author attribute",
			html: `<html><body><a rel="author" href="/carol">Carol Writer</a></body></html>`,
			want: "Carol Writer",
		},
		{
			name: "story meta name",
			html: `<html><body><div class="story-meta"><span class="name">Dana Field</span></div></body></html>`,
			want: "Dana Field",
		},
		{
			name: "first byline in document order wins",
			html: `<html><body><div class="article-byline">By Bob</div><span class="author">Alice</span></body></html>`,
			want: "By Bob",
		},
		{
			name: "byline outranks meta tag",
			html: `<html><head><meta name="author" content="Meta Author"></head><body><span class="author">Byline Author</span></body></html>`,
			want: "Byline Author",
		},
		{
			name: "meta tag fallback",
			html: `<html><head><meta name="author" content="Meta Author"></head><body><p>story text</p></body></html>`,
			want: "Meta Author",
		},
		{
			name: "empty byline falls through to meta",
			html: `<html><head><meta name="author" content="Meta Author"></head><body><span class="author">  </span></body></html>`,
			want: "Meta Author",
		},
		{
			name: "byline text is trimmed",
			html: `<html><body><span class="author">
				Jane Reporter
			</span></body></html>`,
			want: "Jane Reporter",
		},
		{
			name: "no strategy matches",
			html: `<html><body><p>just a story</p></body></html>`,
			want: Unknown,
		},
		{
			name: "empty meta content",
			html: `<html><head><meta name="author" content=""></head><body></body></html>`,
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("User-Agent"); got != userAgent {
					t.Errorf("User-Agent = %q, want %q", got, userAgent)
				}
				w.Write([]byte(tt.html)) // nolint:errcheck
			}))
			defer server.Close()

			got := newTestResolver().Resolve(context.Background(), server.URL)
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if got := newTestResolver().Resolve(context.Background(), server.URL); got != NoAuthor {
		t.Errorf("Resolve() = %q, want %q", got, NoAuthor)
	}
}

func TestResolve_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // resolver dials a dead server

	if got := newTestResolver().Resolve(context.Background(), server.URL); got != Unknown {
		t.Errorf("Resolve() = %q, want %q", got, Unknown)
	}
}

func TestResolve_MemoizesPerURL(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`<html><body><span class="author">Jane Reporter</span></body></html>`)) // nolint:errcheck
	}))
	defer server.Close()

	resolver := newTestResolver()
	first := resolver.Resolve(context.Background(), server.URL+"/story")
	second := resolver.Resolve(context.Background(), server.URL+"/story")
	if first != second || first != "Jane Reporter" {
		t.Fatalf("Resolve() = %q then %q, want stable %q", first, second, "Jane Reporter")
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("server saw %d requests for one URL, want 1", n)
	}

	resolver.Resolve(context.Background(), server.URL+"/other")
	if n := requests.Load(); n != 2 {
		t.Errorf("server saw %d requests for two URLs, want 2", n)
	}
}

func TestResolve_CachesFailures(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := newTestResolver()
	resolver.Resolve(context.Background(), server.URL)
	resolver.Resolve(context.Background(), server.URL)
	if n := requests.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1 (status sentinels memoize too)", n)
	}
}

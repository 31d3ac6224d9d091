package evidence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchParsesDescriptions(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"articles":[
			{"title":"t1","description":"Apple officially launched the iPhone 16 today"},
			{"title":"t2","description":""},
			{"title":"","description":""}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", srv.Client(), nil)
	snippets, err := c.Search(context.Background(), []string{"Apple", "iPhone"}, 48*time.Hour)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotQuery != "Apple OR iPhone" {
		t.Fatalf("query = %q, want entities joined with OR", gotQuery)
	}
	if len(snippets) != 2 {
		t.Fatalf("snippets = %v, want 2 entries (empty articles dropped)", snippets)
	}
	if snippets[0] != "Apple officially launched the iPhone 16 today" {
		t.Fatalf("snippets[0] = %q", snippets[0])
	}
	if snippets[1] != "t2" {
		t.Fatalf("title fallback missing, got %q", snippets[1])
	}
}

func TestSearchWithoutKeyIsSilent(t *testing.T) {
	t.Parallel()

	c := NewClient("http://unreachable.invalid", "", nil, nil)
	snippets, err := c.Search(context.Background(), []string{"Apple"}, time.Hour)
	if err != nil || snippets != nil {
		t.Fatalf("keyless search should be a silent no-op, got (%v, %v)", snippets, err)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", srv.Client(), nil)
	if _, err := c.Search(context.Background(), []string{"Apple"}, time.Hour); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

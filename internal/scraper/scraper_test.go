package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/comdex-official/PRED-AG/pkg/models"
)

const samplePage = `<html><body>
<ul class="headlines">
  <li class="item"><a href="/story/1">Mumbai Indians beat Chennai Super Kings by 20 runs</a></li>
  <li class="item"><a href="/story/2">Kohli century powers India to win</a></li>
  <li class="item"><a href="/story/3">   </a></li>
</ul>
</body></html>`

const sampleFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>feed</title>
<item><title>Haaland hat-trick stuns rivals</title><link>https://example.org/f1</link></item>
<item><title>Arsenal FC sign new striker</title><link>https://example.org/f2</link></item>
</channel></rss>`

func TestFetchHeadlinesHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := New(map[models.Topic][]Source{
		models.TopicCricket: {{
			Name:          "test",
			URL:           srv.URL,
			Kind:          "html",
			ItemSelector:  "ul.headlines li.item",
			TitleSelector: "a",
		}},
	}, srv.Client(), 5, nil)

	set, err := s.FetchHeadlines(context.Background(), models.TopicCricket)
	if err != nil {
		t.Fatalf("FetchHeadlines returned error: %v", err)
	}
	if len(set.Headlines) != 2 {
		t.Fatalf("headlines = %v, want 2 (blank item dropped)", set.Headlines)
	}
	if set.Headlines[0] != "Mumbai Indians beat Chennai Super Kings by 20 runs" {
		t.Fatalf("headlines[0] = %q", set.Headlines[0])
	}
	if len(set.Links) != len(set.Headlines) {
		t.Fatalf("links not parallel to headlines: %d vs %d", len(set.Links), len(set.Headlines))
	}
	if set.Links[0] != srv.URL+"/story/1" {
		t.Fatalf("links[0] = %q, want resolved absolute URL", set.Links[0])
	}
}

func TestFetchHeadlinesRSS(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	s := New(map[models.Topic][]Source{
		models.TopicFootball: {{Name: "feed", URL: srv.URL, Kind: "rss"}},
	}, srv.Client(), 5, nil)

	set, err := s.FetchHeadlines(context.Background(), models.TopicFootball)
	if err != nil {
		t.Fatalf("FetchHeadlines returned error: %v", err)
	}
	if len(set.Headlines) != 2 || set.Headlines[0] != "Haaland hat-trick stuns rivals" {
		t.Fatalf("headlines = %v", set.Headlines)
	}
	if set.Links[1] != "https://example.org/f2" {
		t.Fatalf("links = %v", set.Links)
	}
}

func TestFetchHeadlinesSourceFailureIsolation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := New(map[models.Topic][]Source{
		models.TopicCricket: {
			{Name: "down", URL: "http://127.0.0.1:1", Kind: "html", ItemSelector: "li"},
			{Name: "up", URL: srv.URL, Kind: "html", ItemSelector: "ul.headlines li.item", TitleSelector: "a"},
		},
	}, nil, 5, nil)

	set, err := s.FetchHeadlines(context.Background(), models.TopicCricket)
	if err != nil {
		t.Fatalf("one dead source must not fail the fetch: %v", err)
	}
	if len(set.Headlines) != 2 {
		t.Fatalf("healthy source should still contribute, got %v", set.Headlines)
	}
}

func TestFetchHeadlinesLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := New(map[models.Topic][]Source{
		models.TopicCricket: {{Name: "t", URL: srv.URL, Kind: "html", ItemSelector: "ul.headlines li.item", TitleSelector: "a"}},
	}, srv.Client(), 1, nil)

	set, _ := s.FetchHeadlines(context.Background(), models.TopicCricket)
	if len(set.Headlines) != 1 || len(set.Links) != 1 {
		t.Fatalf("limit not applied: %v", set.Headlines)
	}
}

func TestFetchHeadlinesNoSources(t *testing.T) {
	t.Parallel()

	s := New(map[models.Topic][]Source{}, nil, 5, nil)
	set, err := s.FetchHeadlines(context.Background(), models.TopicPolitics)
	if err != nil {
		t.Fatalf("no sources should yield empty set, got error %v", err)
	}
	if !set.Empty() {
		t.Fatalf("expected empty set, got %v", set.Headlines)
	}
}

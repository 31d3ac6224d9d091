// Package scraper fetches recent headlines per topic from configured news
// sources, either as RSS feeds or as HTML pages with CSS selector rules.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/comdex-official/PRED-AG/pkg/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Source describes one scrape target. Kind selects the strategy: "rss"
// parses the URL as a feed, "html" applies the CSS selectors.
type Source struct {
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	Kind          string `yaml:"kind"`
	ItemSelector  string `yaml:"itemSelector"`
	TitleSelector string `yaml:"titleSelector"`
	LinkSelector  string `yaml:"linkSelector"`
}

// Scraper fetches recent headlines for a topic. A failing source is logged
// and skipped; it never aborts the other sources.
type Scraper struct {
	sources map[models.Topic][]Source
	hc      *http.Client
	feeds   *gofeed.Parser
	limit   int
	log     *logrus.Entry
}

// New builds a scraper over the configured per-topic sources. limit caps
// the number of headlines returned per topic.
func New(sources map[models.Topic][]Source, httpClient *http.Client, limit int, log *logrus.Entry) *Scraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if limit <= 0 {
		limit = 5
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	feeds := gofeed.NewParser()
	feeds.Client = httpClient
	feeds.UserAgent = userAgent
	return &Scraper{sources: sources, hc: httpClient, feeds: feeds, limit: limit, log: log}
}

// FetchHeadlines returns up to limit headlines with parallel source links.
// An empty result is not an error: the caller treats it as "no question
// generated this round".
func (s *Scraper) FetchHeadlines(ctx context.Context, topic models.Topic) (models.HeadlineSet, error) {
	set := models.HeadlineSet{Topic: topic, Headlines: []string{}, Links: []string{}}

	for _, src := range s.sources[topic] {
		headlines, links, err := s.fetchSource(ctx, src)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"topic":  topic,
				"source": src.Name,
			}).Warnf("source fetch failed: %v", err)
			continue
		}
		set.Headlines = append(set.Headlines, headlines...)
		set.Links = append(set.Links, links...)
		if len(set.Headlines) >= s.limit {
			break
		}
	}

	if len(set.Headlines) > s.limit {
		set.Headlines = set.Headlines[:s.limit]
		set.Links = set.Links[:s.limit]
	}
	return set, nil
}

func (s *Scraper) fetchSource(ctx context.Context, src Source) ([]string, []string, error) {
	switch src.Kind {
	case "rss":
		return s.fetchFeed(ctx, src)
	case "html", "":
		return s.fetchPage(ctx, src)
	}
	return nil, nil, fmt.Errorf("scraper: unknown source kind %q", src.Kind)
}

func (s *Scraper) fetchFeed(ctx context.Context, src Source) ([]string, []string, error) {
	feed, err := s.feeds.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("parse feed: %w", err)
	}
	var headlines, links []string
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		headlines = append(headlines, title)
		links = append(links, item.Link)
	}
	return headlines, links, nil
}

func (s *Scraper) fetchPage(ctx context.Context, src Source) ([]string, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}

	base, _ := url.Parse(src.URL)
	var headlines, links []string
	doc.Find(src.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		titleSel := item
		if src.TitleSelector != "" {
			titleSel = item.Find(src.TitleSelector).First()
		}
		title := strings.TrimSpace(titleSel.Text())
		if title == "" {
			return
		}
		headlines = append(headlines, title)
		links = append(links, s.itemLink(base, item, src))
	})
	return headlines, links, nil
}

// itemLink resolves the item's anchor href against the page URL; absent
// anchors fall back to the page itself so headline/link lists stay parallel.
func (s *Scraper) itemLink(base *url.URL, item *goquery.Selection, src Source) string {
	linkSel := src.LinkSelector
	if linkSel == "" {
		linkSel = "a"
	}
	href, ok := item.Find(linkSel).First().Attr("href")
	if !ok {
		if h, selfOK := item.Attr("href"); selfOK {
			href = h
		} else {
			return src.URL
		}
	}
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return src.URL
	}
	return base.ResolveReference(ref).String()
}

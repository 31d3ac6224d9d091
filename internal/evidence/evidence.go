// Package evidence is a thin client over a NewsAPI-compatible endpoint
// returning short text snippets plausibly relevant to a question's entities.
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://newsapi.org/v2/everything"
	maxSnippets    = 20
)

// Client queries a news search API for resolution evidence. A client with
// an empty API key is valid and always reports no evidence, which the
// resolution engine treats as "leave pending", not an error.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	log     *logrus.Entry
}

// NewClient creates a search client. If httpClient is nil, a default with
// timeout is used.
func NewClient(baseURL, apiKey string, httpClient *http.Client, log *logrus.Entry) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, hc: httpClient, log: log}
}

type searchResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

// Search returns article descriptions mentioning any of the entities,
// restricted to the recency window. Empty results are not an error.
func (c *Client) Search(ctx context.Context, entities []string, window time.Duration) ([]string, error) {
	if c.apiKey == "" || len(entities) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", strings.Join(entities, " OR "))
	params.Set("from", time.Now().UTC().Add(-window).Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("evidence: new request: %w", err)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evidence: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("evidence: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("evidence: search failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("evidence: decode response: %w", err)
	}

	snippets := make([]string, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		text := a.Description
		if text == "" {
			text = a.Title
		}
		if text == "" {
			continue
		}
		snippets = append(snippets, text)
		if len(snippets) >= maxSnippets {
			break
		}
	}

	c.log.WithFields(logrus.Fields{
		"entities": len(entities),
		"snippets": len(snippets),
		"latency":  time.Since(start),
	}).Debug("evidence search")

	return snippets, nil
}

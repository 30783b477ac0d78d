package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Article is a news headline with its link.
type Article struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewsClient queries the NewsAPI "everything" endpoint for currency news.
type NewsClient struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
}

// NewNewsClient creates a new NewsClient.
func NewNewsClient(baseURL, apiKey string, pageSize, timeoutSec int) *NewsClient {
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &NewsClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: pageSize,
		client:   &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

type newsResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"articles"`
}

// Latest returns the newest currency and forex articles that carry both a title and a URL.
func (c *NewsClient) Latest(ctx context.Context) ([]Article, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", "currency OR forex")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	q.Set("apiKey", c.apiKey)
	reqURL := c.baseURL + "/everything?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("news API request creation failed: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news API request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	var result newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode news API response (status %d): %w", resp.StatusCode, err)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("news API returned status %q: %s", result.Status, result.Message)
	}

	articles := make([]Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, Article{Title: a.Title, URL: a.URL})
	}
	return articles, nil
}

package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newspulse/app/record"
)

var _ Connector = (*NewsAPIConnector)(nil)

// NewsAPIConnector searches a NewsAPI-compatible endpoint for articles
// matching a query.
type NewsAPIConnector struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	userAgent string
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

func NewNewsAPIConnector(endpoint, apiKey, userAgent string) *NewsAPIConnector {
	return &NewsAPIConnector{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		endpoint:  endpoint,
		apiKey:    apiKey,
		userAgent: userAgent,
	}
}

func (c *NewsAPIConnector) Name() string {
	return string(record.PlatformGoogleNews)
}

func (c *NewsAPIConnector) Fetch(ctx context.Context, query string, limit int) ([]record.Raw, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Status != "" && parsed.Status != "ok" {
		return nil, fmt.Errorf("upstream error: %s", parsed.Message)
	}

	raws := make([]record.Raw, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		raws = append(raws, record.Raw{
			Platform: record.PlatformGoogleNews,
			Time:     article.PublishedAt,
			Author:   article.Author,
			Title:    article.Title,
			Body:     article.Description,
			URL:      article.URL,
		})
	}

	return raws, nil
}

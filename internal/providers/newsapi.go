package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "stockwatch/internal/errors"
)

const newsAPIEndpoint = "https://newsapi.org/v2/everything"

// NewsAPIClient searches news articles via the NewsAPI "everything" endpoint.
type NewsAPIClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewNewsAPIClient creates a new NewsAPI client.
func NewNewsAPIClient(apiKey string, timeout time.Duration) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:   apiKey,
		endpoint: newsAPIEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether an API key is set.
func (c *NewsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search returns the most recently published articles mentioning the company.
func (c *NewsAPIClient) Search(ctx context.Context, companyName string, limit int) ([]Article, error) {
	if !c.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}
	if limit < 1 {
		limit = 3
	}

	params := url.Values{}
	params.Set("q", companyName)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewProviderError("newsapi", "search", 0, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrProviderUnavailable, "newsapi %s", companyName)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.ErrRateLimited
	}

	var data newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperrors.NewProviderError("newsapi", "search", resp.StatusCode, err)
	}

	if data.Status != "ok" {
		if data.Code == "rateLimited" {
			return nil, apperrors.ErrRateLimited
		}
		return nil, apperrors.NewProviderError("newsapi", "search", resp.StatusCode, fmt.Errorf("%s: %s", data.Code, data.Message))
	}

	articles := make([]Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		if a.Title == "" {
			continue
		}
		article := Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
		}
		if a.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
				published := t.UTC()
				article.PublishedAt = &published
			}
		}
		articles = append(articles, article)
	}
	return articles, nil
}

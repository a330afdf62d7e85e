package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "stockwatch/internal/errors"
)

func TestAlphaVantageGetDailyClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "TIME_SERIES_DAILY" {
			t.Errorf("Expected TIME_SERIES_DAILY function, got %q", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("Expected AAPL symbol, got %q", got)
		}
		fmt.Fprint(w, `{
			"Time Series (Daily)": {
				"2026-08-27": {"1. open": "103.0", "4. close": "104.50"},
				"2026-08-28": {"1. open": "104.5", "4. close": "106.25"},
				"2026-08-26": {"1. open": "100.0", "4. close": "103.00"}
			}
		}`)
	}))
	defer server.Close()

	client := NewAlphaVantageClient("test-key", 5*time.Second)
	client.endpoint = server.URL

	quote, err := client.GetDailyClose(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetDailyClose failed: %v", err)
	}
	if quote.Close != 106.25 {
		t.Errorf("Expected the most recent close 106.25, got %v", quote.Close)
	}
	if quote.Date.Format("2006-01-02") != "2026-08-28" {
		t.Errorf("Expected date 2026-08-28, got %s", quote.Date.Format("2006-01-02"))
	}
}

func TestAlphaVantageRateLimitNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Alpha Vantage reports quota exhaustion with HTTP 200 and a Note
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	}))
	defer server.Close()

	client := NewAlphaVantageClient("test-key", 5*time.Second)
	client.endpoint = server.URL

	if _, err := client.GetDailyClose(context.Background(), "AAPL"); !apperrors.Is(err, apperrors.ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited for quota Note, got %v", err)
	}
}

func TestAlphaVantageBadSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Error Message": "Invalid API call."}`)
	}))
	defer server.Close()

	client := NewAlphaVantageClient("test-key", 5*time.Second)
	client.endpoint = server.URL

	if _, err := client.GetDailyClose(context.Background(), "NOPE"); err == nil {
		t.Error("Expected error for invalid symbol")
	}
}

func TestAlphaVantageNotConfigured(t *testing.T) {
	client := NewAlphaVantageClient("", 5*time.Second)
	if _, err := client.GetDailyClose(context.Background(), "AAPL"); !apperrors.Is(err, apperrors.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestNewsAPISearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Apple Inc" {
			t.Errorf("Expected query 'Apple Inc', got %q", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "2" {
			t.Errorf("Expected pageSize 2, got %q", got)
		}
		fmt.Fprint(w, `{
			"status": "ok",
			"articles": [
				{
					"title": "Apple ships new product",
					"description": "Details inside",
					"url": "https://example.com/apple",
					"urlToImage": "https://example.com/apple.jpg",
					"publishedAt": "2026-08-28T09:30:00Z",
					"source": {"name": "Example Wire"}
				},
				{
					"title": "",
					"url": "https://example.com/untitled"
				}
			]
		}`)
	}))
	defer server.Close()

	client := NewNewsAPIClient("test-key", 5*time.Second)
	client.endpoint = server.URL

	articles, err := client.Search(context.Background(), "Apple Inc", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	// Untitled articles are dropped
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articles))
	}
	a := articles[0]
	if a.Source != "Example Wire" {
		t.Errorf("Expected source name, got %q", a.Source)
	}
	if a.PublishedAt == nil || a.PublishedAt.Format("2006-01-02") != "2026-08-28" {
		t.Errorf("Expected parsed publish date, got %v", a.PublishedAt)
	}
}

func TestNewsAPIRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "code": "rateLimited", "message": "Too many requests"}`)
	}))
	defer server.Close()

	client := NewNewsAPIClient("test-key", 5*time.Second)
	client.endpoint = server.URL

	if _, err := client.Search(context.Background(), "Apple", 3); !apperrors.Is(err, apperrors.ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestUnsplashGetImage(t *testing.T) {
	downloadCalled := false
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/photos":
			if got := r.Header.Get("Authorization"); got != "Client-ID test-key" {
				t.Errorf("Expected Client-ID auth header, got %q", got)
			}
			fmt.Fprintf(w, `{
				"results": [{
					"urls": {"regular": "https://images.example.com/pic.jpg"},
					"user": {
						"name": "Jane Doe",
						"username": "janedoe",
						"links": {"html": "https://unsplash.com/@janedoe"}
					},
					"links": {"download_location": "%s/photos/abc/download"}
				}]
			}`, server.URL)
		case "/photos/abc/download":
			downloadCalled = true
			fmt.Fprint(w, `{"url": "https://images.example.com/pic.jpg"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewUnsplashClient("test-key", 5*time.Second)
	client.endpoint = server.URL

	img, err := client.GetImage(context.Background(), "Apple Inc")
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if img.URL != "https://images.example.com/pic.jpg" {
		t.Errorf("Expected image URL, got %q", img.URL)
	}
	if img.PhotographerName != "Jane Doe" || img.PhotographerUsername != "janedoe" {
		t.Errorf("Expected attribution fields, got %+v", img)
	}

	if err := client.TriggerDownload(context.Background(), img.DownloadLocation); err != nil {
		t.Fatalf("TriggerDownload failed: %v", err)
	}
	if !downloadCalled {
		t.Error("Expected the download endpoint to be hit")
	}
}

func TestUnsplashNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer server.Close()

	client := NewUnsplashClient("test-key", 5*time.Second)
	client.endpoint = server.URL

	if _, err := client.GetImage(context.Background(), "nothing"); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

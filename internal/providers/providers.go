// Package providers implements clients for the external data providers:
// stock prices, news search and fallback images.
package providers

import (
	"context"
	"time"
)

// DailyClose is one daily closing price reported by the price provider.
type DailyClose struct {
	Symbol string
	Date   time.Time
	Close  float64
}

// Article is a news article as returned by the news provider.
type Article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Source      string
	PublishedAt *time.Time
}

// Image is a fallback image with the attribution data required by the
// image provider's license terms.
type Image struct {
	URL                  string
	PhotographerName     string
	PhotographerUsername string
	PhotographerURL      string
	DownloadLocation     string
}

// PriceProvider fetches daily closing prices.
type PriceProvider interface {
	GetDailyClose(ctx context.Context, symbol string) (*DailyClose, error)
}

// NewsProvider searches recent news articles by company name.
type NewsProvider interface {
	Search(ctx context.Context, companyName string, limit int) ([]Article, error)
}

// ImageProvider fetches fallback images for articles without one.
type ImageProvider interface {
	GetImage(ctx context.Context, query string) (*Image, error)
	TriggerDownload(ctx context.Context, downloadLocation string) error
}
